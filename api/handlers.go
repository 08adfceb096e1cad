package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/papertrade/engine"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) analysis(c *gin.Context) {
	symbol := c.DefaultQuery("symbol", s.opts.DefaultSymbol)
	c.JSON(http.StatusOK, s.svc.Analysis(c.Request.Context(), symbol))
}

func (s *Server) execute(c *gin.Context) {
	var req engine.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.svc.Execute(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("execute")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) accountStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.AccountStatus())
}

func (s *Server) reset(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Reset())
}
