package cmd

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/papertrade/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP paper trading engine",
	Long: `Serve the engine endpoints:

  GET  /analysis?symbol=NQ=F
  POST /execute          {"symbol":"NQ=F","side":"BUY","user":"me","reasoning":"..."}
  GET  /account-status
  POST /reset
  GET  /health
  GET  /metrics

Example:
  papertrader serve -f papertrade.yaml`,
	RunE: runServe,
}

var serveConfigPath string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveConfigPath, "file", "f", "", "path to config file (defaults when omitted)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(serveConfigPath)
	if err != nil {
		return err
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}

	svc, metrics, err := buildEngine(cfg, candleSource(cfg.Feed), j, log.Logger)
	if err != nil {
		if j != nil {
			_ = j.Close()
		}
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error().Err(err).Msg("close journal")
		}
	}()

	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := api.NewServer(svc, metrics, api.Options{
		Addr:          cfg.Server.Addr,
		DefaultSymbol: cfg.Feed.Symbol,
		RateLimit:     cfg.Server.RateLimit,
		RateBurst:     cfg.Server.RateBurst,
		Logger:        log.Logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
