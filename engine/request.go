package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	StatusFilled   = "FILLED (PAPER)"
	StatusRejected = "REJECTED"
	StatusError    = "ERROR"
	StatusReset    = "RESET"

	ReasonDataOffline = "Data Offline"
	DefaultReasoning  = "Manual"
)

// ErrInvalidRequest wraps every validation failure of an ExecuteRequest.
var ErrInvalidRequest = errors.New("invalid request")

// ExecuteRequest is a trade request from a client. Action is accepted as an
// alias for Side.
type ExecuteRequest struct {
	Symbol    string `json:"symbol" validate:"required"`
	Side      string `json:"side" validate:"required,oneof=BUY SELL"`
	Action    string `json:"action,omitempty"`
	User      string `json:"user"`
	Reasoning string `json:"reasoning"`
}

// ExecuteResult is the outcome of an ExecuteRequest.
type ExecuteResult struct {
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
	Result  string `json:"result,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type ResetResult struct {
	Status string `json:"status"`
}

func (r *ExecuteRequest) normalize() {
	if r.Side == "" {
		r.Side = r.Action
	}
	r.Side = strings.ToUpper(strings.TrimSpace(r.Side))
	r.Symbol = strings.TrimSpace(r.Symbol)
	if strings.TrimSpace(r.Reasoning) == "" {
		r.Reasoning = DefaultReasoning
	}
}

func validateRequest(v *validator.Validate, r ExecuteRequest) error {
	if err := v.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q", ErrInvalidRequest, strings.ToLower(fe.Field()), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
