// Package tools implements the executable capabilities exposed to the
// booking assistant. Every tool returns a JSON document; domain failures are
// encoded as error fields inside that document instead of error returns, so
// the model can read them and react.
package tools

import (
	"encoding/json"

	"github.com/aparatus/aparatus/plugin/ai/agent"
	"github.com/aparatus/aparatus/server/service/availability"
	"github.com/aparatus/aparatus/server/service/booking"
)

// Deps bundles the request-scoped dependencies shared by all tools.
type Deps struct {
	Session      *agent.SessionContext
	Booking      *booking.Service
	Availability *availability.Service
}

// NewAll builds the full tool set for one chat request.
func NewAll(deps Deps) []agent.Tool {
	return []agent.Tool{
		NewSearchBarbershopsTool(deps),
		NewGetAvailableTimeSlotsTool(deps),
		NewGetBarbershopDetailsTool(deps),
		NewGetUserBookingHistoryTool(deps),
		NewCheckUserAuthenticationTool(deps),
		NewCreateBookingTool(deps),
	}
}

// marshal encodes v, falling back to a generic error document on failure.
func marshal(v any) (string, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// errorResult encodes a domain failure the model should see.
func errorResult(message string) string {
	buf, _ := json.Marshal(map[string]string{"error": message})
	return string(buf)
}

// price converts integer centavos to the decimal value shown to the model.
func price(cents int64) float64 {
	return float64(cents) / 100
}
