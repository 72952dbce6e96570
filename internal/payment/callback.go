package payment

import (
	"fmt"
	"net/url"
	"strconv"
)

// Outcome classifies a gateway return.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeCancelled Outcome = "cancelled"
	OutcomePending   Outcome = "pending"
)

// CallbackParams are the query parameters the gateway appends to the return
// URL after checkout.
type CallbackParams struct {
	Status    string
	Code      string
	ID        string
	Cancel    string
	OrderCode int64
}

// ParseCallback extracts the gateway return parameters from a query string.
func ParseCallback(values url.Values) (*CallbackParams, error) {
	params := &CallbackParams{
		Status: values.Get("status"),
		Code:   values.Get("code"),
		ID:     values.Get("id"),
		Cancel: values.Get("cancel"),
	}

	raw := values.Get("orderCode")
	if raw == "" {
		return nil, fmt.Errorf("missing orderCode parameter")
	}
	orderCode, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid orderCode %q: %w", raw, err)
	}
	params.OrderCode = orderCode

	return params, nil
}

// Classify maps a gateway return to an outcome. PAID with cancel=="false" is
// a success; an explicit CANCELLED status or cancel=="true" is a
// cancellation; anything else is unresolved.
func (p *CallbackParams) Classify() Outcome {
	if p.Status == "PAID" && p.Cancel == "false" {
		return OutcomeSuccess
	}
	if p.Status == "CANCELLED" || p.Cancel == "true" {
		return OutcomeCancelled
	}
	return OutcomePending
}

// BillNoFromOrderCode recovers the bill number from an order code. The code
// encodes billNo*1000 plus a 3-digit sequence, so integer division truncates
// the sequence away. Used only as a fallback when no bill matches the order
// code directly.
func BillNoFromOrderCode(orderCode int64) int64 {
	return orderCode / 1000
}

// OrderCode builds the gateway order code for a bill number and sequence.
func OrderCode(billNo int64, seq int) int64 {
	return billNo*1000 + int64(seq%1000)
}
