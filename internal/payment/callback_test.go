package payment

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		params CallbackParams
		want   Outcome
	}{
		{"paid and not cancelled", CallbackParams{Status: "PAID", Cancel: "false"}, OutcomeSuccess},
		{"paid but cancel flag set", CallbackParams{Status: "PAID", Cancel: "true"}, OutcomeCancelled},
		{"cancelled status", CallbackParams{Status: "CANCELLED", Cancel: "false"}, OutcomeCancelled},
		{"cancel flag alone", CallbackParams{Status: "", Cancel: "true"}, OutcomeCancelled},
		{"pending status", CallbackParams{Status: "PENDING", Cancel: "false"}, OutcomePending},
		{"empty params", CallbackParams{}, OutcomePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.Classify())
		})
	}
}

func TestParseCallback(t *testing.T) {
	values := url.Values{}
	values.Set("status", "PAID")
	values.Set("code", "00")
	values.Set("id", "abc123")
	values.Set("cancel", "false")
	values.Set("orderCode", "123045")

	params, err := ParseCallback(values)
	require.NoError(t, err)
	assert.Equal(t, "PAID", params.Status)
	assert.Equal(t, int64(123045), params.OrderCode)
	assert.Equal(t, OutcomeSuccess, params.Classify())
}

func TestParseCallbackMissingOrderCode(t *testing.T) {
	_, err := ParseCallback(url.Values{"status": {"PAID"}})
	assert.Error(t, err)
}

func TestParseCallbackBadOrderCode(t *testing.T) {
	_, err := ParseCallback(url.Values{"orderCode": {"not-a-number"}})
	assert.Error(t, err)
}

func TestOrderCodeRoundTrip(t *testing.T) {
	code := OrderCode(123, 45)
	assert.Equal(t, int64(123045), code)
	assert.Equal(t, int64(123), BillNoFromOrderCode(code))

	// Sequence wraps at three digits.
	assert.Equal(t, int64(7001), OrderCode(7, 1001))
}
