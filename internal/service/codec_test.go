package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/money"
)

func TestCodec(t *testing.T) {
	var c Codec
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(&CreateDebtRequest{CounterpartyName: "Rahul", Amount: money.MustParse("12.5")})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"amount":"12.50"`)

	var req CreateDebtRequest
	require.NoError(t, c.Unmarshal([]byte(`{"counterparty_name":"Rahul","amount":12.5,"direction":"lent"}`), &req))
	assert.Equal(t, money.MustParse("12.50"), req.Amount)

	var empty GetSummaryRequest
	assert.NoError(t, c.Unmarshal(nil, &empty))
	assert.Error(t, c.Unmarshal([]byte("{"), &req))
}
