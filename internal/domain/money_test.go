package domain

import (
	"encoding/json"
	"testing"

	customError "github.com/segyhp/clinic-finance-engine/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  Money
		expectErr bool
	}{
		{name: "whole amount", input: "1000", expected: 100000},
		{name: "two decimals", input: "965.10", expected: 96510},
		{name: "one decimal", input: "0.5", expected: 50},
		{name: "trailing zeros beyond cents are fine", input: "12.3400", expected: 1234},
		{name: "sub-cent precision rejected", input: "10.001", expectErr: true},
		{name: "garbage", input: "ten", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMoney(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m)
		})
	}
}

func TestParseMoney_Range(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Money
		inRange  bool
	}{
		{name: "largest accepted", input: "10000000000000.00", expected: MaxMoney, inRange: true},
		{name: "largest negative accepted", input: "-10000000000000", expected: -MaxMoney, inRange: true},
		{name: "one cent above the limit", input: "10000000000000.01"},
		{name: "beyond int64 centavos", input: "100000000000000000000"},
		{name: "exponent notation", input: "1e30"},
		{name: "int64 centavos boundary", input: "92233720368547758.08"},
		{name: "huge negative", input: "-92233720368547758.08"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMoney(tt.input)
			if tt.inRange {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, m)
				assert.True(t, m.InRange())
				return
			}
			assert.Zero(t, m)
			assert.ErrorIs(t, err, customError.ErrInvalidInput)
			assert.Equal(t, customError.ReasonAmountOutOfRange, customError.ReasonOf(err))
		})
	}
}

func TestMoney_InRange(t *testing.T) {
	assert.True(t, Money(0).InRange())
	assert.True(t, MaxMoney.InRange())
	assert.False(t, (MaxMoney + 1).InRange())
	assert.False(t, (-MaxMoney - 1).InRange())
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "965.10", Money(96510).String())
	assert.Equal(t, "0.00", Money(0).String())
	assert.Equal(t, "0.07", Money(7).String())
	assert.Equal(t, "-1.50", Money(-150).String())
}

func TestMoney_Decimal(t *testing.T) {
	assert.True(t, Money(333334).Decimal().Equal(decimal.RequireFromString("3333.34")))
}

func TestMoney_JSON(t *testing.T) {
	type payload struct {
		Amount Money `json:"amount"`
	}

	out, err := json.Marshal(payload{Amount: 100000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"1000.00"}`, string(out))

	var fromString payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"3500.00"}`), &fromString))
	assert.Equal(t, Money(350000), fromString.Amount)

	var fromNumber payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount":333.33}`), &fromNumber))
	assert.Equal(t, Money(33333), fromNumber.Amount)

	var tooPrecise payload
	assert.Error(t, json.Unmarshal([]byte(`{"amount":"1.005"}`), &tooPrecise))

	var tooLarge payload
	err = json.Unmarshal([]byte(`{"amount":"92233720368547758.08"}`), &tooLarge)
	assert.ErrorIs(t, err, customError.ErrInvalidInput)
	assert.Zero(t, tooLarge.Amount)
}

func TestSumMoney(t *testing.T) {
	assert.Equal(t, Money(100000), SumMoney([]Money{33333, 33333, 33334}))
	assert.Equal(t, Money(0), SumMoney(nil))
}
