package payments

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"

	"github.com/jhoicas/bizdesk-api/pkg/config"
)

func TestToCents(t *testing.T) {
	assert.Equal(t, int64(59900), ToCents(decimal.NewFromInt(599)))
	assert.Equal(t, int64(999), ToCents(decimal.RequireFromString("9.99")))
	assert.Equal(t, int64(13875), ToCents(decimal.RequireFromString("138.75")))
	assert.Equal(t, int64(1), ToCents(decimal.RequireFromString("0.005")))
}

func TestNewStripeGateway_ValidaClave(t *testing.T) {
	_, err := NewStripeGateway(config.StripeConfig{}, nil)
	assert.Error(t, err)

	_, err = NewStripeGateway(config.StripeConfig{SecretKey: "pk_test_123"}, nil)
	assert.Error(t, err)

	g, err := NewStripeGateway(config.StripeConfig{SecretKey: "sk_test_123", PublishableKey: "pk_test_123"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "pk_test_123", g.PublishableKey())
	assert.Equal(t, "usd", g.currency)
}

func TestToIntent(t *testing.T) {
	pi := toIntent(&stripe.PaymentIntent{
		ID:           "pi_1",
		ClientSecret: "pi_1_secret",
		Amount:       59900,
		Currency:     stripe.CurrencyUSD,
		Status:       stripe.PaymentIntentStatusSucceeded,
	})
	assert.True(t, pi.Amount.Equal(decimal.NewFromInt(599)))
	assert.True(t, pi.Succeeded())
}
