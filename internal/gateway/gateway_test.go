package gateway

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		TmnCode:     "COSMO01",
		HashSecret:  "SECRETSECRETSECRETSECRETSECRET12",
		PayURL:      "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:   "http://localhost:8080/api/payment/return",
		Version:     "2.1.0",
		Command:     "pay",
		CurrCode:    "VND",
		Locale:      "vn",
		OrderType:   "other",
		AmountScale: 100,
		Expiry:      15 * time.Minute,
	}
}

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	g, err := New(testConfig())
	require.NoError(t, err)
	g.now = func() time.Time {
		return time.Date(2025, 8, 12, 10, 30, 0, 0, time.UTC)
	}
	return g
}

func TestNewValidatesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.HashSecret = ""

	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrMissingHashSecret)
}

func TestBuildRedirectURL(t *testing.T) {
	g := newTestGateway(t)

	raw, err := g.BuildRedirectURL(42, 250000, "Thanh toan don hang: 42", "10.0.0.1")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "COSMO01", q.Get("vnp_TmnCode"))
	assert.Equal(t, "42", q.Get("vnp_TxnRef"))
	// 250000 minor units scaled by 100 for the gateway.
	assert.Equal(t, "25000000", q.Get("vnp_Amount"))
	assert.Equal(t, "20250812103000", q.Get("vnp_CreateDate"))
	assert.Equal(t, "20250812104500", q.Get("vnp_ExpireDate"))
	assert.NotEmpty(t, q.Get(ParamSecureHash))

	// Canonical part is sorted by key with the hash appended last.
	assert.True(t, strings.HasSuffix(raw, ParamSecureHash+"="+q.Get(ParamSecureHash)))
}

func TestBuildThenVerifyRoundTrip(t *testing.T) {
	g := newTestGateway(t)

	raw, err := g.BuildRedirectURL(7, 1000, "order 7", "127.0.0.1")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)

	params := map[string]string{}
	for k, vs := range u.Query() {
		params[k] = vs[0]
	}

	assert.True(t, g.VerifySignature(params))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	g := newTestGateway(t)

	raw, err := g.BuildRedirectURL(7, 1000, "order 7", "127.0.0.1")
	require.NoError(t, err)

	u, _ := url.Parse(raw)
	params := map[string]string{}
	for k, vs := range u.Query() {
		params[k] = vs[0]
	}

	params["vnp_Amount"] = "1"

	assert.False(t, g.VerifySignature(params))
}

func TestVerifySignatureMissingHash(t *testing.T) {
	g := newTestGateway(t)

	assert.False(t, g.VerifySignature(map[string]string{"vnp_TxnRef": "1"}))
	assert.False(t, g.VerifySignature(map[string]string{}))
}

func TestVerifySignatureIgnoresHashTypeAndEmptyValues(t *testing.T) {
	g := newTestGateway(t)

	raw, err := g.BuildRedirectURL(9, 500, "order 9", "127.0.0.1")
	require.NoError(t, err)

	u, _ := url.Parse(raw)
	params := map[string]string{}
	for k, vs := range u.Query() {
		params[k] = vs[0]
	}

	// Gateways append these without including them in the signature.
	params[ParamSecureHashType] = "HMACSHA512"
	params["vnp_Optional"] = ""

	assert.True(t, g.VerifySignature(params))
}

func TestVerifySignatureMissingSecret(t *testing.T) {
	g := newTestGateway(t)
	g.cfg.HashSecret = ""

	assert.False(t, g.VerifySignature(map[string]string{ParamSecureHash: "ab"}))
}
