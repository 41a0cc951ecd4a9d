package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Parameter names with special meaning on the callback side.
const (
	ParamSecureHash     = "vnp_SecureHash"
	ParamSecureHashType = "vnp_SecureHashType"
	ParamTxnRef         = "vnp_TxnRef"
	ParamResponseCode   = "vnp_ResponseCode"
	ParamTransactionNo  = "vnp_TransactionNo"
)

// ResponseCodeSuccess is the gateway's code for a completed payment.
const ResponseCodeSuccess = "00"

const createDateLayout = "20060102150405"

// Gateway builds signed redirect URLs for the hosted payment page and
// verifies the signature on return callbacks.
type Gateway struct {
	cfg *Config
	now func() time.Time
}

// New creates a gateway adapter from a validated merchant profile.
func New(cfg *Config) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Gateway{cfg: cfg, now: time.Now}, nil
}

// BuildRedirectURL assembles the gateway's parameter set for one order,
// signs the canonical representation and returns the full redirect URL.
// amountCents is the order total in minor units; the gateway's scale
// factor is applied here.
func (g *Gateway) BuildRedirectURL(orderID int64, amountCents int64, orderInfo, clientIP string) (string, error) {
	createDate := g.now()
	expireDate := createDate.Add(g.cfg.Expiry)

	params := map[string]string{
		"vnp_Version":    g.cfg.Version,
		"vnp_Command":    g.cfg.Command,
		"vnp_TmnCode":    g.cfg.TmnCode,
		"vnp_Amount":     strconv.FormatInt(amountCents*g.cfg.AmountScale, 10),
		"vnp_CurrCode":   g.cfg.CurrCode,
		"vnp_TxnRef":     strconv.FormatInt(orderID, 10),
		"vnp_OrderInfo":  orderInfo,
		"vnp_OrderType":  g.cfg.OrderType,
		"vnp_Locale":     g.cfg.Locale,
		"vnp_ReturnUrl":  g.cfg.ReturnURL,
		"vnp_IpAddr":     clientIP,
		"vnp_CreateDate": createDate.Format(createDateLayout),
		"vnp_ExpireDate": expireDate.Format(createDateLayout),
	}

	canonical := canonicalize(params)
	signature := g.sign(canonical)

	return g.cfg.PayURL + "?" + canonical + "&" + ParamSecureHash + "=" + signature, nil
}

// VerifySignature recomputes the canonical string over every parameter
// except the signature fields and compares the MAC against the supplied
// vnp_SecureHash. It never returns an error: any missing or malformed
// piece means the callback is not trusted.
func (g *Gateway) VerifySignature(params map[string]string) bool {
	if g.cfg.HashSecret == "" {
		return false
	}

	supplied, ok := params[ParamSecureHash]
	if !ok || supplied == "" {
		return false
	}

	filtered := make(map[string]string, len(params))
	for k, v := range params {
		if k == ParamSecureHash || k == ParamSecureHashType {
			continue
		}
		if v == "" {
			continue
		}
		filtered[k] = v
	}

	expected := g.sign(canonicalize(filtered))

	return hmac.Equal([]byte(strings.ToLower(supplied)), []byte(expected))
}

func (g *Gateway) sign(canonical string) string {
	mac := hmac.New(sha512.New, []byte(g.cfg.HashSecret))
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// canonicalize produces the signing input: parameters sorted
// lexicographically by key, values percent-encoded the way the
// gateway's hosted page encodes them (query escaping, spaces as '+').
func canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}

	return b.String()
}
