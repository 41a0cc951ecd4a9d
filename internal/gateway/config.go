package gateway

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds the VNPay-style gateway parameters. Everything the
// canonical request carries besides the per-order fields lives here so
// the merchant profile can be swapped without touching code.
type Config struct {
	// TmnCode is the merchant terminal code issued by the gateway.
	TmnCode string
	// HashSecret is the pre-shared HMAC key.
	HashSecret string
	// PayURL is the gateway's hosted payment page.
	PayURL string
	// ReturnURL is where the gateway redirects the customer back to.
	ReturnURL string
	// Version and Command identify the gateway API call.
	Version string
	Command string
	// CurrCode is the currency code sent to the gateway.
	CurrCode string
	// Locale selects the payment page language.
	Locale string
	// OrderType is the gateway's merchandise category code.
	OrderType string
	// AmountScale converts order minor units into the gateway's
	// smallest unit (VNPay wants amounts multiplied by 100).
	AmountScale int64
	// Expiry is how long a payment URL stays valid.
	Expiry time.Duration
}

var (
	ErrMissingTmnCode    = errors.New("gateway: missing terminal code")
	ErrMissingHashSecret = errors.New("gateway: missing hash secret")
	ErrMissingPayURL     = errors.New("gateway: missing pay url")
	ErrMissingReturnURL  = errors.New("gateway: missing return url")
)

// Validate checks that the merchant profile is complete.
func (c *Config) Validate() error {
	if c.TmnCode == "" {
		return ErrMissingTmnCode
	}
	if c.HashSecret == "" {
		return ErrMissingHashSecret
	}
	if c.PayURL == "" {
		return ErrMissingPayURL
	}
	if c.ReturnURL == "" {
		return ErrMissingReturnURL
	}
	return nil
}

// ConfigFromViper assembles the gateway config from config.yaml, with
// the secret taken from the environment.
func ConfigFromViper() *Config {
	cfg := &Config{
		TmnCode:     viper.GetString("gateway.tmn_code"),
		HashSecret:  os.Getenv("GATEWAY_HASH_SECRET"),
		PayURL:      viper.GetString("gateway.pay_url"),
		ReturnURL:   viper.GetString("gateway.return_url"),
		Version:     viper.GetString("gateway.version"),
		Command:     viper.GetString("gateway.command"),
		CurrCode:    viper.GetString("gateway.curr_code"),
		Locale:      viper.GetString("gateway.locale"),
		OrderType:   viper.GetString("gateway.order_type"),
		AmountScale: viper.GetInt64("gateway.amount_scale"),
		Expiry:      viper.GetDuration("gateway.expiry"),
	}

	if cfg.Version == "" {
		cfg.Version = "2.1.0"
	}
	if cfg.Command == "" {
		cfg.Command = "pay"
	}
	if cfg.CurrCode == "" {
		cfg.CurrCode = "VND"
	}
	if cfg.Locale == "" {
		cfg.Locale = "vn"
	}
	if cfg.OrderType == "" {
		cfg.OrderType = "other"
	}
	if cfg.AmountScale == 0 {
		cfg.AmountScale = 100
	}
	if cfg.Expiry == 0 {
		cfg.Expiry = 15 * time.Minute
	}

	return cfg
}
