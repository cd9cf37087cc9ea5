package config

import "os"

// Config collects every environment-driven setting used by the app. The
// process entry point loads it once and hands the relevant pieces to each
// feature; nothing reads os.Getenv after startup.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string
	PayHere     PayHereConfig
}

// PayHereConfig holds the payment gateway credentials. The merchant secret
// must never leave the server; only derived hashes are handed to clients.
type PayHereConfig struct {
	MerchantID     string
	MerchantSecret string
	Currency       string
}

func Load() Config {
	addr := os.Getenv("FLOWER_SHOP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	currency := os.Getenv("PAYHERE_CURRENCY")
	if currency == "" {
		currency = "LKR"
	}

	return Config{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		PayHere: PayHereConfig{
			MerchantID:     os.Getenv("PAYHERE_MERCHANT_ID"),
			MerchantSecret: os.Getenv("PAYHERE_MERCHANT_SECRET"),
			Currency:       currency,
		},
	}
}
