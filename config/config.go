package config

import "time"

// Config is parsed from the environment with the GOSHOP prefix.
type Config struct {
	Web   Web
	DB    DB
	Redis Redis
	Cors  Cors
	Cart  Cart
	Rate  Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User       string `conf:"default:postgres"`
	Password   string `conf:"default:postgres,mask"`
	Host       string `conf:"default:localhost:5432"`
	Name       string `conf:"default:shop"`
	DisableTLS bool   `conf:"default:true"`
}

type Redis struct {
	Addr     string        `conf:"default:localhost:6379"`
	Password string        `conf:"mask"`
	DB       int           `conf:"default:0"`
	CartTTL  time.Duration `conf:"default:720h"`
}

type Cors struct {
	Origin string
}

// Cart carries the pricing policy: shipping fee schedule and the valid
// coupon table, encoded as CODE:fraction pairs. Parsed by cart.ParseRules.
type Cart struct {
	ShippingFee      string `conf:"default:10"`
	FreeShippingOver string `conf:"default:0"`
	Coupons          string `conf:"default:SAVE10:0.10;WELCOME:0.05;FIRSTORDER:0.15"`
}

// Rate bounds coupon attempts per cart session.
type Rate struct {
	CouponBurst    int           `conf:"default:5"`
	CouponInterval time.Duration `conf:"default:10s"`
	ExpiryMinutes  int           `conf:"default:60"`
}
