package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	Database Database `envPrefix:"DB_"`
	Stripe   Stripe   `envPrefix:"STRIPE_"`
	Shop     Shop     `envPrefix:"SHOP_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // sqlite or mysql
	DSN    string `env:"DSN" envDefault:"printshop.db"`
}

type Stripe struct {
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Shop struct {
	// HomeCountry is the ISO 3166-1 alpha-2 code the shop ships from.
	// It is also the provisional destination before the payer enters an
	// address in the hosted checkout.
	HomeCountry   string `env:"HOME_COUNTRY" envDefault:"DE"`
	Currency      string `env:"CURRENCY" envDefault:"eur"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"dev-only-secret"`
	SeedCatalog   bool   `env:"SEED_CATALOG" envDefault:"true"`
}
