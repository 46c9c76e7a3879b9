package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database

	Stripe   Stripe   `envPrefix:"STRIPE_"`
	Checkout Checkout `envPrefix:"CHECKOUT_"`
	Retry    Retry    `envPrefix:"RETRY_"`
	Auth     Auth     `envPrefix:"AUTH_"`
	Kafka    Kafka    `envPrefix:"KAFKA_"`
}

type Stripe struct {
	BaseApiURL string        `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey  string        `env:"SECRET_KEY"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type Checkout struct {
	DefaultOrigin  string        `env:"DEFAULT_ORIGIN" envDefault:"http://localhost:3000"`
	Currency       string        `env:"CURRENCY" envDefault:"usd"`
	GatewayTimeout time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"5s"`
}

// Retry bounds the read-modify-write retries of progress updates.
type Retry struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"5"`
	Delay    time.Duration `env:"DELAY" envDefault:"20ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"500ms"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET,required"`
}

type Kafka struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"learning-events"`
}

type Database struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"sqlite"`
	URL             string        `env:"DATABASE_URL" envDefault:"neurogrid.db"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"50"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	Seed            bool          `env:"DB_SEED" envDefault:"true"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
