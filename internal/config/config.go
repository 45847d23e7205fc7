package config

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	Port        string `env:"PORT" envDefault:"8080"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"ENV" envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AdminKey    string `env:"ADMIN_API_KEY"`
	CorsOrigin  string `env:"CORS_ORIGIN" envDefault:"*"`
	RateLimit   RateLimit
}

type RateLimit struct {
	Max           int `env:"RATE_LIMIT_MAX" envDefault:"60"`
	WindowSeconds int `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`
}
