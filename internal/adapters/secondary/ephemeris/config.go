package ephemeris

type Config struct {
	BaseURL string `envconfig:"BASE_URL" required:"true"`
	Timeout int    `envconfig:"TIMEOUT" default:"30"` // seconds
	SkipSSL string `envconfig:"SKIP_SSL"`             // deployment platforms want strings over bools
}

func (c *Config) ShouldSkipSSL() bool {
	return c.SkipSSL == "true" || c.SkipSSL == "1" || c.SkipSSL == "True"
}
