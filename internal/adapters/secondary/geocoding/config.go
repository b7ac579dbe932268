package geocoding

type Config struct {
	BaseURL string `envconfig:"BASE_URL" default:"https://geocoding-api.open-meteo.com"`
	Timeout int    `envconfig:"TIMEOUT" default:"15"` // seconds
}
