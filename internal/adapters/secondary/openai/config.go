package openai

type Config struct {
	BaseURL string `envconfig:"BASE_URL" default:"https://api.openai.com"`
	APIKey  string `envconfig:"API_KEY"`
	Model   string `envconfig:"MODEL" default:"gpt-4o-mini"`
	Timeout int    `envconfig:"TIMEOUT" default:"90"` // seconds, covers streamed completions
}
