package models

type Config struct {
	Debug bool `yaml:"debug" envconfig:"HELIX_DEBUG"`

	Api struct {
		Url                   string `yaml:"url" envconfig:"HELIX_API_URL"`
		Port                  string `yaml:"port" envconfig:"HELIX_API_INTERNAL_PORT"`
		SessionIdleMinutes    int    `yaml:"sessionIdleMinutes" envconfig:"HELIX_API_SESSION_IDLE_MINUTES"`
		BatchConcurrencyLevel int    `yaml:"batchConcurrencyLevel" envconfig:"HELIX_API_BATCH_CONCURRENCY_LEVEL"`
	} `yaml:"api"`

	Prediction struct {
		Url    string `yaml:"url" envconfig:"HELIX_PREDICTION_URL"`
		ApiKey string `yaml:"apiKey" envconfig:"HELIX_PREDICTION_API_KEY"`
	} `yaml:"prediction"`

	Rendering struct {
		Url string `yaml:"url" envconfig:"HELIX_RENDERING_URL"`
	} `yaml:"rendering"`

	Elasticsearch struct {
		Url      string `yaml:"url" envconfig:"HELIX_ES_URL"`
		Username string `yaml:"username" envconfig:"HELIX_ES_USERNAME"`
		Password string `yaml:"password" envconfig:"HELIX_ES_PASSWORD"`
	} `yaml:"elasticsearch"`
}
