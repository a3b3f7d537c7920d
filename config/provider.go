package config

type Provider struct {
	GitURL   string `mapstructure:"git_url"`
	Branch   string
	Disabled bool
	Ignores  []string
}
