package config

import "time"

// Default configuration values.
const (
	defaultServiceName  = "toolscout"
	defaultServicePort  = 8097
	defaultVersion      = "0.1.0"
	defaultLoggingLevel = "info"

	defaultDiscoveryBatchSize = 5
	defaultRefreshBatchSize   = 10

	defaultQueryDelay   = 1 * time.Second
	defaultMetricsDelay = 2 * time.Second
	defaultRefreshDelay = 3 * time.Second

	defaultAnthropicModel = "claude-sonnet-4-20250514"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultOpenAIBaseURL  = "https://api.openai.com/v1"
	defaultSearchBaseURL  = "https://s.jina.ai"
	defaultReaderBaseURL  = "https://r.jina.ai"

	defaultDiscoverySchedule = "0 3 * * *"
	defaultMetricsSchedule   = "0 */6 * * *"
	defaultRefreshSchedule   = "0 4 * * 0"
)

// Config holds the full toolscout configuration.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Database   DatabaseConfig   `yaml:"database"`
	Search     SearchConfig     `yaml:"search"`
	Classifier ClassifierConfig `yaml:"classifier"`
	GitHub     GitHubConfig     `yaml:"github"`
	Automation AutomationConfig `yaml:"automation"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name       string `yaml:"name"`
	Version    string `yaml:"version"`
	Port       int    `env:"TOOLSCOUT_PORT" yaml:"port"`
	Debug      bool   `env:"APP_DEBUG"      yaml:"debug"`
	AppURL     string `env:"APP_URL"        yaml:"app_url"`
	CronSecret string `env:"CRON_SECRET"    yaml:"cron_secret"`
}

// DatabaseConfig holds PostgreSQL configuration.
// When URL is empty the service runs in degraded mode backed by bundled
// sample data so the frontend still has something to render.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" yaml:"url"`
}

// Configured reports whether a database connection string is present.
func (d *DatabaseConfig) Configured() bool {
	return d.URL != ""
}

// SearchConfig holds the Jina search/reader API configuration.
type SearchConfig struct {
	APIKey        string `env:"JINA_API_KEY" yaml:"api_key"`
	BaseURL       string `yaml:"base_url"`
	ReaderBaseURL string `yaml:"reader_base_url"`
}

// ClassifierConfig holds LLM provider configuration.
type ClassifierConfig struct {
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY" yaml:"anthropic_api_key"`
	AnthropicModel  string `yaml:"anthropic_model"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY" yaml:"openai_api_key"`
	OpenAIModel     string `yaml:"openai_model"`
	OpenAIBaseURL   string `yaml:"openai_base_url"`
}

// GitHubConfig holds GitHub API configuration used for star counts.
type GitHubConfig struct {
	Token string `env:"GITHUB_TOKEN" yaml:"token"`
}

// AutomationConfig bounds the pipeline runs.
type AutomationConfig struct {
	// DiscoveryBatchSize is the number of discovered URLs processed per run.
	DiscoveryBatchSize int `yaml:"discovery_batch_size"`
	// RefreshBatchSize is the number of tools re-scraped per refresh run.
	RefreshBatchSize int `yaml:"refresh_batch_size"`
	// QueryDelay is the pause between search queries during discovery.
	QueryDelay time.Duration `yaml:"query_delay"`
	// MetricsDelay is the pause between tools during a metrics run.
	MetricsDelay time.Duration `yaml:"metrics_delay"`
	// RefreshDelay is the pause between tools during a refresh run.
	RefreshDelay time.Duration `yaml:"refresh_delay"`
}

// SchedulerConfig holds cron expressions for the in-process scheduler.
type SchedulerConfig struct {
	Enabled           bool   `yaml:"enabled"`
	DiscoverySchedule string `yaml:"discovery_schedule"`
	MetricsSchedule   string `yaml:"metrics_schedule"`
	RefreshSchedule   string `yaml:"refresh_schedule"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" yaml:"level"`
}

// Default returns a Config with zero values ready for SetDefaults.
func Default() *Config {
	return &Config{}
}

// SetDefaults fills unset fields with default values.
func (c *Config) SetDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = defaultServiceName
	}
	if c.Service.Version == "" {
		c.Service.Version = defaultVersion
	}
	if c.Service.Port == 0 {
		c.Service.Port = defaultServicePort
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = defaultSearchBaseURL
	}
	if c.Search.ReaderBaseURL == "" {
		c.Search.ReaderBaseURL = defaultReaderBaseURL
	}
	if c.Classifier.AnthropicModel == "" {
		c.Classifier.AnthropicModel = defaultAnthropicModel
	}
	if c.Classifier.OpenAIModel == "" {
		c.Classifier.OpenAIModel = defaultOpenAIModel
	}
	if c.Classifier.OpenAIBaseURL == "" {
		c.Classifier.OpenAIBaseURL = defaultOpenAIBaseURL
	}
	if c.Automation.DiscoveryBatchSize == 0 {
		c.Automation.DiscoveryBatchSize = defaultDiscoveryBatchSize
	}
	if c.Automation.RefreshBatchSize == 0 {
		c.Automation.RefreshBatchSize = defaultRefreshBatchSize
	}
	if c.Automation.QueryDelay == 0 {
		c.Automation.QueryDelay = defaultQueryDelay
	}
	if c.Automation.MetricsDelay == 0 {
		c.Automation.MetricsDelay = defaultMetricsDelay
	}
	if c.Automation.RefreshDelay == 0 {
		c.Automation.RefreshDelay = defaultRefreshDelay
	}
	if c.Scheduler.DiscoverySchedule == "" {
		c.Scheduler.DiscoverySchedule = defaultDiscoverySchedule
	}
	if c.Scheduler.MetricsSchedule == "" {
		c.Scheduler.MetricsSchedule = defaultMetricsSchedule
	}
	if c.Scheduler.RefreshSchedule == "" {
		c.Scheduler.RefreshSchedule = defaultRefreshSchedule
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLoggingLevel
	}
}
