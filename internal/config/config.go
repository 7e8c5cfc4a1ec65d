package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"icuflow/internal/domain"
	"icuflow/internal/sim"
)

type Config struct {
	DBPath   string `yaml:"db_path"`
	Timezone string `yaml:"timezone"`

	// SnapshotSchedule is a 5-field cron expression; empty disables the
	// periodic snapshot runner.
	SnapshotSchedule string `yaml:"snapshot_schedule"`

	SlackBotToken   string `yaml:"slack_bot_token"`
	ReportChannelID string `yaml:"report_channel_id"`

	LLMProvider     string `yaml:"llm_provider"`
	LLMModel        string `yaml:"llm_model"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`

	// Baseline shift inputs.
	Census                int     `yaml:"census"`
	Providers             float64 `yaml:"providers"`
	Admissions            int     `yaml:"admissions"`
	Consults              int     `yaml:"consults"`
	Transfers             int     `yaml:"transfers"`
	CriticalEventsPerWeek float64 `yaml:"critical_events_per_week"`

	// Optional per-event-type overrides of the calibrated defaults.
	InterruptionTimes  map[string]float64 `yaml:"interruption_times"`
	InterruptionScales map[string]float64 `yaml:"interruption_scales"`
	AdmissionTimes     map[string]float64 `yaml:"admission_times"`
	CriticalEventTime  float64            `yaml:"critical_event_time"`
	PhysicianRatio     float64            `yaml:"physician_ratio"`

	Location *time.Location `yaml:"-"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.Timezone, "TIMEZONE")
	envOverride(&cfg.SnapshotSchedule, "SNAPSHOT_SCHEDULE")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverrideInt(&cfg.Census, "CENSUS")
	envOverrideFloat(&cfg.Providers, "PROVIDERS")
	envOverrideInt(&cfg.Admissions, "ADMISSIONS")
	envOverrideInt(&cfg.Consults, "CONSULTS")
	envOverrideInt(&cfg.Transfers, "TRANSFERS")
	envOverrideFloat(&cfg.CriticalEventsPerWeek, "CRITICAL_EVENTS_PER_WEEK")

	// Defaults
	if cfg.DBPath == "" {
		cfg.DBPath = "./icuflow.db"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "anthropic"
	}
	if cfg.Census == 0 {
		cfg.Census = 8
	}
	if cfg.Providers == 0 {
		cfg.Providers = 2
	}
	if cfg.Admissions == 0 {
		cfg.Admissions = 3
	}
	if cfg.Consults == 0 {
		cfg.Consults = 4
	}
	if cfg.Transfers == 0 {
		cfg.Transfers = 2
	}
	if cfg.CriticalEventsPerWeek == 0 {
		cfg.CriticalEventsPerWeek = 5
	}

	// Validate required ranges
	if cfg.Census < 0 || cfg.Census > 16 {
		log.Fatalf("invalid census '%d': must be between 0 and 16", cfg.Census)
	}
	if cfg.Providers < 1 {
		log.Fatalf("invalid providers '%g': must be >= 1", cfg.Providers)
	}
	if cfg.Admissions < 0 || cfg.Consults < 0 || cfg.Transfers < 0 {
		log.Fatalf("admissions/consults/transfers must be >= 0")
	}
	if cfg.CriticalEventsPerWeek < 0 {
		log.Fatalf("invalid critical_events_per_week '%g': must be >= 0", cfg.CriticalEventsPerWeek)
	}
	if cfg.PhysicianRatio < 0 || cfg.PhysicianRatio > 1 {
		log.Fatalf("invalid physician_ratio '%g': must be between 0 and 1", cfg.PhysicianRatio)
	}

	switch cfg.LLMProvider {
	case "anthropic", "openai":
	default:
		log.Fatalf("llm_provider must be 'anthropic' or 'openai', got '%s'", cfg.LLMProvider)
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	if err := cfg.Parameters().Validate(); err != nil {
		log.Fatalf("invalid shift parameters: %v", err)
	}

	return cfg
}

// AdvisorEnabled reports whether an API key is configured for the selected
// LLM provider.
func (c Config) AdvisorEnabled() bool {
	switch c.LLMProvider {
	case "openai":
		return c.OpenAIAPIKey != ""
	default:
		return c.AnthropicAPIKey != ""
	}
}

// SlackEnabled reports whether digest delivery is configured.
func (c Config) SlackEnabled() bool {
	return c.SlackBotToken != "" && c.ReportChannelID != ""
}

// Parameters builds the simulation parameter set: calibrated defaults with
// any configured overrides merged in.
func (c Config) Parameters() sim.Parameters {
	params := sim.DefaultParameters()
	partial := sim.PartialSettings{
		InterruptionDurations: c.InterruptionTimes,
		InterruptionScales:    c.InterruptionScales,
		AdmissionDurations:    c.AdmissionTimes,
	}
	if c.CriticalEventTime > 0 {
		v := c.CriticalEventTime
		partial.CriticalEventDuration = &v
	}
	if c.PhysicianRatio > 0 {
		partial.ProviderRatios = map[domain.Role]float64{
			domain.RolePhysician: c.PhysicianRatio,
			domain.RoleAPP:       1 - c.PhysicianRatio,
		}
	}
	return params.Apply(partial)
}

// Inputs builds the baseline shift inputs.
func (c Config) Inputs() domain.WorkloadInputs {
	return domain.WorkloadInputs{
		Census:                c.Census,
		Providers:             c.Providers,
		Admissions:            c.Admissions,
		Consults:              c.Consults,
		Transfers:             c.Transfers,
		CriticalEventsPerWeek: c.CriticalEventsPerWeek,
	}
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
