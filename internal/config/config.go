// Package config loads interviewer settings from defaults, a YAML file,
// a .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/aretw0/interviewer/internal/logging"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit path is given and it exists.
const DefaultFile = "interviewer.yaml"

// Sink kinds.
const (
	SinkFile     = "file"
	SinkMemory   = "memory"
	SinkRedis    = "redis"
	SinkS3       = "s3"
	SinkPostgres = "postgres"
	SinkSQLite   = "sqlite"
)

// ProviderGemini is the only supported LLM provider.
const ProviderGemini = "gemini"

type Config struct {
	Interview InterviewConfig `yaml:"interview"`
	LLM       LLMConfig       `yaml:"llm"`
	Sink      SinkConfig      `yaml:"sink"`
	Log       LogConfig       `yaml:"log"`
	HTTP      HTTPConfig      `yaml:"http"`
}

type InterviewConfig struct {
	ParticipantName string            `yaml:"participant_name"`
	Position        string            `yaml:"position"`
	TargetGrade     string            `yaml:"target_grade"`
	Experience      string            `yaml:"experience"`
	MaxTurns        int               `yaml:"max_turns"`
	StopKeywords    []string          `yaml:"stop_keywords"`
	MinDifficulty   int               `yaml:"min_difficulty"`
	MaxDifficulty   int               `yaml:"max_difficulty"`
	Greeting        string            `yaml:"greeting"`
	Temperatures    TemperatureConfig `yaml:"temperatures"`
}

type TemperatureConfig struct {
	Classifier  float64 `yaml:"classifier"`
	Interviewer float64 `yaml:"interviewer"`
	Feedback    float64 `yaml:"feedback"`
	Candidate   float64 `yaml:"candidate"`
}

type LLMConfig struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	Retry    RetryConfig   `yaml:"retry"`
	// APIKey is only ever read from the environment.
	APIKey string `yaml:"-"`
}

type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
}

type SinkConfig struct {
	Kind     string         `yaml:"kind"`
	File     FileConfig     `yaml:"file"`
	Redis    RedisConfig    `yaml:"redis"`
	S3       S3Config       `yaml:"s3"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	// Redact lists regular expressions masked in dialogue before persisting.
	Redact []string `yaml:"redact"`
}

type FileConfig struct {
	Dir string `yaml:"dir"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type PostgresConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type HTTPConfig struct {
	Addr    string `yaml:"addr"`
	Metrics bool   `yaml:"metrics"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Interview: InterviewConfig{
			ParticipantName: domain.DefaultParticipantName,
			MaxTurns:        domain.DefaultMaxTurns,
			StopKeywords:    domain.DefaultStopKeywords(),
			MinDifficulty:   domain.DefaultMinDifficulty,
			MaxDifficulty:   domain.DefaultMaxDifficulty,
			Greeting:        domain.DefaultGreetingTemplate,
			Temperatures: TemperatureConfig{
				Classifier:  domain.DefaultClassifierTemperature,
				Interviewer: domain.DefaultInterviewerTemperature,
				Feedback:    domain.DefaultFeedbackTemperature,
				Candidate:   domain.DefaultCandidateTemperature,
			},
		},
		LLM: LLMConfig{
			Provider: ProviderGemini,
			Model:    "gemini-2.5-flash",
			Timeout:  60 * time.Second,
			Retry:    RetryConfig{MaxAttempts: 1, BaseDelay: 300 * time.Millisecond},
		},
		Sink: SinkConfig{
			Kind: SinkFile,
			File: FileConfig{Dir: "logs"},
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "interviewer:log:",
			},
			S3: S3Config{
				Region: "us-east-1",
				Bucket: "interviewer-logs",
			},
			Postgres: PostgresConfig{Table: "interview_logs"},
			SQLite:   SQLiteConfig{Path: "interviewer.db"},
		},
		Log:  LogConfig{Level: "info", Format: "text"},
		HTTP: HTTPConfig{Addr: ":8080", Metrics: true},
	}
}

// Load builds the configuration. An empty path means DefaultFile if present.
// Values from .env never override variables already set in the environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadWith(path, os.LookupEnv)
}

// LoadWith is Load without the .env step and with an injectable environment.
func LoadWith(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("GEMINI_API_KEY", &c.LLM.APIKey)
	str("INTERVIEWER_MODEL", &c.LLM.Model)
	str("INTERVIEWER_LLM_BASE_URL", &c.LLM.BaseURL)
	str("INTERVIEWER_SINK", &c.Sink.Kind)
	str("INTERVIEWER_LOG_DIR", &c.Sink.File.Dir)
	str("INTERVIEWER_LOG_LEVEL", &c.Log.Level)
	str("INTERVIEWER_LOG_FORMAT", &c.Log.Format)
	str("INTERVIEWER_HTTP_ADDR", &c.HTTP.Addr)
	str("REDIS_ADDR", &c.Sink.Redis.Addr)
	str("REDIS_PASSWORD", &c.Sink.Redis.Password)
	str("DATABASE_URL", &c.Sink.Postgres.DSN)
	str("INTERVIEWER_SQLITE_PATH", &c.Sink.SQLite.Path)
	str("S3_ENDPOINT", &c.Sink.S3.Endpoint)
	str("S3_ACCESS_KEY", &c.Sink.S3.AccessKey)
	str("S3_SECRET_KEY", &c.Sink.S3.SecretKey)
	str("S3_BUCKET", &c.Sink.S3.Bucket)

	if v, ok := lookup("INTERVIEWER_MAX_TURNS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("INTERVIEWER_MAX_TURNS: %w", err)
		}
		c.Interview.MaxTurns = n
	}
	if v, ok := lookup("INTERVIEWER_LLM_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("INTERVIEWER_LLM_TIMEOUT: %w", err)
		}
		c.LLM.Timeout = d
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	iv := c.Interview
	if iv.MaxTurns < 1 {
		add("interview.max_turns must be at least 1, got %d", iv.MaxTurns)
	}
	if iv.MinDifficulty < 1 || iv.MinDifficulty > iv.MaxDifficulty {
		add("interview difficulty bounds [%d,%d] are invalid", iv.MinDifficulty, iv.MaxDifficulty)
	}
	if len(iv.StopKeywords) == 0 {
		add("interview.stop_keywords must not be empty")
	}
	for _, kw := range iv.StopKeywords {
		if strings.TrimSpace(kw) == "" {
			add("interview.stop_keywords contains a blank keyword")
			break
		}
	}
	if _, err := template.New("greeting").Parse(iv.Greeting); err != nil {
		add("interview.greeting: %v", err)
	}
	for name, t := range map[string]float64{
		"classifier":  iv.Temperatures.Classifier,
		"interviewer": iv.Temperatures.Interviewer,
		"feedback":    iv.Temperatures.Feedback,
		"candidate":   iv.Temperatures.Candidate,
	} {
		if t < 0 || t > 2 {
			add("interview.temperatures.%s must be within [0,2], got %v", name, t)
		}
	}

	if c.LLM.Provider != ProviderGemini {
		add("llm.provider %q is not supported", c.LLM.Provider)
	}
	if c.LLM.Timeout < 0 {
		add("llm.timeout must not be negative")
	}
	if c.LLM.Retry.MaxAttempts < 1 {
		add("llm.retry.max_attempts must be at least 1")
	}

	switch c.Sink.Kind {
	case SinkFile:
		if c.Sink.File.Dir == "" {
			add("sink.file.dir is required")
		}
	case SinkMemory:
	case SinkRedis:
		if c.Sink.Redis.Addr == "" {
			add("sink.redis.addr is required")
		}
	case SinkS3:
		if c.Sink.S3.Endpoint == "" || c.Sink.S3.Bucket == "" {
			add("sink.s3.endpoint and sink.s3.bucket are required")
		}
	case SinkPostgres:
		if c.Sink.Postgres.DSN == "" {
			add("sink.postgres.dsn is required (or DATABASE_URL)")
		}
	case SinkSQLite:
		if c.Sink.SQLite.Path == "" {
			add("sink.sqlite.path is required")
		}
	default:
		add("sink.kind %q is not one of file, memory, redis, s3, postgres, sqlite", c.Sink.Kind)
	}
	for _, p := range c.Sink.Redact {
		if _, err := regexp.Compile(p); err != nil {
			add("sink.redact: %v", err)
		}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level: %v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		add("log.format must be text or json, got %q", c.Log.Format)
	}
	return errors.Join(errs...)
}

// RequireProfile checks the fields needed to start an interview.
func (c *Config) RequireProfile() error {
	var missing []string
	if strings.TrimSpace(c.Interview.Position) == "" {
		missing = append(missing, "position")
	}
	if strings.TrimSpace(c.Interview.TargetGrade) == "" {
		missing = append(missing, "target_grade")
	}
	if len(missing) > 0 {
		return fmt.Errorf("interview %s not set", strings.Join(missing, " and "))
	}
	return nil
}
