package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	BackendDynamo = "dynamodb"
	BackendSQL    = "sql"
)

// Config holds every setting the tool reads from the process environment.
type Config struct {
	Backend string

	Region          string
	Profile         string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	UseLocal      bool
	LocalEndpoint string
	Managed       bool

	Tag string

	Driver      string
	DatabaseURL string

	RedisAddr string
	CacheTTL  time.Duration

	TableTimeout      time.Duration
	TablePollInterval time.Duration
	TableSuffixes     map[Environment]string

	DeployCacheFile string
	SchemaGlob      string
	DeployCommand   string
	BackendMetaFile string
}

// Options controls which env files are layered over the process environment.
type Options struct {
	Environment Environment
	// EnvFile must exist when set.
	EnvFile string
	// Dir is where .env and .env.<environment> are looked up, the working
	// directory when empty.
	Dir string
}

// LoadConfig reads the configuration of opts.Environment.
//
// Precedence, highest first: the process environment, opts.EnvFile, the
// generated .env.<environment>, .env. The process environment is never
// modified, so two environments loaded by one process do not leak settings
// into each other.
func LoadConfig(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if _, err := os.Stat(opts.EnvFile); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingEnvFile, opts.EnvFile)
		}
	}

	files := defaultEnvFiles(opts.Environment)
	for i, name := range files {
		files[i] = filepath.Join(opts.Dir, name)
	}
	if opts.EnvFile != "" {
		files = append(files, opts.EnvFile)
	}

	values := map[string]any{}
	for _, name := range files {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		read, err := godotenv.Read(name)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		for k, v := range read {
			values[k] = v
		}
		logrus.Debugf("loaded env file %s for %s", name, opts.Environment)
	}

	return fromValues(values), nil
}

// Loader loads the configuration of each environment once.
type Loader struct {
	opts    Options
	configs map[Environment]*Config
}

func NewLoader(opts Options) *Loader {
	return &Loader{opts: opts, configs: map[Environment]*Config{}}
}

// Load returns the validated configuration of env.
func (l *Loader) Load(env Environment) (*Config, error) {
	if cfg, ok := l.configs[env]; ok {
		return cfg, nil
	}

	opts := l.opts
	opts.Environment = env
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l.configs[env] = cfg
	return cfg, nil
}

// EnvFileName is the generated environment file for env.
func EnvFileName(env Environment) string {
	return ".env." + env.Short()
}

func defaultEnvFiles(env Environment) []string {
	files := []string{".env"}
	if env != "" {
		files = append(files, EnvFileName(env))
	}
	return files
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	return fromValues(nil)
}

// fromValues reads the configuration from the process environment, falling
// back to values and then to the defaults.
func fromValues(values map[string]any) *Config {
	v := viper.New()
	v.AutomaticEnv()
	if err := v.MergeConfigMap(values); err != nil {
		logrus.Debugf("merge env files: %v", err)
	}

	v.SetDefault("STORE_BACKEND", BackendDynamo)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("DYNAMODB_ENDPOINT", "http://localhost:8000")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "resumectl.db")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("TABLE_WAIT_TIMEOUT", "2m")
	v.SetDefault("TABLE_POLL_INTERVAL", "2s")
	v.SetDefault("TABLE_SUFFIX_DEVELOPMENT", "dev")
	v.SetDefault("TABLE_SUFFIX_PRODUCTION", "prod")
	v.SetDefault("DEPLOY_CACHE_FILE", ".deploy-cache.json")
	v.SetDefault("SCHEMA_GLOB", "amplify/backend/api/*/schema.graphql")
	v.SetDefault("DEPLOY_COMMAND", "amplify push --yes")
	v.SetDefault("BACKEND_META_FILE", "amplify/backend/amplify-meta.json")

	return &Config{
		Backend:           v.GetString("STORE_BACKEND"),
		Region:            v.GetString("AWS_REGION"),
		Profile:           v.GetString("AWS_PROFILE"),
		AccessKeyID:       v.GetString("AWS_ACCESS_KEY_ID"),
		SecretAccessKey:   v.GetString("AWS_SECRET_ACCESS_KEY"),
		SessionToken:      v.GetString("AWS_SESSION_TOKEN"),
		UseLocal:          v.GetBool("USE_LOCAL_DYNAMODB"),
		LocalEndpoint:     v.GetString("DYNAMODB_ENDPOINT"),
		Managed:           v.GetBool("CI") || v.GetString("AWS_EXECUTION_ENV") != "" || v.GetString("CODEBUILD_BUILD_ID") != "",
		Tag:               v.GetString("SEED_TAG"),
		Driver:            v.GetString("DB_DRIVER"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		CacheTTL:          v.GetDuration("CACHE_TTL"),
		TableTimeout:      v.GetDuration("TABLE_WAIT_TIMEOUT"),
		TablePollInterval: v.GetDuration("TABLE_POLL_INTERVAL"),
		TableSuffixes: map[Environment]string{
			Development: v.GetString("TABLE_SUFFIX_DEVELOPMENT"),
			Production:  v.GetString("TABLE_SUFFIX_PRODUCTION"),
		},
		DeployCacheFile: v.GetString("DEPLOY_CACHE_FILE"),
		SchemaGlob:      v.GetString("SCHEMA_GLOB"),
		DeployCommand:   v.GetString("DEPLOY_COMMAND"),
		BackendMetaFile: v.GetString("BACKEND_META_FILE"),
	}
}

// Suffix returns the table name suffix for env.
func (c *Config) Suffix(env Environment) string {
	return c.TableSuffixes[env]
}

// Validate checks settings that do not depend on the target environment.
func (c *Config) Validate() error {
	var errs []error
	if c.Backend != BackendDynamo && c.Backend != BackendSQL {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend))
	}
	if c.TableTimeout <= 0 {
		errs = append(errs, errors.New("TABLE_WAIT_TIMEOUT must be positive"))
	}
	if c.TablePollInterval <= 0 {
		errs = append(errs, errors.New("TABLE_POLL_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}
