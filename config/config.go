// Package config loads pricefactor settings in three layers: built-in
// defaults, an optional YAML file, then PRICEFACTOR_* environment variables.
package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/YuminosukeSato/pricefactor/factor"
	"github.com/YuminosukeSato/pricefactor/pkg/errors"
	"github.com/YuminosukeSato/pricefactor/pkg/log"
	"github.com/YuminosukeSato/pricefactor/pricing"
)

// EnvPrefix prefixes every environment override, e.g.
// PRICEFACTOR_MODEL_TRAINING_N_FACTORS -> model_training.n_factors.
const EnvPrefix = "PRICEFACTOR_"

// ConfigPathEnvVar names the config file when no path is passed to Load.
const ConfigPathEnvVar = "PRICEFACTOR_CONFIG"

// Store backends for the model blob.
const (
	StoreFile = "file"
	StoreS3   = "s3"
)

// Config is the complete configuration.
type Config struct {
	ModelTraining TrainingConfig     `koanf:"model_training"`
	Pricing       pricing.TieredRule `koanf:"pricing"`
	Model         ModelConfig        `koanf:"model"`
	API           APIConfig          `koanf:"api"`
	Logging       LoggingConfig      `koanf:"logging"`
}

// TrainingConfig holds the hyperparameters and the training deadline.
type TrainingConfig struct {
	NFactors       int           `koanf:"n_factors" validate:"gte=1"`
	LearningRate   float64       `koanf:"lr" validate:"gt=0"`
	Regularization float64       `koanf:"reg" validate:"gte=0"`
	Epochs         int           `koanf:"n_epochs" validate:"gte=1"`
	Seed           int64         `koanf:"seed"`
	Timeout        time.Duration `koanf:"timeout" validate:"gte=0"` // 0 = no deadline
}

// ModelConfig says where the model blob lives.
type ModelConfig struct {
	Path        string   `koanf:"path" validate:"required"`
	Store       string   `koanf:"store" validate:"oneof=file s3"`
	LoadRetries uint     `koanf:"load_retries" validate:"gte=1"`
	S3          S3Config `koanf:"s3"`
}

// S3Config configures an S3-compatible object store.
type S3Config struct {
	Endpoint  string `koanf:"endpoint"`
	Bucket    string `koanf:"bucket"`
	Prefix    string `koanf:"prefix"`
	Region    string `koanf:"region"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	UseSSL    bool   `koanf:"use_ssl"`
}

// APIConfig configures the HTTP server.
type APIConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn warning error"`
	Format string `koanf:"format" validate:"oneof=json console cloud"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ModelTraining: TrainingConfig{
			NFactors:       factor.DefaultNFactors,
			LearningRate:   factor.DefaultLearningRate,
			Regularization: factor.DefaultRegularization,
			Epochs:         factor.DefaultEpochs,
			Seed:           0,
			Timeout:        30 * time.Minute,
		},
		Pricing: pricing.DefaultRule(),
		Model: ModelConfig{
			Path:        "models/trained_model.gob",
			Store:       StoreFile,
			LoadRetries: 5,
			S3: S3Config{
				Region: "us-east-1",
				UseSSL: true,
			},
		},
		API: APIConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: log.FormatJSON,
		},
	}
}

// Load builds the configuration. path names a YAML file; when empty,
// $PRICEFACTOR_CONFIG is used if set. A named file that does not exist is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, errors.Wrap(err, "load defaults")
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load config file %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, errors.Wrap(err, "load environment")
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// sections are matched longest first so that model_training wins over model.
var sections = []string{"model_training", "logging", "pricing", "model", "api"}

// envTransformFunc maps PRICEFACTOR_MODEL_TRAINING_N_FACTORS to
// model_training.n_factors and PRICEFACTOR_MODEL_S3_BUCKET to model.s3.bucket.
// Variables outside every section are dropped.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "config" {
		return ""
	}
	for _, section := range sections {
		rest, ok := strings.CutPrefix(key, section+"_")
		if !ok {
			continue
		}
		if section == "model" {
			if s3key, ok := strings.CutPrefix(rest, "s3_"); ok {
				return "model.s3." + s3key
			}
		}
		return section + "." + rest
	}
	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every section and returns a *errors.ValidationError for the
// first invalid value.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return errors.NewValidationError(fe.Namespace(), "must satisfy "+fe.Tag()+" "+fe.Param(), fe.Value())
		}
		return errors.Wrap(err, "validate configuration")
	}
	if err := c.Rule().Validate(); err != nil {
		return err
	}
	if c.Model.Store == StoreS3 {
		if c.Model.S3.Endpoint == "" {
			return errors.NewValidationError("model.s3.endpoint", "required when store is s3", "")
		}
		if c.Model.S3.Bucket == "" {
			return errors.NewValidationError("model.s3.bucket", "required when store is s3", "")
		}
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return c.ModelTraining.Params().Validate()
}

// Params converts the training section into model hyperparameters.
func (t TrainingConfig) Params() factor.Params {
	return factor.Params{
		NFactors:       t.NFactors,
		LearningRate:   t.LearningRate,
		Regularization: t.Regularization,
		Epochs:         t.Epochs,
		Seed:           t.Seed,
	}
}

// Rule returns the pricing rule with tiers sorted into evaluation order.
func (c *Config) Rule() pricing.TieredRule {
	return c.Pricing.Sorted()
}

// Addr is the listen address of the HTTP server.
func (a APIConfig) Addr() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}
