package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/screener/internal/logger"
	"github.com/spigell/screener/internal/scoring"
	"github.com/spigell/screener/internal/uploads"
)

const (
	app = "screener"

	defaultConcurrency = 4
	defaultModel       = "gemini-2.5-pro"
	defaultMaxRetries  = 3
)

type Config struct {
	Concurrency int              `mapstructure:"concurrency" validate:"gte=1,lte=64"`
	ClientNotes string           `mapstructure:"client-notes"`
	Gemini      *GeminiConfig    `mapstructure:"gemini" validate:"required"`
	Scoring     scoring.Weights  `mapstructure:"scoring"`
	S3          uploads.S3Config `mapstructure:"s3"`
	Database    DatabaseConfig   `mapstructure:"database"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0,lte=10"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

type DatabaseConfig struct {
	URL     string `mapstructure:"url"`
	URLFile string `mapstructure:"url-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "screener scores candidate resumes and interview recordings against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envBindings := map[string][]string{
		"gemini.api-key-file": {"GEMINI_API_KEY_FILE"},
		"database.url":        {"SCREENER_DATABASE_URL", "DATABASE_URL"},
	}
	for key, envs := range envBindings {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			log.Fatalf("binding %s environment variables: %v", strings.Join(envs, ", "), err)
		}
	}

	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("concurrency", defaultConcurrency)
	v.SetDefault("gemini.model", defaultModel)
	v.SetDefault("gemini.max-retries", defaultMaxRetries)

	w := scoring.DefaultWeights()
	v.SetDefault("scoring.base", w.Base)
	v.SetDefault("scoring.must-have-max", w.MustHaveMax)
	v.SetDefault("scoring.nice-to-have-max", w.NiceToHaveMax)
	v.SetDefault("scoring.suitability-max", w.SuitabilityMax)
	v.SetDefault("scoring.formatting-max", w.FormattingMax)
	v.SetDefault("scoring.depth-scale", w.DepthScale)
	v.SetDefault("scoring.experience-tolerance", w.ExperienceTolerance)
	v.SetDefault("scoring.default-depth", w.DefaultDepth)
	v.SetDefault("scoring.default-formatting", w.DefaultFormatting)
}

func initConfig() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	viper.SetEnvPrefix(strings.ToUpper(app))
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// The config file is optional unless named explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config.Gemini == nil {
		config.Gemini = &GeminiConfig{}
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &config, nil
}

// mustLogger builds the process logger from the persistent flags.
func mustLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// mustConfig loads the configuration or terminates the process.
func mustConfig(log *zap.Logger) *Config {
	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}
	return config
}
