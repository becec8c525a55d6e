package cmd

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobsift/jobsift/internal/embedding"
	"github.com/jobsift/jobsift/internal/logger"
	"github.com/jobsift/jobsift/internal/matchcache"
	"github.com/jobsift/jobsift/internal/matcher"
	"github.com/jobsift/jobsift/internal/resumes"
	"github.com/jobsift/jobsift/internal/scoring"
	"github.com/jobsift/jobsift/internal/secrets"
	"github.com/jobsift/jobsift/internal/store"
)

const (
	app = "jobsift"
)

type Config struct {
	DataDir      string           `mapstructure:"data-dir"`
	ResumeDir    string           `mapstructure:"resume-dir"`
	CacheFile    string           `mapstructure:"cache-file"`
	ScheduleFile string           `mapstructure:"schedule-file"`
	SkillMapFile string           `mapstructure:"skill-map-file"`
	TitleMapFile string           `mapstructure:"title-map-file"`
	Embedding    *EmbeddingConfig `mapstructure:"embedding"`
	Sync         *SyncConfig      `mapstructure:"sync"`
}

type EmbeddingConfig struct {
	Backend string        `mapstructure:"backend"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type SyncConfig struct {
	Keywords   []string `mapstructure:"keywords"`
	Location   string   `mapstructure:"location"`
	Country    string   `mapstructure:"country"`
	MaxPages   int      `mapstructure:"max-pages"`
	MaxDaysOld int      `mapstructure:"max-days-old"`
	Category   string   `mapstructure:"category"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobsift is a cli for syncing job postings and matching them against resumes",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"adzuna-app-id":       "ADZUNA_APP_ID",
		"adzuna-app-id-file":  "ADZUNA_APP_ID_FILE",
		"adzuna-api-key":      "ADZUNA_API_KEY",
		"adzuna-api-key-file": "ADZUNA_API_KEY_FILE",
		"gemini-api-key-file": "GEMINI_API_KEY_FILE",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobsift.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("data-dir", "data/jobs")
	viper.SetDefault("resume-dir", "data/resumes")
	viper.SetDefault("cache-file", "data/match_cache.json")
	viper.SetDefault("schedule-file", "data/scheduler.json")
	viper.SetDefault("embedding.backend", "hashing")
}

func initConfig() {
	// A .env file is optional, credentials may also come from the
	// environment directly.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		// We can't proceed if the config file parsed with error.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}

		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app + ".yaml")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

// adzunaCredential resolves one credential from its env value or file. A
// missing credential resolves to "" so the client can report both parts in
// one error.
func adzunaCredential(name, key string) string {
	value, err := secrets.Load(secrets.Source{
		Name:  name,
		Value: viper.GetString(key),
		File:  viper.GetString(key + "-file"),
	})
	if err != nil {
		return ""
	}

	return value
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	return l
}

// newBackend selects the embedding backend from the config.
func newBackend(ctx context.Context, config *Config, logger *zap.Logger) embedding.Backend {
	backend := "hashing"
	if config.Embedding != nil && config.Embedding.Backend != "" {
		backend = config.Embedding.Backend
	}

	switch backend {
	case "hashing":
		return embedding.NewHashing()
	case "gemini":
		keyFile := viper.GetString("gemini-api-key-file")
		model := ""
		if config.Embedding != nil && config.Embedding.Gemini != nil {
			if config.Embedding.Gemini.APIKeyFile != "" {
				keyFile = config.Embedding.Gemini.APIKeyFile
			}
			model = config.Embedding.Gemini.Model
		}

		apiKey, err := secrets.Load(secrets.Source{Name: "gemini api key", File: keyFile})
		if err != nil {
			logger.Fatal("loading gemini api key",
				zap.Error(err),
				zap.String("hint", "set GEMINI_API_KEY_FILE or embedding.gemini.api-key-file"),
			)
		}

		gemini, err := embedding.NewGemini(ctx, apiKey, model)
		if err != nil {
			logger.Fatal("creating gemini embedding backend", zap.Error(err))
		}

		return gemini
	default:
		logger.Fatal("unknown embedding backend", zap.String("backend", backend))

		return nil
	}
}

// services bundles everything a command needs, constructed once per
// invocation.
type services struct {
	logger  *zap.Logger
	config  *Config
	jobs    *store.Store
	resumes *resumes.Store
	matcher *matcher.Matcher
}

func newServices(ctx context.Context) *services {
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}
	if config.DataDir == "" {
		config.DataDir = viper.GetString("data-dir")
	}
	if config.ResumeDir == "" {
		config.ResumeDir = viper.GetString("resume-dir")
	}
	if config.CacheFile == "" {
		config.CacheFile = viper.GetString("cache-file")
	}
	if config.ScheduleFile == "" {
		config.ScheduleFile = viper.GetString("schedule-file")
	}

	jobs, err := store.New(config.DataDir, logger)
	if err != nil {
		logger.Fatal("opening job store", zap.Error(err))
	}

	res, err := resumes.New(config.ResumeDir, logger)
	if err != nil {
		logger.Fatal("opening resume store", zap.Error(err))
	}

	skillMap, err := scoring.LoadSkillMap(config.SkillMapFile)
	if err != nil {
		logger.Fatal("loading skill map", zap.Error(err))
	}
	titleMap, err := scoring.LoadTitleMap(config.TitleMapFile)
	if err != nil {
		logger.Fatal("loading title map", zap.Error(err))
	}

	engine := embedding.NewEngine(newBackend(ctx, config, logger), logger)
	cache := matchcache.New(config.CacheFile, logger)

	return &services{
		logger:  logger,
		config:  config,
		jobs:    jobs,
		resumes: res,
		matcher: matcher.New(engine, jobs, res, cache, skillMap, titleMap, logger),
	}
}
