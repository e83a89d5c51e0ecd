package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/codexplain/codexplain/constants/lipgloss"
	"github.com/codexplain/codexplain/providers"
)

// Config represents the structure of the configuration file.
type Config struct {
	Version          string                      `mapstructure:"version"`
	Verbose          bool                        `mapstructure:"verbose"`
	Output           string                      `mapstructure:"output"`
	Mode             string                      `mapstructure:"mode"`
	Level            string                      `mapstructure:"level"`
	Concurrency      int                         `mapstructure:"concurrency"`
	RetryAttempts    int                         `mapstructure:"retry_attempts"`
	RetryDelayMs     int                         `mapstructure:"retry_delay_ms"`
	EnableCache      bool                        `mapstructure:"enable_cache"`
	CacheDir         string                      `mapstructure:"cache_dir"`
	Extensions       []string                    `mapstructure:"extensions"`
	Excludes         []string                    `mapstructure:"excludes"`
	MaxFileSize      int64                       `mapstructure:"max_file_size"`
	AIProviderConfig *providers.AIProviderConfig `mapstructure:"ai_provider_config"`
}

// DefaultConfig values.
var DefaultConfig = Config{
	Version:       "1.0.0",
	Verbose:       false,
	Output:        "explanations",
	Mode:          "explain",
	Level:         "intermediate",
	Concurrency:   3,
	RetryAttempts: 3,
	RetryDelayMs:  1000,
	EnableCache:   true,
	CacheDir:      "",
	Extensions:    nil,
	Excludes:      nil,
	MaxFileSize:   100 * 1024,
	AIProviderConfig: &providers.AIProviderConfig{
		Provider: "openai",
		BaseURL:  "",
		Model:    "gpt-4o-mini",
		ApiKey:   "",
	},
}

// cfgFile holds the path to the configuration file (set via CLI).
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and
// environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	setDefaults()

	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		viper.SetConfigName("codexplain-config")
		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			_ = viper.ReadInConfig()
		}
	}

	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	return config
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("verbose", DefaultConfig.Verbose)
	viper.SetDefault("output", DefaultConfig.Output)
	viper.SetDefault("mode", DefaultConfig.Mode)
	viper.SetDefault("level", DefaultConfig.Level)
	viper.SetDefault("concurrency", DefaultConfig.Concurrency)
	viper.SetDefault("retry_attempts", DefaultConfig.RetryAttempts)
	viper.SetDefault("retry_delay_ms", DefaultConfig.RetryDelayMs)
	viper.SetDefault("enable_cache", DefaultConfig.EnableCache)
	viper.SetDefault("cache_dir", DefaultConfig.CacheDir)
	viper.SetDefault("extensions", DefaultConfig.Extensions)
	viper.SetDefault("excludes", DefaultConfig.Excludes)
	viper.SetDefault("max_file_size", DefaultConfig.MaxFileSize)
	viper.SetDefault("ai_provider_config.provider", DefaultConfig.AIProviderConfig.Provider)
	viper.SetDefault("ai_provider_config.base_url", DefaultConfig.AIProviderConfig.BaseURL)
	viper.SetDefault("ai_provider_config.model", DefaultConfig.AIProviderConfig.Model)
	viper.SetDefault("ai_provider_config.api_key", DefaultConfig.AIProviderConfig.ApiKey)
	viper.SetDefault("ai_provider_config.temperature", DefaultConfig.AIProviderConfig.Temperature)
	viper.SetDefault("ai_provider_config.max_tokens", DefaultConfig.AIProviderConfig.MaxTokens)
}

// bindEnv explicitly binds environment variables to configuration keys.
func bindEnv() {
	_ = viper.BindEnv("verbose", "VERBOSE")
	_ = viper.BindEnv("output", "OUTPUT")
	_ = viper.BindEnv("mode", "MODE")
	_ = viper.BindEnv("level", "LEVEL")
	_ = viper.BindEnv("concurrency", "CONCURRENCY")
	_ = viper.BindEnv("enable_cache", "ENABLE_CACHE")
	_ = viper.BindEnv("cache_dir", "CACHE_DIR")
	_ = viper.BindEnv("ai_provider_config.provider", "PROVIDER")
	_ = viper.BindEnv("ai_provider_config.base_url", "BASE_URL")
	_ = viper.BindEnv("ai_provider_config.model", "MODEL")
	_ = viper.BindEnv("ai_provider_config.api_key", "API_KEY")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode"))
	_ = viper.BindPFlag("level", rootCmd.PersistentFlags().Lookup("level"))
	_ = viper.BindPFlag("concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))
	_ = viper.BindPFlag("retry_attempts", rootCmd.PersistentFlags().Lookup("retry_attempts"))
	_ = viper.BindPFlag("retry_delay_ms", rootCmd.PersistentFlags().Lookup("retry_delay_ms"))
	_ = viper.BindPFlag("enable_cache", rootCmd.PersistentFlags().Lookup("enable_cache"))
	_ = viper.BindPFlag("cache_dir", rootCmd.PersistentFlags().Lookup("cache_dir"))
	_ = viper.BindPFlag("extensions", rootCmd.PersistentFlags().Lookup("extensions"))
	_ = viper.BindPFlag("excludes", rootCmd.PersistentFlags().Lookup("excludes"))
	_ = viper.BindPFlag("ai_provider_config.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("ai_provider_config.base_url", rootCmd.PersistentFlags().Lookup("base_url"))
	_ = viper.BindPFlag("ai_provider_config.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("ai_provider_config.api_key", rootCmd.PersistentFlags().Lookup("api_key"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a configuration file (JSON or YAML).")

	rootCmd.PersistentFlags().Bool("verbose", DefaultConfig.Verbose, "Enable debug logging.")
	rootCmd.PersistentFlags().StringP("output", "o", DefaultConfig.Output, "Directory the generated markdown documents are written to.")
	rootCmd.PersistentFlags().String("mode", DefaultConfig.Mode, "Explanation mode: 'explain', 'architecture', or 'onboarding'.")
	rootCmd.PersistentFlags().String("level", DefaultConfig.Level, "Detail level: 'beginner', 'intermediate', or 'advanced'.")
	rootCmd.PersistentFlags().Int("concurrency", DefaultConfig.Concurrency, "Number of files explained concurrently per batch (max 10).")
	rootCmd.PersistentFlags().Int("retry_attempts", DefaultConfig.RetryAttempts, "Retries per provider call after the initial attempt.")
	rootCmd.PersistentFlags().Int("retry_delay_ms", DefaultConfig.RetryDelayMs, "Base backoff delay in milliseconds; doubles per retry.")
	rootCmd.PersistentFlags().Bool("enable_cache", DefaultConfig.EnableCache, "Enable the fingerprint cache for unchanged files.")
	rootCmd.PersistentFlags().String("cache_dir", DefaultConfig.CacheDir, "Cache directory (defaults to .codexplain-cache in the working directory).")
	rootCmd.PersistentFlags().StringSlice("extensions", DefaultConfig.Extensions, "File extensions to include, e.g. '.go,.py'. Empty means all.")
	rootCmd.PersistentFlags().StringSlice("excludes", DefaultConfig.Excludes, "Glob patterns to exclude from the scan.")

	rootCmd.Flags().BoolP("version", "v", false, "Print the application version.")

	rootCmd.PersistentFlags().String("provider", DefaultConfig.AIProviderConfig.Provider, "The name of the AI provider ('openai' or 'ollama').")
	rootCmd.PersistentFlags().String("base_url", DefaultConfig.AIProviderConfig.BaseURL, "The base URL of the AI provider.")
	rootCmd.PersistentFlags().String("model", DefaultConfig.AIProviderConfig.Model, "The model used for chat completions, such as 'gpt-4o-mini'.")
	rootCmd.PersistentFlags().String("api_key", DefaultConfig.AIProviderConfig.ApiKey, "The API key used to authenticate with the AI provider.")
}

// GetConfigFileType returns the type of the configuration file based on
// its extension.
func GetConfigFileType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "json"
	} else if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		return "yaml"
	}
	return ""
}
