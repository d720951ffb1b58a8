package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/josephgoksu/pkghistory/internal/config"
	"github.com/josephgoksu/pkghistory/types"
	"github.com/spf13/viper"
)

const (
	configName = ".pkghistory"
	envPrefix  = "PKGHISTORY"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single instance of Validate, it caches struct info
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// setDefaults registers the built-in configuration values.
func setDefaults() {
	viper.SetDefault("history.file", config.DefaultHistoryFile)
	viper.SetDefault("history.format", "json")
	viper.SetDefault("executor.command", "apt-get")
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.file", "")
	viper.SetDefault("log.maxSizeMB", 10)
	viper.SetDefault("log.crashDir", "")
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	if err := loadConfig(); err != nil {
		HandleFatalError(fmt.Sprintf("Configuration error: %v", err), err)
	}
}

func loadConfig() error {
	loadDotenv()

	viper.SetEnvPrefix(envPrefix) // e.g., PKGHISTORY_HISTORY_FILE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		for _, dir := range config.SearchDirs() {
			viper.AddConfigPath(dir)
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// Defaults and environment variables apply.
		case cfgFileFlag != "" && os.IsNotExist(err):
			return fmt.Errorf("specified config file not found: %s", cfgFileFlag)
		default:
			return fmt.Errorf("reading config file %s: %w", viper.ConfigFileUsed(), err)
		}
	}

	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.History.Format = strings.ToLower(cfg.History.Format)
	if err := validateAppConfig(&cfg); err != nil {
		return err
	}
	GlobalAppConfig = cfg
	return nil
}

// loadDotenv exports variables from .env files. A missing file is fine; any other
// failure is only reported in verbose mode.
func loadDotenv(filenames ...string) {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		LogError("could not load .env file", err)
	}
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(cfg *types.AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s' (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
