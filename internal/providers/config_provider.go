package providers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"dirpurge/internal/structures"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const AppName = "dirpurge"

// DefaultHomeDir is the directory under the user's home holding the ledger and config.
const DefaultHomeDir = ".purge"

func DefaultConfigPath() string {
	return filepath.Join(homeDir(), DefaultHomeDir, "config.yaml")
}

func DefaultLedgerPath() string {
	return filepath.Join(homeDir(), DefaultHomeDir, "db.json")
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	// only an explicitly given config file has to exist
	explicit := flags.ConfigPath != ""
	configPath := DefaultConfigPath()
	if explicit {
		configPath = expandHome(flags.ConfigPath)
	}

	if err := godotenv.Load(filepath.Join(filepath.Dir(configPath), ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("ledger.path", DefaultLedgerPath())
	v.SetDefault("ledger.driver", "json")
	v.SetDefault("ledger.compression", "none")
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("metrics.enabled", false)

	v.BindEnv("ledger.path", "PURGE_LEDGER")
	v.BindEnv("ledger.driver", "PURGE_LEDGER_DRIVER")
	v.BindEnv("ledger.compression", "PURGE_LEDGER_COMPRESSION")
	v.BindEnv("logger.level", "PURGE_LOG_LEVEL")
	v.BindEnv("logger.dir", "PURGE_LOG_DIR")
	v.BindEnv("metrics.enabled", "PURGE_METRICS_ENABLED")
	v.BindEnv("metrics.textfilePath", "PURGE_METRICS_TEXTFILE")

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	err := v.Unmarshal(&conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		expandHomeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	)))
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if flags.LedgerPath != "" {
		conf.Ledger.Path = expandHome(flags.LedgerPath)
	}
	if conf.Ledger.Path, err = filepath.Abs(conf.Ledger.Path); err != nil {
		return nil, fmt.Errorf("resolve ledger path: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = configPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

func expandHomeHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.String {
			return data, nil
		}
		return expandHome(data.(string)), nil
	}
}

func expandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
