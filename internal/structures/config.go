package structures

type LedgerConfig struct {
	Path        string `yaml:"path" mapstructure:"path" validate:"required"`
	Driver      string `yaml:"driver" mapstructure:"driver" validate:"required|in:json,sqlite"`
	Compression string `yaml:"compression" mapstructure:"compression" validate:"required|in:none,zstd"`
}

type LoggerConfig struct {
	Level string `yaml:"level" mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" mapstructure:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" mapstructure:"dir"`
}

type MetricsConfig struct {
	Enabled      bool   `yaml:"enabled" mapstructure:"enabled"`
	TextfilePath string `yaml:"textfilePath" mapstructure:"textfilePath"`
}

type Config struct {
	AppName string        `mapstructure:"-"`
	Debug   bool          `mapstructure:"-"`
	Path    string        `mapstructure:"-"`
	Ledger  LedgerConfig  `yaml:"ledger" mapstructure:"ledger"`
	Logger  LoggerConfig  `yaml:"logger" mapstructure:"logger"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// CliFlags carries the global flags parsed by the command line before the
// configuration is loaded.
type CliFlags struct {
	ConfigPath string
	DebugMode  bool
	LedgerPath string
}
