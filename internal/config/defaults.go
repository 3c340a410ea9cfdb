package config

const (
	defaultFixLanguageSuffix = true
	defaultOutputSuffix      = "_kfx_ready"
	defaultOverwrite         = false
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultConfigPath        = "~/.config/epublang/config.toml"
	projectConfigName        = "epublang.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Language: Language{
			FixLanguageSuffix: defaultFixLanguageSuffix,
		},
		Output: Output{
			Suffix:    defaultOutputSuffix,
			Overwrite: defaultOverwrite,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
