// Package config handles daemon configuration loading using viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"firestige.xyz/strix/internal/log"
)

// Transport kinds.
const (
	TransportUART = "uart"
	TransportEmul = "emul"
)

// Config is the top-level daemon configuration.
type Config struct {
	Transport TransportConfig   `mapstructure:"transport"`
	Logger    *log.LoggerConfig `mapstructure:"logger"`
}

// TransportConfig describes the physical side of the bridge.
type TransportConfig struct {
	Type     string `mapstructure:"type"`     // uart | emul
	Device   string `mapstructure:"device"`   // tty path, uart only
	Bitrate  int    `mapstructure:"bitrate"`  // one of the standard rates
	HardFlow bool   `mapstructure:"hardflow"` // RTS/CTS hardware flow control
}

// Load reads and structurally validates the YAML config at path.
// Whether the bitrate belongs to the supported set is checked by the
// driver when the device is opened.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("transport.type", TransportUART)
	v.SetDefault("transport.bitrate", 115200)
	v.SetDefault("transport.hardflow", false)
}

// Validate checks structural validity of the configuration.
func (c *Config) Validate() error {
	switch c.Transport.Type {
	case TransportUART:
		if c.Transport.Device == "" {
			return fmt.Errorf("transport.device is required for uart transport")
		}
	case TransportEmul:
		// no device needed
	default:
		return fmt.Errorf("unknown transport.type %q", c.Transport.Type)
	}
	if c.Transport.Bitrate <= 0 {
		return fmt.Errorf("transport.bitrate must be positive, got %d", c.Transport.Bitrate)
	}
	return nil
}
