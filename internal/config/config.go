// Package config loads the acquisition settings from a YAML/TOML/JSON file
// and ADS131_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yunginnanet/ftdi-ads131a0x/pkg/ads131a0x"
	"github.com/yunginnanet/ftdi-ads131a0x/pkg/ft232h"
	"github.com/yunginnanet/ftdi-ads131a0x/pkg/spidev"
)

const (
	TransportSim    = "sim"
	TransportSpidev = "spidev"
	TransportFT232H = "ft232h"
)

// DeviceConfig describes the ADC and the registers written on start-up.
type DeviceConfig struct {
	Variant     string  `mapstructure:"variant"`
	VRef        float64 `mapstructure:"vref"`
	CLK1        uint8   `mapstructure:"clk1"`
	CLK2        uint8   `mapstructure:"clk2"`
	ASysCfg     uint8   `mapstructure:"aSysCfg"`
	ChannelMask uint8   `mapstructure:"channelMask"`
	VerifyAck   bool    `mapstructure:"verifyAck"`
}

type SpidevConfig struct {
	Dev   string `mapstructure:"dev"`
	Speed int64  `mapstructure:"speed"`
}

type FT232HConfig struct {
	Device string `mapstructure:"device"` // "index:N" or "serial:S", empty for the first bridge
	Clock  uint32 `mapstructure:"clock"`
	CS     uint   `mapstructure:"cs"`
	DRDY   uint   `mapstructure:"drdy"` // 0 disables DRDY polling
}

type TransportConfig struct {
	Kind   string       `mapstructure:"kind"`
	Spidev SpidevConfig `mapstructure:"spidev"`
	FT232H FT232HConfig `mapstructure:"ft232h"`
}

type SamplingConfig struct {
	Rate  float64 `mapstructure:"rate"`  // conversions per second, 0 reads back to back
	Count int     `mapstructure:"count"` // 0 runs until interrupted
}

type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"` // console or json
	File   LumberjackConfig `mapstructure:"file"`
}

type MetricsConfig struct {
	Enable bool          `mapstructure:"enable"`
	Addr   string        `mapstructure:"addr"`
	Path   string        `mapstructure:"path"`
	Grace  time.Duration `mapstructure:"grace"`
}

type Config struct {
	Device    DeviceConfig    `mapstructure:"device"`
	Transport TransportConfig `mapstructure:"transport"`
	Sampling  SamplingConfig  `mapstructure:"sampling"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// Load reads path, or ADS131_CONFIG when path is empty, over the defaults.
// A missing file is not an error when no path was given.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("ADS131")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = v.GetString("CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("ads131")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := ads131a0x.DefaultConfig()
	v.SetDefault("device.variant", ads131a0x.ADS131A04.String())
	v.SetDefault("device.vref", def.VRef)
	v.SetDefault("device.clk1", def.CLK1)
	v.SetDefault("device.clk2", def.CLK2)
	v.SetDefault("device.aSysCfg", def.ASysCfg)
	v.SetDefault("device.channelMask", def.ChannelMask)
	v.SetDefault("device.verifyAck", false)

	v.SetDefault("transport.kind", TransportFT232H)
	v.SetDefault("transport.spidev.dev", spidev.DefaultConfig().Dev)
	v.SetDefault("transport.spidev.speed", spidev.DefaultSpeed)
	v.SetDefault("transport.ft232h.device", "")
	v.SetDefault("transport.ft232h.clock", 2000000)
	v.SetDefault("transport.ft232h.cs", 0x10)
	v.SetDefault("transport.ft232h.drdy", 0x01)

	v.SetDefault("sampling.rate", ads131a0x.DefaultDataRate)
	v.SetDefault("sampling.count", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 100)
	v.SetDefault("logging.file.maxBackups", 7)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", false)
	v.SetDefault("metrics.addr", ":9131")
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.grace", "5s")
}

func (c *Config) Validate() error {
	if _, err := c.Variant(); err != nil {
		return err
	}
	if c.Device.VRef <= 0 {
		return fmt.Errorf("device.vref must be positive, got %v", c.Device.VRef)
	}
	switch c.Transport.Kind {
	case TransportSim:
	case TransportFT232H:
		if _, err := ft232h.ParseDescriptor(c.Transport.FT232H.Device); err != nil {
			return err
		}
	case TransportSpidev:
		if err := c.Transport.Spidev.config().Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown transport %q", c.Transport.Kind)
	}
	if c.Sampling.Rate < 0 {
		return fmt.Errorf("sampling.rate must not be negative, got %v", c.Sampling.Rate)
	}
	if c.Sampling.Count < 0 {
		return fmt.Errorf("sampling.count must not be negative, got %d", c.Sampling.Count)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) Variant() (ads131a0x.Variant, error) {
	return ads131a0x.ParseVariant(c.Device.Variant)
}

// ADC converts the device section to the driver configuration. An
// internal reference enabled in aSysCfg overrides vref.
func (c *Config) ADC() ads131a0x.Config {
	return ads131a0x.Config{
		CLK1:        c.Device.CLK1,
		CLK2:        c.Device.CLK2,
		ASysCfg:     c.Device.ASysCfg,
		ChannelMask: c.Device.ChannelMask,
		VRef:        ads131a0x.ReferenceVoltage(c.Device.ASysCfg, c.Device.VRef),
		VerifyAck:   c.Device.VerifyAck,
	}
}

func (s SpidevConfig) config() spidev.Config {
	return spidev.Config{Dev: s.Dev, Speed: s.Speed}
}

func (c *Config) Spidev() spidev.Config {
	return c.Transport.Spidev.config()
}
