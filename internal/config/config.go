// Package config holds the YAML configuration of the gfx-demo command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/BeatGlow/gfx"
	"github.com/BeatGlow/gfx/internal/log"
)

// Supported drivers.
var Drivers = []string{"ssd1312", "ssd1306", "sh1106", "ili9320"}

// Supported bus types.
const (
	BusI2C      = "i2c"
	BusSPI      = "spi"
	BusTerminal = "term"
)

// BusConfig describes how the display is connected.
type BusConfig struct {
	// Type is one of "i2c", "spi" or "term" (terminal emulator).
	Type string `yaml:"type"`

	// Name is the I²C bus or SPI port name, empty for the first one.
	Name string `yaml:"name,omitempty"`

	// Addr is the I²C device address.
	Addr uint16 `yaml:"addr,omitempty"`

	// RawData sends I²C data without a control byte, for page buffers
	// carrying the data prefix themselves.
	RawData bool `yaml:"raw_data,omitempty"`

	// SpeedHz is the SPI clock.
	SpeedHz uint32 `yaml:"speed_hz,omitempty"`

	// Mode is the SPI mode (0-3).
	Mode int `yaml:"mode,omitempty"`

	// Pin names as known by gpioreg.
	DC        string `yaml:"dc,omitempty"`
	Reset     string `yaml:"reset,omitempty"`
	Backlight string `yaml:"backlight,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// Driver is the display controller.
	Driver string `yaml:"driver"`

	// Width and Height of the panel, 0 for the driver default.
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`

	// Orientation is "0", "90", "180" or "270" (or an alias like "left").
	Orientation string `yaml:"orientation"`

	// Contrast in percent, nil keeps the driver default.
	Contrast *int `yaml:"contrast,omitempty"`

	// PagePrefix, if set, is sent in front of every page of display memory.
	PagePrefix *int `yaml:"page_prefix,omitempty"`

	Bus BusConfig `yaml:"bus"`

	// RefreshCron is a cron schedule for redrawing the screen.
	RefreshCron string `yaml:"refresh"`

	// LogLevel is "debug", "info" or "error".
	LogLevel string `yaml:"log_level"`

	// Font is the path to a TrueType font, empty for the built-in face.
	Font     string  `yaml:"font,omitempty"`
	FontSize float64 `yaml:"font_size,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Driver:      "ssd1312",
		Orientation: "0",
		Bus: BusConfig{
			Type: BusTerminal,
		},
		RefreshCron: "* * * * *",
		LogLevel:    "info",
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	if c.Driver == "" {
		c.Driver = "ssd1312"
	}
	if c.Orientation == "" {
		c.Orientation = "0"
	}
	if c.Contrast != nil {
		v := *c.Contrast
		if v < 0 {
			v = 0
		} else if v > 100 {
			v = 100
		}
		c.Contrast = &v
	}

	c.Bus.Type = strings.ToLower(strings.TrimSpace(c.Bus.Type))
	switch c.Bus.Type {
	case "":
		c.Bus.Type = BusTerminal
	case BusI2C:
		if c.Bus.Addr == 0 {
			c.Bus.Addr = gfx.DefaultI2CConfig.Addr
		}
	case BusSPI:
		if c.Bus.SpeedHz == 0 {
			c.Bus.SpeedHz = gfx.DefaultSPIConfig.SpeedHz
		}
	}

	if c.RefreshCron == "" {
		c.RefreshCron = "* * * * *"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Font != "" && c.FontSize <= 0 {
		c.FontSize = 12
	}
}

// Validate reports the first setting that can not be used.
func (c *Config) Validate() error {
	if !isDriver(c.Driver) {
		return fmt.Errorf("config: unknown driver %q", c.Driver)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("config: invalid size %dx%d", c.Width, c.Height)
	}
	if _, err := gfx.ParseOrientation(c.Orientation); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Bus.Type {
	case BusI2C, BusTerminal:
	case BusSPI:
		if c.Bus.Mode < 0 || c.Bus.Mode > 3 {
			return fmt.Errorf("config: invalid SPI mode %d", c.Bus.Mode)
		}
		if !gfx.ValidSPISpeed(c.Bus.SpeedHz) {
			return fmt.Errorf("config: invalid SPI speed %d", c.Bus.SpeedHz)
		}
		if c.Bus.DC == "" {
			return fmt.Errorf("config: SPI bus needs a DC pin: %w", gfx.ErrDCPin)
		}
	default:
		return fmt.Errorf("config: unknown bus type %q", c.Bus.Type)
	}
	if c.PagePrefix != nil && (*c.PagePrefix < 0 || *c.PagePrefix > 0xff) {
		return fmt.Errorf("config: page prefix %#x is not a byte", *c.PagePrefix)
	}
	if _, err := cron.ParseStandard(c.RefreshCron); err != nil {
		return fmt.Errorf("config: invalid refresh schedule %q: %w", c.RefreshCron, err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func isDriver(name string) bool {
	for _, driver := range Drivers {
		if driver == name {
			return true
		}
	}
	return false
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist a default config is written with 0600
// permissions and returned. Otherwise the YAML is read and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			log.Info("config: created default config", "path", path)
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically via a temp file and rename, creating
// the parent directory (0700) if needed. The file ends up with 0600
// permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config: path is empty")
	}
	if cfg == nil {
		return errors.New("config: config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".gfx-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

// Display returns the driver configuration.
func (c *Config) Display() (*gfx.Config, error) {
	o, err := gfx.ParseOrientation(c.Orientation)
	if err != nil {
		return nil, err
	}
	config := &gfx.Config{
		Width:       c.Width,
		Height:      c.Height,
		Orientation: o,
	}
	if c.PagePrefix != nil {
		prefix := byte(*c.PagePrefix)
		config.PagePrefix = &prefix
	}
	return config, nil
}
