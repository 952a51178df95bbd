// Command gfx-demo drives a display from a YAML configuration: it shows a
// splash screen followed by a small widget screen refreshed on a cron
// schedule. The "term" bus renders page controllers in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/image/font"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/gfx"
	"github.com/BeatGlow/gfx/conn"
	"github.com/BeatGlow/gfx/draw"
	"github.com/BeatGlow/gfx/emulator"
	"github.com/BeatGlow/gfx/internal/config"
	"github.com/BeatGlow/gfx/internal/log"
)

type flagConfig struct {
	configPath string
	bus        string
	driver     string
	rotate     string
	once       bool
}

type driverInfo struct {
	open          func(gfx.Bus, *gfx.Config) (gfx.Driver, error)
	width, height int
	columnOffset  func(width int) int
	dataArgs      bool
}

var drivers = map[string]driverInfo{
	"ssd1312": {open: gfx.SSD1312, width: 128, height: 32},
	"ssd1306": {open: gfx.SSD1306, width: 128, height: 64, columnOffset: func(width int) int {
		if width == 64 {
			return 32
		}
		return 0
	}},
	"sh1106":  {open: gfx.SH1106, width: 128, height: 64, columnOffset: func(int) int { return 2 }},
	"ili9320": {open: gfx.ILI9320, width: 240, height: 320, dataArgs: true},
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		fatal("failed to load config", err, "config_path", flags.configPath)
	}
	if flags.bus != "" {
		conf.Bus.Type = flags.bus
	}
	if flags.driver != "" {
		conf.Driver = flags.driver
	}
	if flags.rotate != "" {
		conf.Orientation = flags.rotate
	}
	conf.Normalize()
	if err = conf.Validate(); err != nil {
		fatal("invalid config", err, "config_path", flags.configPath)
	}
	if level, err := log.ParseLevel(conf.LogLevel); err == nil && !log.Enabled(log.LevelDebug) {
		log.SetLevel(level)
	}

	log.Info("effective config",
		"driver", conf.Driver,
		"bus", conf.Bus.Type,
		"orientation", conf.Orientation,
		"refresh", conf.RefreshCron,
	)

	if conf.Bus.Type != config.BusTerminal {
		if _, err = host.Init(); err != nil {
			fatal("failed to initialize host drivers", err)
		}
	}

	info := drivers[conf.Driver]
	display, err := conf.Display()
	if err != nil {
		fatal("invalid display config", err)
	}
	if display.Backlight, err = pin(conf.Bus.Backlight); err != nil {
		fatal("invalid backlight pin", err)
	}

	bus, err := openBus(conf, info)
	if err != nil {
		fatal("failed to open bus", err, "bus", conf.Bus.Type)
	}
	log.Info("using connection", "bus", bus.String())

	drv, err := info.open(bus, display)
	if err != nil {
		fatal("failed to initialize driver", err, "driver", conf.Driver)
	}
	d, err := gfx.New(drv)
	if err != nil {
		fatal("unusable driver", err, "driver", conf.Driver)
	}
	defer d.Close()
	log.Info("using driver", "driver", d.String(), "capabilities", d.Capabilities().String())

	if conf.Contrast != nil {
		if err = d.SetContrast(*conf.Contrast); err != nil {
			log.Error("failed to set contrast", err)
		}
	}

	face, err := loadFace(conf)
	if err != nil {
		fatal("failed to load font", err, "font", conf.Font)
	}

	if !flags.once {
		if err = d.Draw(d.Bounds(), splash(d.Bounds().Size(), face, "gfx"), d.Bounds().Min); err != nil {
			log.Error("failed to draw splash", err)
		}
		time.Sleep(2 * time.Second)
		d.Clear()
	}

	s, err := newScreen(d, face)
	if err != nil {
		fatal("failed to build screen", err)
	}
	s.refresh(time.Now())
	if flags.once {
		return
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := cron.New()
	if _, err = c.AddFunc(conf.RefreshCron, func() { s.refresh(time.Now()) }); err != nil {
		fatal("invalid refresh schedule", err, "refresh", conf.RefreshCron)
	}
	c.Start()

	<-ctx.Done()
	log.Info("signal received, shutting down")
	<-c.Stop().Done()

	if err = d.Halt(); err != nil {
		log.Error("failed to turn the display off", err)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "gfx.yaml", "Path to config file")
	flag.StringVar(&cfg.bus, "bus", "", "Bus type: i2c, spi or term (overrides config if set)")
	flag.StringVar(&cfg.driver, "driver", "", "Display driver (overrides config if set)")
	flag.StringVar(&cfg.rotate, "rotate", "", "Display rotation (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Draw the screen once and exit")

	flag.Parse()

	return cfg
}

func openBus(conf *config.Config, info driverInfo) (gfx.Bus, error) {
	reset, err := pin(conf.Bus.Reset)
	if err != nil {
		return nil, err
	}

	switch conf.Bus.Type {
	case config.BusI2C:
		return gfx.OpenI2C(&gfx.I2CConfig{
			Bus:     conf.Bus.Name,
			Addr:    conf.Bus.Addr,
			RawData: conf.Bus.RawData || conf.PagePrefix != nil,
			Reset:   reset,
		})

	case config.BusSPI:
		dc, err := pin(conf.Bus.DC)
		if err != nil {
			return nil, err
		}
		return gfx.OpenSPI(&gfx.SPIConfig{
			Port:      conf.Bus.Name,
			Mode:      conn.SPIMode(conf.Bus.Mode),
			SpeedHz:   conf.Bus.SpeedHz,
			DataArgs:  info.dataArgs,
			BatchSize: gfx.DefaultSPIConfig.BatchSize,
			Reset:     reset,
			DC:        dc,
		})

	case config.BusTerminal:
		if info.dataArgs {
			return nil, fmt.Errorf("terminal emulator does not support the %s driver", conf.Driver)
		}
		opts := &emulator.Opts{
			Width:      conf.Width,
			Height:     conf.Height,
			SkipPrefix: conf.PagePrefix != nil,
		}
		if opts.Width == 0 {
			opts.Width = info.width
		}
		if opts.Height == 0 {
			opts.Height = info.height
		}
		if info.columnOffset != nil {
			opts.ColumnOffset = info.columnOffset(opts.Width)
		}
		return emulator.New(opts)

	default:
		return nil, fmt.Errorf("unsupported bus type %q", conf.Bus.Type)
	}
}

// pin looks up a GPIO pin by name, an empty name is no pin.
func pin(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	return p, nil
}

func loadFace(conf *config.Config) (font.Face, error) {
	if conf.Font == "" {
		return draw.DefaultFace, nil
	}
	ttf, err := os.ReadFile(conf.Font)
	if err != nil {
		return nil, err
	}
	return draw.LoadFont(ttf, conf.FontSize)
}

func fatal(msg string, err error, kv ...any) {
	log.Error(msg, err, kv...)
	os.Exit(1)
}
