// Package gfx contains drivers for small graphic displays and a dispatcher
// that adapts them to the standard image/draw interfaces.
//
// Drivers declare what they can do natively with a set of capability flags.
// A Display wraps any driver and emulates missing operations with the ones
// the driver does provide.
package gfx

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/gfx/internal/log"
)

func init() {
	if os.Getenv("GFX_DEBUG") != "" {
		log.SetLevel(log.LevelDebug)
	}
}

// Errors
var (
	ErrBounds     = errors.New("gfx: out of display bounds")
	ErrSize       = errors.New("gfx: unsupported display size")
	ErrCapability = errors.New("gfx: driver does not implement declared capability")
	ErrResetPin   = errors.New("gfx: reset GPIO pin is invalid")
	ErrDCPin      = errors.New("gfx: data/command (DC) GPIO pin is invalid")
)

// Orientation defines the logical rotation of the display.
type Orientation uint8

// Supported orientations.
const (
	Orientation0   Orientation = iota
	Orientation90              // Rotate 90° clock wise
	Orientation180             // Rotate 180°
	Orientation270             // Rotate 270° clock wise
)

func (o Orientation) String() string {
	switch o {
	case Orientation0:
		return "0°"
	case Orientation90:
		return "90°"
	case Orientation180:
		return "180°"
	case Orientation270:
		return "270°"
	default:
		return fmt.Sprintf("Orientation(%d)", uint8(o))
	}
}

// Valid reports if o is one of the supported orientations.
func (o Orientation) Valid() bool {
	return o <= Orientation270
}

// ParseOrientation parses the command line and configuration file spelling of
// an orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSuffix(s, "°")) {
	case "", "no", "0":
		return Orientation0, nil
	case "90", "right", "cw":
		return Orientation90, nil
	case "180", "flip":
		return Orientation180, nil
	case "270", "left", "ccw":
		return Orientation270, nil
	default:
		return Orientation0, fmt.Errorf("gfx: invalid orientation %q", s)
	}
}

// PowerMode is the display power state.
type PowerMode uint8

// Power modes.
const (
	PowerOff PowerMode = iota
	PowerSleep
	PowerDeepSleep
	PowerOn
)

func (p PowerMode) String() string {
	switch p {
	case PowerOff:
		return "off"
	case PowerSleep:
		return "sleep"
	case PowerDeepSleep:
		return "deep sleep"
	case PowerOn:
		return "on"
	default:
		return fmt.Sprintf("PowerMode(%d)", uint8(p))
	}
}

// ControlOp selects a control channel operation.
type ControlOp uint8

// Control operations.
const (
	ControlPower ControlOp = iota
	ControlOrientation
	ControlBacklight
	ControlContrast
	ControlInverse
)

func (op ControlOp) String() string {
	switch op {
	case ControlPower:
		return "power"
	case ControlOrientation:
		return "orientation"
	case ControlBacklight:
		return "backlight"
	case ControlContrast:
		return "contrast"
	case ControlInverse:
		return "inverse"
	default:
		return fmt.Sprintf("ControlOp(%d)", uint8(op))
	}
}

// Capability is a set of natively supported driver operations.
type Capability uint16

// Capabilities.
const (
	CapStreamWrite Capability = 1 << iota // StreamWriter
	CapStreamRead                         // StreamReader
	CapStreamPos                          // StreamPositioner
	CapFill                               // AreaFiller
	CapDrawPixel                          // PixelDrawer
	CapPixelRead                          // PixelReader
	CapControl                            // Controller
	CapFlush                              // Flusher
)

var capabilityNames = []string{
	"stream-write",
	"stream-read",
	"stream-pos",
	"fill",
	"draw-pixel",
	"pixel-read",
	"control",
	"flush",
}

// Has reports if all capabilities in c are set.
func (caps Capability) Has(c Capability) bool {
	return caps&c == c
}

func (caps Capability) String() string {
	var names []string
	for i, name := range capabilityNames {
		if caps&(1<<uint(i)) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// State is the control state of a display as seen by the caller. Width and
// Height are logical dimensions and swap for 90° and 270° orientations.
type State struct {
	Width       int
	Height      int
	Orientation Orientation
	Power       PowerMode
	Contrast    int
	Backlight   int
	Inverse     bool
}

// Config is the display configuration.
type Config struct {
	// Width of the display in pixels, zero selects the driver default.
	Width int

	// Height of the display in pixels, zero selects the driver default.
	Height int

	// Orientation of the display.
	Orientation Orientation

	// PagePrefix is stamped once at the start of every page row of page
	// organized framebuffers and sent along with the page data. Use with a
	// bus that does not add its own data control byte.
	PagePrefix *byte

	// Backlight pin, used by drivers with a PWM backlight.
	Backlight gpio.PinOut

	// InitBoard is called before the controller is reset.
	InitBoard func(Bus) error

	// PostInitBoard is called after the controller init sequence.
	PostInitBoard func(Bus) error
}

func clampPercent(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
