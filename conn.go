package gfx

import (
	"fmt"
	"io"
	"sync"

	pconn "periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"

	"github.com/BeatGlow/gfx/conn"
	"github.com/BeatGlow/gfx/internal/log"
)

// Bus is the transport between a driver and its controller.
//
// Acquire and Release bracket every transaction so that several displays can
// share one physical bus.
type Bus interface {
	String() string

	// Close the connection.
	Close() error

	// Acquire exclusive use of the bus.
	Acquire()

	// Release the bus.
	Release()

	// Reset sets the reset pin to the provided level.
	Reset(gpio.Level) error

	// Command sends a command byte with optional arguments.
	Command(byte, ...byte) error

	// Data sends data bytes.
	Data(...byte) error
}

// BusReader is a Bus that can read back data bytes.
type BusReader interface {
	Bus

	// ReadData fills p with data bytes from the controller.
	ReadData(p []byte) error
}

// Control bytes for SSD1xxx style I²C framing.
const (
	i2cCommand = 0x00
	i2cData    = 0x40
)

// I2CConfig describes the I²C bus configuration.
type I2CConfig struct {
	// Bus is the periph bus name, empty to use the first available bus.
	Bus string

	// Addr is the I²C address.
	Addr uint16

	// RawData sends data bytes without the data control byte, for
	// framebuffers that carry it as their page prefix.
	RawData bool

	// Reset pin, optional.
	Reset gpio.PinOut

	// Lock is shared by all displays on the same physical bus, optional.
	Lock sync.Locker
}

// DefaultI2CConfig are the default configuration values.
var DefaultI2CConfig = I2CConfig{
	Addr: 0x3c,
}

type i2cBus struct {
	c       pconn.Conn
	lock    sync.Locker
	reset   gpio.PinOut
	rawData bool
}

// OpenI2C opens a display on an I²C bus from the periph registry.
func OpenI2C(config *I2CConfig) (Bus, error) {
	if config == nil {
		config = new(I2CConfig)
		*config = DefaultI2CConfig
	}
	if config.Addr == 0 {
		config.Addr = DefaultI2CConfig.Addr
	}

	c, err := conn.OpenI2C(config.Bus, config.Addr)
	if err != nil {
		return nil, err
	}
	return NewI2C(c, config), nil
}

// NewI2C uses an existing periph connection, which is closed with the bus if
// it implements io.Closer.
func NewI2C(c pconn.Conn, config *I2CConfig) Bus {
	if config == nil {
		config = &DefaultI2CConfig
	}
	return &i2cBus{
		c:       c,
		lock:    lockOrNew(config.Lock),
		reset:   config.Reset,
		rawData: config.RawData,
	}
}

func (c *i2cBus) String() string {
	return c.c.String()
}

func (c *i2cBus) Close() error {
	if closer, ok := c.c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *i2cBus) Acquire() { c.lock.Lock() }
func (c *i2cBus) Release() { c.lock.Unlock() }

func (c *i2cBus) Reset(level gpio.Level) error {
	return resetPin(c.reset, level)
}

func (c *i2cBus) Command(cmnd byte, args ...byte) error {
	return c.c.Tx(append([]byte{i2cCommand, cmnd}, args...), nil)
}

func (c *i2cBus) Data(data ...byte) error {
	if c.rawData {
		return c.c.Tx(data, nil)
	}
	return c.c.Tx(append([]byte{i2cData}, data...), nil)
}

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	// Port is the periph port name, empty to use the first available port.
	Port string

	Mode    conn.SPIMode
	SpeedHz uint32

	// DataLow inverts the data/command pin levels.
	DataLow bool

	// DataArgs sends command arguments in data mode, as RGB controllers
	// expect. Page controllers take their arguments in command mode.
	DataArgs bool

	// BatchSize is the maximum number of bytes per transfer.
	BatchSize uint

	Reset gpio.PinOut
	DC    gpio.PinOut
	CE    gpio.PinOut

	// Lock is shared by all displays on the same physical bus, optional.
	Lock sync.Locker
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	Mode:      conn.SPIMode0,
	SpeedHz:   8_000_000,
	BatchSize: 4096,
}

// ValidSPISpeeds are common valid SPI bus speeds.
var ValidSPISpeeds = []uint32{
	500_000,
	1_000_000,
	2_000_000,
	4_000_000,
	8_000_000,
	16_000_000,
	20_000_000,
	24_000_000,
	28_000_000,
	32_000_000,
	36_000_000,
	40_000_000,
	48_000_000,
	50_000_000,
	52_000_000,
}

type spiBus struct {
	c         spi.Conn
	lock      sync.Locker
	reset     gpio.PinOut
	dc        gpio.PinOut
	dcLevel   gpio.Level
	dcValid   bool
	cs        gpio.PinOut
	dataLow   bool
	dataArgs  bool
	batchSize uint
}

// OpenSPI opens a display on a 4-wire SPI port from the periph registry.
func OpenSPI(config *SPIConfig) (Bus, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}
	if config.SpeedHz == 0 {
		config.SpeedHz = DefaultSPIConfig.SpeedHz
	}
	if !ValidSPISpeed(config.SpeedHz) {
		return nil, fmt.Errorf("gfx: invalid SPI speed %dHz", config.SpeedHz)
	}
	if !validPin(config.DC) {
		return nil, ErrDCPin
	}

	c, err := conn.OpenSPI(config.Port, config.SpeedHz, config.Mode, 8)
	if err != nil {
		return nil, err
	}
	b, err := NewSPI(c, config)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return b, nil
}

// NewSPI uses an existing periph connection, which is closed with the bus if
// it implements io.Closer.
func NewSPI(c spi.Conn, config *SPIConfig) (Bus, error) {
	if config == nil {
		config = &DefaultSPIConfig
	}
	if !validPin(config.DC) {
		return nil, ErrDCPin
	}
	if config.Reset == gpio.INVALID {
		return nil, ErrResetPin
	}
	batchSize := config.BatchSize
	if batchSize == 0 {
		batchSize = DefaultSPIConfig.BatchSize
	}
	return &spiBus{
		c:         c,
		lock:      lockOrNew(config.Lock),
		reset:     config.Reset,
		dc:        config.DC,
		cs:        config.CE,
		dataLow:   config.DataLow,
		dataArgs:  config.DataArgs,
		batchSize: batchSize,
	}, nil
}

// ValidSPISpeed reports if hz is one of the ValidSPISpeeds.
func ValidSPISpeed(hz uint32) bool {
	for _, speed := range ValidSPISpeeds {
		if speed == hz {
			return true
		}
	}
	return false
}

func (c *spiBus) String() string {
	return fmt.Sprintf("SPI bus %s", c.c)
}

func (c *spiBus) Close() error {
	if closer, ok := c.c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *spiBus) Acquire() { c.lock.Lock() }
func (c *spiBus) Release() { c.lock.Unlock() }

func (c *spiBus) Reset(level gpio.Level) error {
	return resetPin(c.reset, level)
}

func (c *spiBus) updateDC(level gpio.Level) error {
	if !c.dcValid || c.dcLevel != level {
		if err := c.dc.Out(level); err != nil {
			return err
		}
		c.dcLevel, c.dcValid = level, true
	}
	return nil
}

func (c *spiBus) updateCS(level gpio.Level) error {
	if c.cs == nil {
		return nil
	}
	return c.cs.Out(level)
}

func (c *spiBus) Command(cmnd byte, args ...byte) (err error) {
	if err = c.updateCS(gpio.Low); err != nil {
		return
	}
	defer func() {
		if csErr := c.updateCS(gpio.High); err == nil {
			err = csErr
		}
	}()

	if err = c.updateDC(gpio.Level(c.dataLow)); err != nil {
		return
	}
	if len(args) == 0 || !c.dataArgs {
		return c.writeChunked(append([]byte{cmnd}, args...))
	}
	if err = c.writeChunked([]byte{cmnd}); err != nil {
		return
	}
	if err = c.updateDC(gpio.Level(!c.dataLow)); err != nil {
		return
	}
	return c.writeChunked(args)
}

func (c *spiBus) Data(data ...byte) (err error) {
	if len(data) == 0 {
		return
	}
	if err = c.updateDC(gpio.Level(!c.dataLow)); err != nil {
		return
	}
	if err = c.updateCS(gpio.Low); err != nil {
		return
	}
	defer func() {
		if csErr := c.updateCS(gpio.High); err == nil {
			err = csErr
		}
	}()
	return c.writeChunked(data)
}

func (c *spiBus) writeChunked(data []byte) (err error) {
	size := int(c.batchSize)
	if len(data) <= size {
		return c.c.Tx(data, nil)
	}

	log.Debug("gfx: chunked SPI write", "bytes", len(data), "chunks", (len(data)+size-1)/size)
	for len(data) > 0 {
		n := size
		if n > len(data) {
			n = len(data)
		}
		if err = c.c.Tx(data[:n], nil); err != nil {
			return
		}
		data = data[n:]
	}
	return
}

func lockOrNew(l sync.Locker) sync.Locker {
	if l == nil {
		return new(sync.Mutex)
	}
	return l
}

func validPin(p gpio.PinOut) bool {
	return p != nil && p != gpio.INVALID
}

func resetPin(p gpio.PinOut, level gpio.Level) error {
	if p == nil {
		return nil
	}
	if p == gpio.INVALID {
		return ErrResetPin
	}
	return p.Out(level)
}
