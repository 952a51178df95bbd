package conn

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// SPIMode is an alias for the periph SPI clock mode.
type SPIMode = spi.Mode

// SPI modes.
const (
	SPIMode0 = spi.Mode0
	SPIMode1 = spi.Mode1
	SPIMode2 = spi.Mode2
	SPIMode3 = spi.Mode3
)

// SPI is a connection on an opened SPI port.
type SPI struct {
	spi.Conn
	port spi.PortCloser
	hz   uint32
	mode SPIMode
}

// OpenSPI opens the named SPI port and connects with the requested speed,
// mode and word size. Use an empty name to use the first available port.
func OpenSPI(name string, hz uint32, mode SPIMode, bits int) (*SPI, error) {
	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("conn: SPI port %q: %w", name, err)
	}
	c, err := port.Connect(physic.Frequency(hz)*physic.Hertz, mode, bits)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("conn: SPI port %q: %w", name, err)
	}
	return &SPI{
		Conn: c,
		port: port,
		hz:   hz,
		mode: mode,
	}, nil
}

func (c *SPI) String() string {
	return fmt.Sprintf("SPI port %s mode=%d max speed=%dHz", c.port, c.mode, c.hz)
}

func (c *SPI) Close() error {
	return c.port.Close()
}
