// Package conn opens periph buses by name for the display transports.
package conn

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// I2C is a device on an opened I²C bus.
type I2C struct {
	i2c.Dev
	bus i2c.BusCloser
}

// OpenI2C opens the named I²C bus, use an empty name to use the first
// available bus.
func OpenI2C(name string, addr uint16) (*I2C, error) {
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("conn: I²C bus %q: %w", name, err)
	}
	return &I2C{
		Dev: i2c.Dev{Bus: bus, Addr: addr},
		bus: bus,
	}, nil
}

func (c *I2C) String() string {
	return fmt.Sprintf("I²C bus %s address %#02x", c.bus, c.Addr)
}

func (c *I2C) Close() error {
	return c.bus.Close()
}
