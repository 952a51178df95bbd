package gfx

const (
	ssd1312DefaultWidth  = 128
	ssd1312DefaultHeight = 32
	ssd1312MaxWidth      = 128
	ssd1312MaxHeight     = 64
)

type ssd1312 struct {
	*pageDisplay
}

// SSD1312 is a driver for the Solomon Systech SSD1312 OLED controller.
//
// The controller should also support 64 rows, 32 rows is the tested panel.
func SSD1312(c Bus, config *Config) (Driver, error) {
	if config == nil {
		config = new(Config)
	}
	if config.Width == 0 {
		config.Width = ssd1312DefaultWidth
	}
	if config.Height == 0 {
		config.Height = ssd1312DefaultHeight
	}
	if err := validatePageSize("SSD1312", config.Width, config.Height, ssd1312MaxWidth, ssd1312MaxHeight); err != nil {
		return nil, err
	}

	d := &ssd1312{
		pageDisplay: newPageDisplay(c, "SSD1312", config, config.Width, config.Height),
	}
	d.startFlush = d.flushStart

	if err := d.init(config, [][]byte{
		{setDisplayOff},
		{setDisplayClockDiv, 0x80},
		{setMultiplexRatio, byte(config.Height - 1)},
		{setDisplayOffset, 0x30},
		{setStartLine},
		{setChargePump, 0x72}, // 0x10 if Vcc externally supplied
		{setSegmentRemap},
		{setComScanInc},
		{setComPins, 0x10},
		{setIRef, 0x50},
		{setContrast, 0x17},
		{setPrecharge, 0xF1},
		{setVComDetect, 0x30},
		{setDisplayAllOnResume},
		{setNormalDisplay},
		{setDisplayOn},
	}); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *ssd1312) flushStart() error {
	return d.c.Command(setStartLine)
}
