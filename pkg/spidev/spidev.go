// Package spidev connects an ADS131A0x through the Linux spidev driver,
// e.g. /dev/spidev0.0 on a Raspberry Pi.
package spidev

import (
	"fmt"

	"golang.org/x/exp/io/spi"

	"github.com/yunginnanet/ftdi-ads131a0x/pkg/ads131a0x"
)

// MinSpeed and MaxSpeed bound the SCLK the Pi's SPI block can generate
// (250MHz core clock divided by 2..65534).
const (
	MinSpeed = 3815
	MaxSpeed = 125000000

	DefaultSpeed = 2000000
)

type Config struct {
	Dev   string // e.g. /dev/spidev0.0, the minor number selects CS
	Speed int64  // Hz
}

func DefaultConfig() Config {
	return Config{Dev: "/dev/spidev0.0", Speed: DefaultSpeed}
}

func (c Config) Validate() error {
	if c.Dev == "" {
		return fmt.Errorf("spidev: empty device path")
	}
	if c.Speed < MinSpeed || c.Speed > MaxSpeed {
		return fmt.Errorf("spidev: speed %dHz out of range [%d, %d]", c.Speed, MinSpeed, MaxSpeed)
	}
	return nil
}

// Device is an spidev handle set up for the ADS131A0x: mode 1, MSB first, 8-bit words.
type Device struct {
	dev *spi.Device
	cfg Config
}

func Open(cfg Config) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dev, err := spi.Open(&spi.Devfs{
		Dev:      cfg.Dev,
		Mode:     spi.Mode1,
		MaxSpeed: cfg.Speed,
	})
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", cfg.Dev, err)
	}
	if err = dev.SetBitOrder(spi.MSBFirst); err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("could not set bit order: %w", err)
	}
	if err = dev.SetBitsPerWord(8); err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("could not set bits per word: %w", err)
	}
	return &Device{dev: dev, cfg: cfg}, nil
}

// Transfer performs one full duplex transfer with CS held for all of tx.
func (d *Device) Transfer(tx, rx []byte) error {
	if len(tx) != len(rx) {
		return fmt.Errorf("%w: tx=%d rx=%d", ads131a0x.ErrFrameLength, len(tx), len(rx))
	}
	return d.dev.Tx(tx, rx)
}

func (d *Device) Close() error {
	return d.dev.Close()
}

func (d *Device) String() string {
	return fmt.Sprintf("spidev[%s@%dHz]", d.cfg.Dev, d.cfg.Speed)
}

var _ ads131a0x.SerialInterface = (*Device)(nil)
