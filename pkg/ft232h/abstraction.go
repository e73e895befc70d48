package ft232h

import (
	"context"
	"fmt"
	"time"

	"github.com/yunginnanet/ft232h"

	"github.com/yunginnanet/ftdi-ads131a0x/pkg/ads131a0x"
)

// SPIConfig holds the bus settings for the ADC.
type SPIConfig struct {
	Clock uint32 // Hz
	CS    uint   // chip select pin mask on the C bus
	// ActiveLow asserts CS on logic low, as the ADS131A0x expects.
	ActiveLow bool
}

func DefaultSPIConfig() SPIConfig {
	return SPIConfig{
		Clock:     2000000,
		CS:        0x10,
		ActiveLow: true,
	}
}

// ConfigSPI applies cfg to the MPSSE SPI engine, always in mode 1: the
// ADS131A0x latches on the falling edge of SCLK.
func (ft *FT232H) ConfigSPI(cfg SPIConfig) error {
	spiCfg := ft.SPI.GetConfig()
	spiCfg.Clock = cfg.Clock
	spiCfg.CS = ft232h.C(cfg.CS)
	spiCfg.Mode = 1
	spiCfg.ActiveLow = cfg.ActiveLow
	if err := ft.SPI.Config(spiCfg); err != nil {
		return fmt.Errorf("failed to configure SPI: %w", err)
	}
	return nil
}

// Transfer asserts CS, swaps tx for the same number of bytes read into rx,
// then releases CS.
func (ft *FT232H) Transfer(tx, rx []byte) error {
	if len(tx) != len(rx) {
		return fmt.Errorf("%w: tx=%d rx=%d", ads131a0x.ErrFrameLength, len(tx), len(rx))
	}
	b, err := ft.SPI.Swap(tx, true, true)
	if err != nil {
		return err
	}
	if len(b) != len(rx) {
		return fmt.Errorf("short exchange: got %d bytes, want %d", len(b), len(rx))
	}
	copy(rx, b)
	return nil
}

func (ft *FT232H) SetDRDY(pin uint) error {
	ft.drdyPin = ft232h.CPin(pin)
	ft.drdySet = true
	return ft.GPIO.ConfigPin(ft.drdyPin, ft232h.Input, true)
}

// WaitDRDY blocks until DRDY is pulled low, or returns at once when no DRDY
// pin was configured.
func (ft *FT232H) WaitDRDY(ctx context.Context) error {
	if !ft.drdySet {
		return nil
	}
	for {
		hl, err := ft.FT232H.GPIO.Get(ft.drdyPin)
		if err != nil {
			return fmt.Errorf("failed to read DRDY pin: %w", err)
		}
		if !hl {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Microsecond):
		}
	}
}

func (ft *FT232H) Close() error {
	return ft.FT232H.Close()
}

var (
	_ ads131a0x.SerialInterface = (*FT232H)(nil)
	_ ads131a0x.DataReadyWaiter = (*FT232H)(nil)
)
