package main

import (
	"fmt"
	"math"

	"github.com/yunginnanet/ftdi-ads131a0x/internal/config"
	"github.com/yunginnanet/ftdi-ads131a0x/pkg/ads131a0x"
	"github.com/yunginnanet/ftdi-ads131a0x/pkg/ft232h"
	"github.com/yunginnanet/ftdi-ads131a0x/pkg/sim"
	"github.com/yunginnanet/ftdi-ads131a0x/pkg/spidev"
)

func openTransport(cfg *config.Config, variant ads131a0x.Variant) (ads131a0x.SerialInterface, error) {
	switch cfg.Transport.Kind {
	case config.TransportSim:
		dev := sim.New(variant)
		// 1Hz sine per channel at the configured data rate, phase shifted by channel
		amp := ads131a0x.FromVoltage(cfg.Device.VRef/2, ads131a0x.FullScale, cfg.Device.VRef)
		rate := cfg.Sampling.Rate
		if rate <= 0 {
			rate = ads131a0x.DefaultDataRate
		}
		dev.SetSource(func(ch, n int) int32 {
			phase := 2*math.Pi*float64(n)/rate + float64(ch)*math.Pi/2
			return int32(float64(amp) * math.Sin(phase))
		})
		log.Info().Stringer("variant", variant).Msg("using simulated device")
		return dev, nil

	case config.TransportSpidev:
		dev, err := spidev.Open(cfg.Spidev())
		if err != nil {
			return nil, err
		}
		log.Info().Msgf("connected to %s", dev)
		return dev, nil

	case config.TransportFT232H:
		return openFT232H(cfg.Transport.FT232H)
	}
	return nil, fmt.Errorf("unknown transport %q", cfg.Transport.Kind)
}

func openFT232H(cfg config.FT232HConfig) (*ft232h.FT232H, error) {
	desc, err := ft232h.ParseDescriptor(cfg.Device)
	if err != nil {
		return nil, err
	}

	ft, err := ft232h.ConnectFT232h(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to FT232H: %w", err)
	}

	log.Info().Any("info", ft.Info()).
		Msgf("connected to FT232H: %s", ft)

	spiCfg := ft232h.DefaultSPIConfig()
	spiCfg.Clock = cfg.Clock
	spiCfg.CS = cfg.CS

	log.Debug().Any("config", spiCfg).Msg("initializing SPI")
	if err = ft.ConfigSPI(spiCfg); err != nil {
		_ = ft.Close()
		return nil, err
	}

	if cfg.DRDY != 0 {
		if err = ft.SetDRDY(cfg.DRDY); err != nil {
			_ = ft.Close()
			return nil, fmt.Errorf("failed to configure DRDY: %w", err)
		}
	}
	return ft, nil
}

// formatStatus renders a settled status word with the acknowledgement it matches, if any.
func formatStatus(status uint16) string {
	switch status {
	case ads131a0x.AckUnlock:
		return fmt.Sprintf("0x%04X (UNLOCK ack)", status)
	case ads131a0x.AckLock:
		return fmt.Sprintf("0x%04X (LOCK ack)", status)
	case ads131a0x.AckWakeup:
		return fmt.Sprintf("0x%04X (WAKEUP ack)", status)
	case ads131a0x.AckStandby:
		return fmt.Sprintf("0x%04X (STANDBY ack)", status)
	case ads131a0x.ReadyA04, ads131a0x.ReadyA02:
		return fmt.Sprintf("0x%04X (READY)", status)
	}
	return fmt.Sprintf("0x%04X", status)
}
