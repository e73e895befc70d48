package ads131a0x

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

type Register byte

// ADS131A0x provides control over a TI ADS131A04 or ADS131A02 ADC
// running in fixed frame, 24-bit device word mode.
//
// Every method holds the device lock for the whole exchange, so a single
// instance may be shared; the bus itself must not be shared with other
// devices without external arbitration.
type ADS131A0x struct {
	mu    sync.Mutex
	spi   SerialInterface
	codec Codec
	cfg   Config
	log   zerolog.Logger
	bufs  *frameBufs
	state State

	// Last read or written register states (for reference or debugging)
	regLR [NumRegisters]byte // "Last Read"  register data
	regLW [NumRegisters]byte // "Last Write" register data
}

// Config represents user-level configuration parameters
type Config struct {
	CLK1    byte // CLK_DIV
	CLK2    byte // ICLK_DIV and OSR
	ASysCfg byte // A_SYS_CFG, reference and charge pump

	// ChannelMask is written to ADC_ENA by Start.
	ChannelMask byte

	// VRef is the reference voltage in volts used to scale codes.
	VRef float64

	// VerifyAck makes every command check the status word the device answers with.
	VerifyAck bool
}

// DefaultConfig provides the 500 SPS, external 2.5V reference setup.
func DefaultConfig() Config {
	return Config{
		CLK1:        DefaultCLK1,
		CLK2:        DefaultCLK2,
		ASysCfg:     DefaultASYSCFG,
		ChannelMask: ADCENAAll,
		VRef:        DefaultVRef,
	}
}

type Option func(*ADS131A0x)

func WithLogger(l zerolog.Logger) Option {
	return func(adc *ADS131A0x) {
		adc.log = l.With().Str("device", adc.codec.Variant().String()).Logger()
	}
}

func WithConfig(cfg Config) Option {
	return func(adc *ADS131A0x) {
		adc.cfg = cfg
	}
}

// NewADS131A0x constructs a driver for the given variant on spi.
// No bus traffic happens until a command is issued.
func NewADS131A0x(spi SerialInterface, variant Variant, opts ...Option) (*ADS131A0x, error) {
	if spi == nil {
		return nil, errors.New("nil serial interface")
	}
	codec, err := NewCodec(variant)
	if err != nil {
		return nil, err
	}
	adc := &ADS131A0x{
		spi:   spi,
		codec: codec,
		cfg:   DefaultConfig(),
		log:   zerolog.Nop(),
		bufs:  newFrameBufs(codec),
		state: StateLocked,
	}
	for _, opt := range opts {
		opt(adc)
	}
	return adc, nil
}

func (adc *ADS131A0x) Variant() Variant {
	return adc.codec.Variant()
}

func (adc *ADS131A0x) Codec() Codec {
	return adc.codec
}

func (adc *ADS131A0x) Config() Config {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.cfg
}

func (adc *ADS131A0x) State() State {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.state
}

// Initialize unlocks the device, clears the SPI status, and writes the clock
// and analog configuration. The order of these steps is mandated by the device.
// cfg takes effect only once the whole sequence went through.
func (adc *ADS131A0x) Initialize(cfg Config) error {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	prev := adc.cfg
	adc.cfg = cfg
	if err := adc.initialize(); err != nil {
		adc.cfg = prev
		return fmt.Errorf("initialize: %w", err)
	}

	adc.state = StateConfigured
	adc.log.Info().
		Uint8("clk1", cfg.CLK1).
		Uint8("clk2", cfg.CLK2).
		Uint8("a_sys_cfg", cfg.ASysCfg).
		Msg("configured")
	return nil
}

func (adc *ADS131A0x) initialize() error {
	for _, cmd := range []Command{CmdUnlock, CmdReadStatus, CmdNull} {
		if _, err := adc.sendCommand(cmd); err != nil {
			return err
		}
	}

	for _, w := range []struct {
		reg Register
		val byte
	}{
		{RegCLK1, adc.cfg.CLK1},
		{RegCLK2, adc.cfg.CLK2},
		{RegASYSCFG, adc.cfg.ASysCfg},
	} {
		if _, err := adc.writeRegister(w.reg, w.val); err != nil {
			return err
		}
	}
	return nil
}

// Start enables the channels then wakes the converters up.
func (adc *ADS131A0x) Start() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	if _, err := adc.writeRegister(RegADCENA, adc.cfg.ChannelMask); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if _, err := adc.sendCommand(CmdWakeup); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	return nil
}

// Stop puts the device in standby, and only then disables the channels.
func (adc *ADS131A0x) Stop() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.stop()
}

func (adc *ADS131A0x) stop() error {
	if _, err := adc.sendCommand(CmdStandby); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	if _, err := adc.writeRegister(RegADCENA, ADCENANone); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	return nil
}

// Close stops a running device and closes the serial interface.
func (adc *ADS131A0x) Close() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	var err error
	if adc.state == StateRunning {
		err = adc.stop()
	}
	return errors.Join(err, adc.spi.Close())
}

// Release closes the serial interface and leaves the device as it is,
// e.g. still converting after a WAKEUP.
func (adc *ADS131A0x) Release() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.spi.Close()
}
