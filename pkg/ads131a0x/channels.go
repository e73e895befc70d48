package ads131a0x

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
)

type Channel int

//goland:noinspection GoSnakeCaseUsage
const (
	CH_ADC1 Channel = iota
	CH_ADC2
	CH_ADC3
	CH_ADC4
)

func (c Channel) String() string {
	switch c {
	case CH_ADC1:
		return "CH_ADC1"
	case CH_ADC2:
		return "CH_ADC2"
	case CH_ADC3:
		return "CH_ADC3"
	case CH_ADC4:
		return "CH_ADC4"
	default:
		return "(invalid channel)"
	}
}

// Gain is the digital gain code of the ADCx registers.
type Gain byte

const (
	Gain1 Gain = iota
	Gain2
	Gain4
	Gain8
	Gain16
)

// SetGain writes the digital gain of one channel.
func (adc *ADS131A0x) SetGain(ch Channel, gain Gain) error {
	if ch < 0 || int(ch) >= adc.codec.Variant().Channels() {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	if gain > Gain16 {
		return fmt.Errorf("invalid gain code %d", gain)
	}
	adc.mu.Lock()
	defer adc.mu.Unlock()
	_, err := adc.writeRegister(RegADC1+Register(ch), byte(gain))
	return err
}

// Conversion is one decoded data frame.
type Conversion struct {
	Status uint16
	Codes  []int32
	Volts  []float64
}

// Read clocks one NULL frame and decodes the status word and every channel.
// On error no partial conversion is returned.
func (adc *ADS131A0x) Read() (*Conversion, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.read()
}

func (adc *ADS131A0x) read() (*Conversion, error) {
	adc.bufs.clear()
	if err := adc.transfer("sample", adc.bufs.null); err != nil {
		return nil, err
	}

	status, err := adc.codec.StatusWord(adc.bufs.rx)
	if err != nil {
		return nil, err
	}
	codes, err := adc.codec.DecodeSamples(adc.bufs.rx)
	if err != nil {
		return nil, err
	}

	conv := &Conversion{
		Status: status,
		Codes:  codes,
		Volts:  make([]float64, len(codes)),
	}
	for i, code := range codes {
		conv.Volts[i] = ToVoltage(code, FullScale, adc.cfg.VRef)
	}
	return conv, nil
}

// Sample returns one calibrated voltage per channel.
func (adc *ADS131A0x) Sample() ([]float64, error) {
	conv, err := adc.Read()
	if err != nil {
		return nil, err
	}
	return conv.Volts, nil
}

type DataCallback func(seq int, conv *Conversion)

// Scan reads conversions paced by limiter and hands each to onData, until ctx
// is done or count conversions were read (count <= 0 means no limit).
// A nil limiter reads back to back.
func (adc *ADS131A0x) Scan(ctx context.Context, limiter *rate.Limiter, count int, onData DataCallback) error {
	if onData == nil {
		return errors.New("nil data callback")
	}
	for seq := 0; count <= 0 || seq < count; seq++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		if w, ok := adc.spi.(DataReadyWaiter); ok {
			if err := w.WaitDRDY(ctx); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
		}

		conv, err := adc.Read()
		if err != nil {
			return fmt.Errorf("scan: conversion %d: %w", seq, err)
		}
		onData(seq, conv)
	}
	return nil
}
