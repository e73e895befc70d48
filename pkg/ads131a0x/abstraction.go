package ads131a0x

import "context"

// SerialInterface interface allows for different bus implementations.
type SerialInterface interface {
	// Transfer clocks out tx while clocking rx in, full duplex, with chip
	// select asserted for the whole transfer. len(tx) == len(rx).
	Transfer(tx, rx []byte) error

	// Close closes the interface.
	Close() error
}

// DataReadyWaiter is implemented by interfaces wired to the DRDY pin.
// [ADS131A0x.Scan] waits on it before each conversion when available.
type DataReadyWaiter interface {
	WaitDRDY(ctx context.Context) error
}

func (adc *ADS131A0x) transfer(op string, tx Frame) error {
	clear(adc.bufs.scratch)
	if err := adc.spi.Transfer(tx, adc.bufs.scratch); err != nil {
		return &TransportError{Op: op, Err: err}
	}
	copy(adc.bufs.rx, adc.bufs.scratch)
	return nil
}

// exchange sends the command already encoded in bufs.tx, then a NULL frame.
// The device answers one frame late, so the response to the command frame is
// dropped and the response to the NULL frame is the command's result.
func (adc *ADS131A0x) exchange(op string) (uint16, error) {
	if err := adc.transfer(op, adc.bufs.tx); err != nil {
		return 0, err
	}

	clear(adc.bufs.rx)
	if err := adc.transfer(op, adc.bufs.null); err != nil {
		return 0, err
	}

	status, err := adc.codec.StatusWord(adc.bufs.rx)
	if err != nil {
		return 0, err
	}

	adc.log.Debug().Str("cmd", op).
		Hex("frame", adc.bufs.tx[:WordSize]).
		Uint16("status", status).
		Msg("exchange")

	return status, nil
}
