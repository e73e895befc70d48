// Package sim emulates an ADS131A0x on the far side of the SPI bus.
//
// It answers every frame with the result of the frame before it, the way the
// real part does in fixed frame mode, keeps a register file, honours the
// register lock, and streams channel codes only once woken up with channels
// enabled.
package sim

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/yunginnanet/ftdi-ads131a0x/pkg/ads131a0x"
)

var ErrClosed = errors.New("sim: device closed")

// Source produces the code of channel ch for the n'th data frame.
type Source func(ch int, n int) int32

// Device is a software ADS131A0x. It implements [ads131a0x.SerialInterface].
type Device struct {
	mu sync.Mutex

	variant ads131a0x.Variant
	regs    [ads131a0x.NumRegisters]byte
	locked  bool
	awake   bool

	// pending is the status word returned by the next transfer.
	pending uint16

	codes  []int32
	source Source
	frames int

	words     [][ads131a0x.WordSize]byte
	transfers int
	fail      error
	closed    bool
}

// New returns a device in its power-up state: locked, reporting READY.
func New(v ads131a0x.Variant) *Device {
	d := &Device{
		variant: v,
		codes:   make([]int32, v.Channels()),
	}
	d.reset()
	return d
}

func (d *Device) reset() {
	d.regs = [ads131a0x.NumRegisters]byte{}
	d.regs[ads131a0x.RegIDMSB] = d.variant.ID()
	d.regs[ads131a0x.RegIDLSB] = 0x01
	d.regs[ads131a0x.RegASYSCFG] = 0x60
	d.regs[ads131a0x.RegDSYSCFG] = 0x3C
	d.regs[ads131a0x.RegCLK1] = 0x08
	d.regs[ads131a0x.RegCLK2] = 0x86
	d.locked = true
	d.awake = false
	d.pending = d.variant.Ready()
}

// SetCode sets a constant code on channel ch.
func (d *Device) SetCode(ch int, code int32) {
	d.mu.Lock()
	d.codes[ch] = code
	d.mu.Unlock()
}

// SetVoltage sets a constant input voltage on channel ch for reference vRef.
func (d *Device) SetVoltage(ch int, volts, vRef float64) {
	d.SetCode(ch, ads131a0x.FromVoltage(volts, ads131a0x.FullScale, vRef))
}

// SetSource replaces the constant codes by a generator.
func (d *Device) SetSource(src Source) {
	d.mu.Lock()
	d.source = src
	d.mu.Unlock()
}

// FailNext makes the next transfer fail with err, leaving the device state untouched.
func (d *Device) FailNext(err error) {
	d.mu.Lock()
	d.fail = err
	d.mu.Unlock()
}

func (d *Device) Register(reg ads131a0x.Register) byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regs[reg]
}

// SetRegister changes a register behind the driver's back, e.g. to raise a status bit.
func (d *Device) SetRegister(reg ads131a0x.Register, v byte) {
	d.mu.Lock()
	d.regs[reg] = v
	d.mu.Unlock()
}

func (d *Device) Locked() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.locked
}

func (d *Device) Awake() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.awake
}

// Transfers returns the number of completed transfers.
func (d *Device) Transfers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transfers
}

// Words returns the command word of every completed transfer, in order.
func (d *Device) Words() [][ads131a0x.WordSize]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][ads131a0x.WordSize]byte, len(d.words))
	copy(out, d.words)
	return out
}

func (d *Device) Transfer(tx, rx []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if err := d.fail; err != nil {
		d.fail = nil
		return err
	}
	size := d.variant.FrameSize()
	if len(tx) != size || len(rx) != size {
		return fmt.Errorf("sim: %w: tx=%d rx=%d, want %d", ads131a0x.ErrFrameLength, len(tx), len(rx), size)
	}

	clear(rx)
	binary.BigEndian.PutUint16(rx[0:2], d.pending)
	if d.awake {
		for ch := 0; ch < d.variant.Channels(); ch++ {
			if d.regs[ads131a0x.RegADCENA]&(1<<ch) == 0 {
				continue
			}
			code := d.codes[ch]
			if d.source != nil {
				code = d.source(ch, d.frames)
			}
			off := (ch + 1) * ads131a0x.WordSize
			ads131a0x.Convert32To24(code, rx[off:off+ads131a0x.WordSize])
		}
		d.frames++
	}

	var w [ads131a0x.WordSize]byte
	copy(w[:], tx)
	d.words = append(d.words, w)
	d.transfers++
	d.pending = d.execute(w)
	return nil
}

func (d *Device) echo(reg byte) uint16 {
	return uint16(ads131a0x.CMDRREG|reg)<<8 | uint16(d.regs[reg])
}

func writable(reg byte) bool {
	switch {
	case reg >= ads131a0x.RegASYSCFG && reg <= ads131a0x.RegADCENA:
		return true
	case reg >= ads131a0x.RegADC1 && reg <= ads131a0x.RegADC4:
		return true
	}
	return false
}

func (d *Device) execute(w [ads131a0x.WordSize]byte) uint16 {
	switch w {
	case [ads131a0x.WordSize]byte{0x00, 0x00, 0x00}:
		return d.echo(ads131a0x.RegSTAT1)
	case [ads131a0x.WordSize]byte{0x00, 0x11, 0x00}:
		d.reset()
		return d.pending
	case [ads131a0x.WordSize]byte{0x00, 0x22, 0x00}:
		d.awake = false
		return ads131a0x.AckStandby
	case [ads131a0x.WordSize]byte{0x00, 0x33, 0x00}:
		d.awake = true
		return ads131a0x.AckWakeup
	case [ads131a0x.WordSize]byte{0x05, 0x55, 0x00}:
		d.locked = true
		return ads131a0x.AckLock
	case [ads131a0x.WordSize]byte{0x06, 0x55, 0x00}:
		d.locked = false
		return ads131a0x.AckUnlock
	}

	reg := w[0] & 0x1F
	switch w[0] & 0xE0 {
	case ads131a0x.CMDRREG:
		st := d.echo(reg)
		if reg == ads131a0x.RegSTATS {
			d.regs[reg] = 0
		}
		return st
	case ads131a0x.CMDWREG:
		if !d.locked && writable(reg) {
			d.regs[reg] = w[1]
		}
		return d.echo(reg)
	case ads131a0x.CMDWREGS:
		return uint16(w[0])<<8 | uint16(w[1])
	}
	return 0x0000
}

func (d *Device) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

var _ ads131a0x.SerialInterface = (*Device)(nil)
