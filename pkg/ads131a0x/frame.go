package ads131a0x

import (
	"encoding/binary"
	"fmt"
)

// Frame is the fixed length byte sequence exchanged in one bus transfer.
//
// Response layout: bytes 0-1 status word, byte 2 padding, then one 3-byte
// two's complement code per channel in ascending order, then the CRC word.
type Frame []byte

// Word returns the i'th device word of the frame, sharing its storage.
func (f Frame) Word(i int) []byte {
	return f[i*WordSize : (i+1)*WordSize]
}

// Codec builds and parses frames for one device variant.
// It never retains the buffers it is handed.
type Codec struct {
	variant Variant
}

func NewCodec(v Variant) (Codec, error) {
	if !v.Valid() {
		return Codec{}, fmt.Errorf("%w: %d", ErrInvalidVariant, v)
	}
	return Codec{variant: v}, nil
}

func (c Codec) Variant() Variant {
	return c.variant
}

func (c Codec) FrameSize() int {
	return c.variant.FrameSize()
}

// NewFrame returns an all zero frame, which is also a NULL command.
func (c Codec) NewFrame() Frame {
	return make(Frame, c.FrameSize())
}

func (c Codec) checkLen(f []byte) error {
	if len(f) != c.FrameSize() {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrFrameLength, len(f), c.FrameSize())
	}
	return nil
}

func checkAddress(addr Register) error {
	if addr > MaxAddress {
		return fmt.Errorf("%w: 0x%02X", ErrInvalidAddress, byte(addr))
	}
	return nil
}

// PutSystemCommand zeroes dst and writes the command pattern into its first word.
func (c Codec) PutSystemCommand(dst Frame, cmd Command) error {
	if err := c.checkLen(dst); err != nil {
		return err
	}
	p, err := cmd.Pattern()
	if err != nil {
		return err
	}
	clear(dst)
	copy(dst, p[:])
	return nil
}

func (c Codec) EncodeSystemCommand(cmd Command) (Frame, error) {
	f := c.NewFrame()
	if err := c.PutSystemCommand(f, cmd); err != nil {
		return nil, err
	}
	return f, nil
}

func (c Codec) putRegisterCommand(dst Frame, mask byte, addr Register, arg byte) error {
	if err := c.checkLen(dst); err != nil {
		return err
	}
	if err := checkAddress(addr); err != nil {
		return err
	}
	clear(dst)
	dst[0] = mask | byte(addr)&addrMask
	dst[1] = arg
	return nil
}

// PutWriteRegister encodes WREG: 010a aaaa dddd dddd.
func (c Codec) PutWriteRegister(dst Frame, addr Register, value byte) error {
	return c.putRegisterCommand(dst, CMDWREG, addr, value)
}

func (c Codec) EncodeWriteRegister(addr Register, value byte) (Frame, error) {
	f := c.NewFrame()
	if err := c.PutWriteRegister(f, addr, value); err != nil {
		return nil, err
	}
	return f, nil
}

// PutReadRegister encodes RREG: 001a aaaa 0000 0000.
func (c Codec) PutReadRegister(dst Frame, addr Register) error {
	return c.putRegisterCommand(dst, CMDRREG, addr, 0x00)
}

func (c Codec) EncodeReadRegister(addr Register) (Frame, error) {
	f := c.NewFrame()
	if err := c.PutReadRegister(f, addr); err != nil {
		return nil, err
	}
	return f, nil
}

// EncodeReadRegisters encodes RREGS. The device returns count+1 registers
// starting at addr.
func (c Codec) EncodeReadRegisters(addr Register, count int) (Frame, error) {
	return c.encodeMulti(CMDRREGS, addr, count)
}

// EncodeWriteRegisters encodes the WREGS command word for count+1 registers
// starting at addr. The register data follows in later device words.
func (c Codec) EncodeWriteRegisters(addr Register, count int) (Frame, error) {
	return c.encodeMulti(CMDWREGS, addr, count)
}

func (c Codec) encodeMulti(mask byte, addr Register, count int) (Frame, error) {
	if count < 0 || count > 0xFF {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	f := c.NewFrame()
	if err := c.putRegisterCommand(f, mask, addr, byte(count)); err != nil {
		return nil, err
	}
	return f, nil
}

// StatusWord is the big-endian combination of response bytes 0 and 1.
func (c Codec) StatusWord(f Frame) (uint16, error) {
	if err := c.checkLen(f); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(f[0:2]), nil
}

// DecodeSample returns the signed code of channel ch (0 based).
func (c Codec) DecodeSample(f Frame, ch int) (int32, error) {
	if err := c.checkLen(f); err != nil {
		return 0, err
	}
	if ch < 0 || ch >= c.variant.Channels() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	return Convert24To32(f.Word(ch + 1)), nil
}

// DecodeSamples decodes every channel of the frame.
func (c Codec) DecodeSamples(f Frame) ([]int32, error) {
	if err := c.checkLen(f); err != nil {
		return nil, err
	}
	codes := make([]int32, c.variant.Channels())
	for ch := range codes {
		codes[ch] = Convert24To32(f.Word(ch + 1))
	}
	return codes, nil
}
