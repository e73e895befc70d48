package ads131a0x

import (
	"fmt"
)

// RegisterValue is the settled answer to a register read.
//
// The device answers RREG with 001a aaaa dddd dddd in the status word
// position, so the status word doubles as the read-back: Echo is the raw
// word and Value its low byte.
type RegisterValue struct {
	Address Register
	Echo    uint16
	Value   byte
}

// EchoAddress returns the address echoed by the device, and whether the
// echo carried the read command bits at all.
func (rv RegisterValue) EchoAddress() (Register, bool) {
	hi := byte(rv.Echo >> 8)
	return Register(hi & addrMask), hi&^addrMask == CMDRREG
}

func (adc *ADS131A0x) LastReadRegister(reg Register) byte {
	adc.mu.Lock()
	b := adc.regLR[reg&addrMask]
	adc.mu.Unlock()
	return b
}

func (adc *ADS131A0x) LastWrittenRegister(reg Register) byte {
	adc.mu.Lock()
	b := adc.regLW[reg&addrMask]
	adc.mu.Unlock()
	return b
}

// Registers returns the last read value of every register read so far.
func (adc *ADS131A0x) Registers() map[Register]byte {
	adc.mu.Lock()
	r := make(map[Register]byte, NumRegisters)
	for reg, val := range adc.regLR {
		r[Register(reg)] = val
	}
	adc.mu.Unlock()
	return r
}

// WriteRegister writes value at reg and returns the settled status word.
// The status word is not interpreted unless acknowledgement checks are on.
func (adc *ADS131A0x) WriteRegister(reg Register, value byte) (uint16, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.writeRegister(reg, value)
}

func (adc *ADS131A0x) writeRegister(reg Register, value byte) (uint16, error) {
	if err := adc.codec.PutWriteRegister(adc.bufs.tx, reg, value); err != nil {
		return 0, err
	}

	status, err := adc.exchange(fmt.Sprintf("WREG 0x%02X", byte(reg)))
	if err != nil {
		return 0, err
	}

	if adc.cfg.VerifyAck {
		want := uint16(CMDRREG|byte(reg))<<8 | uint16(value)
		if status != want {
			return status, &AckError{Command: fmt.Sprintf("WREG 0x%02X", byte(reg)), Want: want, Got: status}
		}
	}

	adc.regLW[reg] = value
	return status, nil
}

// ReadRegister reads a single register.
func (adc *ADS131A0x) ReadRegister(reg Register) (RegisterValue, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.readRegister(reg)
}

func (adc *ADS131A0x) readRegister(reg Register) (RegisterValue, error) {
	if err := adc.codec.PutReadRegister(adc.bufs.tx, reg); err != nil {
		return RegisterValue{}, err
	}

	op := fmt.Sprintf("RREG 0x%02X", byte(reg))
	status, err := adc.exchange(op)
	if err != nil {
		return RegisterValue{}, err
	}

	rv := RegisterValue{Address: reg, Echo: status, Value: byte(status)}
	if adc.cfg.VerifyAck {
		if echo, ok := rv.EchoAddress(); !ok || echo != reg {
			return rv, &AckError{Command: op, Want: uint16(CMDRREG|byte(reg)) << 8, Got: status}
		}
	}

	adc.regLR[reg] = rv.Value
	return rv, nil
}

// ReadAllRegisters reads the ID, status and configuration registers.
func (adc *ADS131A0x) ReadAllRegisters() (map[Register]byte, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	regs := make(map[Register]byte, len(mappedRegisters))
	for _, reg := range mappedRegisters {
		rv, err := adc.readRegister(reg)
		if err != nil {
			return nil, err
		}
		regs[reg] = rv.Value
	}
	return regs, nil
}

var mappedRegisters = []Register{
	RegIDMSB, RegIDLSB,
	RegSTAT1, RegSTATP, RegSTATN, RegSTATS, RegERRORCNT, RegSTATM2,
	RegASYSCFG, RegDSYSCFG, RegCLK1, RegCLK2, RegADCENA,
	RegADC1, RegADC2, RegADC3, RegADC4,
}

// Identify reads ID_MSB and ID_LSB. The MSB holds the channel count.
func (adc *ADS131A0x) Identify() (variant Variant, revision byte, err error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	msb, err := adc.readRegister(RegIDMSB)
	if err != nil {
		return 0, 0, err
	}
	lsb, err := adc.readRegister(RegIDLSB)
	if err != nil {
		return 0, 0, err
	}

	switch msb.Value {
	case ADS131A04.ID():
		variant = ADS131A04
	case ADS131A02.ID():
		variant = ADS131A02
	default:
		return 0, lsb.Value, fmt.Errorf("%w: ID_MSB=0x%02X", ErrInvalidVariant, msb.Value)
	}
	return variant, lsb.Value, nil
}

// Status holds the status and fault registers.
type Status struct {
	Stat1    byte
	StatP    byte
	StatN    byte
	StatS    byte
	ErrorCnt byte
	StatM2   byte
}

// ReadStatus reads every status register in address order.
func (adc *ADS131A0x) ReadStatus() (Status, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	var (
		st   Status
		dsts = []struct {
			reg Register
			dst *byte
		}{
			{RegSTAT1, &st.Stat1},
			{RegSTATP, &st.StatP},
			{RegSTATN, &st.StatN},
			{RegSTATS, &st.StatS},
			{RegERRORCNT, &st.ErrorCnt},
			{RegSTATM2, &st.StatM2},
		}
	)
	for _, d := range dsts {
		rv, err := adc.readRegister(d.reg)
		if err != nil {
			return Status{}, fmt.Errorf("read status: %w", err)
		}
		*d.dst = rv.Value
	}
	return st, nil
}
