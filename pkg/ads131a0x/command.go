package ads131a0x

import (
	"fmt"
	"strings"
)

// Command is one of the fixed system commands of the device.
// Each carries its 3-byte pattern, which is placed in the first
// device word of an otherwise zeroed frame.
type Command uint8

const (
	CmdNull Command = iota
	CmdReset
	CmdStandby
	CmdWakeup
	CmdLock
	CmdUnlock
	// CmdReadStatus reads STAT_S, which also clears its error bits.
	CmdReadStatus

	numCommands
)

var commandPatterns = [numCommands][WordSize]byte{
	CmdNull:       {0x00, 0x00, 0x00},
	CmdReset:      {0x00, 0x11, 0x00},
	CmdStandby:    {0x00, 0x22, 0x00},
	CmdWakeup:     {0x00, 0x33, 0x00},
	CmdLock:       {0x05, 0x55, 0x00},
	CmdUnlock:     {0x06, 0x55, 0x00},
	CmdReadStatus: {CMDRREG | RegSTATS, 0x00, 0x00},
}

var commandNames = [numCommands]string{
	CmdNull:       "NULL",
	CmdReset:      "RESET",
	CmdStandby:    "STANDBY",
	CmdWakeup:     "WAKEUP",
	CmdLock:       "LOCK",
	CmdUnlock:     "UNLOCK",
	CmdReadStatus: "READ-STATUS",
}

// selectors are the single character names some tools use for the same commands.
var selectors = map[string]Command{
	"N": CmdNull,
	"R": CmdReset,
	"Y": CmdStandby,
	"W": CmdWakeup,
	"L": CmdLock,
	"U": CmdUnlock,
	"r": CmdReadStatus,
}

func (c Command) Valid() bool {
	return c < numCommands
}

// Pattern returns the 3-byte word of the command.
func (c Command) Pattern() ([WordSize]byte, error) {
	if !c.Valid() {
		return [WordSize]byte{}, fmt.Errorf("%w: %d", ErrInvalidCommand, c)
	}
	return commandPatterns[c], nil
}

func (c Command) String() string {
	if !c.Valid() {
		return "(invalid command)"
	}
	return commandNames[c]
}

// ParseCommand resolves a command by name (case-insensitive, "READ_STATUS"
// and "READ-STATUS-CLEAR" accepted) or by its single character selector.
// Selectors are case-sensitive since "R" (RESET) and "r" (READ-STATUS) differ,
// so "w" is rejected while "W" and "wakeup" are accepted.
func ParseCommand(name string) (Command, error) {
	if c, ok := selectors[name]; ok {
		return c, nil
	}
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	if n == "READ-STATUS-CLEAR" {
		return CmdReadStatus, nil
	}
	for c, cn := range commandNames {
		if cn == n {
			return Command(c), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCommand, name)
}

// IssueCommand sends a system command and returns the settled status word.
func (adc *ADS131A0x) IssueCommand(cmd Command) (uint16, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.sendCommand(cmd)
}

// Reset performs a software reset. The device comes back locked.
func (adc *ADS131A0x) Reset() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	if _, err := adc.sendCommand(CmdReset); err != nil {
		return err
	}
	adc.regLR = [NumRegisters]byte{}
	adc.regLW = [NumRegisters]byte{}
	return nil
}

// Lock protects the register map against writes.
func (adc *ADS131A0x) Lock() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	_, err := adc.sendCommand(CmdLock)
	return err
}

// Unlock makes the registers writable again.
func (adc *ADS131A0x) Unlock() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	_, err := adc.sendCommand(CmdUnlock)
	return err
}

// Standby powers the converters down while keeping the interface alive.
func (adc *ADS131A0x) Standby() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	_, err := adc.sendCommand(CmdStandby)
	return err
}

// WakeUp leaves standby and starts converting.
func (adc *ADS131A0x) WakeUp() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	_, err := adc.sendCommand(CmdWakeup)
	return err
}

func (adc *ADS131A0x) sendCommand(cmd Command) (uint16, error) {
	if err := adc.codec.PutSystemCommand(adc.bufs.tx, cmd); err != nil {
		return 0, err
	}

	status, err := adc.exchange(cmd.String())
	if err != nil {
		return 0, err
	}

	if adc.cfg.VerifyAck {
		if err = adc.checkAck(cmd, status); err != nil {
			return status, err
		}
	}

	adc.state = adc.state.after(cmd)
	return status, nil
}

func (adc *ADS131A0x) checkAck(cmd Command, status uint16) error {
	var want uint16
	switch cmd {
	case CmdUnlock:
		want = AckUnlock
	case CmdLock:
		want = AckLock
	case CmdWakeup:
		want = AckWakeup
	case CmdStandby:
		want = AckStandby
	case CmdReset:
		want = adc.codec.Variant().Ready()
	case CmdReadStatus:
		// only the echoed address is fixed, the data byte is the register content
		want = uint16(CMDRREG|RegSTATS) << 8
		if status&0xFF00 != want {
			return &AckError{Command: cmd.String(), Want: want, Got: status}
		}
		return nil
	default:
		return nil
	}
	if status != want {
		return &AckError{Command: cmd.String(), Want: want, Got: status}
	}
	return nil
}
