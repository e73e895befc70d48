package ads131a0x

// State is the lifecycle state the driver believes the device is in.
// It follows the commands issued; the device is not polled to confirm it.
type State int

const (
	StateLocked State = iota
	StateUnlocked
	StateConfigured
	StateRunning
	StateStandby
)

func (s State) String() string {
	switch s {
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	case StateConfigured:
		return "configured"
	case StateRunning:
		return "running"
	case StateStandby:
		return "standby"
	default:
		return "(invalid state)"
	}
}

func (s State) after(cmd Command) State {
	switch cmd {
	case CmdUnlock:
		return StateUnlocked
	case CmdLock, CmdReset:
		return StateLocked
	case CmdWakeup:
		return StateRunning
	case CmdStandby:
		return StateStandby
	default:
		return s
	}
}
