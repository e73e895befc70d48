package ads131a0x

import (
	"fmt"
	"strings"
)

// Variant selects the part, which fixes the channel count and the frame size.
type Variant int

const (
	ADS131A04 Variant = iota
	ADS131A02
)

// ParseVariant accepts "ADS131A04", "A04", "4" and the two channel equivalents.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADS131A04", "A04", "4":
		return ADS131A04, nil
	case "ADS131A02", "A02", "2":
		return ADS131A02, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidVariant, s)
	}
}

func (v Variant) Valid() bool {
	return v == ADS131A04 || v == ADS131A02
}

// Channels is the number of ADC channels carried in every response frame.
func (v Variant) Channels() int {
	if v == ADS131A02 {
		return 2
	}
	return 4
}

// WordsPerFrame is the number of device words per fixed frame:
// status, one word per channel and the CRC word.
func (v Variant) WordsPerFrame() int {
	return v.Channels() + 2
}

// FrameSize is the length in bytes of every transfer with the device.
func (v Variant) FrameSize() int {
	return v.WordsPerFrame() * WordSize
}

// Ready is the status word the device reports after power-up or RESET.
func (v Variant) Ready() uint16 {
	if v == ADS131A02 {
		return ReadyA02
	}
	return ReadyA04
}

// ID is the content of the ID_MSB register.
func (v Variant) ID() byte {
	return byte(v.Channels())
}

func (v Variant) String() string {
	switch v {
	case ADS131A04:
		return "ADS131A04"
	case ADS131A02:
		return "ADS131A02"
	default:
		return "(invalid variant)"
	}
}
