package ft232h

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yunginnanet/ft232h"
)

// DeviceInfo is a read-only snapshot of an opened bridge.
type DeviceInfo struct {
	Index       int
	Serial      string
	Description string
	ProductID   string
	VendorID    string
	IsOpen      bool
	IsHighSpeed bool
}

func (i DeviceInfo) String() string {
	return fmt.Sprintf("#%d %s:%s serial=%q desc=%q open=%t hs=%t",
		i.Index, i.VendorID, i.ProductID, i.Serial, i.Description, i.IsOpen, i.IsHighSpeed)
}

// Descriptor selects the bridge to open, by serial number when one is
// given and by enumeration index otherwise.
type Descriptor struct {
	Index  int
	Serial string
}

func (d Descriptor) Validate() error {
	if d.Serial == "" && d.Index < 0 {
		return ErrBadDescriptor
	}
	return nil
}

// Mask converts the descriptor into the driver's open filter.
func (d Descriptor) Mask() *ft232h.Mask {
	if d.Serial != "" {
		return &ft232h.Mask{Serial: d.Serial}
	}
	return &ft232h.Mask{Index: strconv.Itoa(d.Index)}
}

func (d Descriptor) String() string {
	if d.Serial != "" {
		return "serial:" + d.Serial
	}
	return "index:" + strconv.Itoa(d.Index)
}

func ByIndex(index int) Descriptor {
	return Descriptor{Index: index}
}

func BySerial(serial string) Descriptor {
	return Descriptor{Serial: serial, Index: -1}
}

// ParseDescriptor reads "index:N", "serial:S", a bare index, or "" (first device).
// It accepts everything [Descriptor.String] produces.
func ParseDescriptor(s string) (Descriptor, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return ByIndex(0), nil
	case strings.HasPrefix(s, "serial:"):
		d := BySerial(strings.TrimPrefix(s, "serial:"))
		return d, d.Validate()
	default:
		idx, err := strconv.Atoi(strings.TrimPrefix(s, "index:"))
		if err != nil {
			return Descriptor{}, fmt.Errorf("%w: %q", ErrBadDescriptor, s)
		}
		d := ByIndex(idx)
		return d, d.Validate()
	}
}
