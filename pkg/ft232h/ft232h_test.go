package ft232h

import (
	"errors"
	"os"
	"testing"

	"github.com/yunginnanet/ft232h"

	"github.com/yunginnanet/ftdi-ads131a0x/pkg/ads131a0x"
)

func TestFT232HDescriptor(t *testing.T) {
	for _, tc := range []struct {
		name  string
		desc  Descriptor
		valid bool
		mask  ft232h.Mask
	}{
		{"ByIndex", ByIndex(0), true, ft232h.Mask{Index: "0"}},
		{"ByIndexInvalid", ByIndex(-1), false, ft232h.Mask{}},
		{"BySerial", BySerial("123456"), true, ft232h.Mask{Serial: "123456"}},
		{"BySerialInvalid", BySerial(""), false, ft232h.Mask{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.desc.Validate()
			if tc.valid != (err == nil) {
				t.Fatalf("valid=%t, got err=%v", tc.valid, err)
			}
			if !tc.valid {
				if !errors.Is(err, ErrBadDescriptor) {
					t.Errorf("expected ErrBadDescriptor, got %v", err)
				}
				return
			}
			if m := tc.desc.Mask(); *m != tc.mask {
				t.Errorf("mask: got %+v, want %+v", *m, tc.mask)
			}
			back, err := ParseDescriptor(tc.desc.String())
			if err != nil || back != tc.desc {
				t.Errorf("round trip of %s: got %s, %v", tc.desc, back, err)
			}
		})
	}
}

func TestParseDescriptor(t *testing.T) {
	for _, tc := range []struct {
		in     string
		index  int
		serial string
		err    error
	}{
		{"", 0, "", nil},
		{"2", 2, "", nil},
		{"index:1", 1, "", nil},
		{"serial:FT4XQ1", -1, "FT4XQ1", nil},
		{"serial:", -1, "", ErrBadDescriptor},
		{"index:-3", -3, "", ErrBadDescriptor},
		{"usb0", 0, "", ErrBadDescriptor},
	} {
		t.Run(tc.in, func(t *testing.T) {
			d, err := ParseDescriptor(tc.in)
			if !errors.Is(err, tc.err) {
				t.Fatalf("got err=%v, want %v", err, tc.err)
			}
			if tc.err != nil {
				return
			}
			if d.Index != tc.index || d.Serial != tc.serial {
				t.Errorf("got %s", d)
			}
		})
	}
}

func TestTransferLength(t *testing.T) {
	ft := &FT232H{}
	err := ft.Transfer(make([]byte, 18), make([]byte, 12))
	if !errors.Is(err, ads131a0x.ErrFrameLength) {
		t.Errorf("expected ErrFrameLength, got %v", err)
	}
	if err := ft.WaitDRDY(t.Context()); err != nil {
		t.Errorf("WaitDRDY without pin: %v", err)
	}
}

// TestADS131A0x needs an ADS131A04 wired to an FT232H.
func TestADS131A0x(t *testing.T) {
	if os.Getenv("TEST_FT232H") == "" {
		t.Skip("set 'TEST_FT232H' in environment to run this test")
	}

	desc, err := ParseDescriptor(os.Getenv("TEST_FT232H_DEVICE"))
	if err != nil {
		t.Fatalf("bad 'TEST_FT232H_DEVICE' environment variable: %v", err)
	}

	ft, err := ConnectFT232h(desc)
	if err != nil {
		t.Fatalf("failed to connect to FT232H: %v", err)
	}
	t.Logf("connected to %s", ft.Info())

	if err = ft.ConfigSPI(DefaultSPIConfig()); err != nil {
		t.Fatal(err)
	}

	adc, err := ads131a0x.NewADS131A0x(ft, ads131a0x.ADS131A04)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := adc.Close(); err != nil {
			t.Errorf("failed to close: %v", err)
		}
	}()

	if err = adc.Initialize(ads131a0x.DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	v, rev, err := adc.Identify()
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("%s rev 0x%02X", v, rev)

	if err = adc.Start(); err != nil {
		t.Fatal(err)
	}
	volts, err := adc.Sample()
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("volts: %v", volts)
}
