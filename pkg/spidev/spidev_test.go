package spidev

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunginnanet/ftdi-ads131a0x/pkg/ads131a0x"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{Speed: DefaultSpeed}.Validate())
	assert.Error(t, Config{Dev: "/dev/spidev0.0", Speed: 1000}.Validate())
	assert.Error(t, Config{Dev: "/dev/spidev0.0", Speed: 250000000}.Validate())
	assert.NoError(t, Config{Dev: "/dev/spidev0.1", Speed: MaxSpeed}.Validate())
}

func TestOpenInvalid(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestTransferLength(t *testing.T) {
	d := &Device{}
	err := d.Transfer(make([]byte, 12), make([]byte, 18))
	assert.True(t, errors.Is(err, ads131a0x.ErrFrameLength), "got %v", err)
}

// TestADS131A0x needs an ADS131A04 on the device named by TEST_SPIDEV.
func TestADS131A0x(t *testing.T) {
	path := os.Getenv("TEST_SPIDEV")
	if path == "" {
		t.Skip("set 'TEST_SPIDEV' in environment to run this test")
	}

	cfg := DefaultConfig()
	cfg.Dev = path
	dev, err := Open(cfg)
	require.NoError(t, err)

	adc, err := ads131a0x.NewADS131A0x(dev, ads131a0x.ADS131A04)
	require.NoError(t, err)
	defer func() { assert.NoError(t, adc.Close()) }()

	require.NoError(t, adc.Initialize(ads131a0x.DefaultConfig()))
	require.NoError(t, adc.Start())

	volts, err := adc.Sample()
	require.NoError(t, err)
	assert.Len(t, volts, 4)
	t.Logf("volts: %v", volts)
}
