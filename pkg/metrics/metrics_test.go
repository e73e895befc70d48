package metrics

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunginnanet/ftdi-ads131a0x/pkg/ads131a0x"
	"github.com/yunginnanet/ftdi-ads131a0x/pkg/sim"
)

type drdyBus struct {
	*sim.Device
	waits int
}

func (d *drdyBus) WaitDRDY(context.Context) error {
	d.waits++
	return nil
}

func TestInstrument(t *testing.T) {
	m := New(prometheus.NewRegistry())
	dev := sim.New(ads131a0x.ADS131A04)
	bus := m.Instrument(dev)

	_, ok := bus.(ads131a0x.DataReadyWaiter)
	assert.False(t, ok, "plain bus must not grow a DRDY waiter")

	adc, err := ads131a0x.NewADS131A0x(bus, ads131a0x.ADS131A04)
	require.NoError(t, err)
	require.NoError(t, adc.Unlock())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transfers))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.TransferErrors))

	dev.FailNext(errors.New("bus fault"))
	_, err = adc.Read()
	require.ErrorIs(t, err, ads131a0x.ErrTransport)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Transfers))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransferErrors))

	var hist dto.Metric
	require.NoError(t, m.Duration.Write(&hist))
	assert.Equal(t, uint64(3), hist.GetHistogram().GetSampleCount())

	require.NoError(t, bus.Close())
}

func TestInstrumentForwardsDRDY(t *testing.T) {
	m := New(prometheus.NewRegistry())
	inner := &drdyBus{Device: sim.New(ads131a0x.ADS131A02)}
	bus := m.Instrument(inner)

	w, ok := bus.(ads131a0x.DataReadyWaiter)
	require.True(t, ok)
	require.NoError(t, w.WaitDRDY(t.Context()))
	assert.Equal(t, 1, inner.waits)

	adc, err := ads131a0x.NewADS131A0x(bus, ads131a0x.ADS131A02)
	require.NoError(t, err)
	require.NoError(t, adc.Scan(t.Context(), nil, 3, func(int, *ads131a0x.Conversion) {}))
	assert.Equal(t, 4, inner.waits)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Transfers))
}

func TestObserveConversion(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)

	m.ObserveConversion(nil)
	m.ObserveConversion(&ads131a0x.Conversion{Volts: []float64{1.25, -0.5}})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Conversions))
	assert.Equal(t, 1.25, testutil.ToFloat64(m.ChannelVolts.WithLabelValues("1")))
	assert.Equal(t, -0.5, testutil.ToFloat64(m.ChannelVolts.WithLabelValues("2")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.ChannelVolts))

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	err = testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP ads131_conversions_total Decoded data frames.
# TYPE ads131_conversions_total counter
ads131_conversions_total 1
`), "ads131_conversions_total")
	assert.NoError(t, err)
}
