// Package metrics instruments an ADS131A0x serial interface with Prometheus
// collectors and exports the last conversion of every channel.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yunginnanet/ftdi-ads131a0x/pkg/ads131a0x"
)

// NewRegistry returns a registry with the Go and process collectors registered.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Metrics holds the driver level collectors.
type Metrics struct {
	Transfers      prometheus.Counter
	TransferErrors prometheus.Counter
	Duration       prometheus.Histogram
	ChannelVolts   *prometheus.GaugeVec // labels: channel
	Conversions    prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transfers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ads131_transfers_total",
			Help: "Total SPI frame transfers.",
		}),
		TransferErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ads131_transfer_errors_total",
			Help: "SPI frame transfers that failed.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ads131_transfer_duration_seconds",
			Help:    "Duration of one SPI frame transfer.",
			Buckets: prometheus.ExponentialBuckets(10e-6, 2, 12),
		}),
		ChannelVolts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ads131_channel_volts",
			Help: "Last converted voltage per channel.",
		}, []string{"channel"}),
		Conversions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ads131_conversions_total",
			Help: "Decoded data frames.",
		}),
	}
	reg.MustRegister(m.Transfers, m.TransferErrors, m.Duration, m.ChannelVolts, m.Conversions)
	return m
}

// ObserveConversion records the voltages of one conversion.
func (m *Metrics) ObserveConversion(conv *ads131a0x.Conversion) {
	if conv == nil {
		return
	}
	m.Conversions.Inc()
	for ch, v := range conv.Volts {
		m.ChannelVolts.WithLabelValues(strconv.Itoa(ch + 1)).Set(v)
	}
}

// Instrument wraps spi so every transfer is counted and timed.
// WaitDRDY is forwarded when spi is wired to the DRDY pin.
func (m *Metrics) Instrument(spi ads131a0x.SerialInterface) ads131a0x.SerialInterface {
	bus := &instrumented{SerialInterface: spi, m: m}
	if w, ok := spi.(ads131a0x.DataReadyWaiter); ok {
		return &instrumentedDRDY{instrumented: bus, w: w}
	}
	return bus
}

type instrumented struct {
	ads131a0x.SerialInterface
	m *Metrics
}

func (i *instrumented) Transfer(tx, rx []byte) error {
	start := time.Now()
	err := i.SerialInterface.Transfer(tx, rx)
	i.m.Duration.Observe(time.Since(start).Seconds())
	i.m.Transfers.Inc()
	if err != nil {
		i.m.TransferErrors.Inc()
	}
	return err
}

type instrumentedDRDY struct {
	*instrumented
	w ads131a0x.DataReadyWaiter
}

func (i *instrumentedDRDY) WaitDRDY(ctx context.Context) error {
	return i.w.WaitDRDY(ctx)
}
