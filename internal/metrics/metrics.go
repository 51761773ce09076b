// Package metrics exposes render loop and propagation metrics to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Collector bundles the tracker metrics. A nil *Collector records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	FrameDuration       prometheus.Histogram
	PropagationDuration prometheus.Histogram
	SatellitesTotal     prometheus.Gauge
	SatellitesVisible   prometheus.Gauge
	SimulationSeconds   prometheus.Gauge
	SimulationSpeed     prometheus.Gauge
	Picks               *prometheus.CounterVec
}

// New registers the metrics on reg, or on the default registry when reg is
// nil.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	if c.FrameDuration, err = registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "satviz_frame_duration_seconds",
		Help:    "Wall time spent producing one frame.",
		Buckets: []float64{0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1, 0.25},
	}), "satviz_frame_duration_seconds"); err != nil {
		return nil, err
	}
	if c.PropagationDuration, err = registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "satviz_propagation_duration_seconds",
		Help:    "Wall time spent propagating visible satellites per frame.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
	}), "satviz_propagation_duration_seconds"); err != nil {
		return nil, err
	}
	if c.SatellitesTotal, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satviz_satellites",
		Help: "Number of satellites loaded from the catalog.",
	}), "satviz_satellites"); err != nil {
		return nil, err
	}
	if c.SatellitesVisible, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satviz_satellites_visible",
		Help: "Number of satellites passing the visibility filter.",
	}), "satviz_satellites_visible"); err != nil {
		return nil, err
	}
	if c.SimulationSeconds, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satviz_simulation_seconds",
		Help: "Accumulated simulation time.",
	}), "satviz_simulation_seconds"); err != nil {
		return nil, err
	}
	if c.SimulationSpeed, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satviz_simulation_speed",
		Help: "Simulated seconds per real second.",
	}), "satviz_simulation_speed"); err != nil {
		return nil, err
	}

	picks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "satviz_picks_total",
		Help: "Pick requests, labeled by whether a satellite was hit.",
	}, []string{"result"})
	if c.Picks, err = registerCounterVec(reg, picks, "satviz_picks_total"); err != nil {
		return nil, err
	}

	return c, nil
}

// ObserveFrame records one frame.
func (c *Collector) ObserveFrame(frame, propagation time.Duration, visible int, simSeconds, speed float64) {
	if c == nil {
		return
	}
	c.FrameDuration.Observe(frame.Seconds())
	c.PropagationDuration.Observe(propagation.Seconds())
	c.SatellitesVisible.Set(float64(visible))
	c.SimulationSeconds.Set(simSeconds)
	c.SimulationSpeed.Set(speed)
}

func (c *Collector) SetSatellites(n int) {
	if c == nil {
		return
	}
	c.SatellitesTotal.Set(float64(n))
}

func (c *Collector) ObservePick(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.Picks.WithLabelValues(result).Inc()
}

// Handler serves the gathered metrics.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Serve starts a /metrics endpoint on addr. The caller shuts the returned
// server down.
func (c *Collector) Serve(addr string, log zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn().Err(err).Msg("metrics server exited")
		}
	}()

	log.Info().Str("addr", addr).Msg("serving Prometheus metrics")
	return srv
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, errors.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
