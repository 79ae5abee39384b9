/*
NAME
  prometheus.go - Prometheus-backed scheduler.Observer.

DESCRIPTION
  PrometheusObserver implements scheduler.Observer with a small set of
  counters and a histogram, registered and served the way the pack's
  metrics package does it (internal/metrics/prometheus.go,
  internal/metrics/server.go): a struct of prometheus.Collector fields
  built once in a constructor, registered with prometheus.MustRegister,
  and exposed over HTTP via promhttp.Handler. This is the one
  concrete, backend-specific diagnostics implementation; everything
  else in the core talks only to the narrow scheduler.Observer
  interface (spec.md §7), matching the teacher's separation of revid's
  Logger/bitrate observation points from any one telemetry backend.

AUTHOR
  dabmux contributors

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package observer provides a Prometheus-backed implementation of
// scheduler.Observer for diagnostics and metrics, per spec.md §7.
package observer

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readHeaderTimeout = 3 * time.Second

// PrometheusObserver implements scheduler.Observer, exporting every
// event as a Prometheus metric.
type PrometheusObserver struct {
	underruns          *prometheus.CounterVec
	readerFaults       *prometheus.CounterVec
	sinkFaults         *prometheus.CounterVec
	sinkDiscontinuities *prometheus.CounterVec
	framesSkipped      prometheus.Counter
	tickDuration       prometheus.Histogram
	registry           *prometheus.Registry
}

// NewPrometheusObserver builds and registers the collectors on a fresh
// registry, so multiple Schedulers in one process (or repeated test
// construction) never collide on global registration.
func NewPrometheusObserver() *PrometheusObserver {
	reg := prometheus.NewRegistry()
	o := &PrometheusObserver{
		underruns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dabmux_subchannel_underruns_total",
			Help: "Total number of subchannel reader underruns, by subchannel id.",
		}, []string{"subchannel"}),
		readerFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dabmux_reader_faults_total",
			Help: "Total number of unrecoverable reader I/O errors, by subchannel id.",
		}, []string{"subchannel"}),
		sinkFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dabmux_sink_faults_total",
			Help: "Total number of output sink send errors, by sink name.",
		}, []string{"sink"}),
		sinkDiscontinuities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dabmux_sink_discontinuities_total",
			Help: "Total number of unexpected frame counter gaps observed on a sink.",
		}, []string{"sink"}),
		framesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dabmux_frames_skipped_total",
			Help: "Total number of frames skipped to recover from scheduler lateness.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dabmux_tick_duration_seconds",
			Help:    "Duration of one scheduler tick's assembly work.",
			Buckets: prometheus.DefBuckets,
		}),
		registry: reg,
	}
	o.register()
	return o
}

func (o *PrometheusObserver) register() {
	o.registry.MustRegister(o.underruns)
	o.registry.MustRegister(o.readerFaults)
	o.registry.MustRegister(o.sinkFaults)
	o.registry.MustRegister(o.sinkDiscontinuities)
	o.registry.MustRegister(o.framesSkipped)
	o.registry.MustRegister(o.tickDuration)
}

// Underrun implements scheduler.Observer.
func (o *PrometheusObserver) Underrun(subChId uint8) {
	o.underruns.WithLabelValues(strconv.Itoa(int(subChId))).Inc()
}

// ReaderFault implements scheduler.Observer.
func (o *PrometheusObserver) ReaderFault(subChId uint8, err error) {
	o.readerFaults.WithLabelValues(strconv.Itoa(int(subChId))).Inc()
}

// SinkFault implements scheduler.Observer.
func (o *PrometheusObserver) SinkFault(name string, err error) {
	o.sinkFaults.WithLabelValues(name).Inc()
}

// SinkDiscontinuity implements scheduler.Observer.
func (o *PrometheusObserver) SinkDiscontinuity(name string) {
	o.sinkDiscontinuities.WithLabelValues(name).Inc()
}

// FramesSkipped implements scheduler.Observer.
func (o *PrometheusObserver) FramesSkipped(n int) {
	o.framesSkipped.Add(float64(n))
}

// TickDuration implements scheduler.Observer.
func (o *PrometheusObserver) TickDuration(d time.Duration) {
	o.tickDuration.Observe(d.Seconds())
}

// Serve starts an HTTP server exposing this observer's registry at
// /metrics on addr, blocking until ctx is cancelled or the server
// fails.
func (o *PrometheusObserver) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return server.Close()
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("observer: metrics server failed: %w", err)
		}
		return nil
	}
}
