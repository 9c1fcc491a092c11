package otel

import (
	"context"
	"errors"
	"fmt"

	goCrypt "github.com/MrEthical07/goCrypt"
	"github.com/MrEthical07/goCrypt/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrNilMeter is returned when no meter is supplied.
	ErrNilMeter = errors.New("nil meter")
	// ErrNilSource is returned when no metrics source is supplied.
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() goCrypt.MetricsSnapshot
	AuditDropped() uint64
}

// Option configures an OTelExporter.
type Option func(*OTelExporter)

// WithAttributes adds attrs to every observation, e.g. a service instance id
// when several engines report through one MeterProvider.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(e *OTelExporter) {
		e.attrs = append(e.attrs, attrs...)
	}
}

type latencyInstruments struct {
	id      goCrypt.MetricID
	buckets metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
}

// OTelExporter publishes goCrypt metrics through observable instruments.
//
// Each latency histogram becomes a "<name>_bucket" gauge with one cumulative
// data point per "le" attribute plus a "<name>_count" gauge.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration
	attrs        []attribute.KeyValue

	counters     map[goCrypt.MetricID]metric.Int64ObservableCounter
	latencies    []latencyInstruments
	auditDropped metric.Int64ObservableCounter

	base       metric.ObserveOption
	bucketOpts []metric.ObserveOption
}

// NewOTelExporter registers instruments on meter that read from engine.
func NewOTelExporter(meter metric.Meter, engine *goCrypt.Engine, opts ...Option) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, engine, opts...)
}

// NewOTelExporterFromSource registers instruments on meter that read from
// source on every collection.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource, opts ...Option) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &OTelExporter{
		source:   source,
		counters: make(map[goCrypt.MetricID]metric.Int64ObservableCounter, len(internaldefs.CounterDefs)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.buildObserveOptions()

	observables, err := e.createInstruments(meter)
	if err != nil {
		return nil, err
	}

	registration, err := meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	e.registration = registration
	return e, nil
}

func (e *OTelExporter) buildObserveOptions() {
	e.base = metric.WithAttributeSet(attribute.NewSet(e.attrs...))

	labels := internaldefs.HistogramBucketLabels()
	e.bucketOpts = make([]metric.ObserveOption, len(labels))
	for i, le := range labels {
		kvs := make([]attribute.KeyValue, 0, len(e.attrs)+1)
		kvs = append(kvs, e.attrs...)
		kvs = append(kvs, attribute.String("le", le))
		e.bucketOpts[i] = metric.WithAttributeSet(attribute.NewSet(kvs...))
	}
}

func (e *OTelExporter) createInstruments(meter metric.Meter) ([]metric.Observable, error) {
	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs)+2*len(internaldefs.HistogramDefs)+1)

	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", def.Name, err)
		}
		e.counters[def.ID] = ins
		observables = append(observables, ins)
	}

	for _, def := range internaldefs.HistogramDefs {
		buckets, err := meter.Int64ObservableGauge(def.Name+"_bucket",
			metric.WithDescription(def.Help+" Cumulative count per upper bound."))
		if err != nil {
			return nil, fmt.Errorf("create bucket gauge %s: %w", def.Name, err)
		}
		count, err := meter.Int64ObservableGauge(def.Name+"_count",
			metric.WithDescription(def.Help+" Total samples."))
		if err != nil {
			return nil, fmt.Errorf("create count gauge %s: %w", def.Name, err)
		}
		e.latencies = append(e.latencies, latencyInstruments{id: def.ID, buckets: buckets, count: count})
		observables = append(observables, buckets, count)
	}

	dropped, err := meter.Int64ObservableCounter(
		internaldefs.AuditDroppedName,
		metric.WithDescription(internaldefs.AuditDroppedHelp),
	)
	if err != nil {
		return nil, fmt.Errorf("create audit dropped counter: %w", err)
	}
	e.auditDropped = dropped
	return append(observables, dropped), nil
}

// observe reads one snapshot per collection. Metrics missing from the
// snapshot (disabled counters or histograms) are not reported.
func (e *OTelExporter) observe(_ context.Context, o metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()

	for _, def := range internaldefs.CounterDefs {
		if v, ok := snapshot.Counters[def.ID]; ok {
			o.ObserveInt64(e.counters[def.ID], int64(v), e.base)
		}
	}

	for _, l := range e.latencies {
		raw, ok := snapshot.Histograms[l.id]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		for i, opt := range e.bucketOpts {
			o.ObserveInt64(l.buckets, int64(cumulative[i]), opt)
		}
		o.ObserveInt64(l.count, int64(cumulative[len(cumulative)-1]), e.base)
	}

	o.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()), e.base)
	return nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
