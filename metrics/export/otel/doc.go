// Package otel provides OpenTelemetry metric bindings for goCrypt counters and
// latency histograms.
//
// [NewOTelExporter] registers an Int64ObservableCounter for each goCrypt
// counter. Each latency histogram is reported as a "_bucket" gauge with an
// "le" attribute per upper bound plus a "_count" gauge. A single callback
// reads [goCrypt.Engine.MetricsSnapshot] on each collection cycle and skips
// metrics the snapshot does not carry. [WithAttributes] adds fixed attributes
// to every data point.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider. Callers supply the Meter.
//   - Mutate engine state.
package otel
