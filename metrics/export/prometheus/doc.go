// Package prometheus exposes goCrypt metrics through
// github.com/prometheus/client_golang.
//
// [Collector] turns each [goCrypt.Engine.MetricsSnapshot] into constant
// metrics at scrape time, so it can be registered in any registry.
// [PrometheusExporter] wraps a Collector in a private registry and serves it
// with promhttp. Counter names are prefixed gocrypt_*_total; the latency
// histograms are gocrypt_hash_latency_seconds and
// gocrypt_validate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in the global Prometheus registry.
//   - Mutate engine state.
package prometheus
