package observability

import (
	"context"
	"net/http"
	"time"

	"support-chat-dashboard/backend/pkg/config"
	"support-chat-dashboard/backend/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// SetupTracing installs a tracer provider with a stdout exporter and
// returns a shutdown func that flushes pending spans. Swap the exporter
// for OTLP when a collector is deployed.
func SetupTracing(serviceName string) func() {
	log := logger.GetGlobal()

	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		log.LogError(err, "failed to initialize trace exporter")
		return func() {}
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		log.LogError(err, "failed to build trace resource")
		res = resource.Default()
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.LogError(err, "trace provider shutdown failed")
		}
	}
}

// SetupPrometheusMetrics wires the otel meter provider to the prometheus
// exporter and serves /metrics on the configured port.
func SetupPrometheusMetrics() *metric.MeterProvider {
	log := logger.GetGlobal()

	exp, err := prometheus.New()
	if err != nil {
		log.LogError(err, "failed to initialize prometheus exporter")
		return metric.NewMeterProvider()
	}
	mp := metric.NewMeterProvider(metric.WithReader(exp))
	otel.SetMeterProvider(mp)

	port := config.Get().Server.MetricsPort
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		log.Info("metrics endpoint listening", "port", port)
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			log.LogError(err, "metrics endpoint failed", "port", port)
		}
	}()

	return mp
}
