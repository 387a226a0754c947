// Package telemetry wires up OpenTelemetry tracing and metrics. Local
// profiles print pretty spans to stdout; production exports OTLP/HTTP to a
// collector.
//
//	tp, err := telemetry.InitTracer(ctx, "catalog-sync", "otlp", endpoint)
//	mp, err := telemetry.InitMeter(ctx, "catalog-sync", "otlp", endpoint)
//	metrics, err := telemetry.NewMetrics(mp)
//
// All instruments the service records live on the Metrics struct so call
// sites share one registration point.
package telemetry

import (
	"context"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Label keys shared by the HTTP layers and the sync pipeline.
var (
	AttrHTTPMethod  = attribute.Key("http.method")
	AttrHTTPStatus  = attribute.Key("http.status_code")
	AttrPeerService = attribute.Key("peer.service")
	AttrResult      = attribute.Key("result")
	AttrEntity      = attribute.Key("entity")
	AttrTarget      = attribute.Key("target")
)

// Metrics holds every instrument the service records: the inbound and
// outbound HTTP pairs, plus sync runs, documents written, cache purges, and
// revalidation notifications.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter
	ClientRequestDuration metric.Float64Histogram
	ClientRequestTotal    metric.Int64Counter
	SyncRunTotal          metric.Int64Counter
	SyncItemTotal         metric.Int64Counter
	InvalidationTotal     metric.Int64Counter
	NotificationTotal     metric.Int64Counter
}

// InitTracer installs the global TracerProvider and W3C propagators.
// exporter "otlp" ships spans to endpoint over OTLP/HTTP; anything else
// pretty-prints to stdout. The caller shuts the provider down on exit.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string) (*sdktrace.TracerProvider, error) {
	res, err := serviceResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var spanExporter sdktrace.SpanExporter
	if exporter == "otlp" {
		spanExporter, err = otlptracehttp.New(ctx, otlpTraceOptions(endpoint)...)
	} else {
		spanExporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, nil
}

// InitMeter installs the global MeterProvider with the same exporter
// selection as InitTracer. The caller shuts the provider down on exit.
func InitMeter(ctx context.Context, serviceName, exporter, endpoint string) (*sdkmetric.MeterProvider, error) {
	res, err := serviceResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var metricExporter sdkmetric.Exporter
	if exporter == "otlp" {
		metricExporter, err = otlpmetrichttp.New(ctx, otlpMetricOptions(endpoint)...)
	} else {
		metricExporter, err = stdoutmetric.New()
	}
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	return mp, nil
}

// NewMetrics registers every instrument on a meter scoped to the module
// path.
func NewMetrics(mp *sdkmetric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter("github.com/commercemesh/catalog-sync")

	var firstErr error
	histogram := func(name, desc, unit string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("creating %s: %w", name, err)
		}
		return h
	}
	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("creating %s: %w", name, err)
		}
		return c
	}

	m := &Metrics{
		ServerRequestDuration: histogram("http.server.request.duration", "Duration of incoming HTTP requests", "s"),
		ServerRequestTotal:    counter("http.server.request.total", "Total number of incoming HTTP requests", "{request}"),
		ClientRequestDuration: histogram("http.client.request.duration", "Duration of outgoing HTTP requests", "s"),
		ClientRequestTotal:    counter("http.client.request.total", "Total number of outgoing HTTP requests", "{request}"),
		SyncRunTotal:          counter("sync.run.total", "Total number of catalog sync runs", "{run}"),
		SyncItemTotal:         counter("sync.item.total", "Total number of catalog documents written during sync runs", "{document}"),
		InvalidationTotal:     counter("cache.invalidation.total", "Total number of cache pattern purges", "{pattern}"),
		NotificationTotal:     counter("revalidation.notification.total", "Total number of outbound revalidation notifications", "{notification}"),
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return m, nil
}

func serviceResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func otlpTraceOptions(endpoint string) []otlptracehttp.Option {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(hostPort(endpoint))}
	if !isHTTPS(endpoint) {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return opts
}

func otlpMetricOptions(endpoint string) []otlpmetrichttp.Option {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(hostPort(endpoint))}
	if !isHTTPS(endpoint) {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	return opts
}

// hostPort strips the scheme from a collector URL; the OTLP options want
// bare host:port.
func hostPort(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

func isHTTPS(endpoint string) bool {
	u, err := url.Parse(endpoint)
	return err == nil && u.Scheme == "https"
}
