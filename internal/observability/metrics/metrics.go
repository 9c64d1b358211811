package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	vatCalculations    metric.Int64Counter
	validationFailures metric.Int64Counter
	rateLookupMisses   metric.Int64Counter
	snapshotReloads    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "clearbill"
	}
	meter := provider.Meter(name)

	vatCalculations, err := meter.Int64Counter("clearbill_vat_calculations_total")
	if err != nil {
		return nil, err
	}
	validationFailures, err := meter.Int64Counter("clearbill_vat_validation_failures_total")
	if err != nil {
		return nil, err
	}
	rateLookupMisses, err := meter.Int64Counter("clearbill_vat_rate_lookup_misses_total")
	if err != nil {
		return nil, err
	}
	snapshotReloads, err := meter.Int64Counter("clearbill_vat_snapshot_reloads_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		vatCalculations:    vatCalculations,
		validationFailures: validationFailures,
		rateLookupMisses:   rateLookupMisses,
		snapshotReloads:    snapshotReloads,
	}, nil
}

// RecordCalculation increments calculation counts per rule kind.
func (m *Metrics) RecordCalculation(ctx context.Context, ruleKind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("rule_kind", strings.TrimSpace(ruleKind)))
	m.vatCalculations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordValidationFailure increments prerequisite validation failures.
func (m *Metrics) RecordValidationFailure(ctx context.Context, ruleKind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("rule_kind", strings.TrimSpace(ruleKind)))
	m.validationFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateLookupMiss increments missing-rate lookups per country.
func (m *Metrics) RecordRateLookupMiss(ctx context.Context, country string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("country", strings.TrimSpace(country)))
	m.rateLookupMisses.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSnapshotReload increments rate snapshot rebuild counts.
func (m *Metrics) RecordSnapshotReload(ctx context.Context) {
	if m == nil {
		return
	}
	m.snapshotReloads.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"rule_kind":   {},
	"country":     {},
	"endpoint":    {},
	"status_code": {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
