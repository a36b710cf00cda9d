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
	workspaceSignups  metric.Int64Counter
	membersAdded      metric.Int64Counter
	timeEntriesLogged metric.Int64Counter
	tasksCompleted    metric.Int64Counter
}

// NewProvider configures and registers the meter provider. When metrics are
// disabled the noop provider is installed so instrument calls stay valid.
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
		name = "lumora"
	}
	meter := provider.Meter(name)

	workspaceSignups, err := meter.Int64Counter("lumora_workspace_signups_total")
	if err != nil {
		return nil, err
	}
	membersAdded, err := meter.Int64Counter("lumora_members_added_total")
	if err != nil {
		return nil, err
	}
	timeEntriesLogged, err := meter.Int64Counter("lumora_time_entries_logged_total")
	if err != nil {
		return nil, err
	}
	tasksCompleted, err := meter.Int64Counter("lumora_tasks_completed_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		workspaceSignups:  workspaceSignups,
		membersAdded:      membersAdded,
		timeEntriesLogged: timeEntriesLogged,
		tasksCompleted:    tasksCompleted,
	}, nil
}

// RecordWorkspaceSignup increments workspace provisioning counts.
func (m *Metrics) RecordWorkspaceSignup(ctx context.Context, plan string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("plan", strings.TrimSpace(plan)))
	m.workspaceSignups.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordMemberAdded increments membership grant counts.
func (m *Metrics) RecordMemberAdded(ctx context.Context, role string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("role", strings.TrimSpace(role)))
	m.membersAdded.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordTimeEntryLogged increments logged time entry counts.
func (m *Metrics) RecordTimeEntryLogged(ctx context.Context) {
	if m == nil {
		return
	}
	m.timeEntriesLogged.Add(ctx, 1)
}

// RecordTaskCompleted increments task completion counts.
func (m *Metrics) RecordTaskCompleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.tasksCompleted.Add(ctx, 1)
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
	"plan": {},
	"role": {},
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
