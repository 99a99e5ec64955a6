// Package observability exposes OpenTelemetry instruments through the
// Prometheus exporter.
package observability

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

type Observability struct {
	meterProvider *metric.MeterProvider
	jobCounter    otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
	analyses      otelmetric.Int64Counter
	leads         otelmetric.Int64Counter
}

// New registers the exporter with the default Prometheus registry and
// installs the provider globally.
func New(serviceName string) (*Observability, error) {
	o, err := NewWithRegisterer(serviceName, promclient.DefaultRegisterer)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(o.meterProvider)
	return o, nil
}

func NewWithRegisterer(serviceName string, reg promclient.Registerer) (*Observability, error) {
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	provider := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	meter := provider.Meter(serviceName)

	o := &Observability{meterProvider: provider}
	if o.jobCounter, err = meter.Int64Counter("jobs.processed",
		otelmetric.WithDescription("Number of jobs processed")); err != nil {
		return nil, err
	}
	if o.jobDuration, err = meter.Float64Histogram("jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms")); err != nil {
		return nil, err
	}
	if o.analyses, err = meter.Int64Counter("inquiries.analyzed",
		otelmetric.WithDescription("Inquiries analysed")); err != nil {
		return nil, err
	}
	if o.leads, err = meter.Int64Counter("leads.scored",
		otelmetric.WithDescription("Leads scored")); err != nil {
		return nil, err
	}
	return o, nil
}

// RecordJob counts a handled job and its duration. A nil receiver is a no-op.
func (o *Observability) RecordJob(ctx context.Context, taskType string, d time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("task_type", taskType))
	o.jobCounter.Add(ctx, 1, attrs)
	o.jobDuration.Record(ctx, float64(d.Milliseconds()), attrs)
}

func (o *Observability) RecordAnalysis(ctx context.Context, intent, complexity string) {
	if o == nil {
		return
	}
	o.analyses.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("intent", intent),
		attribute.String("complexity", complexity),
	))
}

func (o *Observability) RecordLeads(ctx context.Context, segment string, n int) {
	if o == nil || n == 0 {
		return
	}
	o.leads.Add(ctx, int64(n), otelmetric.WithAttributes(attribute.String("segment", segment)))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return o.meterProvider.Shutdown(ctx)
}
