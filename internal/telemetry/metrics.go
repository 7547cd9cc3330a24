package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the metric instruments for the back office and public site.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter
	// record lifecycle
	RecordMutationsTotal metric.Int64Counter
	AssetsStoredTotal    metric.Int64Counter
	AuditFailuresTotal   metric.Int64Counter
	// public page cache
	CacheHitsTotal   metric.Int64Counter
	CacheMissesTotal metric.Int64Counter
	// limiter
	RateLimitHitsTotal metric.Int64Counter
	// middlewares
	AuthWorkDuration metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	httpRequestsTotal, err := meter.Int64Counter(
		"http_requests",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests: %w", err)
	}

	httpRequestDuration, err := meter.Float64Histogram(
		"http_request_duration",
		metric.WithDescription("HTTP request latency in ms"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration: %w", err)
	}

	httpActiveRequests, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of in-flight requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_active_requests: %w", err)
	}

	recordMutationsTotal, err := meter.Int64Counter(
		"record_mutations",
		metric.WithDescription("Confirmed record creates, updates and deletes by kind and action"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create record_mutations: %w", err)
	}

	assetsStoredTotal, err := meter.Int64Counter(
		"assets_stored",
		metric.WithDescription("Uploaded assets written to the media backend"),
		metric.WithUnit("{asset}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create assets_stored: %w", err)
	}

	auditFailuresTotal, err := meter.Int64Counter(
		"audit_failures",
		metric.WithDescription("Audit entries that could not be appended"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit_failures: %w", err)
	}

	cacheHitsTotal, err := meter.Int64Counter(
		"cache_hits",
		metric.WithDescription("Number of page cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache_hits: %w", err)
	}

	cacheMissesTotal, err := meter.Int64Counter(
		"cache_misses",
		metric.WithDescription("Number of page cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache_misses: %w", err)
	}

	rateLimitHitsTotal, err := meter.Int64Counter(
		"rate_limit_hits",
		metric.WithDescription("Number of rate limiter blocked requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate_limit_hits: %w", err)
	}

	authWorkDuration, err := meter.Float64Histogram(
		"auth_work_duration",
		metric.WithDescription("Real time spent on DB lookup and bcrypt during login"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth_work_duration: %w", err)
	}

	return &Metrics{
		HTTPRequestsTotal:    httpRequestsTotal,
		HTTPRequestDuration:  httpRequestDuration,
		HTTPActiveRequests:   httpActiveRequests,
		RecordMutationsTotal: recordMutationsTotal,
		AssetsStoredTotal:    assetsStoredTotal,
		AuditFailuresTotal:   auditFailuresTotal,
		CacheHitsTotal:       cacheHitsTotal,
		CacheMissesTotal:     cacheMissesTotal,
		RateLimitHitsTotal:   rateLimitHitsTotal,
		AuthWorkDuration:     authWorkDuration,
	}, nil
}

// RecordMutation counts one confirmed lifecycle mutation.
func (m *Metrics) RecordMutation(ctx context.Context, kind, action string) {
	m.RecordMutationsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("kind", kind), attribute.String("action", action)))
}

// AssetStored counts one upload written to the media backend.
func (m *Metrics) AssetStored(ctx context.Context, kind string) {
	m.AssetsStoredTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// AuditFailure counts one audit entry that could not be appended.
func (m *Metrics) AuditFailure(ctx context.Context, kind string) {
	m.AuditFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// CacheHit counts one page served from the cache.
func (m *Metrics) CacheHit(ctx context.Context) {
	m.CacheHitsTotal.Add(ctx, 1)
}

// CacheMiss counts one page rendered because no cached copy existed.
func (m *Metrics) CacheMiss(ctx context.Context) {
	m.CacheMissesTotal.Add(ctx, 1)
}
