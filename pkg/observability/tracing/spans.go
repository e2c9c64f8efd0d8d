package tracing

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// SpanOperation names a span started by this package.
type SpanOperation string

const (
	SpanOperationListQuery SpanOperation = "repository.FindAll"
	SpanOperationFindByID  SpanOperation = "repository.FindByID"
	SpanOperationCount     SpanOperation = "repository.Count"

	SpanOperationCacheGet SpanOperation = "cache.get"
	SpanOperationCacheSet SpanOperation = "cache.set"
)

// Attribute keys specific to the portal.
const (
	ResourceKey     = attribute.Key("hrportal.resource")
	OutcomeKey      = attribute.Key("hrportal.outcome")
	TotalMatchedKey = attribute.Key("hrportal.total_matched")
	ReturnedKey     = attribute.Key("hrportal.returned")
	CacheKeyKey     = attribute.Key("hrportal.cache.key")
	CacheHitKey     = attribute.Key("hrportal.cache.hit")
)

const instrumentation = "github.com/nimburion/hrportal"

func tracer() trace.Tracer { return otel.Tracer(instrumentation) }

// StartRepositorySpan starts an internal span for an operation on one resource.
func StartRepositorySpan(ctx context.Context, operation SpanOperation, resource string) (context.Context, trace.Span) {
	return tracer().Start(ctx, string(operation),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(ResourceKey.String(resource)),
	)
}

// RecordListQuery annotates a list query span with its outcome and result sizes.
func RecordListQuery(span trace.Span, outcome string, totalMatched, returned int) {
	span.SetAttributes(
		OutcomeKey.String(outcome),
		TotalMatchedKey.Int(totalMatched),
		ReturnedKey.Int(returned),
	)
}

// DBQuery describes a statement for StartDatabaseSpan.
type DBQuery struct {
	// System is the db.system value, e.g. "postgresql" or "sqlite".
	System    string
	Table     string
	Statement string
}

// operation is the leading SQL keyword of the statement.
func (q DBQuery) operation() string {
	op, _, _ := strings.Cut(strings.TrimSpace(q.Statement), " ")
	return strings.ToUpper(op)
}

// StartDatabaseSpan starts a client span named "<operation> <table>" after the OpenTelemetry
// database conventions.
func StartDatabaseSpan(ctx context.Context, q DBQuery) (context.Context, trace.Span) {
	op := q.operation()
	name := strings.TrimSpace(op + " " + q.Table)
	if name == "" {
		name = "db.query"
	}
	attrs := []attribute.KeyValue{semconv.DBOperation(op)}
	if q.System != "" {
		attrs = append(attrs, semconv.DBSystemKey.String(q.System))
	}
	if q.Table != "" {
		attrs = append(attrs, semconv.DBSQLTable(q.Table))
	}
	if q.Statement != "" {
		attrs = append(attrs, semconv.DBStatement(q.Statement))
	}
	return tracer().Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}

// StartCacheSpan starts a client span for a snapshot cache operation.
func StartCacheSpan(ctx context.Context, operation SpanOperation, key string) (context.Context, trace.Span) {
	return tracer().Start(ctx, string(operation),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(CacheKeyKey.String(key)),
	)
}

// RecordCacheHit marks whether a cache read found a usable snapshot.
func RecordCacheHit(span trace.Span, hit bool) {
	span.SetAttributes(CacheHitKey.Bool(hit))
}

// RecordError marks span failed with err. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
