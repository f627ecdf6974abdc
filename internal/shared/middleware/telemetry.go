package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const unmatchedRoute = "unmatched"

var (
	tracer = otel.Tracer("paynex/http")
	meter  = otel.Meter("paynex/http")

	requestDuration, _ = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	requestTotal, _ = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Total HTTP requests"),
	)
)

// Telemetry wraps a handler with otelhttp instrumentation.
func Telemetry(next http.Handler) http.Handler {
	return otelhttp.NewMiddleware("paynex-api")(next)
}

// Tracing opens a server span per request and records request count and
// duration labelled by the ServeMux pattern that matched, so /api/banks/{id}
// is one series rather than one per bank. It must wrap the mux without any
// layer in between that copies the request.
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			),
		)
		defer span.End()

		start := time.Now()
		rw := wrapResponseWriter(w)
		req := r.WithContext(ctx)
		next.ServeHTTP(rw, req)

		route := req.Pattern
		if route == "" {
			route = unmatchedRoute
		}
		status := rw.StatusOrOK()

		span.SetName(r.Method + " " + route)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
			attribute.Int("http.response_size", rw.bytes),
		)
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		attrs := metric.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		requestTotal.Add(ctx, 1, attrs)
	})
}
