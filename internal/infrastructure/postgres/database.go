package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxStatementLen = 256

var (
	tracer = otel.Tracer("paynex.postgres")

	// Quoted strings (with '' escapes) and bare numbers. $N placeholders are
	// matched too so the replacer can keep them.
	literalPattern = regexp.MustCompile(`'(?:[^']|'')*'|\$?\b\d+(?:\.\d+)?\b`)
)

// DB wraps *sql.DB so that Exec and QueryRow calls open a client span.
type DB struct {
	*sql.DB
}

// New opens the credential database and verifies it answers within timeout.
func New(ctx context.Context, dsn string, timeout time.Duration) (*DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB}, nil
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx, span := startSpan(ctx, query)
	res, err := db.DB.ExecContext(ctx, query, args...)
	finishSpan(span, err)
	return res, err
}

// QueryRowContext defers ending the span to Scan, the point where *sql.Row
// surfaces its error.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *Row {
	ctx, span := startSpan(ctx, query)
	return &Row{row: db.DB.QueryRowContext(ctx, query, args...), span: span}
}

type Row struct {
	row  *sql.Row
	span trace.Span
}

func (r *Row) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if r.span != nil {
		finishSpan(r.span, err)
		r.span = nil
	}
	return err
}

func startSpan(ctx context.Context, query string) (context.Context, trace.Span) {
	verb := extractSQLVerb(query)
	return tracer.Start(ctx, "postgres "+verb,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", verb),
			attribute.String("db.statement", sanitizeQuery(query)),
		),
	)
}

// finishSpan ends span. sql.ErrNoRows is an answer, not a failure.
func finishSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// sanitizeQuery masks literals so credentials never reach a trace backend,
// and caps the statement length.
func sanitizeQuery(q string) string {
	s := literalPattern.ReplaceAllStringFunc(q, func(lit string) string {
		switch lit[0] {
		case '$':
			return lit
		case '\'':
			return "'?'"
		default:
			return "?"
		}
	})
	if len(s) > maxStatementLen {
		return s[:maxStatementLen] + "..."
	}
	return s
}

func extractSQLVerb(q string) string {
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}
