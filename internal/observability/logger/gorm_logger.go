package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// tableModules maps each table to the module that owns it.
var tableModules = map[string]string{
	"properties":       "property",
	"apartments":       "apartment",
	"tenants":          "tenancy",
	"tenancies":        "tenancy",
	"payments":         "payment",
	"invoices":         "invoice",
	"invoice_payments": "invoice",
	"maintenance":      "maintenance",
	"water_meters":     "water",
	"water_readings":   "water",
	"water_usage":      "water",
}

// GormLogger writes SQL through the request-scoped zap logger. Bound values
// are never logged.
type GormLogger struct {
	level gormlogger.LogLevel
	slow  time.Duration
}

// NewGormLogger logs failed statements, and statements slower than slow.
// A zero slow disables the slow-query warning.
func NewGormLogger(slow time.Duration) *GormLogger {
	return &GormLogger{level: gormlogger.Warn, slow: slow}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *l
	next.level = level
	return &next
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) message(ctx context.Context, threshold gormlogger.LogLevel, level zapcore.Level, msg string, data []interface{}) {
	if l.level < threshold {
		return
	}
	fields := []zap.Field{zap.String("component", "db")}
	if len(data) > 0 {
		fields = append(fields, zap.Any("data", data))
	}
	if ce := FromContext(ctx).Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

// Trace reports a finished statement. Not-found lookups are not failures:
// repositories treat them as empty results.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound) && l.level >= gormlogger.Error:
		l.statement(ctx, zapcore.ErrorLevel, "db.query_failed", fc, elapsed, err)
	case l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn:
		l.statement(ctx, zapcore.WarnLevel, "db.query_slow", fc, elapsed, nil)
	case l.level >= gormlogger.Info:
		l.statement(ctx, zapcore.DebugLevel, "db.query", fc, elapsed, nil)
	}
}

// ParamsFilter drops bound values; rows hold tenant names and amounts.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, _ ...interface{}) (string, []interface{}) {
	return sql, nil
}

func (l *GormLogger) statement(ctx context.Context, level zapcore.Level, msg string, fc func() (string, int64), elapsed time.Duration, err error) {
	sql, rows := fc()
	table := tableFromSQL(sql)
	fields := []zap.Field{
		zap.String("component", "db"),
		zap.String("db.statement", strings.Join(strings.Fields(sql), " ")),
		zap.String("db.operation", operationFromSQL(sql)),
		zap.String("db.table", table),
		zap.String("module", moduleOfTable(table)),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows_affected", rows))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if ce := FromContext(ctx).Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

func moduleOfTable(table string) string {
	if module, ok := tableModules[strings.ToLower(table)]; ok {
		return module
	}
	return "other"
}

func operationFromSQL(sql string) string {
	for _, token := range strings.Fields(strings.ToUpper(sql)) {
		token = strings.Trim(token, "();")
		switch token {
		case "SELECT", "INSERT", "UPDATE", "DELETE":
			return token
		}
	}
	return "UNKNOWN"
}

// tableFromSQL returns the first table the statement reads or writes.
func tableFromSQL(sql string) string {
	tokens := strings.Fields(sql)
	for i := 0; i < len(tokens)-1; i++ {
		switch strings.ToUpper(tokens[i]) {
		case "FROM", "INTO", "UPDATE", "JOIN":
			table := strings.Trim(tokens[i+1], "`\"();,")
			if table != "" && !strings.EqualFold(table, "SELECT") {
				return table
			}
		}
	}
	return ""
}

var _ gormlogger.Interface = (*GormLogger)(nil)
