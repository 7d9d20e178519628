package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestOperationAndTableFromSQL(t *testing.T) {
	cases := []struct {
		sql    string
		op     string
		table  string
		module string
	}{
		{sql: "SELECT * FROM water_meters WHERE water_meter_id = ?", op: "SELECT", table: "water_meters", module: "water"},
		{sql: "INSERT INTO `water_readings` (`water_meter_id`) VALUES (?)", op: "INSERT", table: "water_readings", module: "water"},
		{sql: "UPDATE invoices SET status = ? WHERE invoice_id = ?", op: "UPDATE", table: "invoices", module: "invoice"},
		{sql: "WITH x AS (SELECT 1) DELETE FROM payments", op: "SELECT", table: "payments", module: "payment"},
		{sql: "SELECT 1", op: "SELECT", table: "", module: "other"},
	}

	for _, tc := range cases {
		if got := operationFromSQL(tc.sql); got != tc.op {
			t.Fatalf("operationFromSQL(%q) = %q, want %q", tc.sql, got, tc.op)
		}
		table := tableFromSQL(tc.sql)
		if table != tc.table {
			t.Fatalf("tableFromSQL(%q) = %q, want %q", tc.sql, table, tc.table)
		}
		if got := moduleOfTable(table); got != tc.module {
			t.Fatalf("moduleOfTable(%q) = %q, want %q", table, got, tc.module)
		}
	}
}

func TestGormLoggerTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	orig := zap.L()
	zap.ReplaceGlobals(zap.New(core))
	defer zap.ReplaceGlobals(orig)

	l := NewGormLogger(50 * time.Millisecond)
	ctx := context.Background()
	stmt := func() (string, int64) {
		return "SELECT reading_id FROM water_readings\n\t WHERE water_meter_id = ?", 1
	}

	l.Trace(ctx, time.Now(), stmt, nil)
	if n := logs.Len(); n != 0 {
		t.Fatalf("expected fast statements to stay quiet at warn level, got %d entries", n)
	}

	l.Trace(ctx, time.Now(), stmt, gormlogger.ErrRecordNotFound)
	if n := logs.Len(); n != 0 {
		t.Fatalf("expected not-found to stay quiet, got %d entries", n)
	}

	l.Trace(ctx, time.Now().Add(-time.Second), stmt, nil)
	l.Trace(ctx, time.Now(), stmt, errors.New("database is locked"))

	entries := logs.TakeAll()
	if len(entries) != 2 {
		t.Fatalf("expected slow and failed entries, got %d", len(entries))
	}
	if entries[0].Message != "db.query_slow" || entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("unexpected slow entry %s/%s", entries[0].Level, entries[0].Message)
	}
	fields := entries[0].ContextMap()
	if fields["db.statement"] != "SELECT reading_id FROM water_readings WHERE water_meter_id = ?" {
		t.Fatalf("statement not collapsed: %q", fields["db.statement"])
	}
	if fields["module"] != "water" {
		t.Fatalf("expected water module, got %v", fields["module"])
	}
	if entries[1].Message != "db.query_failed" || entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("unexpected failure entry %s/%s", entries[1].Level, entries[1].Message)
	}

	l.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), stmt, errors.New("boom"))
	if n := logs.Len(); n != 0 {
		t.Fatalf("expected silent mode to drop everything, got %d entries", n)
	}
}
