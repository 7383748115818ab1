package log_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/ghettovoice/gotimer/log"
)

func TestDefault(t *testing.T) {
	if got := log.Default(); got != log.Noop {
		t.Fatalf("log.Default() = %v, want log.Noop", got)
	}

	custom := slog.New(slog.DiscardHandler)
	log.SetDefault(custom)
	if got := log.Default(); got != custom {
		t.Fatalf("log.Default() after SetDefault = %v, want custom logger", got)
	}

	log.SetDefault(nil)
	if got := log.Default(); got != log.Noop {
		t.Fatalf("log.Default() after SetDefault(nil) = %v, want log.Noop", got)
	}
}

func TestNoop(t *testing.T) {
	t.Parallel()

	if log.Noop.Handler().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("Noop handler reported enabled for error level, want disabled")
	}

	// must not panic or emit anything
	log.Noop.Error("boom", slog.Any("error", context.Canceled))
}

func TestFmtValue(t *testing.T) {
	t.Parallel()

	type point struct{ X, Y int }

	v := log.FmtValue(point{1, 2}, false).LogValue()
	if got, want := v.String(), "{X:1 Y:2}"; got != want {
		t.Fatalf("FmtValue(point, false).LogValue() = %q, want %q", got, want)
	}

	v = log.FmtValue(point{1, 2}, true).LogValue()
	if got, want := v.String(), "log_test.point{X:1, Y:2}"; got != want {
		t.Fatalf("FmtValue(point, true).LogValue() = %q, want %q", got, want)
	}
}

func TestCalcValue(t *testing.T) {
	t.Parallel()

	calls := 0
	lv := log.CalcValue(func() any {
		calls++
		return calls
	})

	if got := lv.LogValue(); got.Kind() != slog.KindInt64 || got.Int64() != 1 {
		t.Fatalf("CalcValue().LogValue() = %v, want 1", got)
	}
	if got := lv.LogValue(); got.Int64() != 2 {
		t.Fatalf("CalcValue().LogValue() second call = %v, want 2", got)
	}

	lv = log.CalcValue(func() any { return slog.StringValue("ready") })
	if got := lv.LogValue(); got.Kind() != slog.KindString || got.String() != "ready" {
		t.Fatalf("CalcValue(slog.Value).LogValue() = %v, want \"ready\"", got)
	}
}

func TestStringValue(t *testing.T) {
	t.Parallel()

	if got := log.StringValue("abc").LogValue().String(); got != "abc" {
		t.Fatalf("StringValue(\"abc\").LogValue() = %q, want %q", got, "abc")
	}
	if got := log.StringValue([]byte("xyz")).LogValue().String(); got != "xyz" {
		t.Fatalf("StringValue([]byte).LogValue() = %q, want %q", got, "xyz")
	}
}
