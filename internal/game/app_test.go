package game

import (
	"testing"
	"time"

	"deferred-gl/internal/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeInfo(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })
	return logs
}

func TestFrameStatsVisibleWhenProfiling(t *testing.T) {
	logs := observeInfo(t)
	start := time.Now()
	a := &App{lastReport: start}

	a.report(start.Add(2 * time.Second))
	if n := logs.FilterMessage("frame stats").Len(); n != 0 {
		t.Fatalf("stats logged at info with profiling off: %d entries", n)
	}

	a.showProfiling = true
	a.report(start.Add(4 * time.Second))
	entries := logs.FilterMessage("frame stats").All()
	if len(entries) != 1 {
		t.Fatalf("stats entries = %d, want 1", len(entries))
	}
	if _, ok := entries[0].ContextMap()["top"]; !ok {
		t.Errorf("profiling stats missing section breakdown: %v", entries[0].ContextMap())
	}
}

func TestFrameStatsWaitForPeriod(t *testing.T) {
	logs := observeInfo(t)
	start := time.Now()
	a := &App{lastReport: start, showProfiling: true}

	a.report(start.Add(profilePeriod / 2))
	if logs.Len() != 0 {
		t.Fatalf("reported before the period elapsed")
	}
	a.report(start.Add(profilePeriod))
	if got := logs.All(); len(got) != 1 || got[0].ContextMap()["fps"] != int64(2) {
		t.Errorf("entries = %v, want one with fps 2", got)
	}
}
