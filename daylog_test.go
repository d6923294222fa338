package main

import (
	"testing"
	"time"
)

/* ─── Accumulation tests ─────────────────────────────────────────────── */

// TestAddToLog_SameDayAccumulates verifies that two records on the same day
// sum field-by-field: 100 + 50 kcal = 150, and so on for the macros.
func TestAddToLog_SameDayAccumulates(t *testing.T) {
	today := "2026-08-27"
	l := resetLog(today)
	l = addToLog(l, nutrientRecord{Kcal: 100, ProteinG: 10, CarbsG: 12, FatG: 3}, today)
	l = addToLog(l, nutrientRecord{Kcal: 50, ProteinG: 5, CarbsG: 6, FatG: 2}, today)

	want := dailyLog{DateKey: today, Kcal: 150, ProteinG: 15, CarbsG: 18, FatG: 5}
	if l != want {
		t.Errorf("log = %+v, want %+v", l, want)
	}
}

// TestAddToLog_StaleLogRollsOver verifies the rollover invariant: a log dated
// yesterday is discarded, not accumulated onto, when a record arrives today.
func TestAddToLog_StaleLogRollsOver(t *testing.T) {
	stale := dailyLog{DateKey: "2026-08-26", Kcal: 1800, ProteinG: 120, CarbsG: 200, FatG: 60}
	got := addToLog(stale, nutrientRecord{Kcal: 300, ProteinG: 20, CarbsG: 30, FatG: 10}, "2026-08-27")

	want := dailyLog{DateKey: "2026-08-27", Kcal: 300, ProteinG: 20, CarbsG: 30, FatG: 10}
	if got != want {
		t.Errorf("rollover produced %+v, want %+v (yesterday's totals must not carry over)", got, want)
	}
}

// TestAddToLog_DoesNotMutateInput verifies value semantics: the caller's
// snapshot is untouched and only the returned log carries the new totals.
func TestAddToLog_DoesNotMutateInput(t *testing.T) {
	today := "2026-08-27"
	before := dailyLog{DateKey: today, Kcal: 500, ProteinG: 40, CarbsG: 50, FatG: 15}
	snapshot := before
	_ = addToLog(before, nutrientRecord{Kcal: 100}, today)
	if before != snapshot {
		t.Errorf("input log mutated: %+v, want %+v", before, snapshot)
	}
}

/* ─── Reset tests ────────────────────────────────────────────────────── */

// TestResetLog verifies the explicit reset: all-zero fields stamped with the
// supplied date key.
func TestResetLog(t *testing.T) {
	got := resetLog("2026-08-27")
	want := dailyLog{DateKey: "2026-08-27"}
	if got != want {
		t.Errorf("resetLog = %+v, want %+v", got, want)
	}
}

/* ─── Date key tests ─────────────────────────────────────────────────── */

// TestTodayKey_Format verifies the key is today's local calendar date in
// YYYY-MM-DD form. Comparing against dates captured on both sides of the
// call keeps the test stable across a midnight boundary.
func TestTodayKey_Format(t *testing.T) {
	before := time.Now().Format("2006-01-02")
	key := todayKey()
	after := time.Now().Format("2006-01-02")

	if _, err := time.Parse("2006-01-02", key); err != nil {
		t.Fatalf("todayKey() = %q, not a YYYY-MM-DD date: %v", key, err)
	}
	if key != before && key != after {
		t.Errorf("todayKey() = %q, want %q or %q", key, before, after)
	}
}
