package main

import "time"

// todayKey returns the current calendar date in the server's local timezone
// as "YYYY-MM-DD". Handlers read it once per request so a log written just
// before midnight is never compared against a cached date from the day before.
func todayKey() string {
	return time.Now().Format("2006-01-02")
}

// addToLog folds a nutrient record into the running totals for today.
// A log stamped with a different date is stale: it is discarded and the
// record starts a fresh zeroed log for today instead of accumulating onto
// yesterday's totals. Archiving discarded days is the persistence layer's
// job, not this function's.
func addToLog(current dailyLog, record nutrientRecord, today string) dailyLog {
	if current.DateKey != today {
		current = resetLog(today)
	}
	current.Kcal += record.Kcal
	current.ProteinG += record.ProteinG
	current.CarbsG += record.CarbsG
	current.FatG += record.FatG
	return current
}

// resetLog returns an all-zero log stamped with today, used both for the
// explicit user reset and for implicit day rollover.
func resetLog(today string) dailyLog {
	return dailyLog{DateKey: today}
}
