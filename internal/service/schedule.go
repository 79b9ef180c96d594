package service

import "time"

// NextSlots computes n release timestamps under the one-post-per-day cadence
// rule. The first slot is the next occurrence of hourUTC:00:00 UTC strictly
// after now; each following slot is exactly one day later. All arithmetic is
// in UTC, so the slots are 24h apart regardless of local time anomalies.
func NextSlots(n int, hourUTC int, now time.Time) []time.Time {
	if n <= 0 {
		return nil
	}

	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), now.Day(), hourUTC, 0, 0, 0, time.UTC)
	if !first.After(now) {
		first = first.Add(24 * time.Hour)
	}

	slots := make([]time.Time, n)
	for i := range slots {
		slots[i] = first.Add(time.Duration(i) * 24 * time.Hour)
	}
	return slots
}
