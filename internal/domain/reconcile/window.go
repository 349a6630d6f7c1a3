package reconcile

import "time"

// dedupWindow is the inclusive date range searched for already-stored
// transactions. Unbounded means the account has never been synced and every
// fetched record is new.
type dedupWindow struct {
	Start     time.Time
	End       time.Time
	Unbounded bool
}

// Contains reports whether the execution time falls inside the window.
// Comparison is at date granularity so records from the boundary days are
// always considered.
func (w dedupWindow) Contains(t time.Time) bool {
	if w.Unbounded {
		return true
	}
	d := truncateToDate(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

// computeWindow derives the dedup window from the most recent stored
// execution date. The start reaches lookbackDays before that date to absorb
// late-arriving records the brokerage backfills after the fact.
func computeWindow(latest *time.Time, lookbackDays int, now time.Time) dedupWindow {
	if latest == nil {
		return dedupWindow{Unbounded: true}
	}
	return dedupWindow{
		Start: truncateToDate(*latest).AddDate(0, 0, -lookbackDays),
		End:   truncateToDate(now),
	}
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
