package store

import (
	"Petrel/internal/pkg/util"
	"time"
)

// resolveWindow translates the cursor into an until bound (defaulting to
// now) and an optional since bound. When both an id and an explicit date are
// supplied the more restrictive of the two wins.
func resolveWindow(pg Pagination, now time.Time) (until time.Time, since *time.Time) {
	until = now
	if pg.UntilID != "" {
		if t := util.GetTimestamp(pg.UntilID); !t.IsZero() {
			until = t
		}
	}
	if pg.UntilDate != nil && pg.UntilDate.Before(until) {
		until = *pg.UntilDate
	}

	if pg.SinceID != "" {
		if t := util.GetTimestamp(pg.SinceID); !t.IsZero() {
			since = &t
		}
	}
	if pg.SinceDate != nil && (since == nil || pg.SinceDate.After(*since)) {
		since = pg.SinceDate
	}

	return until, since
}

// dateOf truncates a timestamp to its UTC date, the partition key.
func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// previousPartitionEnd is 23:59:59.999 of the day before t, the until bound
// for the next older partition.
func previousPartitionEnd(t time.Time) time.Time {
	yesterday := t.UTC().Add(-24 * time.Hour)
	return time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 23, 59, 59, 999000000, time.UTC)
}
