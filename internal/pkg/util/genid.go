package util

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Note ids are time-ordered: an 8 character base36 millisecond timestamp
// (since 2000-01-01 UTC) followed by 2 random base36 characters. Sorting ids
// lexicographically sorts them chronologically, which is what cursor
// translation in the pagination engine relies on.

const (
	timeEpochMillis = int64(946684800000)
	timeLength      = 8
	noiseLength     = 2
)

const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenID generates a new id for the given creation time.
func GenID(t time.Time) string {
	ms := t.UnixMilli() - timeEpochMillis
	if ms < 0 {
		ms = 0
	}

	ts := strconv.FormatInt(ms, 36)
	if len(ts) < timeLength {
		ts = strings.Repeat("0", timeLength-len(ts)) + ts
	}

	noise := make([]byte, noiseLength)
	for i := range noise {
		noise[i] = base36Chars[rand.Intn(len(base36Chars))]
	}

	return ts + string(noise)
}

// GetTimestamp extracts the creation time encoded in an id. Malformed ids
// yield the zero time, which callers treat as an unusable cursor.
func GetTimestamp(id string) time.Time {
	if len(id) < timeLength {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(id[:timeLength], 36, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms + timeEpochMillis).UTC()
}
