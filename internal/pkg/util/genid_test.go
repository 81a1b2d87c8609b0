package util

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenIDRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 589000000, time.UTC)
	id := GenID(at)

	require.Len(t, id, 10)
	require.Equal(t, at.UnixMilli(), GetTimestamp(id).UnixMilli())
}

func TestGenIDSortsChronologically(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	ids := []string{
		GenID(base.Add(3 * time.Hour)),
		GenID(base),
		GenID(base.Add(72 * time.Hour)),
		GenID(base.Add(time.Millisecond)),
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	require.Equal(t, []string{ids[1], ids[3], ids[0], ids[2]}, sorted)
}

func TestGetTimestampMalformed(t *testing.T) {
	require.True(t, GetTimestamp("").IsZero())
	require.True(t, GetTimestamp("short").IsZero())
	require.True(t, GetTimestamp("!!!!!!!!xx").IsZero())
}
