package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullTimestamp_Scan(t *testing.T) {
	want := time.Date(2024, 3, 9, 14, 30, 0, 123456000, time.UTC)

	cases := map[string]interface{}{
		"time":     want.In(time.FixedZone("CET", 3600)),
		"rfc3339":  "2024-03-09T14:30:00.123456Z",
		"bytes":    []byte("2024-03-09T15:30:00.123456+01:00"),
		"sqlite":   "2024-03-09 14:30:00.123456+00:00",
		"goString": "2024-03-09 14:30:00.123456 +0000 UTC",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			var ts nullTimestamp
			require.NoError(t, ts.Scan(value))
			assert.True(t, ts.Valid)
			assert.True(t, want.Equal(ts.Time), "got %s", ts.Time)
			assert.Equal(t, time.UTC, ts.Time.Location())
		})
	}
}

func TestNullTimestamp_ScanNull(t *testing.T) {
	ts := nullTimestamp{Time: time.Now(), Valid: true}
	require.NoError(t, ts.Scan(nil))
	assert.False(t, ts.Valid)
}

func TestNullTimestamp_ScanInvalid(t *testing.T) {
	var ts nullTimestamp
	assert.Error(t, ts.Scan("yesterday"))
	assert.Error(t, ts.Scan(42))
}

func TestDialect_TimeArg(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-09T14:30:00Z", DialectSQLite.timeArg(now))
	assert.Equal(t, now, DialectPostgres.timeArg(now))
}
