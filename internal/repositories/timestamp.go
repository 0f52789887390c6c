package repositories

import (
	"fmt"
	"time"
)

// sqlite has no native time type: timestamps are written as RFC 3339 text and
// the driver may hand them back either parsed or as text.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
}

// nullTimestamp scans a nullable timestamp column from either driver.
type nullTimestamp struct {
	Time  time.Time
	Valid bool
}

func (n *nullTimestamp) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		n.Time, n.Valid = time.Time{}, false
		return nil
	case time.Time:
		n.Time, n.Valid = v.UTC(), true
		return nil
	case string:
		return n.parse(v)
	case []byte:
		return n.parse(string(v))
	}
	return fmt.Errorf("unsupported timestamp type %T", value)
}

func (n *nullTimestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			n.Time, n.Valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

// timeArg converts t into the bind value the dialect stores timestamps as.
func (d Dialect) timeArg(t time.Time) interface{} {
	if d.numbered {
		return t
	}
	return t.UTC().Format(time.RFC3339Nano)
}
