package dataset

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

// DateLayout is the canonical key for timestamps that fall on midnight UTC.
const DateLayout = "2006-01-02"

// NormalizeTimestamp parses a purchase date in any common layout and returns
// its canonical key: DateLayout for midnight UTC, RFC 3339 otherwise.
// Inputs without a zone are read as UTC.
//
// Training rows and prediction requests must go through the same function so
// that "2023-01-15", "2023/01/15" and "2023-01-15T00:00:00Z" hit the same
// time-bias entry.
func NormalizeTimestamp(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.NewDataError("NormalizeTimestamp", -1, "purchase_date", "missing required field")
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return "", errors.NewDataError("NormalizeTimestamp", -1, "purchase_date", "unrecognized date '"+s+"'")
	}
	t = t.UTC()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(DateLayout), nil
	}
	return t.Format(time.RFC3339), nil
}
