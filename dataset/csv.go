package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

// Column names accepted in the CSV header, matched case-insensitively.
var columnAliases = map[string][]string{
	"user_id":       {"user_id"},
	"product_id":    {"product_id", "item_id"},
	"rating":        {"rating"},
	"purchase_date": {"purchase_date", "timestamp"},
}

type loadOptions struct {
	skipIncomplete bool
	normalize      bool
}

// LoadOption configures LoadCSV.
type LoadOption func(*loadOptions)

// WithSkipIncomplete drops rows that have an empty user, item, rating or date
// instead of failing on them.
func WithSkipIncomplete() LoadOption {
	return func(o *loadOptions) {
		o.skipIncomplete = true
	}
}

// WithTimestampNormalization rewrites every purchase date with NormalizeTimestamp.
func WithTimestampNormalization() LoadOption {
	return func(o *loadOptions) {
		o.normalize = true
	}
}

// LoadCSV reads a training table from CSV. The first record is the header;
// extra columns are ignored. The returned table has passed Validate.
func LoadCSV(r io.Reader, opts ...LoadOption) (Table, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewEmptyDataError("LoadCSV")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var table Table
	for row := 0; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read csv row %d", row)
		}

		field := func(name string) string {
			idx := cols[name]
			if idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}
		user, item, rawRating, date := field("user_id"), field("product_id"), field("rating"), field("purchase_date")

		if user == "" || item == "" || rawRating == "" || date == "" {
			if o.skipIncomplete {
				continue
			}
			return nil, errors.NewDataError("LoadCSV", row, firstMissing(user, item, rawRating, date), "missing required field")
		}

		rating, err := strconv.ParseFloat(rawRating, 64)
		if err != nil {
			return nil, errors.NewDataError("LoadCSV", row, "rating", "non-numeric rating")
		}

		if o.normalize {
			if date, err = NormalizeTimestamp(date); err != nil {
				return nil, errors.NewDataError("LoadCSV", row, "purchase_date", "unrecognized date")
			}
		}

		table = append(table, Rating{UserID: user, ItemID: item, Rating: rating, Timestamp: date})
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadFile opens path and reads it with LoadCSV.
func LoadFile(path string, opts ...LoadOption) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open training data %s", path)
	}
	defer f.Close()
	return LoadCSV(f, opts...)
}

func resolveColumns(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cols := make(map[string]int, len(columnAliases))
	for _, name := range []string{"user_id", "product_id", "rating", "purchase_date"} {
		found := false
		for _, alias := range columnAliases[name] {
			if idx, ok := positions[alias]; ok {
				cols[name] = idx
				found = true
				break
			}
		}
		if !found {
			return nil, errors.NewDataError("LoadCSV", -1, name, "missing column")
		}
	}
	return cols, nil
}

func firstMissing(user, item, rating, date string) string {
	switch "" {
	case user:
		return "user_id"
	case item:
		return "product_id"
	case rating:
		return "rating"
	default:
		return "purchase_date"
	}
}
