package sqlite

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"todolist/internal/models"
)

// classify marks a foreign key failure on a write as a bad reference in the
// request. Every other driver error is passed through wrapped.
func classify(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
		return fmt.Errorf("%s: %w: %s", op, models.ErrInvalidReference, sqliteErr.Error())
	}
	return fmt.Errorf("%s: %w", op, err)
}

// timestamp scans DATETIME columns whether the driver hands back a parsed
// time.Time or the raw text, which happens for RETURNING columns.
type timestamp struct {
	t *time.Time
}

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*ts.t = time.Time{}
		return nil
	case time.Time:
		*ts.t = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case int64:
		*ts.t = time.Unix(v, 0).UTC()
		return nil
	default:
		return fmt.Errorf("unsupported timestamp value %T", src)
	}
}

func (ts timestamp) parse(raw string) error {
	s := strings.TrimSuffix(raw, "Z")
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			*ts.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", raw)
}
