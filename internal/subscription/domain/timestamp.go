package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/railzwaylabs/billingmock/internal/apierror"
)

const nowSentinel = "now"

// Timestamp is a Unix-seconds value that may also be the literal sentinel
// "now". The sentinel must survive round-trips through JSON and the store:
// some fields (billing_cycle_anchor) pass the caller's literal value through
// unresolved.
type Timestamp struct {
	Now  bool
	Unix int64
}

func At(unix int64) *Timestamp { return &Timestamp{Unix: unix} }

func NowSentinel() *Timestamp { return &Timestamp{Now: true} }

// Resolve returns the concrete Unix value, substituting now for the sentinel.
func (t Timestamp) Resolve(now time.Time) int64 {
	if t.Now {
		return now.Unix()
	}
	return t.Unix
}

// ParseTimestamp reads the query-string form: "now" or a unix integer.
func ParseTimestamp(raw string) (*Timestamp, error) {
	if raw == nowSentinel {
		return NowSentinel(), nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apierror.InvalidTimestamp("Invalid timestamp: must be an integer")
	}
	return At(n), nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Now {
		return json.Marshal(nowSentinel)
	}
	return json.Marshal(t.Unix)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == nowSentinel {
			*t = Timestamp{Now: true}
			return nil
		}
		return apierror.InvalidTimestamp("Invalid timestamp: must be an integer")
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return apierror.InvalidTimestamp("Invalid timestamp: must be an integer")
	}
	*t = Timestamp{Unix: n}
	return nil
}

func (t Timestamp) Value() (driver.Value, error) {
	if t.Now {
		return nowSentinel, nil
	}
	return strconv.FormatInt(t.Unix, 10), nil
}

func (t *Timestamp) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case int64:
		*t = Timestamp{Unix: v}
		return nil
	default:
		return fmt.Errorf("unsupported timestamp column type %T", value)
	}
}

func (t *Timestamp) scanString(s string) error {
	if s == nowSentinel {
		*t = Timestamp{Now: true}
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*t = Timestamp{Unix: n}
	return nil
}
