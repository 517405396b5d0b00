package fl33t

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TruthyBool is a boolean field coerced by truthiness rather than semantic
// parsing. Only JSON false, null, 0, "", [] and {} decode to false; every
// other value, including the string "false", decodes to true. This matches
// the service's historical contract and is deliberately preserved. Callers
// sending string booleans will get surprising but documented behavior.
type TruthyBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *TruthyBool) UnmarshalJSON(data []byte) error {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("decoding boolean field: %w", err)
	}

	*b = TruthyBool(truthy(value))

	return nil
}

// MarshalJSON implements json.Marshaler.
func (b TruthyBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

// Bool returns the plain bool value.
func (b TruthyBool) Bool() bool {
	return bool(b)
}

func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	case []interface{}:
		return len(v) > 0
	case map[string]interface{}:
		return len(v) > 0
	default:
		return true
	}
}

// Int is an integer field coerced by numeric cast: JSON numbers are
// truncated toward zero and numeric strings are parsed. Anything else is a
// decode error.
type Int int64

// UnmarshalJSON implements json.Unmarshaler.
func (i *Int) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decoding integer field: %w", err)
		}

		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return fmt.Errorf("%q is not an integer", s)
		}

		*i = Int(n)

		return nil
	}

	if string(trimmed) == "null" {
		*i = 0

		return nil
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return fmt.Errorf("%s is not an integer", string(trimmed))
	}

	*i = Int(f)

	return nil
}

// MarshalJSON implements json.Marshaler.
func (i Int) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(i))
}

// Int64 returns the plain int64 value.
func (i Int) Int64() int64 {
	return int64(i)
}

// timestampLayouts are tried in order when parsing timestamp strings.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a timestamp field with falsy passthrough. A falsy value
// (null, "", 0, false) marks the timestamp as unset and the raw sentinel is
// preserved verbatim through a JSON round trip; the service uses these
// sentinels for "not yet", e.g. a build that has not been uploaded. Any
// other value must be a parsable ISO-8601 date-time.
type Timestamp struct {
	Time  time.Time
	Valid bool

	sentinel json.RawMessage
}

// NewTimestamp returns a set Timestamp for the given time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("decoding timestamp field: %w", err)
	}

	if !truthy(value) {
		// Unset sentinel, stored verbatim.
		t.Time = time.Time{}
		t.Valid = false
		t.sentinel = append(json.RawMessage(nil), bytes.TrimSpace(data)...)

		return nil
	}

	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be an ISO-8601 string, got %s", string(data))
	}

	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			t.Valid = true
			t.sentinel = nil

			return nil
		}
	}

	return fmt.Errorf("must be a machine-parsable date-time, got %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		if t.sentinel != nil {
			return t.sentinel, nil
		}

		return []byte("null"), nil
	}

	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

// String renders the timestamp as ISO-8601 UTC, or the empty string when unset.
func (t Timestamp) String() string {
	if !t.Valid {
		return ""
	}

	return t.Time.UTC().Format(time.RFC3339Nano)
}

// Equal reports whether two timestamps represent the same instant, or are
// both unset.
func (t Timestamp) Equal(other Timestamp) bool {
	if !t.Valid || !other.Valid {
		return t.Valid == other.Valid
	}

	return t.Time.Equal(other.Time)
}

// rawFields splits a record object into its raw fields, rejecting any key
// outside the declared set.
func rawFields(typeName string, data []byte, declared map[string]struct{}) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding %s object: %w", typeName, err)
	}

	for key := range raw {
		if _, ok := declared[key]; !ok {
			return nil, &UnknownFieldError{Type: typeName, Field: key}
		}
	}

	return raw, nil
}

// validateEnum checks a declared enum field against its allowed value set.
func validateEnum(field, value string, allowed []string) error {
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}

	return &FieldValueError{
		Field:  field,
		Reason: fmt.Sprintf("must be one of %v, got %q", allowed, value),
	}
}

// fieldValueError wraps a coercion failure with the offending field name,
// unless it already carries one.
func fieldValueError(field string, err error) error {
	var unknown *UnknownFieldError
	if errors.As(err, &unknown) {
		return err
	}

	var fieldErr *FieldValueError
	if errors.As(err, &fieldErr) {
		return err
	}

	return &FieldValueError{Field: field, Reason: err.Error()}
}
