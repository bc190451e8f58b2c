package dsl

import (
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/reoring/jsonvet"
	"github.com/reoring/jsonvet/i18n"
)

type formatCheck struct {
	name  string
	msgID string
	ok    func(string) bool
}

func (v formatCheck) Name() string { return v.name }

func (v formatCheck) Validate(n jsonvet.Node) iter.Seq[jsonvet.ValidationError] {
	if s, isStr := n.(string); isStr && v.ok(s) {
		return jsonvet.Empty
	}
	return jsonvet.Single(jsonvet.NewError(jsonvet.CodeCustom,
		i18n.T(v.msgID, nil), map[string]any{"format": v.name}))
}

// IsUUID accepts strings that parse as a UUID.
func IsUUID() jsonvet.Validator {
	return formatCheck{name: "uuid", msgID: i18n.InvalidUUID, ok: func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	}}
}

// IsRFC3339 accepts RFC 3339 timestamps, with or without fractional seconds.
func IsRFC3339() jsonvet.Validator {
	return formatCheck{name: "date-time", msgID: i18n.InvalidTimestamp, ok: func(s string) bool {
		_, err := ParseRFC3339(s)
		return err == nil
	}}
}

// ParseRFC3339 accepts RFC3339Nano (trailing zeros optional) and RFC3339.
func ParseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}
