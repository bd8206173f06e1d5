package platform

import (
	"reflect"
	"strconv"

	"github.com/lobbylink/lobbylink/pkg/errors"
)

// identifierFields are the field names under which wrapper types returned by
// different module builds carry their 64-bit identifier.
var identifierFields = []string{"ID", "Id", "AccountID", "LobbyID", "Handle", "Value"}

// NormalizeIdentifier converts the heterogeneous identifier representations
// returned by different native calls into one canonical unsigned 64-bit
// value. Accepted inputs: any integer kind, a decimal string, or a wrapper
// struct (optionally behind a pointer) exposing the value under one of the
// known field names. Anything else fails with an unrecognized-shape error.
func NormalizeIdentifier(raw interface{}) (uint64, error) {
	if raw == nil {
		return 0, errors.NewIdentifierError(raw)
	}

	switch v := raw.(type) {
	case uint64:
		return v, nil
	case uint:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case int64:
		if v < 0 {
			return 0, errors.NewIdentifierError(raw)
		}
		return uint64(v), nil
	case int:
		if v < 0 {
			return 0, errors.NewIdentifierError(raw)
		}
		return uint64(v), nil
	case int32:
		if v < 0 {
			return 0, errors.NewIdentifierError(raw)
		}
		return uint64(v), nil
	case string:
		if v == "" {
			return 0, errors.NewIdentifierError(raw)
		}
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, errors.NewIdentifierError(raw)
		}
		return id, nil
	}

	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return 0, errors.NewIdentifierError(raw)
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		for _, name := range identifierFields {
			f := rv.FieldByName(name)
			if f.IsValid() && f.CanInterface() {
				return NormalizeIdentifier(f.Interface())
			}
		}
	}
	return 0, errors.NewIdentifierError(raw)
}

// FormatIdentifier renders a canonical identifier in the decimal form used
// for presence connect-tokens and invite payloads.
func FormatIdentifier(id uint64) string {
	return strconv.FormatUint(id, 10)
}
