// internal/crud/params.go
//
// Botfleet – CRUD subsystem: list-parameter decoding.
//
// DecodeListParams parses a raw query string against the parameter specs
// derived from a resource's filter descriptors.  Violations are collected as
// field-level errors rather than failing on the first, so a client sees the
// whole complaint in one 422 response.  Out-of-range page and per_page are
// rejected, never clamped; silent clamping hid client mistakes in an earlier
// iteration of this contract.

package crud

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Paging bounds.  per_page above MaxPerPage is a client error.
const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// ListParams is the decoded form of a list request's query string.  Filters
// holds decoded scalars keyed by external parameter name; absent parameters
// have no key.
type ListParams struct {
	Page    int
	PerPage int
	Filters map[string]any
}

// timeLayouts accepted for date-range bounds, tried in order.  Zone-less
// values are interpreted as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime decodes one timestamp parameter or body value.
func ParseTime(raw string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

// DecodeListParams parses q against specs.  It returns the decoded
// parameters and a slice of field-level violations; the slice is empty on
// success.  Unknown query parameters are ignored.
func DecodeListParams(q url.Values, specs []ParamSpec) (ListParams, []FieldError) {
	params := ListParams{
		Page:    DefaultPage,
		PerPage: DefaultPerPage,
		Filters: make(map[string]any, len(specs)),
	}
	var errs []FieldError

	if raw, ok := first(q, "page"); ok {
		switch n, err := strconv.Atoi(raw); {
		case err != nil:
			errs = append(errs, FieldError{Field: "page", Message: "must be an integer"})
		case n < 1:
			errs = append(errs, FieldError{Field: "page", Message: "must be greater than or equal to 1"})
		default:
			params.Page = n
		}
	}
	if raw, ok := first(q, "per_page"); ok {
		switch n, err := strconv.Atoi(raw); {
		case err != nil:
			errs = append(errs, FieldError{Field: "per_page", Message: "must be an integer"})
		case n < 1 || n > MaxPerPage:
			errs = append(errs, FieldError{Field: "per_page", Message: fmt.Sprintf("must be between 1 and %d", MaxPerPage)})
		default:
			params.PerPage = n
		}
	}

	for _, spec := range specs {
		raw, ok := first(q, spec.Name)
		if !ok {
			continue
		}
		v, err := decodeScalar(raw, spec.Type)
		if err != nil {
			errs = append(errs, FieldError{Field: spec.Name, Message: err.Error()})
			continue
		}
		params.Filters[spec.Name] = v
	}

	return params, errs
}

// first returns the first value for key and whether the key was present at
// all.  A present-but-empty value is returned as the empty string, which
// non-string types then reject during decoding.
func first(q url.Values, key string) (string, bool) {
	vals, ok := q[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// decodeScalar converts one raw query value into its declared type.
func decodeScalar(raw string, t ValueType) (any, error) {
	switch t {
	case TypeString:
		return raw, nil
	case TypeBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q", raw)
		}
		return v, nil
	case TypeInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		return v, nil
	case TypeFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		return v, nil
	case TypeTime:
		return ParseTime(raw)
	default:
		return nil, fmt.Errorf("unsupported value type %d", t)
	}
}
