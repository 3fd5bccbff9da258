// internal/crud/filter.go
//
// Botfleet – CRUD subsystem: filter descriptors and predicate compiler.
//
// Context
//   Every resource declares a list of FilterField descriptors alongside its
//   wiring.  Each descriptor maps one external query parameter to one SQL
//   predicate.  The list handler compiles the same descriptor list against
//   two builders per request (a COUNT and a page fetch), so Restrict must be
//   a pure function of its inputs: identical inputs yield equivalent
//   restrictions, which keeps totals consistent with page contents.
//
// Workflow
//   •  ParamSpecs expands a descriptor list into the flat external parameter
//      list (a date range contributes “_after” and “_before”).
//   •  ValidateFields rejects duplicate external names and unknown kinds at
//      wiring time, never at request time.
//   •  Restrict appends one AND-combined predicate per supplied value, in
//      descriptor order, using bind parameters throughout.
//
// Notes
//   •  Substring search escapes the LIKE metacharacters (“%”, “_”) and the
//      escape character itself before the pattern is assembled, so a user
//      searching for a literal “%” matches only that character.  Unescaped
//      wildcards would let callers run arbitrarily broad scans.
//
//------------------------------------------------------------------------------

package crud

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// FilterKind selects the predicate shape a descriptor compiles to.
type FilterKind uint8

const (
	// FilterExact compiles to “column = value”.
	FilterExact FilterKind = iota
	// FilterSubstring compiles to a case-insensitive, wildcard-safe
	// “column contains value”.
	FilterSubstring
	// FilterDateRange reads two parameters, “{name}_after” and
	// “{name}_before”, compiling to inclusive bounds on the column.
	FilterDateRange
)

// ValueType is the scalar type used to decode and document a parameter or
// body field.
type ValueType uint8

const (
	TypeString ValueType = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeTime
)

// Date-range parameter name suffixes.
const (
	suffixAfter  = "_after"
	suffixBefore = "_before"
)

// FilterField describes one filterable column.  Pure data; the only derived
// behavior is ParamName.  Descriptor slices are built once per resource and
// never mutated.
type FilterField struct {
	Column string     // Underlying column name.  Required.
	Kind   FilterKind // Predicate shape.
	Param  string     // External parameter name.  Empty means “use Column”.
	Type   ValueType  // Scalar type for exact filters; ignored otherwise.
}

// ParamName returns the externally visible parameter name, defaulting to the
// column name.  Date-range descriptors derive two names from it.
func (f FilterField) ParamName() string {
	if f.Param != "" {
		return f.Param
	}
	return f.Column
}

// ParamSpec is one flat external query parameter derived from a descriptor
// list.  It feeds both request decoding and the OpenAPI document.
type ParamSpec struct {
	Name string
	Type ValueType
}

// ParamSpecs expands fields into the flat parameter list, in descriptor
// order.  Exact filters keep their declared type, substring filters are
// strings, and each date range contributes two timestamp parameters.
func ParamSpecs(fields []FilterField) []ParamSpec {
	specs := make([]ParamSpec, 0, len(fields)+2)
	for _, f := range fields {
		switch f.Kind {
		case FilterExact:
			specs = append(specs, ParamSpec{Name: f.ParamName(), Type: f.Type})
		case FilterSubstring:
			specs = append(specs, ParamSpec{Name: f.ParamName(), Type: TypeString})
		case FilterDateRange:
			specs = append(specs,
				ParamSpec{Name: f.ParamName() + suffixAfter, Type: TypeTime},
				ParamSpec{Name: f.ParamName() + suffixBefore, Type: TypeTime},
			)
		}
	}
	return specs
}

// ValidateFields enforces wiring-time structural rules: every column set,
// every kind known, and every external name unique across the expanded list.
// Resource packages call this from their constructors and treat an error as
// a programming mistake (panic at boot, not a request-time concern).
func ValidateFields(fields []FilterField) error {
	seen := make(map[string]struct{}, len(fields)+2)
	for _, f := range fields {
		if f.Column == "" {
			return fmt.Errorf("filter field with empty column")
		}
		if f.Kind > FilterDateRange {
			return fmt.Errorf("filter field %q: unknown kind %d", f.Column, f.Kind)
		}
		for _, name := range externalNames(f) {
			if _, dup := seen[name]; dup {
				return fmt.Errorf("filter field %q: duplicate parameter name %q", f.Column, name)
			}
			seen[name] = struct{}{}
		}
	}
	return nil
}

// externalNames lists the parameter names one descriptor contributes.
func externalNames(f FilterField) []string {
	if f.Kind == FilterDateRange {
		return []string{f.ParamName() + suffixAfter, f.ParamName() + suffixBefore}
	}
	return []string{f.ParamName()}
}

// likeEscaper neutralizes the LIKE metacharacters plus the escape character
// itself.  The backslash pair must be listed first conceptually, but
// strings.Replacer runs a single pass, so the three pairs cannot interfere.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike returns s with every LIKE metacharacter downgraded to a
// literal.  The produced pattern must be paired with ESCAPE '\'.
func escapeLike(s string) string { return likeEscaper.Replace(s) }

// Restrict appends one predicate per supplied filter value to b, in
// descriptor order, AND-combined by the builder.  Keys absent from values
// are skipped.  Values are keyed by external parameter name, carrying the
// decoded scalar (string, bool, int64, float64, or time.Time).
func Restrict(b squirrel.SelectBuilder, fields []FilterField, values map[string]any) squirrel.SelectBuilder {
	for _, f := range fields {
		switch f.Kind {
		case FilterExact:
			if v, ok := values[f.ParamName()]; ok {
				b = b.Where(squirrel.Eq{f.Column: v})
			}
		case FilterSubstring:
			if v, ok := values[f.ParamName()]; ok {
				term, _ := v.(string)
				pattern := "%" + escapeLike(term) + "%"
				b = b.Where(squirrel.Expr(f.Column+` ILIKE ? ESCAPE '\'`, pattern))
			}
		case FilterDateRange:
			if v, ok := values[f.ParamName()+suffixAfter]; ok {
				b = b.Where(squirrel.GtOrEq{f.Column: v})
			}
			if v, ok := values[f.ParamName()+suffixBefore]; ok {
				b = b.Where(squirrel.LtOrEq{f.Column: v})
			}
		}
	}
	return b
}
