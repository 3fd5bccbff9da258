// internal/crud/schema.go
//
// Botfleet – CRUD subsystem: declarative body schemas.
//
// Context
//   Create and update bodies are validated against a declarative field list,
//   the body-side sibling of the filter descriptors.  The auto-managed
//   columns (id, create_at, last_update_at) are simply never declared here,
//   which makes them structurally absent from both schemas: supplying them
//   in a request body is inert, not an error.
//
// Workflow
//   •  A Def lists the user-editable fields with their type, nullability,
//      and an optional validator rule.
//   •  ValidateCreate enforces required fields; ValidateUpdate treats every
//      field as optional (partial update).
//   •  Both decode the raw body into map[string]json.RawMessage first, so an
//      explicit null is distinguishable from an absent key.  Null is applied
//      as SQL NULL for nullable fields and rejected for non-nullable ones.
//   •  Errors are captured in []FieldError so the response can name exact
//      fields, mirroring the filter decoder.
//
//------------------------------------------------------------------------------

package crud

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// SchemaField describes one user-editable body field.
type SchemaField struct {
	Name     string    // JSON key and column name.  Required.
	Type     ValueType // Scalar type.
	Required bool      // Create only; updates are always partial.
	Nullable bool      // Explicit null allowed and stored as SQL NULL.
	Rule     string    // Optional validator tag, e.g. “max=128”.
}

// Def is an ordered field list defining one body schema.
type Def []SchemaField

// validate applies SchemaField.Rule tags.  A single instance is safe for
// concurrent use.
var validate = validator.New()

// ValidateCreate checks body against the schema with required-field
// enforcement.  It returns clean column values keyed by field name; fields
// absent from the body are absent from the map (storage defaults apply).
func (d Def) ValidateCreate(body []byte) (map[string]any, []FieldError) {
	return d.validateBody(body, true)
}

// ValidateUpdate checks body against the schema with every field optional.
// Present keys overwrite, explicit null stores NULL (nullable fields only),
// and absent keys leave the stored value untouched.  An empty body is valid.
func (d Def) ValidateUpdate(body []byte) (map[string]any, []FieldError) {
	return d.validateBody(body, false)
}

var nullLiteral = []byte("null")

func (d Def) validateBody(body []byte, requireRequired bool) (map[string]any, []FieldError) {
	raw := make(map[string]json.RawMessage)
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, []FieldError{{Field: "body", Message: "must be a JSON object"}}
		}
	}

	var errs []FieldError
	clean := make(map[string]any, len(raw))

	for _, f := range d {
		msg, present := raw[f.Name]
		if !present {
			if requireRequired && f.Required {
				errs = append(errs, FieldError{Field: f.Name, Message: "field required"})
			}
			continue
		}

		if bytes.Equal(bytes.TrimSpace(msg), nullLiteral) {
			if !f.Nullable {
				errs = append(errs, FieldError{Field: f.Name, Message: "must not be null"})
				continue
			}
			clean[f.Name] = nil
			continue
		}

		val, err := decodeJSONScalar(msg, f.Type)
		if err != nil {
			errs = append(errs, FieldError{Field: f.Name, Message: err.Error()})
			continue
		}
		if f.Rule != "" {
			if err := validate.Var(val, f.Rule); err != nil {
				errs = append(errs, FieldError{Field: f.Name, Message: ruleMessage(f.Rule)})
				continue
			}
		}
		clean[f.Name] = val
	}

	// Unknown keys are dropped silently; callers never see them.
	return clean, errs
}

// decodeJSONScalar unmarshals one raw value into its declared type.  A type
// mismatch surfaces as a field error, not a 500.
func decodeJSONScalar(raw json.RawMessage, t ValueType) (any, error) {
	switch t {
	case TypeString:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("must be a string")
		}
		return v, nil
	case TypeBool:
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("must be a boolean")
		}
		return v, nil
	case TypeInt:
		var v int64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("must be an integer")
		}
		return v, nil
	case TypeFloat:
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("must be a number")
		}
		return v, nil
	case TypeTime:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("must be a timestamp string")
		}
		return ParseTime(v)
	default:
		return nil, fmt.Errorf("unsupported value type %d", t)
	}
}

// ruleMessage renders a validator tag as a user-facing message.  Only the
// rules the schemas actually use get friendly text; anything else falls back
// to naming the rule.
func ruleMessage(rule string) string {
	switch {
	case len(rule) > 4 && rule[:4] == "max=":
		return fmt.Sprintf("must be at most %s characters", rule[4:])
	case len(rule) > 4 && rule[:4] == "min=":
		return fmt.Sprintf("must be at least %s characters", rule[4:])
	default:
		return fmt.Sprintf("failed rule %q", rule)
	}
}
