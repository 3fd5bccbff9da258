// internal/crud/openapi.go
//
// Botfleet – CRUD subsystem: OpenAPI document synthesis.
//
// Context
//   The API document is built programmatically from the same descriptors
//   and schema definitions that drive the handlers, so external tooling can
//   discover every filter parameter (including the derived “_after” and
//   “_before” pair) without hardcoding field lists.  Nothing is annotated
//   or generated offline; if the wiring changes, the document follows.
//
// Workflow
//   •  NewDoc seeds the document with the shared error schemas.
//   •  Each resource contributes five operations via AddCRUD, fed by
//      Resource.DocInfo.  Schema components are named after the resource
//      (“Bot”, “BotCreate”, “BotUpdate”, “BotPage”), which keeps a document
//      covering several resources collision-free.
//   •  JSON marshals once and caches; the document is immutable after boot.
//
//------------------------------------------------------------------------------

package crud

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// DocInfo is the flattened, type-independent description one resource
// contributes to the API document.
type DocInfo struct {
	Name     string
	Plural   string
	Mount    string // Full external path, e.g. “/api/v1/bots”.
	Tags     []string
	Filters  []FilterField
	Response Def
	Create   Def
	Update   Def
}

// DocInfo flattens the resource for the document builder.  Mount is the
// full external path the server mounted the resource under.
func (res Resource[T]) DocInfo(mount string) DocInfo {
	res = res.withDefaults()
	return DocInfo{
		Name:     res.Name,
		Plural:   res.Plural,
		Mount:    mount,
		Tags:     res.Tags,
		Filters:  res.Filters,
		Response: res.Response,
		Create:   res.Create,
		Update:   res.Update,
	}
}

// Doc accumulates resource contributions and renders the final document.
type Doc struct {
	t        *openapi3.T
	jsonOnce sync.Once
	jsonBuf  []byte
	jsonErr  error
}

// NewDoc returns a document seeded with the shared error schemas.
func NewDoc(title, version string) *Doc {
	t := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	fieldError := openapi3.NewObjectSchema().
		WithProperty("field", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema())
	detail := openapi3.NewArraySchema()
	detail.Items = openapi3.NewSchemaRef("#/components/schemas/FieldError", fieldError)
	validationError := openapi3.NewObjectSchema().
		WithPropertyRef("detail", openapi3.NewSchemaRef("", detail))

	t.Components.Schemas["FieldError"] = openapi3.NewSchemaRef("", fieldError)
	t.Components.Schemas["ValidationError"] = openapi3.NewSchemaRef("", validationError)
	t.Components.Schemas["NotFound"] = openapi3.NewSchemaRef("", openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("id", openapi3.NewStringSchema()))
	t.Components.Schemas["Conflict"] = openapi3.NewSchemaRef("", openapi3.NewObjectSchema().
		WithProperty("detail", openapi3.NewStringSchema()))

	return &Doc{t: t}
}

// T exposes the underlying document for validation in tests.
func (d *Doc) T() *openapi3.T { return d.t }

// Validate checks the assembled document against the OpenAPI rules.
func (d *Doc) Validate(ctx context.Context) error { return d.t.Validate(ctx) }

// JSON renders the document, marshaling once and caching the result.
func (d *Doc) JSON() ([]byte, error) {
	d.jsonOnce.Do(func() {
		d.jsonBuf, d.jsonErr = json.Marshal(d.t)
	})
	return d.jsonBuf, d.jsonErr
}

// AddCRUD registers the five operations and the named schemas for one
// resource.
func (d *Doc) AddCRUD(info DocInfo) {
	name := info.Name
	response := schemaFromDef(info.Response, false)
	create := schemaFromDef(info.Create, true)
	update := schemaFromDef(info.Update, false)

	page := openapi3.NewObjectSchema().
		WithProperty("total", openapi3.NewInt64Schema()).
		WithProperty("page", openapi3.NewInt64Schema()).
		WithProperty("per_page", openapi3.NewInt64Schema()).
		WithProperty("pages", openapi3.NewInt64Schema())
	items := openapi3.NewArraySchema()
	items.Items = d.register(name, response)
	page.WithPropertyRef("items", openapi3.NewSchemaRef("", items))

	createRef := d.register(name+"Create", create)
	updateRef := d.register(name+"Update", update)
	pageRef := d.register(name+"Page", page)

	listParams := openapi3.Parameters{
		queryParam("page", openapi3.NewInt64Schema().WithMin(1).WithDefault(DefaultPage)),
		queryParam("per_page", openapi3.NewInt64Schema().WithMin(1).WithMax(MaxPerPage).WithDefault(DefaultPerPage)),
	}
	for _, spec := range ParamSpecs(info.Filters) {
		listParams = append(listParams, queryParam(spec.Name, scalarSchema(spec.Type)))
	}

	idParam := &openapi3.ParameterRef{
		Value: openapi3.NewPathParameter("id").
			WithSchema(openapi3.NewStringSchema().WithPattern(idPattern.String())),
	}

	list := &openapi3.Operation{
		OperationID: docOpID("list", name, info.Plural),
		Summary:     "List " + info.Plural + " with pagination and filters",
		Tags:        info.Tags,
		Parameters:  listParams,
		Responses:   d.responses(withJSON("200", "Paginated collection", pageRef), withValidation()),
	}
	get := &openapi3.Operation{
		OperationID: docOpID("get", name, info.Plural),
		Summary:     "Fetch one " + strings.ToLower(name) + " by id",
		Tags:        info.Tags,
		Parameters:  openapi3.Parameters{idParam},
		Responses:   d.responses(withJSON("200", name, d.ref(name)), withNotFound(), withValidation()),
	}
	createOp := &openapi3.Operation{
		OperationID: docOpID("create", name, info.Plural),
		Summary:     "Create a " + strings.ToLower(name),
		Tags:        info.Tags,
		RequestBody: jsonBody(createRef),
		Responses:   d.responses(withJSON("201", "Created "+strings.ToLower(name), d.ref(name)), withConflict(), withValidation()),
	}
	updateOp := &openapi3.Operation{
		OperationID: docOpID("update", name, info.Plural),
		Summary:     "Partially update a " + strings.ToLower(name),
		Tags:        info.Tags,
		Parameters:  openapi3.Parameters{idParam},
		RequestBody: jsonBody(updateRef),
		Responses:   d.responses(withJSON("200", "Updated "+strings.ToLower(name), d.ref(name)), withNotFound(), withValidation()),
	}
	deleteOp := &openapi3.Operation{
		OperationID: docOpID("delete", name, info.Plural),
		Summary:     "Delete a " + strings.ToLower(name),
		Tags:        info.Tags,
		Parameters:  openapi3.Parameters{idParam},
		Responses:   d.responses(withEmpty("204", "Deleted"), withNotFound(), withValidation()),
	}

	d.t.Paths.Set(info.Mount, &openapi3.PathItem{Get: list, Post: createOp})
	d.t.Paths.Set(info.Mount+"/{id}", &openapi3.PathItem{Get: get, Put: updateOp, Delete: deleteOp})
}

/*──────────────────────────── builder helpers ────────────────────────────*/

// docOpID mirrors Resource.operationID for the flattened DocInfo.
func docOpID(op, name, plural string) string {
	if op == "list" {
		return "list_" + plural
	}
	return op + "_" + strings.ToLower(name)
}

// register stores a named component schema and returns a ref to it.
func (d *Doc) register(name string, s *openapi3.Schema) *openapi3.SchemaRef {
	d.t.Components.Schemas[name] = openapi3.NewSchemaRef("", s)
	return openapi3.NewSchemaRef("#/components/schemas/"+name, s)
}

// ref builds a reference to an already registered component schema.
func (d *Doc) ref(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, d.t.Components.Schemas[name].Value)
}

func schemaFromDef(def Def, markRequired bool) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	for _, f := range def {
		fs := scalarSchema(f.Type)
		if f.Nullable {
			fs = fs.WithNullable()
		}
		s.WithProperty(f.Name, fs)
		if markRequired && f.Required {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

func scalarSchema(t ValueType) *openapi3.Schema {
	switch t {
	case TypeBool:
		return openapi3.NewBoolSchema()
	case TypeInt:
		return openapi3.NewInt64Schema()
	case TypeFloat:
		return openapi3.NewFloat64Schema()
	case TypeTime:
		return openapi3.NewDateTimeSchema()
	default:
		return openapi3.NewStringSchema()
	}
}

func queryParam(name string, s *openapi3.Schema) *openapi3.ParameterRef {
	return &openapi3.ParameterRef{Value: openapi3.NewQueryParameter(name).WithSchema(s)}
}

func jsonBody(ref *openapi3.SchemaRef) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithSchemaRef(ref, []string{"application/json"}),
	}
}

// responseOpt adds one status entry to a Responses set.
type responseOpt func(d *Doc, r *openapi3.Responses)

func withJSON(status, desc string, ref *openapi3.SchemaRef) responseOpt {
	return func(_ *Doc, r *openapi3.Responses) {
		r.Set(status, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription(desc).WithJSONSchemaRef(ref),
		})
	}
}

func withEmpty(status, desc string) responseOpt {
	return func(_ *Doc, r *openapi3.Responses) {
		r.Set(status, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(desc)})
	}
}

func withNotFound() responseOpt {
	return func(d *Doc, r *openapi3.Responses) {
		r.Set("404", &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Record not found").WithJSONSchemaRef(d.ref("NotFound")),
		})
	}
}

func withConflict() responseOpt {
	return func(d *Doc, r *openapi3.Responses) {
		r.Set("409", &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Constraint violation").WithJSONSchemaRef(d.ref("Conflict")),
		})
	}
}

func withValidation() responseOpt {
	return func(d *Doc, r *openapi3.Responses) {
		r.Set("422", &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Validation error").WithJSONSchemaRef(d.ref("ValidationError")),
		})
	}
}

func (d *Doc) responses(opts ...responseOpt) *openapi3.Responses {
	r := openapi3.NewResponses()
	r.Set("default", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("Unexpected error"),
	})
	for _, opt := range opts {
		opt(d, r)
	}
	return r
}
