// internal/crud/openapi_test.go

package crud

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func probeDocInfo() DocInfo {
	res := probeResource()
	res.Response = Def{
		{Name: "id", Type: TypeString},
		{Name: "label", Type: TypeString},
		{Name: "active", Type: TypeBool},
		{Name: "note", Type: TypeString, Nullable: true},
		{Name: "seen_at", Type: TypeTime, Nullable: true},
		{Name: "create_at", Type: TypeTime},
		{Name: "last_update_at", Type: TypeTime},
	}
	res.Tags = []string{"probes"}
	return res.DocInfo("/api/v1/probes")
}

func TestAddCRUD_PathsAndOperationIDs(t *testing.T) {
	doc := NewDoc("Test API", "1.0.0")
	doc.AddCRUD(probeDocInfo())

	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("document invalid: %v", err)
	}
	spec := doc.T()

	coll := spec.Paths.Find("/api/v1/probes")
	if coll == nil || coll.Get == nil || coll.Post == nil {
		t.Fatal("collection path incomplete")
	}
	if coll.Get.OperationID != "list_probes" {
		t.Errorf("list operation id = %q", coll.Get.OperationID)
	}
	if coll.Post.OperationID != "create_probe" {
		t.Errorf("create operation id = %q", coll.Post.OperationID)
	}

	single := spec.Paths.Find("/api/v1/probes/{id}")
	if single == nil || single.Get == nil || single.Put == nil || single.Delete == nil {
		t.Fatal("record path incomplete")
	}
	for _, c := range []struct{ got, want string }{
		{single.Get.OperationID, "get_probe"},
		{single.Put.OperationID, "update_probe"},
		{single.Delete.OperationID, "delete_probe"},
	} {
		if c.got != c.want {
			t.Errorf("operation id = %q, want %q", c.got, c.want)
		}
	}
}

// Every filter parameter, including the derived range pair, must be
// discoverable from the list operation; the dashboard builds its filter
// panel from exactly this list.
func TestAddCRUD_ListParameters(t *testing.T) {
	doc := NewDoc("Test API", "1.0.0")
	doc.AddCRUD(probeDocInfo())

	coll := doc.T().Paths.Find("/api/v1/probes")
	params := make(map[string]bool, len(coll.Get.Parameters))
	for _, p := range coll.Get.Parameters {
		params[p.Value.Name] = true
	}
	for _, name := range []string{
		"page", "per_page",
		"label", "active", "note_search",
		"create_at_after", "create_at_before",
	} {
		if !params[name] {
			t.Errorf("list parameter %q missing (have %v)", name, params)
		}
	}

	for _, p := range coll.Get.Parameters {
		switch p.Value.Name {
		case "per_page":
			s := p.Value.Schema.Value
			if s.Min == nil || *s.Min != 1 || s.Max == nil || *s.Max != 100 {
				t.Errorf("per_page bounds = %v..%v", s.Min, s.Max)
			}
		case "create_at_after":
			if s := p.Value.Schema.Value; s.Format != "date-time" {
				t.Errorf("create_at_after format = %q", s.Format)
			}
		case "active":
			if s := p.Value.Schema.Value; !s.Type.Is("boolean") {
				t.Errorf("active type = %v", s.Type)
			}
		}
	}
}

func TestAddCRUD_NamedSchemas(t *testing.T) {
	doc := NewDoc("Test API", "1.0.0")
	doc.AddCRUD(probeDocInfo())
	schemas := doc.T().Components.Schemas

	for _, name := range []string{
		"Probe", "ProbeCreate", "ProbeUpdate", "ProbePage",
		"FieldError", "ValidationError", "NotFound", "Conflict",
	} {
		if _, ok := schemas[name]; !ok {
			t.Errorf("component schema %q missing", name)
		}
	}

	create := schemas["ProbeCreate"].Value
	if len(create.Required) != 1 || create.Required[0] != "label" {
		t.Errorf("create required = %v", create.Required)
	}
	if note := create.Properties["note"]; note == nil || !note.Value.Nullable {
		t.Error("nullable field not marked nullable")
	}

	update := schemas["ProbeUpdate"].Value
	if len(update.Required) != 0 {
		t.Errorf("update schema must be all-optional, required = %v", update.Required)
	}

	idParam := doc.T().Paths.Find("/api/v1/probes/{id}").Get.Parameters[0].Value
	if idParam.Schema.Value.Pattern != idPattern.String() {
		t.Errorf("id pattern = %q", idParam.Schema.Value.Pattern)
	}
}

func TestDocJSON_Caches(t *testing.T) {
	doc := NewDoc("Test API", "1.0.0")
	doc.AddCRUD(probeDocInfo())

	first, err := doc.JSON()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(first), `"list_probes"`) {
		t.Error("rendered document missing list operation")
	}

	second, err := doc.JSON()
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(first, second) || &first[0] != &second[0] {
		t.Error("JSON not served from the single cached render")
	}
}
