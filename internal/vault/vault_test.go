// internal/vault/vault_test.go
//
// Reference-syntax tests only; nothing here talks to a Vault server.

package vault

import (
	"context"
	"testing"
)

func TestIsRef(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"vault:kv/db#password", true},
		{"vault:", true},
		{"plain-password", false},
		{"", false},
		{"VAULT:kv/db#password", false},
	}
	for _, c := range cases {
		if got := IsRef(c.in); got != c.want {
			t.Errorf("IsRef(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSplitMount(t *testing.T) {
	cases := []struct {
		in, mount, rel string
	}{
		{"kv/db", "kv", "db"},
		{"kv/app/db/creds", "kv", "app/db/creds"},
		{"kv", "kv", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		mount, rel := splitMount(c.in)
		if mount != c.mount || rel != c.rel {
			t.Errorf("splitMount(%q) = (%q, %q), want (%q, %q)",
				c.in, mount, rel, c.mount, c.rel)
		}
	}
}

// Malformed references must fail before any network access, so a nil api
// client is safe here.
func TestResolve_RejectsMalformed(t *testing.T) {
	c := &Client{logFn: func(string, ...any) {}}
	for _, ref := range []string{
		"not-a-ref",
		"vault:",
		"vault:kv/db",
		"vault:#password",
		"vault:kv/db#",
	} {
		if _, err := c.Resolve(context.Background(), ref); err == nil {
			t.Errorf("Resolve(%q) accepted a malformed reference", ref)
		}
	}
}
