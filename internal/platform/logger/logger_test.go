package logger

import "testing"

func TestSanitizeKVsRedactsSensitiveKeys(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"db_dsn", "postgres://u:p@h/db",
		"concept_id", 2000000000,
		"POSTGRES_PASSWORD", "hunter2",
		"nested", map[string]interface{}{"secret": "x", "route": "/concepts"},
		"dangling",
	})
	if out[1] != "[REDACTED]" {
		t.Fatalf("dsn should be redacted, got %v", out[1])
	}
	if out[3] != 2000000000 {
		t.Fatalf("concept_id should pass through, got %v", out[3])
	}
	if out[5] != "[REDACTED]" {
		t.Fatalf("password should be redacted, got %v", out[5])
	}
	nested, ok := out[7].(map[string]interface{})
	if !ok || nested["secret"] != "[REDACTED]" || nested["route"] != "/concepts" {
		t.Fatalf("unexpected nested map: %#v", out[7])
	}
	if out[len(out)-1] != "dangling" {
		t.Fatalf("odd trailing key should be kept, got %v", out[len(out)-1])
	}
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"development", "production", "test", ""} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.With("service", "test").Debug("hello", "k", "v")
	}
	Nop().Info("discarded")
}
