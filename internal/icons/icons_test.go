package icons

import "testing"

func TestLookupKnown(t *testing.T) {
	r := Default()

	icon, ok := r.Lookup("Blender")
	if !ok {
		t.Fatalf("Expected blender to be registered")
	}
	if icon.Glyph != "si-blender" {
		t.Fatalf("Unexpected glyph %q", icon.Glyph)
	}

	if icon := r.Get("After Effects"); icon.Key != "after-effects" {
		t.Fatalf("Key normalization failed: %q", icon.Key)
	}
}

func TestLookupFallback(t *testing.T) {
	r := Default()

	icon, ok := r.Lookup("some-unknown-dcc")
	if ok {
		t.Fatalf("Unknown key reported as found")
	}
	if icon.Key != FallbackKey {
		t.Fatalf("Expected fallback icon, got %q", icon.Key)
	}
}

func TestRegisterOverrides(t *testing.T) {
	r := NewRegistry(Icon{Key: FallbackKey})
	r.Register(Icon{Key: "Maya", Glyph: "old"})
	r.Register(Icon{Key: "maya", Glyph: "new"})

	if keys := r.Keys(); len(keys) != 1 || keys[0] != "maya" {
		t.Fatalf("Unexpected keys %v", keys)
	}
	if r.Get("MAYA").Glyph != "new" {
		t.Fatalf("Register did not replace existing entry")
	}
}
