package cargo

import (
	"testing"
)

func TestRegistry_ElevenToolsAndStableOrder(t *testing.T) {
	registry := Registry()
	if len(registry) != 11 {
		t.Fatalf("registry has %d tools, want 11", len(registry))
	}
	if len(ToolOrder) != len(registry) {
		t.Fatalf("ToolOrder has %d entries, registry %d", len(ToolOrder), len(registry))
	}
	for _, name := range ToolOrder {
		def, ok := registry[name]
		if !ok {
			t.Errorf("ToolOrder names %q which is not in the registry", name)
			continue
		}
		if def.Name != name {
			t.Errorf("definition name %q does not match key %q", def.Name, name)
		}
		if def.Description == "" {
			t.Errorf("%s: missing description", name)
		}
		if def.parse == nil {
			t.Errorf("%s: missing parser", name)
		}
	}
}

func TestRegistry_SchemasAreClosed(t *testing.T) {
	for name, def := range Registry() {
		schema := def.InputSchema
		if schema["type"] != "object" {
			t.Errorf("%s: schema type = %v", name, schema["type"])
		}
		if schema["additionalProperties"] != false {
			t.Errorf("%s: schema must reject unknown properties", name)
		}

		props, ok := schema["properties"].(map[string]any)
		if !ok {
			t.Fatalf("%s: properties missing", name)
		}
		for _, common := range []string{"path", "toolchain", "cargo_env"} {
			if _, ok := props[common]; !ok {
				t.Errorf("%s: schema missing common field %s", name, common)
			}
		}

		required, ok := schema["required"].([]string)
		if !ok || len(required) == 0 || required[0] != "path" {
			t.Errorf("%s: path must be the first required field, got %v", name, schema["required"])
		}
	}
}

func TestRegistry_NoFreeFormCommandField(t *testing.T) {
	// the safety property: no schema accepts an arbitrary command string
	for name, def := range Registry() {
		props := def.InputSchema["properties"].(map[string]any)
		for _, banned := range []string{"command", "cmd", "shell", "script"} {
			if _, ok := props[banned]; ok {
				t.Errorf("%s: schema exposes free-form field %q", name, banned)
			}
		}
	}
}
