package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestBuildSchema_UsesYAMLNames(t *testing.T) {
	schema := buildSchema()
	if schema.Title == "" {
		t.Fatal("schema should carry a title")
	}
	for _, key := range []string{"name", "combatants", "script", "dice", "expect"} {
		if _, ok := schema.Properties.Get(key); !ok {
			t.Fatalf("schema is missing property %q", key)
		}
	}
	required := map[string]bool{}
	for _, r := range schema.Required {
		required[r] = true
	}
	if !required["name"] || !required["combatants"] {
		t.Fatalf("required = %v, want name and combatants", schema.Required)
	}
	if required["script"] {
		t.Fatal("script should be optional")
	}
}

func TestWriteSchema_CreatesDirectories(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "scenario.schema.json")
	if err := writeSchema(out, buildSchema()); err != nil {
		t.Fatalf("writeSchema: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if decoded["title"] != "Skirmish Scenario" {
		t.Fatalf("title = %v", decoded["title"])
	}
	if _, err := os.Stat(out + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file should be renamed away")
	}
}
