package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	doc, err := Encode(doorAsset())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		t.Fatalf("WriteJSON error = %v", err)
	}

	var round map[string]any
	if err := json.Unmarshal(buf.Bytes(), &round); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if round["class_type"] != "Blueprint" {
		t.Errorf("class_type = %v", round["class_type"])
	}
}

func TestExportFile(t *testing.T) {
	doc, err := Encode(doorAsset())
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "Doors", "Door.json")
	if err := ExportFile(doc, path); err != nil {
		t.Fatalf("ExportFile error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var round Document
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("round-trip: %v", err)
	}
	if round.Name != "Door" {
		t.Errorf("round-tripped Name = %q", round.Name)
	}
}
