package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestIndexGroupsByDirectory(t *testing.T) {
	entries := []IndexEntry{
		{Name: "BP_Door", Path: "/Game/Doors/BP_Door", Link: "Doors/BP_Door.md"},
		{Name: "BP_Player", Path: "/Game/Characters/BP_Player", Link: "Characters/BP_Player.md"},
		{Name: "BP_GameMode", Path: "/Game/BP_GameMode", Link: "BP_GameMode.md"},
	}

	out, err := Index(entries)
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	page := string(out)

	if !strings.Contains(page, "**Total Blueprints:** 3") {
		t.Errorf("count missing:\n%s", page)
	}

	// Root entries come first, then groups in lexical order.
	rootAt := strings.Index(page, "- [BP_GameMode](BP_GameMode.md)")
	charsAt := strings.Index(page, "### Characters")
	doorsAt := strings.Index(page, "### Doors")
	if rootAt == -1 || charsAt == -1 || doorsAt == -1 {
		t.Fatalf("sections missing:\n%s", page)
	}
	if !(rootAt < charsAt && charsAt < doorsAt) {
		t.Errorf("section order wrong: root=%d characters=%d doors=%d", rootAt, charsAt, doorsAt)
	}

	if !strings.Contains(page, "- [BP_Player](Characters/BP_Player.md)") {
		t.Error("player link missing")
	}
}

func TestIndexEmpty(t *testing.T) {
	out, err := Index(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "**Total Blueprints:** 0") {
		t.Errorf("empty index wrong:\n%s", out)
	}
}

func TestIndexDeterminism(t *testing.T) {
	// Input order must not leak into output.
	forward := []IndexEntry{
		{Name: "BP_A", Link: "A/BP_A.md"},
		{Name: "BP_B", Link: "B/BP_B.md"},
	}
	reversed := []IndexEntry{forward[1], forward[0]}

	first, err := Index(forward)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Index(reversed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("index must not depend on entry order")
	}
}
