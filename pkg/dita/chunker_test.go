package dita

import (
	"reflect"
	"strings"
	"testing"
)

const conceptWithSections = `<?xml version="1.0" encoding="UTF-8"?>
<concept id="setup">
  <title>Setup</title>
  <shortdesc>Get the workbench running.</shortdesc>
  <conbody>
    <section>
      <title>Install</title>
      <p>Download the installer.</p>
      <ul><li>Run it</li><li>Accept the license</li></ul>
    </section>
    <section>
      <title>Configure</title>
      <p>Edit the config file.</p>
    </section>
  </conbody>
</concept>`

func TestChunkSections(t *testing.T) {
	passages, err := Chunk([]byte(conceptWithSections), "topics/c_setup.dita")
	if err != nil {
		t.Fatalf("Chunk returned error: %v", err)
	}

	if len(passages) != 2 {
		t.Fatalf("got %d passages, want 2", len(passages))
	}

	wantPaths := [][]string{
		{"Setup", "Install"},
		{"Setup", "Configure"},
	}
	for i, want := range wantPaths {
		if !reflect.DeepEqual(passages[i].SectionPath, want) {
			t.Errorf("passage %d SectionPath = %v, want %v", i, passages[i].SectionPath, want)
		}
	}

	if passages[0].TopicType != "concept" {
		t.Errorf("TopicType = %q, want %q", passages[0].TopicType, "concept")
	}

	// Shortdesc is prepended to the first section only
	if !strings.HasPrefix(passages[0].Content, "Get the workbench running.") {
		t.Errorf("first passage should start with shortdesc, got %q", passages[0].Content)
	}
	if strings.Contains(passages[1].Content, "Get the workbench running.") {
		t.Errorf("second passage should not contain shortdesc, got %q", passages[1].Content)
	}

	// Structural projection: bullets and blocks
	if !strings.Contains(passages[0].Content, "• Run it") {
		t.Errorf("list items should become bullet lines, got %q", passages[0].Content)
	}
}

func TestChunkTaskSteps(t *testing.T) {
	taskXML := `<?xml version="1.0"?>
<task id="create-slice" audience="user">
  <title>Creating a Slice</title>
  <taskbody>
    <steps>
      <step><cmd>Open the audio chunk.</cmd></step>
      <step>
        <cmd>Drag over the waveform.</cmd>
        <info>Hold shift to snap to silence boundaries.</info>
      </step>
    </steps>
  </taskbody>
</task>`

	passages, err := Chunk([]byte(taskXML), "topics/t_create_slice.dita")
	if err != nil {
		t.Fatalf("Chunk returned error: %v", err)
	}
	if len(passages) != 1 {
		t.Fatalf("got %d passages, want 1", len(passages))
	}

	p := passages[0]
	if p.TopicType != "task" {
		t.Errorf("TopicType = %q, want task", p.TopicType)
	}
	if p.Audience != "user" {
		t.Errorf("Audience = %q, want user", p.Audience)
	}
	if !reflect.DeepEqual(p.SectionPath, []string{"Creating a Slice"}) {
		t.Errorf("SectionPath = %v", p.SectionPath)
	}

	for _, want := range []string{
		"1. Open the audio chunk.",
		"2. Drag over the waveform.",
		"   Hold shift to snap to silence boundaries.",
	} {
		if !strings.Contains(p.Content, want) {
			t.Errorf("content missing %q:\n%s", want, p.Content)
		}
	}
}

func TestChunkFallbackWholeBody(t *testing.T) {
	passages, err := Chunk([]byte(`<topic id="x"><title>Notes</title><body><p>Just text.</p></body></topic>`), "n.dita")
	if err != nil {
		t.Fatalf("Chunk returned error: %v", err)
	}
	if len(passages) != 1 {
		t.Fatalf("got %d passages, want 1", len(passages))
	}
	if passages[0].Title != "Notes" {
		t.Errorf("Title = %q", passages[0].Title)
	}
	if !strings.Contains(passages[0].Content, "Just text.") {
		t.Errorf("content = %q", passages[0].Content)
	}
}

func TestChunkDropsEmpty(t *testing.T) {
	passages, err := Chunk([]byte(`<topic id="x"><title>Empty</title><body><p>   </p></body></topic>`), "e.dita")
	if err != nil {
		t.Fatalf("Chunk returned error: %v", err)
	}
	if len(passages) != 0 {
		t.Errorf("whitespace-only body should yield no passages, got %d", len(passages))
	}
}

func TestChunkMalformed(t *testing.T) {
	if _, err := Chunk([]byte(`<topic><title>Broken`), "b.dita"); err == nil {
		t.Error("malformed XML should return an error")
	}
}

func TestChunkDeterministicIDs(t *testing.T) {
	first, err := Chunk([]byte(conceptWithSections), "topics/c_setup.dita")
	if err != nil {
		t.Fatalf("Chunk returned error: %v", err)
	}
	second, err := Chunk([]byte(conceptWithSections), "topics/c_setup.dita")
	if err != nil {
		t.Fatalf("Chunk returned error: %v", err)
	}

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("passage %d ID differs between identical parses: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}

	// Different file path must produce a different identity
	moved, err := Chunk([]byte(conceptWithSections), "topics/other.dita")
	if err != nil {
		t.Fatalf("Chunk returned error: %v", err)
	}
	if moved[0].ID == first[0].ID {
		t.Error("passage ID should include the file path")
	}
}
