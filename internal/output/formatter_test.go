package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"toon", FormatTOON},
		{"text", FormatText},
		{"", FormatText},
		{"bogus", FormatText},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	table := NewTable("Metrics", []string{"Metric", "Value"}, [][]string{
		{"buildTime", "120"},
		{"bundleSize", "4096"},
	}, nil, nil)

	var buf bytes.Buffer
	if err := table.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"## Metrics", "| Metric | Value |", "| --- | --- |", "| buildTime | 120 |"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderData(t *testing.T) {
	table := NewTable("", []string{"name", "score"}, [][]string{{"build", "92"}}, nil, nil)

	data, ok := table.RenderData().([]map[string]string)
	if !ok {
		t.Fatalf("RenderData() returned %T, want []map[string]string", table.RenderData())
	}
	if len(data) != 1 || data[0]["name"] != "build" || data[0]["score"] != "92" {
		t.Errorf("RenderData() = %v", data)
	}
}

func TestSectionRenderText(t *testing.T) {
	s := Section{
		Title:   "Validation",
		Content: "status: success",
		Sections: []Section{
			{Title: "Phase", Content: "4 components passed"},
		},
	}

	var buf bytes.Buffer
	if err := s.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Validation\n==========") {
		t.Errorf("top-level title should be = underlined:\n%s", out)
	}
	if !strings.Contains(out, "Phase\n-----") {
		t.Errorf("nested title should be - underlined:\n%s", out)
	}
}

func TestFormatterJSONOutput(t *testing.T) {
	f := &Formatter{format: FormatJSON, writer: &bytes.Buffer{}}
	buf := &bytes.Buffer{}
	f.writer = buf

	if err := f.Output(map[string]int{"count": 3}); err != nil {
		t.Fatalf("Output() error = %v", err)
	}

	var decoded map[string]int
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["count"] != 3 {
		t.Errorf("decoded count = %d, want 3", decoded["count"])
	}
}

func TestFormatterTOONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &Formatter{format: FormatTOON, writer: buf}

	if err := f.Output(map[string]string{"status": "success"}); err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if !strings.Contains(buf.String(), "status") {
		t.Errorf("toon output missing key:\n%s", buf.String())
	}
}
