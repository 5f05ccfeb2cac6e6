package cli

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestTextFormatter(t *testing.T) {
	formatter := &TextFormatter{}

	output, err := formatter.Format("test message")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if string(output) != "test message\n" {
		t.Errorf("Format() = %q, want %q", string(output), "test message\n")
	}

	buf := &bytes.Buffer{}
	if err := formatter.FormatTo(buf, "test message"); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if buf.String() != "test message\n" {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), "test message\n")
	}
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		data   interface{}
		indent bool
	}{
		{
			name:   "simple string",
			data:   "test",
			indent: false,
		},
		{
			name: "map with indent",
			data: map[string]string{
				"key": "value",
			},
			indent: true,
		},
		{
			name: "struct",
			data: struct {
				Result string `json:"result"`
				Score  int    `json:"score"`
			}{
				Result: "APPROVED",
				Score:  85,
			},
			indent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &JSONFormatter{Indent: tt.indent}

			output, err := formatter.Format(tt.data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if !json.Valid(output) {
				t.Errorf("Format() produced invalid JSON: %s", output)
			}

			buf := &bytes.Buffer{}
			if err := formatter.FormatTo(buf, tt.data); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}
			if !json.Valid(buf.Bytes()) {
				t.Errorf("FormatTo() produced invalid JSON: %s", buf.String())
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("NewFormatter(FormatJSON) should return a *JSONFormatter")
	}
	if _, ok := NewFormatter(FormatText).(*TextFormatter); !ok {
		t.Error("NewFormatter(FormatText) should return a *TextFormatter")
	}
	if _, ok := NewFormatter("unknown").(*TextFormatter); !ok {
		t.Error("NewFormatter should default to text")
	}
}
