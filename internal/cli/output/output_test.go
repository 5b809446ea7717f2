package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"
)

type row struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Secret   string `json:"secret" table:"-"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"", FormatTable, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("yaml")
	}
	if _, ok := NewFormatter(FormatTable).(*TableFormatter); !ok {
		t.Error("table")
	}
}

func TestTableFormatter_Slice(t *testing.T) {
	var buf bytes.Buffer
	data := []row{{"alice", "a@example.com", "x"}, {"bob", "", "y"}}
	if err := (&TableFormatter{}).Format(&buf, data); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if strings.Fields(lines[0])[0] != "USERNAME" || strings.Contains(lines[0], "SECRET") {
		t.Errorf("header = %q", lines[0])
	}
	if got := strings.Fields(lines[2]); got[0] != "bob" || got[1] != "-" {
		t.Errorf("empty cell not rendered as '-': %q", lines[2])
	}
}

func TestTableFormatter_MapSorted(t *testing.T) {
	var buf bytes.Buffer
	(&TableFormatter{NoHeaders: true}).Format(&buf, map[string]any{"users": 2.0, "status": "ready"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "status") || strings.Fields(lines[1])[1] != "2" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestTableFormatter_Struct(t *testing.T) {
	var buf bytes.Buffer
	(&TableFormatter{}).Format(&buf, &row{Username: "alice"})
	out := buf.String()
	if !strings.Contains(out, "FIELD") || !strings.Contains(out, "alice") || strings.Contains(out, "secret") {
		t.Errorf("output = %q", out)
	}
}

func TestTable_Records(t *testing.T) {
	tbl := NewTable("INDEX", "USERNAME")
	tbl.AddRow("0", "alice")

	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, tbl); err != nil {
		t.Fatal(err)
	}
	var got []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0]["index"] != "0" || got[0]["username"] != "alice" {
		t.Errorf("records = %v", got)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]string{"username": "alice"}
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "username: alice\n" {
		t.Errorf("yaml = %q", buf.String())
	}

	var back map[string]string
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil || back["username"] != "alice" {
		t.Errorf("round trip = %v, %v", back, err)
	}
}
