package repl

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"user list", []string{"user", "list"}, false},
		{`user create --real-name "Alice Liddell"`, []string{"user", "create", "--real-name", "Alice Liddell"}, false},
		{`login 'bob smith'`, []string{"login", "bob smith"}, false},
		{`x a\ b`, []string{"x", "a b"}, false},
		{`x ""`, []string{"x", ""}, false},
		{"  spaced\t out  ", []string{"spaced", "out"}, false},
		{`x "open`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := SplitArgs(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitArgs() error = %v", err)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestREPL_Run(t *testing.T) {
	var calls [][]string
	exec := func(_ context.Context, args []string) error {
		calls = append(calls, args)
		if args[0] == "fail" {
			return errors.New("boom")
		}
		return nil
	}

	in := strings.NewReader("user list\n\n# comment\nfail now\nlogin \"a b\"\nexit\nuser get 0\n")
	var out bytes.Buffer
	histFile := filepath.Join(t.TempDir(), "history")
	r := New(exec, WithIO(in, &out), WithHistory(NewHistory(histFile, 10)))

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := [][]string{{"user", "list"}, {"fail", "now"}, {"login", "a b"}}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %q, want %q", calls, want)
	}
	if !strings.Contains(out.String(), "Error: boom") {
		t.Errorf("output missing error: %q", out.String())
	}

	data, err := os.ReadFile(histFile)
	if err != nil {
		t.Fatalf("history not saved: %v", err)
	}
	if !strings.Contains(string(data), "login \"a b\"\n") {
		t.Errorf("history = %q", data)
	}
}

func TestREPL_EOF(t *testing.T) {
	r := New(func(context.Context, []string) error { return nil },
		WithIO(strings.NewReader(""), &bytes.Buffer{}),
		WithHistory(NewHistory("", 0)))
	if err := r.Run(context.Background()); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestREPL_Builtins(t *testing.T) {
	var out bytes.Buffer
	r := New(func(context.Context, []string) error {
		t.Error("builtins must not reach the executor")
		return nil
	}, WithIO(strings.NewReader("help\nhistory\n"), &out), WithHistory(NewHistory("", 0)), WithPrompt("> "))

	r.Run(context.Background())

	if !strings.Contains(out.String(), "user create") {
		t.Errorf("help output = %q", out.String())
	}
	if !strings.Contains(out.String(), "   1  help") {
		t.Errorf("history output = %q", out.String())
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory("", 3)
	for _, c := range []string{"a", "b", "b", "c", "d"} {
		h.Add(c)
	}

	if got := h.Entries(); !reflect.DeepEqual(got, []string{"b", "c", "d"}) {
		t.Errorf("Entries() = %v", got)
	}
	if h.Get(0) != "d" || h.Get(2) != "b" || h.Get(3) != "" {
		t.Errorf("Get() = %q %q %q", h.Get(0), h.Get(2), h.Get(3))
	}
}

func TestHistory_LoadTrims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	os.WriteFile(path, []byte("one\ntwo\n\nthree\n"), 0o600)

	h := NewHistory(path, 2)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}
	if got := h.Entries(); !reflect.DeepEqual(got, []string{"two", "three"}) {
		t.Errorf("Entries() = %v", got)
	}
}

func TestCompleter(t *testing.T) {
	c := NewCompleter(nil)

	if got := c.Complete("user l"); !reflect.DeepEqual(got, []string{"user list"}) {
		t.Errorf("Complete(user l) = %v", got)
	}
	if got := c.Complete("system"); len(got) != 4 {
		t.Errorf("Complete(system) = %v", got)
	}
	if got := c.Complete("nope"); got != nil {
		t.Errorf("Complete(nope) = %v", got)
	}
	if got := c.Complete(""); len(got) != len(DefaultCommands) {
		t.Errorf("Complete(\"\") returned %d", len(got))
	}
}
