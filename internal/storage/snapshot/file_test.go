package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/yndnr/userdir-go/internal/core/domain"
	"github.com/yndnr/userdir-go/internal/storage"
)

func sampleUsers() []domain.User {
	return []domain.User{
		{Username: "alice", RealName: "Alice A", Email: "alice@example.com", CreatedBy: "alice"},
		{Username: "bob", RealName: "Bob B", Email: "bob@example.com", CreatedBy: "alice"},
	}
}

func newGateway(t *testing.T, dir string, codec *storage.Codec) *FileGateway {
	t.Helper()
	g, err := NewFileGateway(Config{Dir: dir, Codec: codec}, nil)
	if err != nil {
		t.Fatalf("NewFileGateway: %v", err)
	}
	return g
}

func TestFileGateway_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	g := newGateway(t, dir, nil)
	if err := g.Save(ctx, sampleUsers()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened := newGateway(t, dir, nil)
	if got := reopened.Load(ctx); !reflect.DeepEqual(got, sampleUsers()) {
		t.Errorf("Load() = %+v, want %+v", got, sampleUsers())
	}
}

func TestFileGateway_PlainFormatIsUserList(t *testing.T) {
	dir := t.TempDir()
	g := newGateway(t, dir, nil)
	if err := g.Save(context.Background(), sampleUsers()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(g.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var raw []map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("document is not a JSON list: %v", err)
	}
	want := map[string]string{
		"username":   "alice",
		"real_name":  "Alice A",
		"email":      "alice@example.com",
		"created_by": "alice",
	}
	if !reflect.DeepEqual(raw[0], want) {
		t.Errorf("first record = %v, want %v", raw[0], want)
	}
}

func TestFileGateway_LoadMissingIsEmpty(t *testing.T) {
	g := newGateway(t, t.TempDir(), nil)
	got := g.Load(context.Background())
	if got == nil || len(got) != 0 {
		t.Errorf("Load() = %#v, want empty", got)
	}
}

func TestFileGateway_LoadCorruptIsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "not json at all"},
		{"truncated list", `[{"username":"alice"`},
		{"empty file", ""},
		{"wrong shape", `{"users": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, DefaultFileName), []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			g := newGateway(t, dir, nil)
			if got := g.Load(context.Background()); len(got) != 0 {
				t.Errorf("Load() = %+v, want empty", got)
			}
		})
	}
}

func TestFileGateway_SaveEmpty(t *testing.T) {
	dir := t.TempDir()
	g := newGateway(t, dir, nil)
	if err := g.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save(nil): %v", err)
	}
	data, _ := os.ReadFile(g.Path())
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("document = %q, want []", data)
	}
}

func TestFileGateway_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	g := newGateway(t, dir, nil)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := g.Save(ctx, sampleUsers()[:i%2+1]); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != DefaultFileName {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir entries = %v, want only %s", names, DefaultFileName)
	}
	info, _ := os.Stat(g.Path())
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestFileGateway_SaveFailsWhenDirGone(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	g := newGateway(t, dir, nil)
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := g.Save(context.Background(), sampleUsers()); err == nil {
		t.Error("Save into a removed directory should fail")
	}
}

func TestFileGateway_Sealed(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	sealer, err := storage.NewSealer("correct horse battery staple", "")
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	g := newGateway(t, dir, storage.NewCodec(sealer))
	if err := g.Save(ctx, sampleUsers()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, _ := os.ReadFile(g.Path())
	if strings.Contains(string(data), "alice@example.com") {
		t.Error("sealed document should not contain plaintext records")
	}

	freshSealer, _ := storage.NewSealer("correct horse battery staple", "")
	reopened := newGateway(t, dir, storage.NewCodec(freshSealer))
	if got := reopened.Load(ctx); !reflect.DeepEqual(got, sampleUsers()) {
		t.Errorf("Load() = %+v, want %+v", got, sampleUsers())
	}

	wrongSealer, _ := storage.NewSealer("a different secret value", "")
	wrong := newGateway(t, dir, storage.NewCodec(wrongSealer))
	if got := wrong.Load(ctx); len(got) != 0 {
		t.Errorf("Load() with wrong key = %+v, want empty", got)
	}

	plain := newGateway(t, dir, nil)
	if got := plain.Load(ctx); len(got) != 0 {
		t.Errorf("Load() without key = %+v, want empty", got)
	}
}
