package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalFS_ImplementsStorage(t *testing.T) {
	var _ Storage = (*LocalFS)(nil)
}

func TestNewLocalFS_EmptyPath(t *testing.T) {
	if _, err := NewLocalFS(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestLocalFS_WriteRead(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewLocalFS(dir)
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}

	ctx := context.Background()
	data := []byte(`{"signals":[]}`)

	if err := fs.Write(ctx, "snapshots/2026/01/02/1767312000.json", data); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := fs.Read(ctx, "snapshots/2026/01/02/1767312000.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("got %q, want %q", got, data)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "snapshots", "2026", "01", "02"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the snapshot file, got %d entries", len(entries))
	}
}

func TestLocalFS_Overwrite(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	ctx := context.Background()

	fs.Write(ctx, "a.json", []byte("one"))
	fs.Write(ctx, "a.json", []byte("two"))

	got, _ := fs.Read(ctx, "a.json")
	if string(got) != "two" {
		t.Errorf("got %q, want %q", got, "two")
	}
}

func TestLocalFS_List(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	ctx := context.Background()

	fs.Write(ctx, "snapshots/2026/01/b.json", []byte("b"))
	fs.Write(ctx, "snapshots/2026/01/a.json", []byte("a"))
	fs.Write(ctx, "snapshots/2026/02/c.json", []byte("c"))
	fs.Write(ctx, "other/d.json", []byte("d"))

	paths, err := fs.List(ctx, "snapshots/2026/01")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"snapshots/2026/01/a.json", "snapshots/2026/01/b.json"}
	if len(paths) != len(want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestLocalFS_ListMissingPrefix(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())

	paths, err := fs.List(context.Background(), "snapshots")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("expected no paths, got %v", paths)
	}
}
