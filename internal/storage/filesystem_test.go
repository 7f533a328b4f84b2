package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSystemSecurity(t *testing.T) {
	parent := t.TempDir()
	baseDir := filepath.Join(parent, "data")
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		t.Fatal(err)
	}

	outsideFile := filepath.Join(parent, "outside.txt")
	if err := os.WriteFile(outsideFile, []byte("secret"), 0644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSystem(baseDir)
	ctx := context.Background()

	t.Run("Save prevents directory traversal", func(t *testing.T) {
		tests := []struct {
			name string
			path string
			want bool // true if should succeed
		}{
			{"normal path", "lexicon.yaml", true},
			{"subdirectory", "sessions/abc/report.json", true},
			{"parent traversal", "../lexicon.yaml", false},
			{"complex traversal", "sessions/../../lexicon.yaml", false},
			{"absolute path", "/etc/passwd", false},
			{"hidden traversal", "sessions/../../../etc/passwd", false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := fs.Save(ctx, tt.path, []byte("test"))
				if tt.want && err != nil {
					t.Errorf("expected success, got error: %v", err)
				}
				if !tt.want && !errors.Is(err, ErrInvalidPath) {
					t.Errorf("Save(%q) error = %v, want ErrInvalidPath", tt.path, err)
				}
			})
		}
	})

	t.Run("Load prevents directory traversal", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(baseDir, "valid.txt"), []byte("valid"), 0644); err != nil {
			t.Fatal(err)
		}

		tests := []struct {
			name string
			path string
			want bool
		}{
			{"normal path", "valid.txt", true},
			{"parent traversal", "../outside.txt", false},
			{"absolute path", outsideFile, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := fs.Load(ctx, tt.path)
				if tt.want && err != nil {
					t.Errorf("expected success, got error: %v", err)
				}
				if !tt.want && err == nil {
					t.Errorf("expected error for path %q, got none", tt.path)
				}
			})
		}
	})

	t.Run("List prevents directory traversal", func(t *testing.T) {
		tests := []struct {
			name    string
			pattern string
			want    bool
		}{
			{"normal pattern", "*.txt", true},
			{"subdirectory pattern", "sessions/*", true},
			{"parent traversal", "../*", false},
			{"absolute pattern", "/etc/*", false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := fs.List(ctx, tt.pattern)
				if tt.want && err != nil {
					t.Errorf("expected success, got error: %v", err)
				}
				if !tt.want && err == nil {
					t.Errorf("expected error for pattern %q, got none", tt.pattern)
				}
			})
		}
	})
}

func TestResolve(t *testing.T) {
	tempDir := t.TempDir()
	fs := NewFileSystem(tempDir)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple file", "file.txt", false},
		{"nested file", "dir/file.txt", false},
		{"dot file", ".hidden", false},
		{"parent directory", "../file.txt", true},
		{"sneaky parent", "dir/../../../etc/passwd", true},
		{"absolute path", "/etc/passwd", true},
		{"empty path", "", false},
		{"dot path", ".", false},
		{"double dot", "..", true},
		{"contains double dot", "some/..thing/file", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.resolve(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("resolve(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
				return
			}
			if err == nil && !strings.HasPrefix(got, tempDir) {
				t.Errorf("resolve(%q) = %q, not under base directory %q", tt.path, got, tempDir)
			}
		})
	}
}

func TestSaveLoadListDelete(t *testing.T) {
	fs := NewFileSystem(t.TempDir())
	ctx := context.Background()

	if err := fs.Save(ctx, "sessions/one/report.json", []byte(`{"a":1}`)); err != nil {
		t.Fatal(err)
	}
	if err := fs.Save(ctx, "sessions/one/report.json", []byte(`{"a":2}`)); err != nil {
		t.Fatal(err)
	}
	data, err := fs.Load(ctx, "sessions/one/report.json")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"a":2}` {
		t.Errorf("Load() = %s, want overwritten content", data)
	}

	got, err := fs.List(ctx, "sessions/one/*")
	if err != nil {
		t.Fatal(err)
	}
	// no temp files left behind
	if len(got) != 1 || got[0] != filepath.Join("sessions", "one", "report.json") {
		t.Errorf("List() = %v", got)
	}

	if !fs.Exists(ctx, "sessions/one/report.json") {
		t.Error("Exists() = false after Save")
	}
	if err := fs.Delete(ctx, "sessions/one/report.json"); err != nil {
		t.Fatal(err)
	}
	if fs.Exists(ctx, "sessions/one/report.json") {
		t.Error("Exists() = true after Delete")
	}
}

func TestSaveCancelled(t *testing.T) {
	fs := NewFileSystem(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := fs.Save(ctx, "x.txt", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v, want context.Canceled", err)
	}
}

func TestDeleteRefusesDataDirectory(t *testing.T) {
	fs := NewFileSystem(t.TempDir())
	for _, path := range []string{".", "", "sessions/.."} {
		if err := fs.Delete(context.Background(), path); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Delete(%q) error = %v, want ErrInvalidPath", path, err)
		}
	}
}
