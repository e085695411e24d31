package picker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Iron-Ham/uploadsim/internal/errors"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	png := writeFile(t, dir, "a.png", pngHeader)
	txt := writeFile(t, dir, "notes.txt", []byte("hello world\n"))

	tests := []struct {
		name     string
		path     string
		wantName string
		wantSize int64
		wantType string
	}{
		{"png", png, "a.png", int64(len(pngHeader)), "image/png"},
		{"text", txt, "notes.txt", 12, "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Describe(tt.path)
			if err != nil {
				t.Fatalf("Describe() error = %v", err)
			}
			if f.Name != tt.wantName || f.Size != tt.wantSize || f.Path != tt.path {
				t.Errorf("Describe() = %+v", f)
			}
			if !strings.HasPrefix(f.ContentType, tt.wantType) {
				t.Errorf("ContentType = %q, want prefix %q", f.ContentType, tt.wantType)
			}
		})
	}
}

func TestDescribe_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("directory", func(t *testing.T) {
		_, err := Describe(dir)
		if !errors.Is(err, errors.ErrNotRegularFile) {
			t.Errorf("Describe(dir) error = %v, want ErrNotRegularFile", err)
		}
		var fe *errors.FileError
		if !errors.As(err, &fe) || fe.Path != dir {
			t.Errorf("error should be a FileError for %s: %v", dir, err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Describe(filepath.Join(dir, "missing.bin"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Describe(missing) error = %v, want not-exist", err)
		}
	})
}

func TestFromPaths(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.png", pngHeader)
	b := writeFile(t, dir, "b.txt", []byte("b"))

	t.Run("empty selection", func(t *testing.T) {
		_, err := FromPaths(nil)
		if !errors.Is(err, errors.ErrEmptySelection) {
			t.Errorf("FromPaths(nil) error = %v, want ErrEmptySelection", err)
		}
	})

	t.Run("keeps input order", func(t *testing.T) {
		files, err := FromPaths([]string{b, a})
		if err != nil {
			t.Fatalf("FromPaths() error = %v", err)
		}
		if len(files) != 2 || files[0].Name != "b.txt" || files[1].Name != "a.png" {
			t.Errorf("FromPaths() = %+v, want b.txt then a.png", files)
		}
	})

	t.Run("skips bad paths", func(t *testing.T) {
		files, err := FromPaths([]string{a, dir, b})
		if len(files) != 2 {
			t.Errorf("got %d files, want 2", len(files))
		}
		if !errors.Is(err, errors.ErrNotRegularFile) {
			t.Errorf("error = %v, want ErrNotRegularFile", err)
		}
	})
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", nil)
	writeFile(t, dir, "a.txt", nil)
	writeFile(t, dir, ".hidden", nil)
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	other := filepath.Join(t.TempDir(), "loose.bin")

	got, err := Expand([]string{other, dir})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	want := []string{other, filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")}
	if len(got) != len(want) {
		t.Fatalf("Expand() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expand()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
