package pdf

import (
	"os"
	"path/filepath"
	"testing"
)

func createFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
}

func TestFindFilesWithWalkDir(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "b.pdf", "a.PDF", "notes.txt", "sub/c.pdf", "sub/img.png")

	files, err := findFilesWithWalkDir(root, KindPDF)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(files) != 3 {
		t.Errorf("Expected 3 PDF files, got %d: %v", len(files), files)
	}
}

func TestFindFilesRecursivelySorted(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "z.pdf", "a.pdf", "m/b.pdf")

	files, err := FindFilesRecursively(root, KindPDF)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []string{
		filepath.Join(root, "a.pdf"),
		filepath.Join(root, "m", "b.pdf"),
		filepath.Join(root, "z.pdf"),
	}
	if len(files) != len(expected) {
		t.Fatalf("Expected %d files, got %d: %v", len(expected), len(files), files)
	}
	for i := range expected {
		if filepath.Clean(files[i]) != expected[i] {
			t.Errorf("Position %d: expected %s, got %s", i, expected[i], files[i])
		}
	}
}

func TestExpandPaths(t *testing.T) {
	root := t.TempDir()
	createFiles(t, root, "single.pdf", "dir/one.pdf", "dir/two.pdf", "dir/skip.docx")

	single := filepath.Join(root, "single.pdf")
	files, err := ExpandPaths([]string{filepath.Join(root, "dir"), single}, KindPDF)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 files, got %d: %v", len(files), files)
	}
	if files[2] != single {
		t.Errorf("Expected explicit file to keep its position, got %v", files)
	}
}

func TestExpandPathsMissing(t *testing.T) {
	if _, err := ExpandPaths([]string{filepath.Join(t.TempDir(), "nope.pdf")}, KindPDF); err == nil {
		t.Error("Expected an error for a missing input")
	}
}
