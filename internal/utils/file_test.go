package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetFileExtension(t *testing.T) {
	cases := map[string]string{
		"photo.JPG":      "jpg",
		"photo.png":      "png",
		"archive.tar.gz": "gz",
		"no_extension":   "",
		"dir/photo.webp": "webp",
		".hidden":        "hidden",
		"trailing.dot.":  "",
	}
	for input, want := range cases {
		if got := GetFileExtension(input); got != want {
			t.Errorf("GetFileExtension(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestIsImageFile(t *testing.T) {
	images := []string{"a.jpg", "b.JPEG", "c.png", "d.gif", "e.bmp", "f.tiff", "g.webp"}
	for _, name := range images {
		if !IsImageFile(name) {
			t.Errorf("IsImageFile(%q) = false", name)
		}
	}
	others := []string{"a.txt", "b.mp4", "c", "d.json"}
	for _, name := range others {
		if IsImageFile(name) {
			t.Errorf("IsImageFile(%q) = true", name)
		}
	}
}

func TestGenerateOutputFilename(t *testing.T) {
	got := GenerateOutputFilename("photos/group.jpg", "out", "_redacted", "png")
	want := filepath.Join("out", "group_redacted.png")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateOutputFilenameKeepsInputFormat(t *testing.T) {
	got := GenerateOutputFilename("group.webp", "out", "_redacted", "")
	want := filepath.Join("out", "group_redacted.webp")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateOutputFilenameDefaultsToPNG(t *testing.T) {
	got := GenerateOutputFilename("noext", "out", "_redacted", "")
	want := filepath.Join("out", "noext_redacted.png")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	if !DirExists(dir) {
		t.Error("directory was not created")
	}
	// Idempotent on an existing directory
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir on existing dir failed: %v", err)
	}
}

func TestFileAndDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.png")
	if err := os.WriteFile(file, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Error("FileExists = false for a real file")
	}
	if FileExists(dir) {
		t.Error("FileExists = true for a directory")
	}
	if FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists = true for a missing path")
	}

	if !DirExists(dir) {
		t.Error("DirExists = false for a real directory")
	}
	if DirExists(file) {
		t.Error("DirExists = true for a file")
	}
}

func TestListImageFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.jpg", "b.txt", filepath.Join("sub", "c.png")} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ListImageFiles(dir)
	if err != nil {
		t.Fatalf("ListImageFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 image files, got %v", files)
	}
}

func TestFormatFileSize(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}
	for _, c := range cases {
		if got := FormatFileSize(c.size); got != c.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", c.size, got, c.want)
		}
	}
}
