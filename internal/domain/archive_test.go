package domain

import (
	"path/filepath"
	"testing"
)

func TestOutputPath(t *testing.T) {
	cases := []struct {
		input  string
		target ImageFormat
		want   string
	}{
		{"Comic Vol. 1.cbz", Avif, "Comic Vol. 1.avif.cbz"},
		{"bundle.zip", Jxl, "bundle.jxl.zip"},
		{filepath.Join("library", "Comic.cbz"), Webp, filepath.Join("library", "Comic.webp.cbz")},
		{"Comic.CBZ", Avif, "Comic.avif.cbz"},
	}
	for _, c := range cases {
		if got := OutputPath(c.input, c.target); got != c.want {
			t.Errorf("OutputPath(%q, %v) = %q, want %q", c.input, c.target, got, c.want)
		}
	}
}

func TestHasConvertedSuffix(t *testing.T) {
	cases := []struct {
		input  string
		target ImageFormat
		want   bool
	}{
		{"Comic.avif.cbz", Avif, true},
		{"Comic.AVIF.CBZ", Avif, true},
		{"Comic.avif.cbz", Jxl, false},
		{"Comic.cbz", Avif, false},
		{"Comic.jxl.zip", Jxl, true},
	}
	for _, c := range cases {
		if got := HasConvertedSuffix(c.input, c.target); got != c.want {
			t.Errorf("HasConvertedSuffix(%q, %v) = %v, want %v", c.input, c.target, got, c.want)
		}
	}
}

func TestWithFormatExt(t *testing.T) {
	cases := []struct {
		input  string
		target ImageFormat
		want   string
	}{
		{"pages/page1.jpg", Avif, "pages/page1.avif"},
		{"cover.png", Jxl, "cover.jxl"},
		{"dir.with.dots/art.webp", Png, "dir.with.dots/art.png"},
	}
	for _, c := range cases {
		if got := WithFormatExt(c.input, c.target); got != c.want {
			t.Errorf("WithFormatExt(%q, %v) = %q, want %q", c.input, c.target, got, c.want)
		}
	}
}

func TestEntryIsDir(t *testing.T) {
	if !(Entry{Path: "pages/"}).IsDir() {
		t.Error("trailing slash should mark a directory entry")
	}
	if (Entry{Path: "pages/page1.jpg"}).IsDir() {
		t.Error("regular entry misreported as directory")
	}
}
