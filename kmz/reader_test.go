package kmz

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

type zipEntry struct {
	name string
	data []byte
}

// createTestKMZ creates a zip archive with the given entries and
// returns its path.
func createTestKMZ(t *testing.T, entries []zipEntry) string {
	t.Helper()

	tmpDir := t.TempDir()
	kmzPath := filepath.Join(tmpDir, "test.kmz")

	f, err := os.Create(kmzPath)
	if err != nil {
		t.Fatalf("Failed to create test KMZ: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("Failed to create zip entry %s: %v", e.name, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			t.Fatalf("Failed to write zip entry %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}

	return kmzPath
}

// encodePNG encodes a blank image of the given size as PNG bytes.
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func TestOpen(t *testing.T) {
	kml := []byte(`<?xml version="1.0" encoding="UTF-8"?><kml xmlns="http://www.opengis.net/kml/2.2"></kml>`)
	path := createTestKMZ(t, []zipEntry{
		{name: "doc.kml", data: kml},
		{name: "files/photo.png", data: encodePNG(t, 1, 1)},
	})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	if got, want := r.DocumentName(), "doc.kml"; got != want {
		t.Errorf("DocumentName = %q, want %q", got, want)
	}

	data, err := r.Document()
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	if !bytes.Equal(data, kml) {
		t.Errorf("Document returned %d bytes, want %d", len(data), len(kml))
	}
}

func TestOpen_MissingDocument(t *testing.T) {
	path := createTestKMZ(t, []zipEntry{
		{name: "readme.txt", data: []byte("no kml here")},
	})

	_, err := Open(path)
	if err == nil {
		t.Fatal("Expected error for archive without KML document")
	}
	if !errors.Is(err, ErrMissingDocument) {
		t.Errorf("Error = %v, want ErrMissingDocument", err)
	}
}

func TestOpen_NotAnArchive(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bogus.kmz")
	if err := os.WriteFile(path, []byte("this is not a zip file"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	_, err := Open(path)
	if !errors.Is(err, ErrInvalidArchive) {
		t.Errorf("Error = %v, want ErrInvalidArchive", err)
	}
}

func TestOpen_MultipleDocuments(t *testing.T) {
	path := createTestKMZ(t, []zipEntry{
		{name: "first.kml", data: []byte("<kml>1</kml>")},
		{name: "second.kml", data: []byte("<kml>2</kml>")},
	})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	if got, want := r.DocumentName(), "first.kml"; got != want {
		t.Errorf("DocumentName = %q, want %q (first in listing order)", got, want)
	}
	if got := r.DocumentNames(); len(got) != 2 {
		t.Errorf("DocumentNames returned %d names, want 2", len(got))
	}
}

func TestOpen_NestedAndUppercaseEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{"nested", "data/survey.kml"},
		{"uppercase extension", "SURVEY.KML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createTestKMZ(t, []zipEntry{
				{name: tt.entry, data: []byte("<kml/>")},
			})

			r, err := Open(path)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer r.Close()

			if got := r.DocumentName(); got != tt.entry {
				t.Errorf("DocumentName = %q, want %q", got, tt.entry)
			}
		})
	}
}

func TestOpenReader(t *testing.T) {
	path := createTestKMZ(t, []zipEntry{
		{name: "doc.kml", data: []byte("<kml/>")},
	})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read test KMZ: %v", err)
	}

	r, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}

	doc, err := r.Document()
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	if string(doc) != "<kml/>" {
		t.Errorf("Document = %q, want %q", doc, "<kml/>")
	}
}

func TestClose_Idempotent(t *testing.T) {
	path := createTestKMZ(t, []zipEntry{
		{name: "doc.kml", data: []byte("<kml/>")},
	})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := r.Close(); err != nil {
		t.Errorf("First Close failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Second Close failed: %v", err)
	}

	if _, err := r.Document(); !errors.Is(err, ErrReaderClosed) {
		t.Errorf("Document after Close = %v, want ErrReaderClosed", err)
	}
}

func TestAssets(t *testing.T) {
	path := createTestKMZ(t, []zipEntry{
		{name: "doc.kml", data: []byte("<kml/>")},
		{name: "images/", data: nil},
		{name: "images/pin.png", data: encodePNG(t, 2, 3)},
		{name: "notes.txt", data: []byte("field notes")},
	})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	assets := r.Assets()
	if len(assets) != 2 {
		t.Fatalf("Assets returned %d entries, want 2", len(assets))
	}

	pin := assets[0]
	if pin.Name != "images/pin.png" {
		t.Errorf("Asset name = %q, want %q", pin.Name, "images/pin.png")
	}
	if pin.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want %q", pin.ContentType, "image/png")
	}
	if pin.Width != 2 || pin.Height != 3 {
		t.Errorf("Dimensions = %dx%d, want 2x3", pin.Width, pin.Height)
	}

	notes := assets[1]
	if notes.Name != "notes.txt" {
		t.Errorf("Asset name = %q, want %q", notes.Name, "notes.txt")
	}
	if notes.Width != 0 || notes.Height != 0 {
		t.Errorf("Non-image dimensions = %dx%d, want 0x0", notes.Width, notes.Height)
	}
}
