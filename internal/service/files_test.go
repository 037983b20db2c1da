package service

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"sciingest/internal/source"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestFileIngester_IngestDir(t *testing.T) {
	svc, _ := newTestService(t)
	dir := t.TempDir()

	raw, err := json.Marshal(testArticles())
	if err != nil {
		t.Fatalf("failed to marshal articles: %v", err)
	}
	writeFile(t, filepath.Join(dir, "articles.json"), string(raw))
	writeFile(t, filepath.Join(dir, "notes.txt"), "Comet Notes\n\nThe comet tail pointed away from the sun.")
	writeFile(t, filepath.Join(dir, "guide.md"), "# Telescope Guide\n\nAlign the finder scope before observing.")
	writeFile(t, filepath.Join(dir, "broken.json"), "{not json")
	writeFile(t, filepath.Join(dir, "image.png"), "binary")

	fi := NewFileIngester(svc, nil)
	res, err := fi.IngestDir(testContext(), dir, DefaultIngestOptions())
	if err != nil {
		t.Fatalf("IngestDir() error = %v", err)
	}

	if res.Files != 4 {
		t.Errorf("Files = %d, want 4", res.Files)
	}
	if len(res.FailedFiles) != 1 || res.FailedFiles[0] != "broken.json" {
		t.Errorf("FailedFiles = %v, want [broken.json]", res.FailedFiles)
	}
	if res.Successful != 3 {
		t.Errorf("Successful = %d, want 3", res.Successful)
	}
	if res.TotalChunksCreated != 3 {
		t.Errorf("TotalChunksCreated = %d, want 3", res.TotalChunksCreated)
	}

	again, err := fi.IngestDir(testContext(), dir, DefaultIngestOptions())
	if err != nil {
		t.Fatalf("IngestDir() second run error = %v", err)
	}
	if again.TotalChunksCreated != 0 {
		t.Errorf("second run created %d chunks, want 0 for unchanged files", again.TotalChunksCreated)
	}
}

func TestFileIngester_IngestPath(t *testing.T) {
	svc, _ := newTestService(t)
	fi := NewFileIngester(svc, source.NewLoader())
	dir := t.TempDir()

	path := filepath.Join(dir, "doc.txt")
	writeFile(t, path, "Orbital mechanics describe how satellites move.")

	res, err := fi.IngestPath(testContext(), path, DefaultIngestOptions())
	if err != nil {
		t.Fatalf("IngestPath() error = %v", err)
	}
	if res.TotalChunksCreated != 1 {
		t.Errorf("TotalChunksCreated = %d, want 1", res.TotalChunksCreated)
	}

	if _, err := fi.IngestPath(testContext(), filepath.Join(dir, "doc.pdf"), DefaultIngestOptions()); err == nil {
		t.Error("IngestPath(.pdf) should fail")
	}
}
