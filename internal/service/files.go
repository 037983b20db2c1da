package service

import (
	"context"
	"fmt"

	"sciingest/internal/contextutil"
	"sciingest/internal/indexer"
	"sciingest/internal/source"
)

// FileIngester feeds files from the ingest directory into an IngestService.
type FileIngester struct {
	svc     IngestService
	scanner *source.Scanner
	loader  *source.Loader
}

// NewFileIngester creates a FileIngester.
func NewFileIngester(svc IngestService, loader *source.Loader) *FileIngester {
	if loader == nil {
		loader = source.NewLoader()
	}
	return &FileIngester{
		svc:     svc,
		scanner: source.NewScanner(),
		loader:  loader,
	}
}

// DirResult summarises IngestDir.
type DirResult struct {
	Files              int      `json:"files"`
	FailedFiles        []string `json:"failed_files,omitempty"`
	TotalDocuments     int      `json:"total_documents"`
	Successful         int      `json:"successful"`
	Failed             int      `json:"failed"`
	TotalChunksCreated int      `json:"total_chunks_created"`
	DuplicatesSkipped  int      `json:"duplicates_skipped"`
}

func (d *DirResult) add(r indexer.BatchResult) {
	d.TotalDocuments += r.TotalDocuments
	d.Successful += r.Successful
	d.Failed += r.Failed
	d.TotalChunksCreated += r.TotalChunksCreated
	d.DuplicatesSkipped += r.DuplicatesSkipped
}

// IngestFile loads f and ingests its articles or text document.
func (fi *FileIngester) IngestFile(ctx context.Context, f source.ScannedFile, opts IngestOptions) (indexer.BatchResult, error) {
	contents, err := fi.loader.Load(f)
	if err != nil {
		return indexer.BatchResult{}, fmt.Errorf("failed to load %s: %w", f.RelPath, err)
	}
	if contents.Text != nil {
		return fi.svc.ProcessText(ctx, []source.TextDocument{*contents.Text}, opts)
	}
	if len(contents.Articles) == 0 {
		return indexer.BatchResult{}, fmt.Errorf("failed to load %s: %w", f.RelPath, source.ErrEmptyFile)
	}
	return fi.svc.ProcessArticles(ctx, contents.Articles, opts)
}

// IngestPath ingests a single file given by path.
func (fi *FileIngester) IngestPath(ctx context.Context, path string, opts IngestOptions) (indexer.BatchResult, error) {
	kind, ok := source.KindForPath(path)
	if !ok {
		return indexer.BatchResult{}, &ValidationError{Field: "path", Message: "unsupported file type: " + path}
	}
	return fi.IngestFile(ctx, source.ScannedFile{Kind: kind, AbsPath: path, RelPath: path}, opts)
}

// IngestDir scans dir and ingests every file found. A file that fails to
// load or ingest is recorded and the scan continues.
func (fi *FileIngester) IngestDir(ctx context.Context, dir string, opts IngestOptions) (DirResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	files, err := fi.scanner.Scan(ctx, dir)
	if err != nil {
		return DirResult{}, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	logger.InfoContext(ctx, "ingest directory scanned", "dir", dir, "files", len(files))

	var res DirResult
	for _, f := range files {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.Files++

		batch, err := fi.IngestFile(ctx, f, opts)
		if err != nil {
			logger.ErrorContext(ctx, "failed to ingest file", "file", f.RelPath, "error", err)
			res.FailedFiles = append(res.FailedFiles, f.RelPath)
			continue
		}
		res.add(batch)
		logger.InfoContext(ctx, "file ingested",
			"file", f.RelPath,
			"documents", batch.TotalDocuments,
			"chunks", batch.TotalChunksCreated,
			"duplicates", batch.DuplicatesSkipped,
		)
	}
	return res, nil
}
