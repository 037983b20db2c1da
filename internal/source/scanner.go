package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner walks an ingest directory.
type Scanner struct {
	// SkipDirs are directory names never descended into, in addition to
	// hidden directories.
	SkipDirs []string
}

// NewScanner creates a Scanner that skips the given directory names.
func NewScanner(skipDirs ...string) *Scanner {
	return &Scanner{SkipDirs: skipDirs}
}

// Scan returns every ingestible file under dir, sorted by relative path.
func (s *Scanner) Scan(ctx context.Context, dir string) ([]ScannedFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat ingest dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ingest path is not a directory: %s", dir)
	}

	var files []ScannedFile
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			if path != dir && s.skipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(info.Name(), ".") {
			return nil
		}
		kind, ok := KindForPath(path)
		if !ok {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}

		files = append(files, ScannedFile{
			Kind:    kind,
			RelPath: filepath.ToSlash(relPath),
			AbsPath: path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

func (s *Scanner) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, d := range s.SkipDirs {
		if d == name {
			return true
		}
	}
	return false
}

func extLower(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
