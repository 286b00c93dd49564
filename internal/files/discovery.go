package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// spreadsheetExtensions are the input formats the ingestor understands.
var spreadsheetExtensions = map[string]struct{}{
	".xlsx": {},
	".xlsm": {},
	".xls":  {},
	".csv":  {},
}

// reportExtensions are the artifact formats an analysis run produces.
var reportExtensions = map[string]struct{}{
	".xlsx": {},
	".csv":  {},
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindSpreadsheetFiles finds all spreadsheet files in the specified
// directory, sorted by name so batch order is deterministic.
func (d *Discovery) FindSpreadsheetFiles(dir string) ([]FileInfo, error) {
	files, err := d.findByExtension(dir, spreadsheetExtensions)
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// FindReportFiles finds generated report artifacts in the specified
// directory, newest first.
func (d *Discovery) FindReportFiles(dir string) ([]FileInfo, error) {
	files, err := d.findByExtension(dir, reportExtensions)
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

func (d *Discovery) findByExtension(dir string, extensions map[string]struct{}) ([]FileInfo, error) {
	// If dir is already absolute, use it directly
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if _, ok := extensions[ext]; !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}
