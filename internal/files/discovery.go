package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo describes a discovered file.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery locates input workbooks and exports under a base directory.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery instance rooted at basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindExcelFiles returns the Excel workbooks in dir, oldest first.
func (d *Discovery) FindExcelFiles(dir string) ([]FileInfo, error) {
	entries, err := d.readDir(dir)
	if err != nil {
		return nil, err
	}

	var files []FileInfo
	for _, entry := range entries {
		name := strings.ToLower(entry.Name)
		if strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls") {
			files = append(files, entry)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})

	return files, nil
}

// FindCSVFiles returns the CSV files in dir.
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	entries, err := d.readDir(dir)
	if err != nil {
		return nil, err
	}

	var files []FileInfo
	for _, entry := range entries {
		if strings.HasSuffix(strings.ToLower(entry.Name), ".csv") {
			files = append(files, entry)
		}
	}

	return files, nil
}

// FindStatsExports returns the station-statistics exports in dir keyed
// by nutrient field, recognizing the focb_stats_<field>.csv naming.
func (d *Discovery) FindStatsExports(dir string) (map[string]FileInfo, error) {
	files, err := d.FindCSVFiles(dir)
	if err != nil {
		return nil, err
	}

	exports := make(map[string]FileInfo)
	for _, file := range files {
		if strings.HasPrefix(file.Name, "focb_stats_") && strings.HasSuffix(file.Name, ".csv") {
			field := strings.TrimSuffix(strings.TrimPrefix(file.Name, "focb_stats_"), ".csv")
			exports[field] = file
		}
	}

	return exports, nil
}

// GetLatestFile returns the most recently modified file from a list.
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}

// readDir lists the files in dir. Relative dirs resolve against the
// base path unless they are already rooted there (a Paths accessor
// result), which must not be joined a second time.
func (d *Discovery) readDir(dir string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) && dir != d.basePath &&
		!strings.HasPrefix(dir, d.basePath+string(filepath.Separator)) {
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
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}
