package notebook

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo is the path and last modified time of a notebook file, used to
// tell whether the directory changed since it was last read.
type FileInfo struct {
	Path    string
	ModTime time.Time
	Size    int64
}

func getFileInfoForFile(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{Path: path, ModTime: info.ModTime(), Size: info.Size()}, nil
}

// listNotebookFiles returns the notebook files directly under root, sorted
// by path. Hidden files and editor temp files are skipped.
func listNotebookFiles(root string) ([]FileInfo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isNotebookFile(entry.Name()) {
			continue
		}
		fi, err := getFileInfoForFile(filepath.Join(root, entry.Name()))
		if err != nil {
			// Removed between ReadDir and Stat.
			continue
		}
		files = append(files, fi)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func isNotebookFile(name string) bool {
	return filepath.Ext(name) == notebookFileExt &&
		!strings.HasPrefix(name, ".") &&
		!strings.HasSuffix(name, "~")
}

// compareFileInfos returns the files that were deleted, modified and created
// between old and current.
func compareFileInfos(old, current []FileInfo) (deleted, modified, created []FileInfo) {
	deleted = make([]FileInfo, 0)
	created = make([]FileInfo, 0)
	modified = make([]FileInfo, 0)

	byPath := make(map[string]FileInfo, len(current))
	for _, fi := range current {
		byPath[fi.Path] = fi
	}

	seen := make(map[string]bool, len(old))
	for _, f1 := range old {
		seen[f1.Path] = true
		f2, ok := byPath[f1.Path]
		if !ok {
			deleted = append(deleted, f1)
			continue
		}
		if !f1.ModTime.Equal(f2.ModTime) || f1.Size != f2.Size {
			modified = append(modified, f2)
		}
	}

	for _, f2 := range current {
		if !seen[f2.Path] {
			created = append(created, f2)
		}
	}
	return deleted, modified, created
}
