package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

// FileTree represents a directory structure for testing. Values are either
// a string (file content) or a nested FileTree (directory).
type FileTree map[string]interface{}

// CreateFileTree recursively creates tree under basePath
func CreateFileTree(t testing.TB, basePath string, tree FileTree) {
	t.Helper()

	if err := os.MkdirAll(basePath, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", basePath, err)
	}

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", filepath.Dir(fullPath), err)
			}
			if err := os.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			CreateFileTree(t, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}

// ReadFileTree reads everything under root back into a FileTree
func ReadFileTree(t testing.TB, root string) FileTree {
	t.Helper()

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("Failed to read directory %s: %v", root, err)
	}

	tree := FileTree{}
	for _, entry := range entries {
		fullPath := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			tree[entry.Name()] = ReadFileTree(t, fullPath)
			continue
		}
		data, err := os.ReadFile(fullPath)
		if err != nil {
			t.Fatalf("Failed to read file %s: %v", fullPath, err)
		}
		tree[entry.Name()] = string(data)
	}
	return tree
}

// TreePaths lists the slash-separated relative paths of every file in tree, sorted
func TreePaths(tree FileTree) []string {
	var out []string
	var walk func(prefix string, tree FileTree)
	walk = func(prefix string, tree FileTree) {
		for name, content := range tree {
			rel := name
			if prefix != "" {
				rel = prefix + "/" + name
			}
			if sub, ok := content.(FileTree); ok {
				walk(rel, sub)
				continue
			}
			out = append(out, rel)
		}
	}
	walk("", tree)
	sort.Strings(out)
	return out
}

// ModTimes records the modification time of every file under root, keyed by
// slash-separated relative path.
func ModTimes(t testing.TB, root string) map[string]time.Time {
	t.Helper()

	times := map[string]time.Time{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		times[filepath.ToSlash(rel)] = info.ModTime()
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk %s: %v", root, err)
	}
	return times
}
