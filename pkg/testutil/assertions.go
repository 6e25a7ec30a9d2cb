package testutil

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"testing"
)

// FileExists reports whether path exists and is not a directory
func FileExists(t testing.TB, path string) bool {
	t.Helper()
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DirExists reports whether path exists and is a directory
func DirExists(t testing.TB, path string) bool {
	t.Helper()
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// AssertFileContent checks that the file at path holds exactly want
func AssertFileContent(t testing.TB, path, want string, msgAndArgs ...interface{}) {
	t.Helper()

	got, err := os.ReadFile(path)
	if err != nil {
		msg := formatMessage(msgAndArgs...)
		t.Errorf("%sCannot read %s: %v", msg, path, err)
		return
	}
	if string(got) != want {
		msg := formatMessage(msgAndArgs...)
		t.Errorf("%sContent mismatch for %s\nExpected: %q\nActual: %q", msg, path, want, string(got))
	}
}

// AssertDirEmpty checks that path is an existing, empty directory
func AssertDirEmpty(t testing.TB, path string, msgAndArgs ...interface{}) {
	t.Helper()

	entries, err := os.ReadDir(path)
	if err != nil {
		msg := formatMessage(msgAndArgs...)
		t.Errorf("%sCannot read directory %s: %v", msg, path, err)
		return
	}
	if len(entries) > 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		msg := formatMessage(msgAndArgs...)
		t.Errorf("%sDirectory %s is not empty: %v", msg, path, names)
	}
}

// AssertTreeContains checks that every file in want exists under root with
// the same content. Extra files under root are allowed.
func AssertTreeContains(t testing.TB, root string, want FileTree, msgAndArgs ...interface{}) {
	t.Helper()

	got := ReadFileTree(t, root)
	for _, rel := range TreePaths(want) {
		wantContent := lookup(want, rel)
		gotContent, ok := lookup(got, rel).(string)
		if !ok {
			msg := formatMessage(msgAndArgs...)
			t.Errorf("%sMissing file %s under %s", msg, rel, root)
			continue
		}
		if gotContent != wantContent {
			msg := formatMessage(msgAndArgs...)
			t.Errorf("%sContent mismatch for %s\nExpected: %q\nActual: %q", msg, rel, wantContent, gotContent)
		}
	}
}

// AssertTreeEqual checks that root holds exactly the files in want
func AssertTreeEqual(t testing.TB, root string, want FileTree, msgAndArgs ...interface{}) {
	t.Helper()

	got := ReadFileTree(t, root)
	if !reflect.DeepEqual(TreePaths(want), TreePaths(got)) {
		msg := formatMessage(msgAndArgs...)
		t.Errorf("%sTree mismatch under %s\nExpected: %v\nActual: %v", msg, root, TreePaths(want), TreePaths(got))
		return
	}
	AssertTreeContains(t, root, want, msgAndArgs...)
}

func lookup(tree FileTree, rel string) interface{} {
	parts := strings.Split(rel, "/")
	var node interface{} = tree
	for _, part := range parts {
		dir, ok := node.(FileTree)
		if !ok {
			return nil
		}
		node = dir[part]
	}
	return node
}

func formatMessage(msgAndArgs ...interface{}) string {
	if len(msgAndArgs) == 0 {
		return ""
	}

	if len(msgAndArgs) == 1 {
		return fmt.Sprint(msgAndArgs[0]) + "\n"
	}

	if format, ok := msgAndArgs[0].(string); ok && strings.Contains(format, "%") {
		return fmt.Sprintf(format, msgAndArgs[1:]...) + "\n"
	}

	parts := make([]string, len(msgAndArgs))
	for i, arg := range msgAndArgs {
		parts[i] = fmt.Sprint(arg)
	}
	return strings.Join(parts, " ") + "\n"
}
