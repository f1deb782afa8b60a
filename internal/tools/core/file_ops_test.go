package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFileTool(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("line1\nline2\nline3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := ReadFileTool()

	result, err := tool.Execute(context.Background(), map[string]any{"path": path})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(result, "line2") {
		t.Errorf("expected full contents, got %q", result)
	}

	result, err = tool.Execute(context.Background(), map[string]any{
		"path":       path,
		"start_line": 2,
		"end_line":   2,
	})
	if err != nil {
		t.Fatalf("ranged read failed: %v", err)
	}
	if strings.TrimSpace(result) != "line2" {
		t.Errorf("expected only line2, got %q", result)
	}
}

func TestWriteFileTool(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "b.txt")

	tool := WriteFileTool()
	_, err := tool.Execute(context.Background(), map[string]any{
		"path":    path,
		"content": "hello",
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if string(content) != "hello" {
		t.Errorf("got %q, want %q", content, "hello")
	}
}

func TestPatchFileTool(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.txt")
	if err := os.WriteFile(path, []byte("foo bar foo"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := PatchFileTool()
	_, err := tool.Execute(context.Background(), map[string]any{
		"path":     path,
		"old_text": "foo",
		"new_text": "baz",
	})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "baz bar foo" {
		t.Errorf("expected only first occurrence replaced, got %q", content)
	}
}

func TestPatchFileTool_ReplaceAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "d.txt")
	if err := os.WriteFile(path, []byte("foo bar foo"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := PatchFileTool()
	_, err := tool.Execute(context.Background(), map[string]any{
		"path":        path,
		"old_text":    "foo",
		"new_text":    "baz",
		"replace_all": true,
	})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "baz bar baz" {
		t.Errorf("expected all occurrences replaced, got %q", content)
	}
}

func TestPatchFileTool_NotFound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "e.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := PatchFileTool()
	_, err := tool.Execute(context.Background(), map[string]any{
		"path":     path,
		"old_text": "missing",
		"new_text": "x",
	})
	if err == nil {
		t.Error("expected error for text not found")
	}
}

func TestPreviewDiffTool(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("alpha"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := PreviewDiffTool()
	result, err := tool.Execute(context.Background(), map[string]any{
		"path":     path,
		"old_text": "alpha",
		"new_text": "beta",
	})
	if err != nil {
		t.Fatalf("preview-diff failed: %v", err)
	}
	if !strings.Contains(result, "-alpha") || !strings.Contains(result, "+beta") {
		t.Errorf("expected unified-style diff markers, got %q", result)
	}

	// The file itself must be untouched.
	content, _ := os.ReadFile(path)
	if string(content) != "alpha" {
		t.Errorf("preview-diff must not modify the file, got %q", content)
	}
}

func TestDeleteFileTool(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := DeleteFileTool()
	_, err := tool.Execute(context.Background(), map[string]any{"path": path})
	if err != nil {
		t.Fatalf("delete-file failed: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}
}

func TestDeleteFileTool_RefusesDirectory(t *testing.T) {
	dir := t.TempDir()

	tool := DeleteFileTool()
	_, err := tool.Execute(context.Background(), map[string]any{"path": dir})
	if err == nil {
		t.Error("expected error when deleting a directory")
	}
}

func TestListDirTool(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "visible.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := ListDirTool()
	result, err := tool.Execute(context.Background(), map[string]any{"path": dir})
	if err != nil {
		t.Fatalf("list-dir failed: %v", err)
	}
	if !strings.Contains(result, "visible.txt") {
		t.Errorf("expected visible.txt in listing, got %q", result)
	}
	if strings.Contains(result, ".hidden") {
		t.Errorf("expected hidden file excluded by default, got %q", result)
	}
}
