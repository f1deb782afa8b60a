package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGrepTool(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.go"), []byte("package main\nfunc foo() {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.go"), []byte("package main\nfunc bar() {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := GrepTool()
	result, err := tool.Execute(context.Background(), map[string]any{
		"pattern": "func foo",
		"path":    dir,
	})
	if err != nil {
		t.Fatalf("grep failed: %v", err)
	}
	if !strings.Contains(result, "a.go") {
		t.Errorf("expected match in a.go, got %q", result)
	}
	if strings.Contains(result, "b.go") {
		t.Errorf("expected no match in b.go, got %q", result)
	}
}

func TestGrepTool_NoMatches(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := GrepTool()
	result, err := tool.Execute(context.Background(), map[string]any{
		"pattern": "nonexistent",
		"path":    dir,
	})
	if err != nil {
		t.Fatalf("grep failed: %v", err)
	}
	if !strings.Contains(result, "no matches") {
		t.Errorf("expected no-matches message, got %q", result)
	}
}

func TestGrepTool_FilePatternFilter(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.go"), []byte("needle"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("needle"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := GrepTool()
	result, err := tool.Execute(context.Background(), map[string]any{
		"pattern":      "needle",
		"path":         dir,
		"file_pattern": "*.go",
	})
	if err != nil {
		t.Fatalf("grep failed: %v", err)
	}
	if !strings.Contains(result, "a.go") || strings.Contains(result, "a.txt") {
		t.Errorf("expected only a.go to match, got %q", result)
	}
}

func TestGrepTool_IgnoreCase(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("Needle"), 0644); err != nil {
		t.Fatal(err)
	}

	tool := GrepTool()
	result, err := tool.Execute(context.Background(), map[string]any{
		"pattern":     "needle",
		"path":        dir,
		"ignore_case": true,
	})
	if err != nil {
		t.Fatalf("grep failed: %v", err)
	}
	if !strings.Contains(result, "Needle") {
		t.Errorf("expected case-insensitive match, got %q", result)
	}
}

func TestGrepTool_InvalidPattern(t *testing.T) {
	tool := GrepTool()
	_, err := tool.Execute(context.Background(), map[string]any{
		"pattern": "[",
		"path":    ".",
	})
	if err == nil {
		t.Error("expected error for invalid regex")
	}
}
