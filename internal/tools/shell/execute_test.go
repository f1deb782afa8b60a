package shell

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestShellExecTool_Success(t *testing.T) {
	tool := ShellExecTool()
	result, err := tool.Execute(context.Background(), map[string]any{
		"command": "echo hello",
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(result, "hello") {
		t.Errorf("expected output to contain hello, got %q", result)
	}
}

func TestShellExecTool_MissingCommand(t *testing.T) {
	tool := ShellExecTool()
	_, err := tool.Execute(context.Background(), map[string]any{})
	if err == nil {
		t.Error("expected error for missing command")
	}
}

func TestShellExecTool_NonZeroExit(t *testing.T) {
	tool := ShellExecTool()
	_, err := tool.Execute(context.Background(), map[string]any{
		"command": "exit 1",
	})
	if err == nil {
		t.Error("expected error for nonzero exit")
	}
}

func TestShellExecTool_WorkingDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tool := ShellExecTool()
	result, err := tool.Execute(context.Background(), map[string]any{
		"command":     "ls",
		"working_dir": dir,
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(result, "marker.txt") {
		t.Errorf("expected directory listing to contain marker.txt, got %q", result)
	}
}

func TestShellExecTool_Timeout(t *testing.T) {
	tool := ShellExecTool()
	_, err := tool.Execute(context.Background(), map[string]any{
		"command":         "sleep 5",
		"timeout_seconds": 1,
	})
	if err == nil {
		t.Error("expected timeout error")
	}
}
