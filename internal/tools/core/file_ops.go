package core

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codenerd/internal/logging"
	"codenerd/internal/tools"
)

// These tool bodies are illustrative: concrete file I/O is explicitly out
// of this runtime's scope (spec §1 non-goals). They exist to give the
// dispatch table and sub-agent profiles something real to exercise, not
// to be a production editor backend.

func requirePathArg(args map[string]any) (string, error) {
	path, _ := args["path"].(string)
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	return path, nil
}

// ReadFileTool returns the "read" tool (editor and researcher profiles).
func ReadFileTool() *tools.Tool {
	return &tools.Tool{
		Name:        "read",
		Description: "Read the contents of a file",
		Category:    tools.CategoryCode,
		Priority:    90,
		Execute:     executeReadFile,
		Schema: tools.ToolSchema{
			Required: []string{"path"},
			Properties: map[string]tools.Property{
				"path":       {Type: "string", Description: "the file path to read"},
				"start_line": {Type: "integer", Description: "starting line number (1-indexed, optional)"},
				"end_line":   {Type: "integer", Description: "ending line number (inclusive, optional)"},
			},
		},
	}
}

func executeReadFile(ctx context.Context, args map[string]any) (string, error) {
	path, err := requirePathArg(args)
	if err != nil {
		return "", err
	}
	logging.ToolsDebug("read: path=%s", path)

	start, hasStart := args["start_line"].(int)
	end, hasEnd := args["end_line"].(int)
	if !hasStart && !hasEnd {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		logging.Tools("read completed: %s (%d bytes)", path, len(content))
		return string(content), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	if !hasStart {
		start = 1
	}
	var picked []string
	lineNum := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNum++
		if lineNum < start {
			continue
		}
		if hasEnd && lineNum > end {
			break
		}
		picked = append(picked, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	result := strings.Join(picked, "\n")
	logging.Tools("read completed: %s (%d bytes)", path, len(result))
	return result, nil
}

// WriteFileTool returns the "write" tool (editor profile).
func WriteFileTool() *tools.Tool {
	return &tools.Tool{
		Name:        "write",
		Description: "Write content to a file, creating parent directories as needed",
		Category:    tools.CategoryCode,
		Priority:    80,
		Execute:     executeWriteFile,
		Schema: tools.ToolSchema{
			Required: []string{"path", "content"},
			Properties: map[string]tools.Property{
				"path":    {Type: "string", Description: "the file path to write"},
				"content": {Type: "string", Description: "the content to write"},
			},
		},
	}
}

func executeWriteFile(ctx context.Context, args map[string]any) (string, error) {
	path, err := requirePathArg(args)
	if err != nil {
		return "", err
	}
	content, _ := args["content"].(string)

	logging.ToolsDebug("write: path=%s, size=%d", path, len(content))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	logging.Tools("write completed: %s (%d bytes)", path, len(content))
	return fmt.Sprintf("wrote %d bytes to %s", len(content), path), nil
}

// PatchFileTool returns the "patch" tool: a search/replace edit (editor profile).
func PatchFileTool() *tools.Tool {
	return &tools.Tool{
		Name:        "patch",
		Description: "Edit a file by replacing an exact text match",
		Category:    tools.CategoryCode,
		Priority:    85,
		Execute:     executePatchFile,
		Schema: tools.ToolSchema{
			Required: []string{"path", "old_text", "new_text"},
			Properties: map[string]tools.Property{
				"path":        {Type: "string", Description: "the file path to edit"},
				"old_text":    {Type: "string", Description: "the text to find and replace"},
				"new_text":    {Type: "string", Description: "the replacement text"},
				"replace_all": {Type: "boolean", Description: "replace all occurrences instead of just the first", Default: false},
			},
		},
	}
}

// applyPatch replaces old with new in content, either once (the first
// occurrence) or everywhere, and reports how many replacements were made.
func applyPatch(content, old, replacement string, all bool) (string, int) {
	if all {
		return strings.ReplaceAll(content, old, replacement), strings.Count(content, old)
	}
	idx := strings.Index(content, old)
	if idx < 0 {
		return content, 0
	}
	return content[:idx] + replacement + content[idx+len(old):], 1
}

func executePatchFile(ctx context.Context, args map[string]any) (string, error) {
	path, err := requirePathArg(args)
	if err != nil {
		return "", err
	}
	oldText, _ := args["old_text"].(string)
	if oldText == "" {
		return "", fmt.Errorf("old_text is required")
	}
	newText, _ := args["new_text"].(string)
	replaceAll, _ := args["replace_all"].(bool)

	logging.ToolsDebug("patch: path=%s, old_len=%d, new_len=%d", path, len(oldText), len(newText))

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	patched, count := applyPatch(string(raw), oldText, newText, replaceAll)
	if count == 0 {
		return "", fmt.Errorf("old_text not found in file")
	}

	if err := os.WriteFile(path, []byte(patched), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	logging.Tools("patch completed: %s (%d replacements)", path, count)
	return fmt.Sprintf("replaced %d occurrence(s) in %s", count, path), nil
}

// PreviewDiffTool returns the "preview-diff" tool: shows what a patch would
// change without writing it (editor profile).
func PreviewDiffTool() *tools.Tool {
	return &tools.Tool{
		Name:        "preview-diff",
		Description: "Preview a patch's effect without writing it to disk",
		Category:    tools.CategoryCode,
		Priority:    85,
		Execute:     executePreviewDiff,
		Schema: tools.ToolSchema{
			Required: []string{"path", "old_text", "new_text"},
			Properties: map[string]tools.Property{
				"path":     {Type: "string", Description: "the file path to preview"},
				"old_text": {Type: "string", Description: "the text that would be found and replaced"},
				"new_text": {Type: "string", Description: "the replacement text"},
			},
		},
	}
}

func executePreviewDiff(ctx context.Context, args map[string]any) (string, error) {
	path, err := requirePathArg(args)
	if err != nil {
		return "", err
	}
	oldText, _ := args["old_text"].(string)
	newText, _ := args["new_text"].(string)

	logging.ToolsDebug("preview-diff: path=%s", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if oldText != "" && !strings.Contains(string(raw), oldText) {
		return "", fmt.Errorf("old_text not found in file")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", path)
	for _, line := range strings.Split(oldText, "\n") {
		sb.WriteString("-" + line + "\n")
	}
	for _, line := range strings.Split(newText, "\n") {
		sb.WriteString("+" + line + "\n")
	}
	return sb.String(), nil
}

// DeleteFileTool returns a tool for deleting files. Not part of any named
// profile allow-list; ExecuteGated dispatches it only under ProfileAll.
func DeleteFileTool() *tools.Tool {
	return &tools.Tool{
		Name:        "delete-file",
		Description: "Delete a file",
		Category:    tools.CategoryCode,
		Priority:    50,
		Execute:     executeDeleteFile,
		Schema: tools.ToolSchema{
			Required: []string{"path"},
			Properties: map[string]tools.Property{
				"path": {Type: "string", Description: "the file path to delete"},
			},
		},
	}
}

func executeDeleteFile(ctx context.Context, args map[string]any) (string, error) {
	path, err := requirePathArg(args)
	if err != nil {
		return "", err
	}
	logging.ToolsDebug("delete-file: path=%s", path)

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("cannot delete a directory with delete-file")
	}
	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("failed to delete file: %w", err)
	}

	logging.Tools("delete-file completed: %s", path)
	return fmt.Sprintf("deleted %s", path), nil
}

// ListDirTool returns the "list-dir" tool (editor and researcher profiles).
func ListDirTool() *tools.Tool {
	return &tools.Tool{
		Name:        "list-dir",
		Description: "List the immediate contents of a directory",
		Category:    tools.CategoryCode,
		Priority:    85,
		Execute:     executeListDir,
		Schema: tools.ToolSchema{
			Required: []string{"path"},
			Properties: map[string]tools.Property{
				"path":           {Type: "string", Description: "the directory path to list"},
				"include_hidden": {Type: "boolean", Description: "include hidden files", Default: false},
			},
		},
	}
}

func executeListDir(ctx context.Context, args map[string]any) (string, error) {
	path, _ := args["path"].(string)
	if path == "" {
		path = "."
	}
	includeHidden, _ := args["include_hidden"].(bool)

	logging.ToolsDebug("list-dir: path=%s", path)

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("failed to read directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !includeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}

	logging.Tools("list-dir completed: %s (%d entries)", path, len(names))
	return strings.Join(names, "\n"), nil
}
