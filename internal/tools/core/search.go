package core

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"codenerd/internal/logging"
	"codenerd/internal/tools"
)

// GrepTool returns the "grep" tool (researcher profile).
func GrepTool() *tools.Tool {
	return &tools.Tool{
		Name:        "grep",
		Description: "Search for a regular expression pattern in file contents",
		Category:    tools.CategoryCode,
		Priority:    85,
		Execute:     executeGrep,
		Schema: tools.ToolSchema{
			Required: []string{"pattern"},
			Properties: map[string]tools.Property{
				"pattern":      {Type: "string", Description: "regular expression pattern to search for"},
				"path":         {Type: "string", Description: "file or directory to search"},
				"file_pattern": {Type: "string", Description: "glob pattern restricting which files are searched"},
				"max_results":  {Type: "integer", Description: "maximum number of matches", Default: 50},
				"ignore_case":  {Type: "boolean", Description: "case-insensitive search", Default: false},
			},
		},
	}
}

// hit is a single grep match line.
type hit struct {
	file string
	line int
	text string
}

// skipDirs holds directory names grep never descends into.
var skipDirs = map[string]bool{"node_modules": true, "vendor": true}

func collectSearchFiles(root, filePattern string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("path not found: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") || skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if filePattern != "" {
			if matched, _ := filepath.Match(filePattern, name); !matched {
				return nil
			}
		}
		files = append(files, p)
		return nil
	})
	return files, err
}

func grepFile(path string, re *regexp.Regexp, budget int) ([]hit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var hits []hit
	lineNum := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if re.MatchString(line) {
			hits = append(hits, hit{file: path, line: lineNum, text: strings.TrimSpace(line)})
			if len(hits) >= budget {
				break
			}
		}
	}
	return hits, scanner.Err()
}

func executeGrep(ctx context.Context, args map[string]any) (string, error) {
	pattern, _ := args["pattern"].(string)
	if pattern == "" {
		return "", fmt.Errorf("pattern is required")
	}

	path := "."
	if p, ok := args["path"].(string); ok && p != "" {
		path = p
	}
	filePattern, _ := args["file_pattern"].(string)

	maxResults := 50
	if mr, ok := args["max_results"].(int); ok && mr > 0 {
		maxResults = mr
	}

	if ignoreCase, _ := args["ignore_case"].(bool); ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid regex pattern: %w", err)
	}

	logging.ToolsDebug("grep: pattern=%s, path=%s", pattern, path)

	files, err := collectSearchFiles(path, filePattern)
	if err != nil {
		return "", err
	}

	var hits []hit
	for _, file := range files {
		if len(hits) >= maxResults {
			break
		}
		fileHits, err := grepFile(file, re, maxResults-len(hits))
		if err != nil {
			continue
		}
		hits = append(hits, fileHits...)
	}

	logging.Tools("grep completed: %s (%d matches)", pattern, len(hits))

	if len(hits) == 0 {
		return "no matches found for pattern: " + pattern, nil
	}

	var sb strings.Builder
	for _, h := range hits {
		fmt.Fprintf(&sb, "%s:%d: %s\n", h.file, h.line, h.text)
	}
	return sb.String(), nil
}
