package core

import (
	"codenerd/internal/tools"
)

// RegisterAll registers the core filesystem and search tools with the given
// registry: read, write, patch, preview-diff, list-dir, grep, delete-file.
func RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		ReadFileTool(),
		WriteFileTool(),
		PatchFileTool(),
		PreviewDiffTool(),
		DeleteFileTool(),
		ListDirTool(),
		GrepTool(),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	return nil
}
