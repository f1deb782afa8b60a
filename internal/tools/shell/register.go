package shell

import (
	"codenerd/internal/tools"
)

// RegisterAll registers the shell-execution and version-control tools with
// the given registry.
func RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		ShellExecTool(),
		VCSStatusTool(),
		VCSDiffTool(),
		VCSLogTool(),
		VCSCommitTool(),
		VCSCheckoutTool(),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	return nil
}
