// Package shell provides the shell-execution and version-control tool
// implementations registered under CategoryShell and CategoryVCS. The vcs
// sub-agent profile lists the vcs-* tools; shell-exec is in no named
// profile.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"codenerd/internal/logging"
	"codenerd/internal/tools"
)

// ShellExecTool returns the raw shell-execution tool, gated at
// SecurityShellConfirm (spec §6 level 3).
func ShellExecTool() *tools.Tool {
	return &tools.Tool{
		Name:        "shell-exec",
		Description: "Execute a shell command and return its combined stdout/stderr",
		Category:    tools.CategoryShell,
		Priority:    70,
		Execute:     executeShell,
		Schema: tools.ToolSchema{
			Required: []string{"command"},
			Properties: map[string]tools.Property{
				"command":         {Type: "string", Description: "the command to execute"},
				"working_dir":     {Type: "string", Description: "working directory for the command"},
				"timeout_seconds": {Type: "integer", Description: "timeout in seconds", Default: 60},
			},
		},
	}
}

func executeShell(ctx context.Context, args map[string]any) (string, error) {
	command, _ := args["command"].(string)
	if command == "" {
		return "", fmt.Errorf("command is required")
	}

	workingDir, _ := args["working_dir"].(string)

	timeout := 60
	if t, ok := args["timeout_seconds"].(int); ok && t > 0 {
		timeout = t
	}

	logging.ToolsDebug("shell-exec: cmd=%s dir=%s timeout=%ds", command, workingDir, timeout)

	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	if workingDir != "" {
		cmd.Dir = workingDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	output := stdout.String()
	if stderr.Len() > 0 {
		if output != "" {
			output += "\n--- stderr ---\n"
		}
		output += stderr.String()
	}
	if len(output) > 50000 {
		output = output[:50000] + "\n...[truncated]"
	}

	if err != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			return output, fmt.Errorf("command timed out after %d seconds", timeout)
		}
		logging.ToolsError("shell-exec failed: %s (%v)", command, err)
		return output, fmt.Errorf("command failed: %w\noutput:\n%s", err, output)
	}

	logging.Tools("shell-exec completed: %s (%d bytes)", command, len(output))
	return output, nil
}

// vcsOp runs a fixed git subcommand with the given extra args, per the
// enumerated operation set of the vcs profile (spec §6).
func vcsOp(ctx context.Context, workingDir string, gitArgs ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", gitArgs...)
	if workingDir != "" {
		cmd.Dir = workingDir
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return out.String(), fmt.Errorf("git %v failed: %w\noutput:\n%s", gitArgs, err, out.String())
	}
	return out.String(), nil
}

// VCSStatusTool reports working-tree status.
func VCSStatusTool() *tools.Tool {
	return &tools.Tool{
		Name:        "vcs-status",
		Description: "Report version-control working-tree status",
		Category:    tools.CategoryVCS,
		Priority:    60,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			wd, _ := args["working_dir"].(string)
			return vcsOp(ctx, wd, "status", "--short")
		},
		Schema: tools.ToolSchema{Properties: map[string]tools.Property{
			"working_dir": {Type: "string", Description: "repository directory"},
		}},
	}
}

// VCSDiffTool reports a diff against HEAD (or a given ref).
func VCSDiffTool() *tools.Tool {
	return &tools.Tool{
		Name:        "vcs-diff",
		Description: "Report version-control diff against a ref (default HEAD)",
		Category:    tools.CategoryVCS,
		Priority:    60,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			wd, _ := args["working_dir"].(string)
			ref, _ := args["ref"].(string)
			if ref == "" {
				ref = "HEAD"
			}
			return vcsOp(ctx, wd, "diff", ref)
		},
		Schema: tools.ToolSchema{Properties: map[string]tools.Property{
			"working_dir": {Type: "string", Description: "repository directory"},
			"ref":         {Type: "string", Description: "ref to diff against", Default: "HEAD"},
		}},
	}
}

// VCSLogTool reports recent commit history.
func VCSLogTool() *tools.Tool {
	return &tools.Tool{
		Name:        "vcs-log",
		Description: "Report recent version-control commit history",
		Category:    tools.CategoryVCS,
		Priority:    60,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			wd, _ := args["working_dir"].(string)
			n := 10
			if v, ok := args["limit"].(int); ok && v > 0 {
				n = v
			}
			return vcsOp(ctx, wd, "log", fmt.Sprintf("-n%d", n), "--oneline")
		},
		Schema: tools.ToolSchema{Properties: map[string]tools.Property{
			"working_dir": {Type: "string", Description: "repository directory"},
			"limit":       {Type: "integer", Description: "max commits to show", Default: 10},
		}},
	}
}

// VCSCommitTool records staged changes as a commit.
func VCSCommitTool() *tools.Tool {
	return &tools.Tool{
		Name:        "vcs-commit",
		Description: "Commit staged changes with the given message",
		Category:    tools.CategoryVCS,
		Priority:    65,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			wd, _ := args["working_dir"].(string)
			msg, _ := args["message"].(string)
			if msg == "" {
				return "", fmt.Errorf("message is required")
			}
			return vcsOp(ctx, wd, "commit", "-m", msg)
		},
		Schema: tools.ToolSchema{
			Required: []string{"message"},
			Properties: map[string]tools.Property{
				"working_dir": {Type: "string", Description: "repository directory"},
				"message":     {Type: "string", Description: "commit message"},
			},
		},
	}
}

// VCSCheckoutTool switches branches or restores paths.
func VCSCheckoutTool() *tools.Tool {
	return &tools.Tool{
		Name:        "vcs-checkout",
		Description: "Checkout a branch, ref, or path",
		Category:    tools.CategoryVCS,
		Priority:    65,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			wd, _ := args["working_dir"].(string)
			target, _ := args["target"].(string)
			if target == "" {
				return "", fmt.Errorf("target is required")
			}
			return vcsOp(ctx, wd, "checkout", target)
		},
		Schema: tools.ToolSchema{
			Required: []string{"target"},
			Properties: map[string]tools.Property{
				"working_dir": {Type: "string", Description: "repository directory"},
				"target":      {Type: "string", Description: "branch, ref, or path to check out"},
			},
		},
	}
}
