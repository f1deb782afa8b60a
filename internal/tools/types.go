// Package tools provides the external tool dispatch table the orchestration
// loop (internal/orchestrator) calls into when a parsed model response
// declares tool calls. Tools are opaque named capabilities gated by a
// security level and filtered per sub-agent profile (spec §6).
package tools

import (
	"context"
)

// ToolCategory classifies tools for profile-based filtering.
type ToolCategory string

const (
	// CategoryResearch covers web search and web fetch.
	CategoryResearch ToolCategory = "/research"

	// CategoryCode covers file read/write/patch/list-dir and grep.
	CategoryCode ToolCategory = "/code"

	// CategoryVCS covers version-control operations.
	CategoryVCS ToolCategory = "/vcs"

	// CategoryShell covers raw shell execution.
	CategoryShell ToolCategory = "/shell"

	// CategoryGeneral is for tools usable under any profile.
	CategoryGeneral ToolCategory = "/general"
)

// SecurityLevel gates tool dispatch (spec §6).
type SecurityLevel int

const (
	// SecurityNone permits no execution at all.
	SecurityNone SecurityLevel = 0
	// SecurityReadOnly permits CategoryResearch and CategoryGeneral tools.
	// The file tools, read, list-dir and grep included, are CategoryCode
	// and need SecurityWriteConfirm.
	SecurityReadOnly SecurityLevel = 1
	// SecurityWriteConfirm permits file writes with user confirmation.
	SecurityWriteConfirm SecurityLevel = 2
	// SecurityShellConfirm permits shell execution with confirmation.
	SecurityShellConfirm SecurityLevel = 3
	// SecurityGod bypasses the security-level gate; profile allow-lists
	// still apply.
	SecurityGod SecurityLevel = 1000
)

// MinSecurityLevel returns the minimum SecurityLevel required to dispatch
// a tool in the given category.
func MinSecurityLevel(cat ToolCategory) SecurityLevel {
	switch cat {
	case CategoryResearch, CategoryGeneral:
		return SecurityReadOnly
	case CategoryCode:
		return SecurityWriteConfirm
	case CategoryVCS:
		return SecurityWriteConfirm
	case CategoryShell:
		return SecurityShellConfirm
	default:
		return SecurityReadOnly
	}
}

// Profile is a named, allow-listed subset of tool capabilities (spec §6).
type Profile string

const (
	// ProfileEditor: read, write, patch, preview-diff, list-dir.
	ProfileEditor Profile = "editor"
	// ProfileResearcher: read, list-dir, grep, web-search, web-fetch, web-search-news.
	ProfileResearcher Profile = "researcher"
	// ProfileVCS: a finite enumerated set of version-control operations.
	ProfileVCS Profile = "vcs"
	// ProfileAll: no filtering.
	ProfileAll Profile = "all"
)

// ProfileToolNames is the canonical allow-list per profile (spec §6).
var ProfileToolNames = map[Profile][]string{
	ProfileEditor:     {"read", "write", "patch", "preview-diff", "list-dir"},
	ProfileResearcher: {"read", "list-dir", "grep", "web-search", "web-fetch", "web-search-news"},
	ProfileVCS:        {"vcs-status", "vcs-diff", "vcs-log", "vcs-commit", "vcs-checkout"},
	ProfileAll:        nil, // nil means "no filtering" -- every registered tool is allowed.
}

// AllowedUnder reports whether a tool name is permitted under the given
// profile. ProfileAll always returns true.
func AllowedUnder(profile Profile, toolName string) bool {
	names, ok := ProfileToolNames[profile]
	if !ok {
		return false
	}
	if names == nil {
		return true
	}
	for _, n := range names {
		if n == toolName {
			return true
		}
	}
	return false
}

// Property describes a single parameter property for JSON schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	// Items describes array element schema (required for type="array")
	Items *PropertyItems `json:"items,omitempty"`
}

// PropertyItems describes the schema for array elements.
type PropertyItems struct {
	Type string `json:"type"`
}

// ToolSchema defines the JSON schema for tool arguments.
// This enables LLM tool calling with proper validation.
type ToolSchema struct {
	// Required lists parameters that must be provided.
	Required []string `json:"required"`

	// Properties describes each parameter.
	Properties map[string]Property `json:"properties"`
}

// ExecuteFunc is the signature for tool execution.
// Returns the result string and any error.
type ExecuteFunc func(ctx context.Context, args map[string]any) (string, error)

// Tool defines a modular tool that any agent can use.
// Tools are registered in the Registry and filtered per sub-agent
// profile by name.
type Tool struct {
	// Name is the unique identifier for the tool.
	// Profile allow-lists (ProfileToolNames) refer to tools by this name.
	Name string

	// Description explains what the tool does.
	// Used for LLM tool calling and documentation.
	Description string

	// Category classifies the tool for intent filtering.
	Category ToolCategory

	// Execute runs the tool with the given arguments.
	Execute ExecuteFunc

	// Schema defines the expected arguments.
	Schema ToolSchema

	// Priority is used when multiple tools match.
	// Higher priority tools are preferred (default 50).
	Priority int

	// RequiresContext indicates if the tool needs session context.
	RequiresContext bool
}

// Validate checks if the tool definition is valid.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return ErrToolExecuteNil
	}
	return nil
}

// WithPriority returns a copy of the tool with the given priority.
func (t *Tool) WithPriority(priority int) *Tool {
	copy := *t
	copy.Priority = priority
	return &copy
}

// ToolResult wraps the result of tool execution with metadata.
type ToolResult struct {
	// ToolName identifies which tool was executed.
	ToolName string

	// Result is the string output from the tool.
	Result string

	// Error is set if the tool failed.
	Error error

	// DurationMs is how long execution took.
	DurationMs int64
}

// IsSuccess returns true if the tool executed without error.
func (r *ToolResult) IsSuccess() bool {
	return r.Error == nil
}
