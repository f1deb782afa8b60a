// Package sessionctx holds the per-session Context the orchestration loop
// threads through a turn: the active system prompt, memory, tool hints,
// mode, priority, conversation history, and compacted summary (spec §3).
package sessionctx

import "time"

// Mode selects the conversational posture of a turn.
type Mode string

const (
	ModeAsk       Mode = "ask"
	ModeArchitect Mode = "architect"
	ModeCode      Mode = "code"
	ModeSemantic  Mode = "semantic"
)

// Turn is one exchange recorded in a Context's history.
type Turn struct {
	Role      string // "user", "assistant", "tool"
	Content   string
	Timestamp time.Time
}

// Context is created at session start and mutated only by the
// orchestration loop appending turns; EvolveSystem returns a new Context
// with a different System prompt instead of changing it in place.
type Context struct {
	System          string
	Memory          string
	ToolHints       []string
	Mode            Mode
	Priority        string // a Keyword string or a free-form description
	History         []Turn
	CompactedSummary string
}

// New returns a Context ready for a new session.
func New(system string, mode Mode, priority string) *Context {
	return &Context{
		System:   system,
		Mode:     mode,
		Priority: priority,
	}
}

// AppendTurn appends a turn to history. It is the only sanctioned mutation
// the orchestration loop performs on History.
func (c *Context) AppendTurn(role, content string) {
	c.History = append(c.History, Turn{Role: role, Content: content, Timestamp: time.Now()})
}

// HistoryStrings renders history as plain lines suitable for the renderer
// (spec §4.K step 3).
func (c *Context) HistoryStrings() []string {
	lines := make([]string, 0, len(c.History))
	for _, t := range c.History {
		lines = append(lines, t.Role+": "+t.Content)
	}
	return lines
}

// EvolveSystem returns a new Context with an updated System prompt,
// leaving the receiver untouched. The copy is shallow (it shares History
// and ToolHints) and carries no version number (spec §9).
func (c *Context) EvolveSystem(newSystem string) *Context {
	clone := *c
	clone.System = newSystem
	return &clone
}
