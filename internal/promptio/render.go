package promptio

import (
	"fmt"
	"strings"

	"codenerd/internal/module"
)

// Render produces a single prompt string for m given concrete inputs,
// conversation history, and project rules from the calling Context (spec
// §4.C, §4.K step 3). history and rules may be empty.
func Render(m *module.Module, inputs map[string]any, history []string, rules string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n\n", m.Instructions)

	if rules != "" {
		fmt.Fprintf(&sb, "Project rules:\n%s\n\n", rules)
	}
	if len(history) > 0 {
		sb.WriteString("Conversation so far:\n")
		for _, turn := range history {
			fmt.Fprintf(&sb, "%s\n", turn)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Input Fields:\n")
	for _, f := range m.Signature.Inputs {
		fmt.Fprintf(&sb, "- %s: %s\n", f.Name, f.Predicate.TypeName())
	}
	sb.WriteString("\n")

	sb.WriteString("Output Fields:\n")
	if m.Strategy == module.StrategyChainOfThought {
		sb.WriteString("- thought: string\n")
	}
	for _, f := range m.Signature.Outputs {
		fmt.Fprintf(&sb, "- %s: %s\n", f.Name, f.Predicate.TypeName())
	}
	sb.WriteString("\n")

	for i, demo := range m.Demos {
		fmt.Fprintf(&sb, "Example %d:\n", i+1)
		renderDemoSide(&sb, m.Signature.Inputs, demo)
		renderDemoSide(&sb, m.Signature.Outputs, demo)
		sb.WriteString("\n")
	}

	sb.WriteString("Now respond with STRICT JSON containing exactly the output fields.\n")
	for _, f := range m.Signature.Inputs {
		if v, ok := inputs[f.Name]; ok {
			fmt.Fprintf(&sb, "%s: %v\n", f.Name, v)
		}
	}

	return sb.String()
}

func renderDemoSide(sb *strings.Builder, fields []module.SigField, demo module.Demo) {
	for _, f := range fields {
		if v, ok := demo[f.Name]; ok {
			fmt.Fprintf(sb, "%s: %v\n", f.Name, v)
		}
	}
}
