package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"codenerd/internal/evalsink"
)

// InspectorModel browses a module's recent eval history in a scrollable
// table (spec's CLI+TUI surface: `codenerd archive inspect`).
type InspectorModel struct {
	sink     *evalsink.Sink
	moduleID string
	table    table.Model
	styles   Styles
	err      error
}

// NewInspectorModel builds an inspector for moduleID's eval history.
func NewInspectorModel(sink *evalsink.Sink, moduleID string) InspectorModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "OK", Width: 6},
			{Title: "Score", Width: 8},
			{Title: "Accuracy", Width: 10},
			{Title: "Latency(ms)", Width: 12},
			{Title: "Elapsed(ms)", Width: 12},
			{Title: "Model", Width: 20},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	m := InspectorModel{sink: sink, moduleID: moduleID, table: t, styles: DefaultStyles()}
	m.refresh()
	return m
}

func (m *InspectorModel) refresh() {
	records, err := m.sink.ForModule(context.Background(), m.moduleID, 50)
	if err != nil {
		m.err = err
		return
	}

	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			fmt.Sprintf("%v", r.OK),
			fmt.Sprintf("%.2f", r.Score),
			fmt.Sprintf("%.2f", r.Phenotype.Accuracy),
			fmt.Sprintf("%.0f", r.Phenotype.Latency),
			fmt.Sprintf("%d", r.ElapsedMs),
			r.ModelName,
		})
	}
	m.table.SetRows(rows)
}

// Init satisfies tea.Model.
func (m InspectorModel) Init() tea.Cmd { return nil }

// Update satisfies tea.Model.
func (m InspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.refresh()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width - 4)
		m.table.SetHeight(msg.Height - 6)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View satisfies tea.Model.
func (m InspectorModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render(fmt.Sprintf(" Eval History: %s ", m.moduleID)))
	sb.WriteString("\n\n")
	if m.err != nil {
		sb.WriteString(m.styles.Err.Render(m.err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString(m.table.View())
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Info.Render("r: refresh   q: quit"))
	return sb.String()
}
