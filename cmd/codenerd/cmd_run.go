package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"codenerd/internal/archive"
	"codenerd/internal/evalsink"
	"codenerd/internal/logging"
	"codenerd/internal/module"
	"codenerd/internal/orchestrator"
	"codenerd/internal/phenotype"
	"codenerd/internal/sender"
	"codenerd/internal/sessionctx"
	"codenerd/internal/tools"
)

var (
	runPriority string
	runMode     string
	runMarkdown bool
)

var runCmd = &cobra.Command{
	Use:   "run <task>",
	Short: "Run one orchestration turn against a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runPriority, "priority", "best", "Priority keyword or free-form description (spec §6)")
	runCmd.Flags().StringVar(&runMode, "mode", string(sessionctx.ModeAsk), "Session mode: ask, architect, code, semantic")
	runCmd.Flags().BoolVar(&runMarkdown, "markdown", false, "Render the answer as styled markdown")
}

func assistantSignature() (*module.Signature, error) {
	return module.NewSignature("assistant",
		[]module.SigField{{Name: "task", Predicate: module.PredicateString}},
		[]module.SigField{{Name: "answer", Predicate: module.PredicateString}},
	)
}

func runRun(cmd *cobra.Command, args []string) error {
	task := args[0]
	ctx := context.Background()
	runID := uuid.NewString()

	if err := cfg.Validate(); err != nil {
		return err
	}

	send, err := sender.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to build sender: %w", err)
	}

	sig, err := assistantSignature()
	if err != nil {
		return err
	}

	arch := archive.New(sig)
	base := module.ChainOfThought(sig, "Answer the user's task directly and concisely.", "")
	arch.Insert(base, 0.1, phenotype.Phenotype{Accuracy: 5.0, Latency: 0.5, Cost: 0.5, Usage: 0.5})

	ws := workspace
	if ws == "" {
		ws = "."
	}
	sink, err := evalsink.Open(filepath.Join(ws, ".codenerd", "eval.db"))
	if err != nil {
		return fmt.Errorf("failed to open eval sink: %w", err)
	}
	defer sink.Close()

	sess := sessionctx.New("You are codenerd, a careful engineering assistant.", sessionctx.Mode(runMode), runPriority)
	sess.AppendTurn("user", task)

	deps := orchestrator.Deps{
		Tools:         tools.Global(),
		SecurityLevel: cfg.Orchestrator.ToolsSecurityLevel(),
		Profile:       cfg.Orchestrator.ToolsProfile(),
		MaxIterations: cfg.Orchestrator.MaxIterations,
	}

	logging.Orchestration("run %s: starting turn for module archive size=%d", runID, arch.Len())
	result, err := orchestrator.RunTurn(ctx, sess, arch, map[string]any{"task": task}, send, nil, "", nil, sink, deps)
	if err != nil {
		return fmt.Errorf("orchestration turn failed: %w", err)
	}

	answer, _ := result.Outputs["answer"].(string)
	answer = strings.TrimSpace(answer)
	if err := printAnswer(answer); err != nil {
		return err
	}

	if verbose {
		fmt.Printf("\n[run=%s module=%s score=%.3f]\n", runID, result.Module.ID, result.Eval.Score)
	}
	return nil
}

func printAnswer(answer string) error {
	if !runMarkdown {
		fmt.Println(answer)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to build markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(answer)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	fmt.Print(rendered)
	return nil
}
