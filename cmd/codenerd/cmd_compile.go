package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codenerd/internal/compiler"
	"codenerd/internal/module"
	"codenerd/internal/sender"
)

var (
	compileTrainingPath string
	compileInstructions string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Evolve a module archive against a JSONL training set (spec §4.F)",
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&compileTrainingPath, "training", "", "Path to a JSONL file of {\"inputs\":{...},\"expected\":{...}} records (required)")
	compileCmd.Flags().StringVar(&compileInstructions, "instructions", "Answer the user's task directly and concisely.", "Seed instructions for the base module")
	compileCmd.MarkFlagRequired("training")
}

type trainingRecord struct {
	Inputs   map[string]any `json:"inputs"`
	Expected map[string]any `json:"expected"`
}

func loadTraining(path string) ([]compiler.TrainingExample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open training file: %w", err)
	}
	defer f.Close()

	var examples []compiler.TrainingExample
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec trainingRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("failed to parse training record: %w", err)
		}
		examples = append(examples, compiler.TrainingExample{Inputs: rec.Inputs, Expected: rec.Expected})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read training file: %w", err)
	}
	return examples, nil
}

func runCompile(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	training, err := loadTraining(compileTrainingPath)
	if err != nil {
		return err
	}
	if len(training) == 0 {
		return fmt.Errorf("training file %s contains no examples", compileTrainingPath)
	}

	sig, err := assistantSignature()
	if err != nil {
		return err
	}
	m0 := module.Predict(sig, compileInstructions, "")

	send, err := sender.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to build sender: %w", err)
	}

	result, err := compiler.Compile(context.Background(), m0, training, send, nil, "", cfg.Compiler.ToCompilerConfig(), nil)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}

	fmt.Printf("compiled %d module variant(s) into the archive\n", result.Len())
	for _, elite := range result.Elites() {
		fmt.Printf("  %s\n", elite.ID)
	}
	return nil
}
