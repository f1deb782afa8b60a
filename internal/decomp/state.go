package decomp

import (
	"errors"
	"fmt"

	"codenerd/internal/logging"
)

// ErrNoCheckpoint is returned by Rollback when the checkpoint stack is
// empty (spec §4.H rollback).
var ErrNoCheckpoint = errors.New("no-checkpoint")

// Op is a decomposition step's operation kind.
type Op string

const (
	OpDecompose Op = "decompose"
	OpSpawn     Op = "spawn"
	OpVote      Op = "vote"
	OpMerge     Op = "merge"
	OpInline    Op = "inline"
)

// Step records one decomposition action taken against the tree (spec §3
// DecompStep).
type Step struct {
	Op      Op
	Args    map[string]any
	Depth   int
	Profile Profile
}

// checkpointEntry is one saved (tree-snapshot, phenotype, step-index,
// reason) frame.
type checkpointEntry struct {
	tree      *Tree
	phenotype Phenotype
	stepIndex int
	reason    string
}

// State is the full Geometric Decomposition Engine state for one root
// task: its tree, current phenotype, resource limits, checkpoint stack,
// and the ordered log of steps taken (spec §3 Decomposition state).
type State struct {
	RootTask  string
	TaskType  string
	Priority  Priority
	Tree      *Tree
	Phenotype Phenotype
	Limits    Limits
	Steps     []Step
	Meta      map[string]any

	checkpoints []checkpointEntry

	// inlineSubtrees marks node ids whose subtree has been demoted to
	// inline execution after an explosion handled by HandleExplosion (spec
	// §4.H rollback policy).
	inlineSubtrees map[NodeID]bool
}

// NewState constructs a fresh decomposition state rooted at rootTask.
func NewState(rootTask, taskType string, priority Priority, profile Profile, limits Limits) *State {
	tree := NewTree(rootTask, profile)
	s := &State{
		RootTask:       rootTask,
		TaskType:       taskType,
		Priority:       priority,
		Tree:           tree,
		Limits:         limits,
		Meta:           make(map[string]any),
		inlineSubtrees: make(map[NodeID]bool),
	}
	s.RecomputePhenotype(0, 0)
	return s
}

// RecomputePhenotype refreshes current_phenotype from the tree's
// structural queries plus the running accumulated cost and context size
// counters the caller tracks externally (spec §8 invariant 3).
func (s *State) RecomputePhenotype(accumulatedCost, contextSize float64) {
	s.Phenotype = Phenotype{
		Depth:           s.Tree.MaxDepth(),
		Breadth:         s.Tree.ComputeBreadth(),
		AccumulatedCost: accumulatedCost,
		ContextSize:     contextSize,
		SuccessRate:     s.Tree.SuccessRate(),
	}
}

// Checkpoint deep-copies the tree and phenotype and pushes a restore
// frame. Must be called before any operation that may grow the tree or
// spend significant cost (spec §4.H checkpoint).
func (s *State) Checkpoint(reason string) {
	s.checkpoints = append(s.checkpoints, checkpointEntry{
		tree:      s.Tree.Clone(),
		phenotype: s.Phenotype,
		stepIndex: len(s.Steps),
		reason:    reason,
	})
	logging.DecompositionDebug("checkpoint pushed: reason=%s depth=%d stack-size=%d", reason, s.checkpoints[len(s.checkpoints)-1].phenotype.Depth, len(s.checkpoints))
}

// Rollback pops the top checkpoint and restores tree, phenotype, and
// step index. Fails with ErrNoCheckpoint if the stack is empty (spec
// §4.H rollback).
func (s *State) Rollback() error {
	if len(s.checkpoints) == 0 {
		return ErrNoCheckpoint
	}
	top := s.checkpoints[len(s.checkpoints)-1]
	s.checkpoints = s.checkpoints[:len(s.checkpoints)-1]

	s.Tree = top.tree
	s.Phenotype = top.phenotype
	s.Steps = s.Steps[:top.stepIndex]
	logging.DecompositionDebug("rollback to checkpoint: reason=%s stack-size=%d", top.reason, len(s.checkpoints))
	return nil
}

// CheckpointDepth reports how many checkpoints are currently on the
// stack.
func (s *State) CheckpointDepth() int {
	return len(s.checkpoints)
}

// RecordStep appends a step to the ordered log.
func (s *State) RecordStep(step Step) {
	s.Steps = append(s.Steps, step)
}

// HandleExplosion implements the rollback policy on explosion (spec
// §4.H): checkpoint-rollback, mark the offending subtree's root pruned,
// and switch that subtree to inline execution. Repeated explosions
// exhaust the checkpoint stack; once empty, the decomposition fails with
// "explosion:<reason>".
func (s *State) HandleExplosion(offendingRoot NodeID, reason ExplosionReason) error {
	if err := s.Rollback(); err != nil {
		return fmt.Errorf("explosion:%s", reason)
	}
	s.Tree.Prune(offendingRoot)
	s.inlineSubtrees[offendingRoot] = true
	logging.DecompositionWarn("explosion detected: reason=%s node=%d, subtree demoted to inline", reason, offendingRoot)
	return nil
}

// IsInline reports whether id's subtree has been demoted to inline
// execution by a prior explosion.
func (s *State) IsInline(id NodeID) bool {
	return s.inlineSubtrees[id]
}
