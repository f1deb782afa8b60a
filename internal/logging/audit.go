// Package logging provides audit logging for the core subsystems: archive
// inserts/selects, compiler generations, decomposition checkpoints/rollbacks,
// voting outcomes, and scheduler lifecycle transitions. Audit entries are
// plain JSON lines, append-only, one file per day.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditEventType names the kind of audit event.
type AuditEventType string

const (
	AuditArchiveInsert      AuditEventType = "archive_insert"
	AuditArchiveSelect      AuditEventType = "archive_select"
	AuditCompilerGeneration AuditEventType = "compiler_generation"
	AuditCompilerSeed       AuditEventType = "compiler_seed"
	AuditDecompCheckpoint   AuditEventType = "decomp_checkpoint"
	AuditDecompRollback     AuditEventType = "decomp_rollback"
	AuditDecompExplosion    AuditEventType = "decomp_explosion"
	AuditVoteCommit         AuditEventType = "vote_commit"
	AuditVoteTimeout        AuditEventType = "vote_timeout"
	AuditSchedulerSpawn     AuditEventType = "scheduler_spawn"
	AuditSchedulerDone      AuditEventType = "scheduler_done"
	AuditSchedulerError     AuditEventType = "scheduler_error"
	AuditTurnStart          AuditEventType = "turn_start"
	AuditTurnEnd            AuditEventType = "turn_end"
)

// AuditEvent is a structured audit log entry.
type AuditEvent struct {
	Timestamp  int64                  `json:"ts"`
	EventType  AuditEventType         `json:"event"`
	SessionID  string                 `json:"session,omitempty"`
	Target     string                 `json:"target,omitempty"`
	Success    bool                   `json:"success"`
	DurationMs int64                  `json:"dur_ms,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Message    string                 `json:"msg"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

var (
	auditFile *os.File
	auditMu   sync.Mutex
)

// InitAudit initializes the audit logging system.
func InitAudit() error {
	if !IsDebugMode() {
		return nil
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		return nil
	}

	date := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(logsDir, fmt.Sprintf("%s_audit.log", date))

	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	auditFile = file
	return nil
}

// CloseAudit closes the audit log file.
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()
	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// AuditLogger is a scoped audit event emitter.
type AuditLogger struct {
	sessionID string
}

// AuditWithSession creates an audit logger scoped to a session.
func AuditWithSession(sessionID string) *AuditLogger {
	return &AuditLogger{sessionID: sessionID}
}

// Log writes an audit event as a JSON line. No-op if debug mode is off.
func (a *AuditLogger) Log(event AuditEvent) {
	if !IsDebugMode() || auditFile == nil {
		return
	}
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.SessionID == "" && a != nil {
		event.SessionID = a.sessionID
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	data, err := json.Marshal(event)
	if err == nil {
		auditFile.WriteString(string(data) + "\n")
	}
}

// ArchiveInsert logs a module archive insert.
func (a *AuditLogger) ArchiveInsert(moduleID, binKey string, score float64, championChanged bool) {
	a.Log(AuditEvent{
		EventType: AuditArchiveInsert,
		Target:    moduleID,
		Success:   true,
		Fields:    map[string]interface{}{"bin_key": binKey, "score": score, "champion_changed": championChanged},
		Message:   fmt.Sprintf("insert %s into bin %s (score=%.2f)", moduleID, binKey, score),
	})
}

// ArchiveSelect logs a module selection.
func (a *AuditLogger) ArchiveSelect(priority, moduleID string, durationMs int64) {
	a.Log(AuditEvent{
		EventType:  AuditArchiveSelect,
		Target:     moduleID,
		Success:    moduleID != "",
		DurationMs: durationMs,
		Fields:     map[string]interface{}{"priority": priority},
		Message:    fmt.Sprintf("select priority=%s -> %s", priority, moduleID),
	})
}

// CompilerGeneration logs one evolutionary-loop generation.
func (a *AuditLogger) CompilerGeneration(gen int, parentID string, score float64, llmCalls int) {
	a.Log(AuditEvent{
		EventType: AuditCompilerGeneration,
		Target:    parentID,
		Success:   true,
		Fields:    map[string]interface{}{"generation": gen, "score": score, "llm_calls": llmCalls},
		Message:   fmt.Sprintf("generation %d from %s scored %.2f", gen, parentID, score),
	})
}

// DecompCheckpoint logs a checkpoint push.
func (a *AuditLogger) DecompCheckpoint(reason string, depth int) {
	a.Log(AuditEvent{
		EventType: AuditDecompCheckpoint,
		Success:   true,
		Fields:    map[string]interface{}{"reason": reason, "depth": depth},
		Message:   fmt.Sprintf("checkpoint: %s at depth %d", reason, depth),
	})
}

// DecompRollback logs a rollback (or its failure when the stack is empty).
func (a *AuditLogger) DecompRollback(ok bool, reason string) {
	a.Log(AuditEvent{
		EventType: AuditDecompRollback,
		Success:   ok,
		Message:   fmt.Sprintf("rollback ok=%v reason=%s", ok, reason),
	})
}

// DecompExplosion logs a detected explosion dimension.
func (a *AuditLogger) DecompExplosion(dimension string) {
	a.Log(AuditEvent{
		EventType: AuditDecompExplosion,
		Success:   false,
		Target:    dimension,
		Message:   fmt.Sprintf("explosion detected: %s", dimension),
	})
}

// VoteCommit logs a first-to-k voting commit.
func (a *AuditLogger) VoteCommit(votesReceived, threshold int, timedOut bool) {
	a.Log(AuditEvent{
		EventType: AuditVoteCommit,
		Success:   true,
		Fields:    map[string]interface{}{"votes": votesReceived, "threshold": threshold, "timed_out": timedOut},
		Message:   fmt.Sprintf("vote committed (%d/%d, timed_out=%v)", votesReceived, threshold, timedOut),
	})
}

// SchedulerSpawn logs a sub-agent spawn.
func (a *AuditLogger) SchedulerSpawn(id, profile string) {
	a.Log(AuditEvent{
		EventType: AuditSchedulerSpawn,
		Target:    id,
		Success:   true,
		Fields:    map[string]interface{}{"profile": profile},
		Message:   fmt.Sprintf("spawned %s (profile=%s)", id, profile),
	})
}

// SchedulerDone logs a sub-agent reaching a terminal state.
func (a *AuditLogger) SchedulerDone(id string, success bool, errMsg string) {
	a.Log(AuditEvent{
		EventType: AuditSchedulerDone,
		Target:    id,
		Success:   success,
		Error:     errMsg,
		Message:   fmt.Sprintf("%s terminal (success=%v)", id, success),
	})
}

// TurnStart logs the start of an orchestration turn.
func (a *AuditLogger) TurnStart(turnNum int) {
	a.Log(AuditEvent{
		EventType: AuditTurnStart,
		Success:   true,
		Fields:    map[string]interface{}{"turn": turnNum},
		Message:   fmt.Sprintf("turn %d started", turnNum),
	})
}

// TurnEnd logs the end of an orchestration turn.
func (a *AuditLogger) TurnEnd(turnNum int, durationMs int64, success bool) {
	a.Log(AuditEvent{
		EventType:  AuditTurnEnd,
		Success:    success,
		DurationMs: durationMs,
		Fields:     map[string]interface{}{"turn": turnNum},
		Message:    fmt.Sprintf("turn %d ended (%dms, success=%v)", turnNum, durationMs, success),
	})
}
