// Package logging provides config-driven categorized file-based logging for codenerd.
// Logs are written to .codenerd/logs/ with separate files per category.
// Logging is controlled by debug_mode in .codenerd/config.json - when false, no logs are written.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryBoot          Category = "boot"          // startup, archive/config load
	CategoryOrchestration Category = "orchestration"  // turn driver (§4.K)
	CategoryArchive       Category = "archive"        // module archive & selector (§4.D)
	CategoryCompiler      Category = "compiler"       // MAP-Elites compiler (§4.F)
	CategoryPromptIO      Category = "promptio"       // renderer/parser (§4.C)
	CategoryDecomposition Category = "decomposition"  // decomposition state & limits (§4.G/H)
	CategoryVoting        Category = "voting"         // voting & red-flag (§4.I)
	CategoryScheduler     Category = "scheduler"      // sub-agent scheduler (§4.J)
	CategoryTools         Category = "tools"          // tool dispatch
	CategoryEvalSink      Category = "evalsink"       // eval/trace persistence
	CategoryAPI           Category = "api"            // LLM sender calls
)

// loggingConfig mirrors the relevant parts of config.LoggingConfig
// to avoid circular imports.
type loggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories"`
	Level      string          `json:"level"`
	JSONFormat bool            `json:"json_format"`
}

// configFile structure for reading .codenerd/config.json.
type configFile struct {
	Logging loggingConfig `json:"logging"`
}

// StructuredLogEntry represents a JSON log entry.
type StructuredLogEntry struct {
	Timestamp int64                  `json:"ts"`
	Category  string                 `json:"cat"`
	Level     string                 `json:"lvl"`
	Message   string                 `json:"msg"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers      = make(map[Category]*Logger)
	loggersMu    sync.RWMutex
	logsDir      string
	workspace    string
	config       loggingConfig
	configLoaded bool
	configMu     sync.RWMutex
	logLevel     int
)

const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Initialize sets up the logging directory and loads config.
// Should be called once at startup with the workspace path.
func Initialize(ws string) error {
	if ws == "" {
		return fmt.Errorf("workspace path required")
	}

	workspace = ws
	logsDir = filepath.Join(workspace, ".codenerd", "logs")

	if err := loadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not load config: %v\n", err)
		config.DebugMode = false
	}

	if !config.DebugMode {
		return nil
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== codenerd logging initialized ===")
	boot.Info("workspace: %s", workspace)
	boot.Info("debug mode: %v", config.DebugMode)
	boot.Info("level: %s", config.Level)

	return nil
}

func loadConfig() error {
	configMu.Lock()
	defer configMu.Unlock()

	configPath := filepath.Join(workspace, ".codenerd", "config.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			config.DebugMode = false
			configLoaded = true
			return nil
		}
		return err
	}

	var cf configFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	config = cf.Logging
	configLoaded = true

	switch config.Level {
	case "debug":
		logLevel = LevelDebug
	case "info":
		logLevel = LevelInfo
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}

	return nil
}

// ReloadConfig reloads the config from disk.
func ReloadConfig() error {
	return loadConfig()
}

// SetLevel overrides the configured log level, e.g. for a CLI --verbose flag.
func SetLevel(level int) {
	configMu.Lock()
	defer configMu.Unlock()
	logLevel = level
}

// IsDebugMode returns whether debug logging is enabled.
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return config.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled.
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()

	if !config.DebugMode {
		return false
	}
	if config.Categories == nil {
		return true
	}
	enabled, exists := config.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode or the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}
	if logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s.log", date, category)
	logPath := filepath.Join(logsDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

func (l *Logger) logJSON(level, msg string) {
	entry := StructuredLogEntry{
		Timestamp: time.Now().UnixMilli(),
		Category:  string(l.category),
		Level:     level,
		Message:   msg,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		l.logger.Printf("[%s] %s", level, msg)
		return
	}
	l.logger.Printf("%s", data)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if config.JSONFormat {
		l.logJSON("debug", msg)
	} else {
		l.logger.Printf("[DEBUG] %s", msg)
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if config.JSONFormat {
		l.logJSON("info", msg)
	} else {
		l.logger.Printf("[INFO] %s", msg)
	}
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if config.JSONFormat {
		l.logJSON("warn", msg)
	} else {
		l.logger.Printf("[WARN] %s", msg)
	}
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if config.JSONFormat {
		l.logJSON("error", msg)
	} else {
		l.logger.Printf("[ERROR] %s", msg)
	}
}

// StructuredLog writes a fully structured log entry with custom fields.
func (l *Logger) StructuredLog(level, msg string, fields map[string]interface{}) {
	if l.logger == nil {
		return
	}
	entry := StructuredLogEntry{
		Timestamp: time.Now().UnixMilli(),
		Category:  string(l.category),
		Level:     level,
		Message:   msg,
		Fields:    fields,
	}
	if config.JSONFormat {
		if data, err := json.Marshal(entry); err == nil {
			l.logger.Printf("%s", data)
			return
		}
	}
	l.logger.Printf("[%s] %s | fields=%v", level, msg, fields)
}

// CloseAll closes all open log files (call at shutdown).
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Timer helps measure operation duration.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}

// =============================================================================
// CONVENIENCE FUNCTIONS
// =============================================================================

func Boot(format string, args ...interface{})               { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{})           { Get(CategoryBoot).Debug(format, args...) }
func BootError(format string, args ...interface{})           { Get(CategoryBoot).Error(format, args...) }
func Orchestration(format string, args ...interface{})       { Get(CategoryOrchestration).Info(format, args...) }
func OrchestrationDebug(format string, args ...interface{})  { Get(CategoryOrchestration).Debug(format, args...) }
func OrchestrationError(format string, args ...interface{})  { Get(CategoryOrchestration).Error(format, args...) }
func Archive(format string, args ...interface{})             { Get(CategoryArchive).Info(format, args...) }
func ArchiveDebug(format string, args ...interface{})        { Get(CategoryArchive).Debug(format, args...) }
func Compiler(format string, args ...interface{})            { Get(CategoryCompiler).Info(format, args...) }
func CompilerDebug(format string, args ...interface{})       { Get(CategoryCompiler).Debug(format, args...) }
func PromptIO(format string, args ...interface{})            { Get(CategoryPromptIO).Info(format, args...) }
func PromptIODebug(format string, args ...interface{})       { Get(CategoryPromptIO).Debug(format, args...) }
func Decomposition(format string, args ...interface{})       { Get(CategoryDecomposition).Info(format, args...) }
func DecompositionDebug(format string, args ...interface{})  { Get(CategoryDecomposition).Debug(format, args...) }
func DecompositionWarn(format string, args ...interface{})   { Get(CategoryDecomposition).Warn(format, args...) }
func Voting(format string, args ...interface{})              { Get(CategoryVoting).Info(format, args...) }
func VotingDebug(format string, args ...interface{})         { Get(CategoryVoting).Debug(format, args...) }
func Scheduler(format string, args ...interface{})           { Get(CategoryScheduler).Info(format, args...) }
func SchedulerDebug(format string, args ...interface{})      { Get(CategoryScheduler).Debug(format, args...) }
func SchedulerError(format string, args ...interface{})      { Get(CategoryScheduler).Error(format, args...) }
func Tools(format string, args ...interface{})               { Get(CategoryTools).Info(format, args...) }
func ToolsDebug(format string, args ...interface{})          { Get(CategoryTools).Debug(format, args...) }
func ToolsError(format string, args ...interface{})          { Get(CategoryTools).Error(format, args...) }
func EvalSink(format string, args ...interface{})            { Get(CategoryEvalSink).Info(format, args...) }
func EvalSinkError(format string, args ...interface{})       { Get(CategoryEvalSink).Error(format, args...) }
func API(format string, args ...interface{})                 { Get(CategoryAPI).Info(format, args...) }
func APIDebug(format string, args ...interface{})            { Get(CategoryAPI).Debug(format, args...) }
func APIError(format string, args ...interface{})            { Get(CategoryAPI).Error(format, args...) }
