package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetLoggingState() {
	CloseAll()
	CloseAudit()
	loggers = make(map[Category]*Logger)
	logsDir = ""
	workspace = ""
	configLoaded = false
}

func TestAllCategoriesLogWhenDebugEnabled(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".codenerd")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `{
		"logging": {
			"level": "debug",
			"debug_mode": true,
			"categories": {
				"boot": true,
				"orchestration": true,
				"archive": true,
				"compiler": true,
				"promptio": true,
				"decomposition": true,
				"voting": true,
				"scheduler": true,
				"tools": true,
				"evalsink": true,
				"api": true
			}
		}
	}`

	configPath := filepath.Join(configDir, "config.json")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	resetLoggingState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("failed to initialize logging: %v", err)
	}

	if !IsDebugMode() {
		t.Error("expected debug mode to be enabled")
	}

	categories := []Category{
		CategoryBoot, CategoryOrchestration, CategoryArchive, CategoryCompiler,
		CategoryPromptIO, CategoryDecomposition, CategoryVoting, CategoryScheduler,
		CategoryTools, CategoryEvalSink, CategoryAPI,
	}

	for _, cat := range categories {
		logger := Get(cat)
		logger.Info("test message for %s", cat)
		logger.Debug("debug message for %s", cat)
		logger.Warn("warn message for %s", cat)
		logger.Error("error message for %s", cat)
	}
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(tempDir, ".codenerd", "logs"))
	if err != nil {
		t.Fatalf("failed to read logs dir: %v", err)
	}
	if len(entries) != len(categories) {
		t.Errorf("expected %d log files, got %d", len(categories), len(entries))
	}
}

func TestDebugModeDisabledIsNoop(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_disabled")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	resetLoggingState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("failed to initialize logging: %v", err)
	}
	if IsDebugMode() {
		t.Error("expected debug mode to default to disabled")
	}

	logger := Get(CategoryArchive)
	logger.Info("should be dropped silently")

	if _, err := os.Stat(filepath.Join(tempDir, ".codenerd", "logs")); !os.IsNotExist(err) {
		t.Error("expected no logs directory when debug mode is disabled")
	}
}

func TestCategoryDisabledFiltersIndividualCategory(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_category")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".codenerd")
	os.MkdirAll(configDir, 0755)
	configContent := `{"logging":{"level":"debug","debug_mode":true,"categories":{"archive":false,"compiler":true}}}`
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte(configContent), 0644)

	resetLoggingState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("failed to initialize logging: %v", err)
	}

	if IsCategoryEnabled(CategoryArchive) {
		t.Error("expected archive category to be disabled")
	}
	if !IsCategoryEnabled(CategoryCompiler) {
		t.Error("expected compiler category to be enabled")
	}
}

func TestTimerStopWithThresholdLogsWarnWhenExceeded(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_timer")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".codenerd")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"logging":{"level":"debug","debug_mode":true}}`), 0644)

	resetLoggingState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("failed to initialize logging: %v", err)
	}

	timer := StartTimer(CategoryCompiler, "generation")
	elapsed := timer.StopWithThreshold(0)
	if elapsed < 0 {
		t.Error("expected non-negative elapsed duration")
	}
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(tempDir, ".codenerd", "logs"))
	if err != nil {
		t.Fatalf("failed to read logs dir: %v", err)
	}
	var compilerLog []byte
	for _, e := range entries {
		if strings.Contains(e.Name(), "compiler") {
			compilerLog, _ = os.ReadFile(filepath.Join(tempDir, ".codenerd", "logs", e.Name()))
		}
	}
	if !strings.Contains(string(compilerLog), "[WARN] generation took") {
		t.Errorf("expected a WARN line for the exceeded threshold, got %q", compilerLog)
	}
}

func TestStructuredLogFallsBackToTextWithoutJSONFormat(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_structured")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".codenerd")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"logging":{"level":"debug","debug_mode":true,"json_format":false}}`), 0644)

	resetLoggingState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("failed to initialize logging: %v", err)
	}

	logger := Get(CategoryScheduler)
	logger.StructuredLog("info", "spawned worker", map[string]interface{}{"id": "task-1"})
	CloseAll()

	data, err := os.ReadFile(filepath.Join(tempDir, ".codenerd", "logs", logFileNameFor(t, tempDir)))
	if err != nil {
		// file naming is date-stamped; just confirm the logs dir is non-empty instead.
		entries, rerr := os.ReadDir(filepath.Join(tempDir, ".codenerd", "logs"))
		if rerr != nil || len(entries) == 0 {
			t.Fatalf("expected at least one log file, read err=%v", rerr)
		}
		return
	}
	if !strings.Contains(string(data), "spawned worker") {
		t.Error("expected structured log message in file")
	}
}

func logFileNameFor(t *testing.T, tempDir string) string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(tempDir, ".codenerd", "logs"))
	if err != nil || len(entries) == 0 {
		return "missing.log"
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), "scheduler") {
			return e.Name()
		}
	}
	return entries[0].Name()
}
