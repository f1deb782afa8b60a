package shell

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestVCSTools_Integration(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}

	run("init")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	run("add", "a.txt")

	ctx := context.Background()

	statusTool := VCSStatusTool()
	if _, err := statusTool.Execute(ctx, map[string]any{"working_dir": dir}); err != nil {
		t.Fatalf("vcs-status failed: %v", err)
	}

	run("commit", "--allow-empty", "-m", "initial")

	logTool := VCSLogTool()
	out, err := logTool.Execute(ctx, map[string]any{"working_dir": dir, "limit": 5})
	if err != nil {
		t.Fatalf("vcs-log failed: %v", err)
	}
	if !strings.Contains(out, "initial") {
		t.Errorf("expected log to contain 'initial', got %q", out)
	}

	commitTool := VCSCommitTool()
	_, err = commitTool.Execute(ctx, map[string]any{"working_dir": dir, "message": "second"})
	if err == nil {
		t.Log("commit with no staged changes behaved as no-op or error depending on git version")
	}

	checkoutTool := VCSCheckoutTool()
	_, err = checkoutTool.Execute(ctx, map[string]any{"working_dir": dir, "target": "."})
	if err != nil {
		t.Fatalf("vcs-checkout failed: %v", err)
	}
}
