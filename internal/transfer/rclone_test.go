package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// stubCommand routes the rclone invocation to the test binary and simulates
// the copy by materializing the staged file itself.
func stubCommand(t *testing.T, mode string, capture *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if capture != nil {
			*capture = append([]string(nil), args...)
		}
		if mode == "success" && len(args) >= 3 {
			staged := filepath.Join(args[2], filepath.Base(args[1]))
			if err := os.WriteFile(staged, []byte("container bytes"), 0o644); err != nil {
				t.Fatalf("stage file: %v", err)
			}
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "RCLONE_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if os.Getenv("RCLONE_HELPER_MODE") == "fail" {
		fmt.Fprintln(os.Stderr, "simulated transfer failure")
		os.Exit(1)
	}
	os.Exit(0)
}

func TestFetchRequiresKeyAndDir(t *testing.T) {
	c := NewRclone("gdrive")
	if _, err := c.Fetch(context.Background(), "", t.TempDir()); err == nil {
		t.Fatal("expected error for empty remote key")
	}
	if _, err := c.Fetch(context.Background(), "0026/0026_s1_all_raw.smc", ""); err == nil {
		t.Fatal("expected error for empty local dir")
	}
}

func TestFetchStagesThenRenames(t *testing.T) {
	var args []string
	stubCommand(t, "success", &args)

	dir := t.TempDir()
	c := NewRclone("gdrive", WithRootFolderID("folder123"), WithTransfers(2))
	local, err := c.Fetch(context.Background(), "0026/0026_s1_all_raw.smc", dir)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if local != filepath.Join(dir, "0026_s1_all_raw.smc") {
		t.Fatalf("unexpected local path %q", local)
	}
	if _, err := os.Stat(local); err != nil {
		t.Fatalf("fetched file missing: %v", err)
	}

	if args[0] != "copy" || args[1] != "gdrive:0026/0026_s1_all_raw.smc" {
		t.Fatalf("unexpected rclone args: %v", args)
	}
	found := false
	for i, arg := range args {
		if arg == "--drive-root-folder-id" && i+1 < len(args) && args[i+1] == "folder123" {
			found = true
		}
	}
	if !found {
		t.Fatalf("root folder flag missing: %v", args)
	}

	// Staging directory is cleaned up either way.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("scratch dir should hold only the container, got %v", entries)
	}
}

func TestFetchFailureWrapsError(t *testing.T) {
	stubCommand(t, "fail", nil)

	c := NewRclone("gdrive")
	_, err := c.Fetch(context.Background(), "0026/0026_s1_all_raw.smc", t.TempDir())
	if err == nil {
		t.Fatal("expected fetch failure")
	}
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("expected *transfer.Error, got %T", err)
	}
	if terr.Op != "fetch" {
		t.Fatalf("error op = %q", terr.Op)
	}
}

func TestFetchFailsWhenFileAbsentAfterCopy(t *testing.T) {
	// Command succeeds but never materializes the file.
	stubCommand(t, "silent", nil)

	c := NewRclone("gdrive")
	if _, err := c.Fetch(context.Background(), "0026/0026_e1_raw.smc", t.TempDir()); err == nil {
		t.Fatal("expected error when copy produces no file")
	}
}

func TestDeleteIgnoresMissingFile(t *testing.T) {
	c := NewRclone("gdrive")
	if err := c.Delete(filepath.Join(t.TempDir(), "gone.smc")); err != nil {
		t.Fatalf("Delete of missing file should succeed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "present.smc")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := c.Delete(path); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("file should be gone")
	}
}
