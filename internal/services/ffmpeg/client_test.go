package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func stubCommand(t *testing.T, mode string, capture *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if capture != nil {
			*capture = append([]string(nil), args...)
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	if os.Getenv("FFMPEG_HELPER_MODE") == "fail" {
		fmt.Fprintln(os.Stderr, "simulated encoder failure")
		os.Exit(1)
	}
	os.Exit(0)
}

func TestTranscodeRequiresPath(t *testing.T) {
	c := NewCLI()
	if _, err := c.TranscodeToMP3(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty wav path")
	}
}

func TestTranscodeBuildsArgsAndOutputPath(t *testing.T) {
	var args []string
	stubCommand(t, "success", &args)

	wav := filepath.Join(t.TempDir(), "audio.wav")
	c := NewCLI(WithBinary("ffmpeg-test"))
	out, err := c.TranscodeToMP3(context.Background(), wav)
	if err != nil {
		t.Fatalf("TranscodeToMP3: %v", err)
	}
	if want := strings.TrimSuffix(wav, ".wav") + ".mp3"; out != want {
		t.Fatalf("output path = %q, want %q", out, want)
	}

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-i "+wav) {
		t.Fatalf("missing input arg in %q", joined)
	}
	if !strings.Contains(joined, "libmp3lame") {
		t.Fatalf("missing codec arg in %q", joined)
	}
	if args[len(args)-1] != out {
		t.Fatalf("last arg should be output path, got %q", args[len(args)-1])
	}
}

func TestTranscodeSurfacesStderr(t *testing.T) {
	stubCommand(t, "fail", nil)

	c := NewCLI()
	_, err := c.TranscodeToMP3(context.Background(), "/tmp/audio.wav")
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(err.Error(), "simulated encoder failure") {
		t.Fatalf("expected stderr detail in error, got %v", err)
	}
}
