package deps

import (
	"testing"

	"smcextract/internal/config"
)

func TestRequirementsFFmpegOptionalWithoutMP3(t *testing.T) {
	cfgVal := config.Default()
	cfg := &cfgVal
	cfg.Output.AudioMP3 = false

	reqs := Requirements(cfg)
	var ffmpeg *Requirement
	for i := range reqs {
		if reqs[i].Name == "FFmpeg" {
			ffmpeg = &reqs[i]
		}
	}
	if ffmpeg == nil {
		t.Fatal("FFmpeg requirement missing")
	}
	if !ffmpeg.Optional {
		t.Fatal("FFmpeg should be optional when MP3 export is off")
	}

	cfg.Output.AudioMP3 = true
	for _, req := range Requirements(cfg) {
		if req.Name == "FFmpeg" && req.Optional {
			t.Fatal("FFmpeg should be required when MP3 export is on")
		}
	}
}

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := CheckBinaries([]Requirement{
		{Name: "Shell", Command: "sh"},
		{Name: "Ghost", Command: "definitely-not-a-real-binary-xyz"},
		{Name: "Blank", Command: "  "},
	})
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available {
		t.Fatalf("sh should be available: %+v", statuses[0])
	}
	if statuses[1].Available || statuses[1].Detail == "" {
		t.Fatalf("missing binary should carry detail: %+v", statuses[1])
	}
	if statuses[2].Detail != "command not configured" {
		t.Fatalf("blank command detail = %q", statuses[2].Detail)
	}

	missing := MissingRequired(statuses)
	if len(missing) != 2 {
		t.Fatalf("expected 2 missing required, got %v", missing)
	}
}
