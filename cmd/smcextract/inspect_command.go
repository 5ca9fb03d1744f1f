package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"smcextract/internal/smc"
)

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "inspect <container.smc>",
		Short:       "Show a local container's declared header against its true index",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := smc.Open(args[0])
			if err != nil {
				return err
			}
			defer reader.Close()

			out := cmd.OutOrStdout()
			header := reader.Header()
			fmt.Fprintf(out, "Actor:        %s\n", header.ActorID)
			fmt.Fprintf(out, "Performance:  %s\n", header.PerformancePart)
			if header.CaptureDate != "" {
				fmt.Fprintf(out, "Captured:     %s\n", header.CaptureDate)
			}
			fmt.Fprintf(out, "Declared:     %d cameras, %d frames (advisory)\n", header.NumDevice, header.NumFrame)
			fmt.Fprintf(out, "Streams:      %d\n\n", reader.StreamCount())

			var rows [][]string
			for _, m := range smc.AllModalities() {
				cameras := reader.Cameras(m)
				if len(cameras) == 0 {
					// Not camera scoped; report the bare stream if present.
					if reader.FrameCount(m, "") == 0 && len(reader.Artifacts(m, "")) == 0 {
						continue
					}
					cameras = []string{""}
				}
				for _, camera := range cameras {
					frameCount := reader.FrameCount(m, camera)
					artifacts := reader.Artifacts(m, camera)
					detail := ""
					switch {
					case frameCount > 0:
						detail = strconv.Itoa(frameCount) + " frames"
					case len(artifacts) > 0:
						detail = fmt.Sprintf("%d artifact(s)", len(artifacts))
					default:
						detail = "present, empty"
					}
					label := camera
					if label == "" {
						label = "-"
					}
					rows = append(rows, []string{string(m), label, detail})
				}
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Modality", "Camera", "Contents"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
	return cmd
}
