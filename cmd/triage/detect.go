package main

import (
	"endicode-workers/internal/triage"

	"github.com/spf13/cobra"
)

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [text|-]",
		Short: "Detect the industry an inquiry is about",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), triage.DetectIndustry(text))
		},
	}
}
