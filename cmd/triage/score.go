package main

import (
	"fmt"
	"os"

	"endicode-workers/internal/leads"

	"github.com/spf13/cobra"
)

func newScoreCmd(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "score <leads.csv>",
		Short: "Score a CSV of leads and write the scored CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			result, err := leads.NewPipeline(nil, nil, root.logger()).Process(cmd.Context(), in)
			if err != nil {
				return err
			}

			w, closeFn, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			if err := leads.WriteCSV(w, result.Leads); err != nil {
				_ = closeFn()
				return err
			}
			if err := closeFn(); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.ErrOrStderr(), "scored %d leads: %d hot, %d warm, %d cold\n",
				result.Total, result.Hot, result.Warm, result.Cold)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", leads.ExportFileName, `output file, or "-" for stdout`)
	return cmd
}
