package main

import (
	"fmt"

	"endicode-workers/pkg/registry"

	"github.com/spf13/cobra"
)

func newActivitiesCmd() *cobra.Command {
	var (
		validatePath string
		writePath    string
	)
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Print, write or validate the job worker catalogue",
		Example: `  triage activities
  triage activities --write configs/activity-registry.json
  triage activities --validate configs/activity-registry.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case validatePath != "":
				reg, err := registry.LoadRegistry(validatePath)
				if err != nil {
					return err
				}
				if err := reg.Validate(); err != nil {
					return fmt.Errorf("registry validation failed: %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "registry %s is valid (%d activities)\n", validatePath, len(reg.Activities))
				return err
			case writePath != "":
				return registry.Save(writePath, registry.Default())
			default:
				return printJSON(cmd.OutOrStdout(), registry.Default())
			}
		},
	}
	cmd.Flags().StringVar(&validatePath, "validate", "", "validate the registry file at this path")
	cmd.Flags().StringVar(&writePath, "write", "", "write the built-in catalogue to this path")
	cmd.MarkFlagsMutuallyExclusive("validate", "write")
	return cmd
}
