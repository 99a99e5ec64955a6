package main

import (
	"fmt"

	"endicode-workers/internal/triage"

	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	industry  string
	budget    string
	origin    string
	replyOnly bool
}

type analyzeResult struct {
	Analysis   triage.LeadAnalysis       `json:"analysis"`
	Detection  *triage.IndustryDetection `json:"detection"`
	DraftReply string                    `json:"draftReply"`
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [text|-]",
		Short: "Analyse an inquiry and draft a reply",
		Example: `  triage analyze --industry healthcare --budget 10k-35k "We need a HIPAA compliant patient portal"
  cat inquiry.txt | triage analyze -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			if opts.industry != "" && opts.industry != "other" {
				if _, ok := triage.ParseIndustry(opts.industry); !ok {
					return fmt.Errorf("unknown industry %q", opts.industry)
				}
			}
			if opts.budget != "" {
				if _, ok := triage.ParseBudget(opts.budget); !ok {
					return fmt.Errorf("unknown budget %q", opts.budget)
				}
			}

			a := triage.Analyze(text, opts.industry, opts.budget)
			reply := triage.RenderReply(a, opts.industry, opts.budget, opts.origin)
			root.logger().Debug("inquiry analyzed", map[string]interface{}{
				"intent":     a.Intent.String(),
				"complexity": string(a.Complexity),
			})

			if opts.replyOnly {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), reply)
				return err
			}

			out := analyzeResult{Analysis: a, DraftReply: reply}
			if d := triage.DetectIndustry(text); d.Detected != nil {
				out.Detection = &d
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&opts.industry, "industry", "", "selected industry (ecommerce, healthcare, finance, saas, other)")
	cmd.Flags().StringVar(&opts.budget, "budget", "", "budget bracket (3k-10k, 10k-35k, 35k-70k, 70k+)")
	cmd.Flags().StringVar(&opts.origin, "origin", "https://endicode.dev", "site origin for the demo link")
	cmd.Flags().BoolVar(&opts.replyOnly, "reply", false, "print only the draft reply")
	return cmd
}
