package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	analyzePersona string
	analyzeJob     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <docs_dir> <persona_file> <job_file> <output_dir>",
	Short: "Rank document sections by relevance to a persona and task",
	Long: `Split every PDF in docs_dir into sections at its headings, rank all
sections against the persona and job description, and write
analysis_output.json into output_dir.

The persona and job are read from UTF-8 text files, or given directly with
--persona and --job, in which case only docs_dir and output_dir are passed.

Examples:
  outline analyze ./docs persona.txt job.txt ./output
  outline analyze --persona "Travel planner" --job "Plan a 4-day trip" ./docs ./output`,
	Args: func(cmd *cobra.Command, args []string) error {
		inline := analyzePersona != "" || analyzeJob != ""
		switch {
		case inline && (analyzePersona == "" || analyzeJob == ""):
			return errors.New("--persona and --job must be given together")
		case inline:
			return cobra.ExactArgs(2)(cmd, args)
		default:
			return cobra.ExactArgs(4)(cmd, args)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		p, closeFn, err := newPipeline(cfg, logger)
		if err != nil {
			return err
		}
		defer closeFn()

		var out string
		if analyzePersona != "" {
			out, err = p.AnalyzeDirText(cmd.Context(), args[0], analyzePersona, analyzeJob, args[1])
		} else {
			out, err = p.AnalyzeDir(cmd.Context(), args[0], args[1], args[2], args[3])
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Analysis complete. Output saved to %s\n", out)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzePersona, "persona", "", "persona description (instead of a persona file)")
	analyzeCmd.Flags().StringVar(&analyzeJob, "job", "", "job to be done (instead of a job file)")
}
