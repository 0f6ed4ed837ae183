package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"rostercal/internal/model"
	"rostercal/internal/pipeline"
)

func newPreviewCmd(flags *flagConfig) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the month as a calendar client would show it",
		Long: `Builds the roster calendar in memory (or reads an existing .ics with
--from-file), expands the recurring cycle events for the roster month and
prints one line per occurrence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig(flags)
			if err != nil {
				return err
			}

			res, err := pipeline.Build(conf)
			if err != nil {
				return err
			}

			var occs []model.Occurrence
			if fromFile != "" {
				occs, err = pipeline.PreviewFile(fromFile, res.Month, res.Location)
			} else {
				occs, err = pipeline.Preview(res)
			}
			if err != nil {
				return err
			}

			return printOccurrences(cmd.OutOrStdout(), occs)
		},
	}

	cmd.Flags().StringVar(&fromFile, "from-file", "", "Expand this .ics file instead of the freshly built calendar")
	return cmd
}

func printOccurrences(w io.Writer, occs []model.Occurrence) error {
	for _, occ := range occs {
		span := "all-day    "
		if !occ.AllDay {
			span = occ.Start.Format("15:04") + "-" + occ.End.Format("15:04")
		}
		if _, err := fmt.Fprintf(w, "%s  %s  %s\n", occ.Start.Format("2006-01-02 Mon"), span, occ.Summary); err != nil {
			return err
		}
	}
	return nil
}
