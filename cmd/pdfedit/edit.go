package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/edit"
)

func editCmd(log logrus.FieldLogger) *cobra.Command {
	var out string
	var start, end string
	var olds, news []string
	var stripImages bool
	var keepRegion bool
	var keepEndMarker bool
	var pass string

	cmd := &cobra.Command{
		Use:   "edit <pdf>",
		Short: "Replace text, remove images and optionally keep only the marker region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edits, err := edit.ParseEdits(olds, news)
			if err != nil {
				return err
			}
			conf := edit.Config{
				Options: edit.Options{
					StartMarker:    start,
					EndMarker:      end,
					Edits:          edits,
					StripImages:    stripImages,
					KeepRegionOnly: keepRegion,
					EndCut:         endCut(keepEndMarker),
					Logger:         log,
				},
				OutPath:  out,
				Password: password(pass),
			}

			res, err := edit.Run(args[0], conf)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: <input>_modifie.pdf)")
	cmd.Flags().StringVar(&start, "start", edit.DefaultStartMarker, "start marker")
	cmd.Flags().StringVar(&end, "end", edit.DefaultEndMarker, "end marker")
	cmd.Flags().StringArrayVar(&olds, "replace", nil, "text to replace, case-sensitive (repeatable, paired with --with)")
	cmd.Flags().StringArrayVar(&news, "with", nil, "replacement for the matching --replace")
	cmd.Flags().BoolVar(&stripImages, "strip-images", false, "remove every image")
	cmd.Flags().BoolVar(&keepRegion, "keep-region", false, "keep only the content between the start and end markers")
	cmd.Flags().BoolVar(&keepEndMarker, "keep-end-marker", false, "keep the end marker line when trimming")
	cmd.Flags().StringVar(&pass, "password", "", "user password of an encrypted PDF (or $"+passwordEnv+")")
	return cmd
}

func endCut(keepEndMarker bool) edit.EndCut {
	if keepEndMarker {
		return edit.CutAfterMarker
	}
	return edit.CutAtMarker
}
