package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/edit"
)

func transactionsCmd(log logrus.FieldLogger) *cobra.Command {
	var out string
	var keepEndMarker bool
	var pass string

	cmd := &cobra.Command{
		Use:   "transactions <pdf>",
		Short: "Keep only the TRANSACTIONS section of a statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := edit.Config{
				Options: edit.Options{
					KeepRegionOnly: true,
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
	cmd.Flags().BoolVar(&keepEndMarker, "keep-end-marker", false, "keep the "+edit.DefaultEndMarker+" line")
	cmd.Flags().StringVar(&pass, "password", "", "user password of an encrypted PDF (or $"+passwordEnv+")")
	return cmd
}
