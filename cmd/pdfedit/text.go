package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HRitchy/editeur-pdf-trade-republic/internal/pdfdoc"
)

type pageText struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// textCmd previews the text extracted from each page, which is what the
// markers and replacements are matched against.
func textCmd(log logrus.FieldLogger) *cobra.Command {
	var asJSON bool
	var pass string

	cmd := &cobra.Command{
		Use:   "text <pdf>",
		Short: "Print the extracted text of each page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := pdfdoc.Load(data, pdfdoc.LoadOptions{Password: password(pass), Logger: log})
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			pages := make([]pageText, doc.PageCount())
			for i := range pages {
				pages[i] = pageText{Page: i + 1, Text: doc.PageAt(i).Text()}
			}
			if asJSON {
				return printJSON(cmd, pages)
			}
			w := cmd.OutOrStdout()
			for _, p := range pages {
				fmt.Fprintf(w, "--- Page %d ---\n%s\n", p.Page, p.Text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print pages as JSON")
	cmd.Flags().StringVar(&pass, "password", "", "user password of an encrypted PDF (or $"+passwordEnv+")")
	return cmd
}
