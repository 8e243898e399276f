package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/policyqa/internal/model"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List documents in the policy corpus",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ag, err := initAgent()
		if err != nil {
			return err
		}

		docs := ag.Documents()
		if len(docs) == 0 {
			fmt.Fprintln(os.Stderr, "No documents loaded.")
			return nil
		}

		formatDocsList(os.Stdout, docs)
		return nil
	},
}

// formatDocsList writes a tabular list of documents to w.
func formatDocsList(out io.Writer, docs []model.Document) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TITLE\tURI\tVERSION\tDATE\tSIZE")
	_, _ = fmt.Fprintln(w, "-----\t---\t-------\t----\t----")

	for _, d := range docs {
		title := d.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}

		date := ""
		if d.Date != nil {
			date = d.Date.Format("2006-01")
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			title,
			d.URI,
			d.Version,
			date,
			len(d.Content),
		)
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
