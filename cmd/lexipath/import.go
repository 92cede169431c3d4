package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/lexipath/internal/app"
	"github.com/heartmarshall/lexipath/internal/domain"
	"github.com/heartmarshall/lexipath/internal/ingest"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [FILE|URL]",
		Short: "Import words from a workbook, a delimited file or a shared sheet",
		Long: `Import merges rows into the collection. Existing words keep their
mastery status. Without an argument the built-in sample set is loaded.

Examples:
  lexipath import words.xlsx
  lexipath import export.csv
  lexipath import "https://docs.google.com/spreadsheets/d/<id>/edit#gid=0"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}

			src, closer, err := sourceFromArg(arg)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Vocabulary.Import(ctx, src)
				if errors.Is(err, domain.ErrEmptySource) && res != nil {
					printImportResult(cmd.OutOrStdout(), res)
				}
				if err != nil {
					return err
				}
				printImportResult(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
}

// sourceFromArg maps the command argument to an import source. The
// returned closer is non-nil for local files.
func sourceFromArg(arg string) (ingest.Source, io.Closer, error) {
	arg = strings.TrimSpace(arg)
	lower := strings.ToLower(arg)

	switch {
	case arg == "":
		return ingest.SampleSource(), nil, nil
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return ingest.URLSource(arg), nil, nil
	}

	f, err := os.Open(arg)
	if err != nil {
		return ingest.Source{}, nil, fmt.Errorf("open %s: %w", arg, err)
	}
	return ingest.FileSource(arg, f), f, nil
}
