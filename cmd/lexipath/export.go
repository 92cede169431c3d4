package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/lexipath/internal/app"
	"github.com/heartmarshall/lexipath/internal/domain"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection as xlsx or csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := exportFormat(format, out)
			if !f.IsValid() {
				return domain.NewValidationError("format", "must be xlsx or csv")
			}
			if f == domain.ExportFormatXLSX && out == "" {
				return fmt.Errorf("xlsx output requires --out")
			}

			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				var w io.Writer = cmd.OutOrStdout()
				if out != "" {
					if dir := filepath.Dir(out); dir != "." {
						if err := os.MkdirAll(dir, 0o755); err != nil {
							return fmt.Errorf("create output dir: %w", err)
						}
					}
					file, err := os.Create(out)
					if err != nil {
						return fmt.Errorf("create %s: %w", out, err)
					}
					defer file.Close()
					w = file
				}

				if err := a.Vocabulary.Export(ctx, f, w); err != nil {
					return err
				}
				if out != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "xlsx or csv (default from --out extension, else csv)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout, csv only)")
	return cmd
}

// exportFormat resolves the flag value, falling back to the output
// file's extension when it names a known format, and then to csv.
func exportFormat(format, out string) domain.ExportFormat {
	if format != "" {
		return domain.ExportFormat(strings.ToLower(format))
	}
	if ext := domain.ExportFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")); ext.IsValid() {
		return ext
	}
	return domain.ExportFormatCSV
}
