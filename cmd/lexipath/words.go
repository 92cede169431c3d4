package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/lexipath/internal/app"
	"github.com/heartmarshall/lexipath/internal/domain"
	"github.com/heartmarshall/lexipath/internal/service/vocabulary"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <word>",
		Short: "Add a word and enrich it from the lookup services",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				rec, err := a.Vocabulary.AddWord(ctx, vocabulary.AddWordInput{Word: args[0]})
				if err != nil {
					return err
				}
				printRecord(cmd.OutOrStdout(), rec)
				return nil
			})
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var query, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List words in collection order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := domain.VocabularyFilter{Query: query}
			if status != "" {
				s, err := domain.ParseStatus(status)
				if err != nil {
					return err
				}
				filter.Status = &s
			}

			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				records, err := a.Vocabulary.Find(ctx, filter)
				if err != nil {
					return err
				}
				printRecords(cmd.OutOrStdout(), records)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "substring of the word or a meaning")
	cmd.Flags().StringVarP(&status, "status", "s", "", "mastered or unmastered")
	return cmd
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <mastered|unmastered>",
		Short: "Set the mastery status of a word",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := domain.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Vocabulary.SetStatus(ctx, args[0], status); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], status)
				return nil
			})
		},
	}
}

func newEnrichCmd(opts *rootOptions) *cobra.Command {
	var all, missing bool

	cmd := &cobra.Command{
		Use:   "enrich [id]",
		Short: "Fill pronunciation, meaning, synonyms and examples from the lookup services",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("--all does not take an id")
			}
			if !all && len(args) != 1 {
				return fmt.Errorf("requires an id or --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if !all {
					rec, err := a.Vocabulary.EnrichRecord(ctx, args[0])
					if err != nil {
						return err
					}
					printRecord(cmd.OutOrStdout(), rec)
					return nil
				}

				res, err := a.Vocabulary.EnrichAll(ctx, missing)
				if res != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "enriched %d of %d words\n", res.Enriched, res.Candidates)
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "enrich every word")
	cmd.Flags().BoolVar(&missing, "missing", false, "with --all, only words that lack lookup fields")
	return cmd
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete words and their progress",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				n, err := a.Vocabulary.DeleteMany(ctx, vocabulary.DeleteManyInput{IDs: args})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d words\n", n)
				return nil
			})
		},
	}
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every word and all progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Vocabulary.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "collection cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm")
	return cmd
}
