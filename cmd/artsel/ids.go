package main

import (
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/tturner/artsel/internal/bulk"
	"github.com/tturner/artsel/internal/tui"
)

type idsFlags struct {
	limit int
	copy  bool
}

func newIDsCmd(g *globalFlags) *cobra.Command {
	flags := &idsFlags{}

	cmd := &cobra.Command{
		Use:   "ids",
		Short: "Print the identifiers of the first N artworks",
		Long: `Fetch only the id field of the first N artworks in catalog order, the
same request the interactive "select first N" popover makes.`,
		Example: `  artsel ids --limit 25
  artsel ids --limit 10 --copy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIDs(cmd, g, flags)
		},
	}

	cmd.Flags().IntVar(&flags.limit, "limit", 0, "Number of identifiers, 1 to bulk.max_count (required)")
	cmd.Flags().BoolVar(&flags.copy, "copy", false, "Also copy the identifiers to the clipboard")
	_ = cmd.MarkFlagRequired("limit")

	return cmd
}

func runIDs(cmd *cobra.Command, g *globalFlags, flags *idsFlags) error {
	cfg, logger, client, err := g.setup(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Close()

	// Same bounds as the popover input.
	popover := bulk.New(cfg.Bulk.MaxCount)
	n, err := popover.ParseCount(strconv.Itoa(flags.limit))
	if err != nil {
		return fmt.Errorf("--limit: %w", err)
	}

	ids, err := client.FetchLeadingIdentifiers(cmd.Context(), n)
	if err != nil {
		return wrapFetchError(err, "fetch artworks for selection")
	}
	logger.Verbose("Requests: %s", client.Stats())

	out := cmd.OutOrStdout()
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}

	if flags.copy {
		if err := clipboard.WriteAll(tui.IDsText(ids)); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		logger.Info("Copied %d ids to clipboard", len(ids))
	}
	return nil
}
