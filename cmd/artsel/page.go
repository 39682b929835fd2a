package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tturner/artsel/internal/catalog"
	"github.com/tturner/artsel/internal/tui"
)

type pageFlags struct {
	page    int
	jsonOut bool
	idsOnly bool
	width   int
}

func newPageCmd(g *globalFlags) *cobra.Command {
	flags := &pageFlags{}

	cmd := &cobra.Command{
		Use:   "page",
		Short: "Print one page of artworks",
		Long: `Fetch a single page of the catalog and print it as a table, or as the
raw page response with --json.`,
		Example: `  # Second page, 25 rows
  artsel page --page 2 --page-size 25

  # Machine-readable output
  artsel page --page 1 --json

  # Just the identifiers of page 3, one per line
  artsel page --page 3 --ids`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, g, flags)
		},
	}

	cmd.Flags().IntVar(&flags.page, "page", 1, "Page number (1-based)")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "Print the page response as JSON")
	cmd.Flags().BoolVar(&flags.idsOnly, "ids", false, "Print only the page's artwork ids, one per line")
	cmd.Flags().IntVar(&flags.width, "width", tui.DefaultWidth, "Table width in columns")
	cmd.MarkFlagsMutuallyExclusive("json", "ids")

	return cmd
}

func runPage(cmd *cobra.Command, g *globalFlags, flags *pageFlags) error {
	if flags.page < 1 {
		return fmt.Errorf("--page must be >= 1, got %d", flags.page)
	}

	_, logger, client, err := g.setup(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Close()

	resp, err := client.FetchPage(cmd.Context(), flags.page)
	if err != nil {
		return wrapFetchError(err, fmt.Sprintf("load page %d", flags.page))
	}
	logger.Verbose("Requests: %s", client.Stats())

	if flags.idsOnly {
		if ids := resp.IDs(); len(ids) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), tui.IDsText(ids))
		}
		return nil
	}
	if flags.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printPage(cmd.OutOrStdout(), resp, flags.width)
	return nil
}

// printPage renders a page with the same table and paginator as the TUI.
func printPage(out io.Writer, resp *catalog.PageResponse, width int) {
	layout := tui.NewLayout(width, tui.DefaultHeight)
	s := tui.DefaultStyles

	table := tui.RecordTable{
		Records: resp.Data,
		Widths:  layout.Columns(),
		Cursor:  -1,
	}
	first := (resp.Pagination.CurrentPage - 1) * max(resp.Pagination.Limit, 0)
	if resp.Pagination.Offset > 0 {
		first = resp.Pagination.Offset
	}
	pager := tui.PaginatorLine(max(first, 0), len(resp.Data), resp.Pagination.Total,
		resp.Pagination.CurrentPage, resp.Pagination.TotalPages, false, s)

	fmt.Fprintln(out, table.Render(s))
	fmt.Fprintln(out)
	fmt.Fprintln(out, pager)
}
