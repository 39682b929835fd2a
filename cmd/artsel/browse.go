package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	apperrors "github.com/tturner/artsel/internal/errors"
	"github.com/tturner/artsel/internal/tui"
)

// stdoutIsTerminal decides between the interactive table and plain output.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func newBrowseCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse artworks interactively (default)",
		Long: `Open the interactive artworks table. Rows stay selected across pages;
press b to add the first N artworks of the catalog to the selection.
When stdout is not a terminal the first page is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, g)
		},
	}
}

func runBrowse(cmd *cobra.Command, g *globalFlags) error {
	if !stdoutIsTerminal() {
		return runPage(cmd, g, &pageFlags{page: 1, width: tui.DefaultWidth})
	}

	// Logs go to the log file only while the alternate screen is up.
	cfg, logger, client, err := g.setup(cmd, nil)
	if err != nil {
		return err
	}
	defer logger.Close()

	result, err := tui.Run(cmd.Context(), client, tui.Options{
		PageSize: cfg.API.PageSize,
		MaxCount: cfg.Bulk.MaxCount,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	logger.Info("Exited with %d artworks selected (%s)", len(result.Selected), client.Stats())
	if len(result.Selected) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d artworks selected\n", len(result.Selected))
		fmt.Fprintln(cmd.OutOrStdout(), tui.IDsText(result.Selected))
	}
	return nil
}

// wrapFetchError gives a catalog failure a user-facing message.
func wrapFetchError(err error, operation string) error {
	var ufe apperrors.UserFriendlyError
	if apperrors.As(err, &ufe) {
		return err
	}
	return apperrors.WrapNetworkError(err, operation)
}
