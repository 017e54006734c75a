package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jask/realcheck/internal/predict"
	"github.com/jask/realcheck/internal/service"
)

var (
	historySearch string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past predictions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, closeDB, err := openHistory(cfg)
		defer closeDB()
		if err != nil {
			return err
		}
		return listHistory(cmd.Context(), h, historySearch, historyLimit, cmd.OutOrStdout())
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored prediction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, closeDB, err := openHistory(cfg)
		defer closeDB()
		if err != nil {
			return err
		}
		n, err := h.Clear(cmd.Context())
		if err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d predictions.\n", n)
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historySearch, "search", "s", "", "fuzzy match on image name or label")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum rows to show")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func listHistory(ctx context.Context, h *service.HistoryService, query string, limit int, out io.Writer) error {
	rows, err := h.Recent(ctx, query, limit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No predictions found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "WHEN\tIMAGE\tLABEL\tCONF\tEXPLANATION")
	fmt.Fprintln(w, "----\t-----\t-----\t----\t-----------")
	for _, p := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\t%s\n",
			p.CreatedAt.Local().Format("2006-01-02 15:04"),
			p.ImageName,
			p.Label,
			predict.Percent(p.Confidence),
			p.Explanation,
		)
	}
	return w.Flush()
}
