package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/profitshare/internal/adapter/http/dto"
)

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Replay history on the server and check its invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ReconciliationResponse
			if err := getJSON(baseURL+"/api/v1/reconciliation", &report); err != nil {
				return err
			}
			return printReconciliation(cmd.OutOrStdout(), &report)
		},
	}
}

func newGridCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the holder by month payout grid for a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			var grid dto.YearGridResponse
			if err := getJSON(fmt.Sprintf("%s/api/v1/years/%d/grid", baseURL, year), &grid); err != nil {
				return err
			}
			return printGrid(cmd.OutOrStdout(), &grid)
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Calendar year")

	return cmd
}

func getJSON(url string, out any) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func printReconciliation(w io.Writer, r *dto.ReconciliationResponse) error {
	if r.Consistent {
		fmt.Fprintln(w, "Reconciliation PASSED")
	} else {
		fmt.Fprintln(w, "Reconciliation FAILED")
	}
	fmt.Fprintf(w, "Periods checked:      %d\n", r.PeriodsChecked)
	fmt.Fprintf(w, "Total paid:           %s\n", r.TotalPaidFormatted)
	fmt.Fprintf(w, "Rounding adjustments: %d\n", r.RoundingAdjustments)
	fmt.Fprintf(w, "Outstanding:          %s across %d holder(s)\n", r.OutstandingTotal.StringFixed(2), r.OutstandingHolders)

	for _, d := range r.Discrepancies {
		holder := ""
		if d.HolderID != "" {
			holder = " " + d.HolderID
		}
		fmt.Fprintf(w, "  %s [%s]%s: %s\n", d.Period, d.Check, holder, truncate(d.Detail, 120))
	}

	if !r.Consistent {
		return fmt.Errorf("%d discrepancies found", len(r.Discrepancies))
	}
	return nil
}

func printGrid(w io.Writer, g *dto.YearGridResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	header := []string{"holder"}
	for m := time.January; m <= time.December; m++ {
		header = append(header, m.String()[:3])
	}
	header = append(header, "total")
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, row := range g.Rows {
		cells := []string{row.HolderID}
		for _, p := range row.Payouts {
			cells = append(cells, p.StringFixed(2))
		}
		cells = append(cells, row.TotalFormatted)
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}

	totals := []string{"total"}
	for _, t := range g.MonthTotals {
		totals = append(totals, t.StringFixed(2))
	}
	totals = append(totals, g.TotalFormatted)
	fmt.Fprintln(tw, strings.Join(totals, "\t")+"\t")

	if err := tw.Flush(); err != nil {
		return err
	}

	for _, cf := range g.CarryForwardOut {
		fmt.Fprintf(w, "carry-forward %s: %s\n", cf.HolderID, cf.AmountFormatted)
	}
	return nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	if limit <= 3 {
		return s[:limit]
	}
	return s[:limit-3] + "..."
}
