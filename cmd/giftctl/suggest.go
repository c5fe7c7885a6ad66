package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/HammerMeetNail/giftmatch/internal/models"
	"github.com/HammerMeetNail/giftmatch/internal/services"
)

var (
	suggestPage  int
	suggestLimit int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <recipient-id>",
	Short: "Print one page of gift suggestions for a recipient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recipientID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid recipient id %q: %w", args[0], err)
		}

		st, err := openStores()
		if err != nil {
			return err
		}
		defer st.Close()

		page, err := st.svc.Suggestions.Suggest(cmd.Context(), services.SuggestionRequest{
			RecipientID: recipientID,
			Page:        suggestPage,
			Limit:       suggestLimit,
		})
		if err != nil {
			return fmt.Errorf("suggesting gifts: %w", err)
		}
		renderSuggestions(cmd.OutOrStdout(), page)
		return nil
	},
}

func init() {
	suggestCmd.Flags().IntVarP(&suggestPage, "page", "p", 1, "page number, starting at 1")
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 0, "results per page (0 uses the configured default)")
	rootCmd.AddCommand(suggestCmd)
}

func renderSuggestions(w io.Writer, page *models.SuggestionPage) {
	fmt.Fprintf(w, "Source: %s  Page %d/%d  (%d results)\n",
		page.Source, page.Pagination.Page, page.Pagination.TotalPages, page.Pagination.TotalResults)
	if page.Warning != "" {
		fmt.Fprintf(w, "Warning: %s\n", page.Warning)
	}
	if len(page.Results) == 0 {
		fmt.Fprintln(w, "No suggestions found.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Name", "Price", "Category", "Source", "Coupon", "Link"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for i, r := range page.Results {
		table.Append([]string{
			strconv.Itoa(i + 1),
			r.Name,
			formatPrice(r.Price),
			deref(r.Category),
			r.Source,
			formatCoupon(r),
			r.Link,
		})
	}
	table.Render()
}

func formatPrice(p models.Price) string {
	if p.Amount != nil {
		return "R$ " + strings.Replace(strconv.FormatFloat(*p.Amount, 'f', 2, 64), ".", ",", 1)
	}
	if p.Display != "" {
		return p.Display
	}
	return "-"
}

func formatCoupon(r models.SuggestionResult) string {
	if r.Coupon == nil {
		return ""
	}
	s := *r.Coupon
	if r.CouponUntil != nil {
		s += " (até " + *r.CouponUntil + ")"
	}
	if r.CouponExpiry != nil {
		s += " [" + *r.CouponExpiry + "]"
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
