package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/HammerMeetNail/giftmatch/internal/services"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List active gift categories and their keywords",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStores()
		if err != nil {
			return err
		}
		defer st.Close()

		categories, err := st.svc.Taxonomy.ListActiveCategories(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing categories: %w", err)
		}
		if len(categories) == 0 {
			fmt.Println("No active categories.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Name", "Keywords"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, c := range categories {
			table.Append([]string{c.ID.String(), c.Name, strings.Join(c.Keywords, ", ")})
		}
		table.Render()
		return nil
	},
}

var setKeywordsCmd = &cobra.Command{
	Use:   "set-keywords <category-id> <keyword>...",
	Short: "Replace a category's keywords",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid category id %q: %w", args[0], err)
		}

		st, err := openStores()
		if err != nil {
			return err
		}
		defer st.Close()

		keywords, err := st.svc.Taxonomy.SetCategoryKeywords(cmd.Context(), id, args[1:])
		if errors.Is(err, services.ErrCategoryNotFound) {
			return fmt.Errorf("category %s not found", id)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %d keywords: %s\n", len(keywords), strings.Join(keywords, ", "))
		return nil
	},
}

var clicksCmd = &cobra.Command{
	Use:   "clicks <link>",
	Short: "Show the recorded click count for a product link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStores()
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.svc.Clicks.Count(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\n", n)
		return nil
	},
}

func init() {
	categoriesCmd.AddCommand(setKeywordsCmd)
	rootCmd.AddCommand(categoriesCmd, clicksCmd)
}
