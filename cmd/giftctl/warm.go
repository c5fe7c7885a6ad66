package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var warmTop int

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Refresh cached shopping results for the most requested queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if warmTop > 0 {
			cfg.Shopping.WarmTop = warmTop
		}
		st, err := openStores()
		if err != nil {
			return err
		}
		defer st.Close()

		if st.svc.Warmer == nil {
			return fmt.Errorf("shopping provider is not configured (set SERPAPI_API_KEY)")
		}
		refreshed, err := st.svc.Warmer.RunOnce(cmd.Context())
		if err != nil {
			return fmt.Errorf("warming cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d queries\n", refreshed)
		return nil
	},
}

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List the most requested shopping queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStores()
		if err != nil {
			return err
		}
		defer st.Close()

		if st.svc.Shopping == nil {
			return fmt.Errorf("shopping provider is not configured (set SERPAPI_API_KEY)")
		}
		queries, err := st.svc.Shopping.PopularQueries(cmd.Context(), warmTop)
		if err != nil {
			return fmt.Errorf("listing popular queries: %w", err)
		}
		if len(queries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No queries recorded yet.")
			return nil
		}
		for i, q := range queries {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, q)
		}
		return nil
	},
}

func init() {
	warmCmd.Flags().IntVar(&warmTop, "top", 0, "number of queries to refresh (0 uses SHOPPING_WARM_TOP)")
	popularCmd.Flags().IntVar(&warmTop, "top", 20, "number of queries to list")
	rootCmd.AddCommand(warmCmd, popularCmd)
}
