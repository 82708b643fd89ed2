package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

func catalogCmd(configFile *string) *cobra.Command {
	var (
		category string
		sortBy   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the active catalog as the storefront would list it",
		Long: `Load every active price from Stripe and print the filtered, sorted view.

Examples:
  storefront catalog
  storefront catalog --category iphone --sort lowToHigh
  storefront catalog --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configFile)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.UpstreamTimeout)
			defer cancel()

			cat, err := catalog.NewLoader(newStripe(cfg, logger)).Load(ctx)
			if err != nil {
				return err
			}
			items := cat.View(catalog.ParseCategory(category), catalog.ParseSortOrder(sortBy))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			return printCatalog(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().StringVar(&category, "category", string(catalog.CategoryAll), "all, iphone, macbook or watch")
	cmd.Flags().StringVar(&sortBy, "sort", string(catalog.SortNewest), "new, lowToHigh or highToLow")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func printCatalog(w io.Writer, items []catalog.Price) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRICE ID\tNAME\tCATEGORY\tPRICE")
	for i := range items {
		p := &items[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\n", p.ID, catalog.Name(p), p.Device(), catalog.FormatAmount(p.UnitAmount), p.Currency)
	}
	return tw.Flush()
}
