package main

import (
	"fmt"

	"github.com/blissbyuddy/storefront-client/internal/catalog"
	"github.com/spf13/cobra"
)

func newProductsCmd() *cobra.Command {
	products := &cobra.Command{
		Use:   "products",
		Short: "Browse the product catalog",
	}

	var category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			items, err := a.catalog.List(cmd.Context(), catalog.Filter{Category: category})
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No products found.")
				return nil
			}
			for _, p := range items {
				stock := "in stock"
				if !p.InStock {
					stock = "out of stock"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-30s %10s  %s\n", p.ID, p.Title, p.Price, stock)
			}
			return nil
		},
	}
	list.Flags().StringVar(&category, "category", "", "filter by category")

	show := &cobra.Command{
		Use:   "show <product-id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			p, err := a.catalog.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:       %s\n", p.ID)
			fmt.Fprintf(out, "Title:    %s\n", p.Title)
			fmt.Fprintf(out, "Price:    %s\n", p.Price)
			if p.Category != "" {
				fmt.Fprintf(out, "Category: %s\n", p.Category)
			}
			if p.Description != "" {
				fmt.Fprintf(out, "\n%s\n", p.Description)
			}
			return nil
		},
	}

	products.AddCommand(list, show)
	return products
}
