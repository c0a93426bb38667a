package main

import (
	"fmt"
	"strconv"

	"github.com/blissbyuddy/storefront-client/internal/cart"
	"github.com/spf13/cobra"
)

func newCartCmd() *cobra.Command {
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}
	cartCmd.AddCommand(
		newCartShowCmd(),
		newCartAddCmd(),
		newCartRemoveCmd(),
		newCartSetQtyCmd(),
		newCartClearCmd(),
	)
	return cartCmd
}

func newCartShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			out := cmd.OutOrStdout()
			lines := a.cart.Cart()
			if len(lines) == 0 {
				fmt.Fprintln(out, "Your cart is empty.")
				return nil
			}
			for _, line := range lines {
				fmt.Fprintf(out, "%-12s %-30s x%-3d %10s\n", line.ProductID, line.Name, line.Quantity, line.Price)
			}
			fmt.Fprintf(out, "\nTotal: %s (%s cart)\n", a.cart.Total(), a.cart.Mode())
			if msg := a.cart.Err(); msg != "" {
				fmt.Fprintln(out, msg)
			}
			return nil
		},
	}
}

func newCartAddCmd() *cobra.Command {
	var quantity int
	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			ref := cart.RefID(args[0])
			if product, err := a.catalog.Get(cmd.Context(), args[0]); err == nil {
				ref = product.Ref()
			}

			if err := a.cart.AddToCart(cmd.Context(), ref, quantity); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s. Cart total: %s\n", args[0], a.cart.Total())
			return nil
		},
	}
	add.Flags().IntVar(&quantity, "quantity", 1, "quantity to add")
	return add
}

func newCartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			if err := a.cart.RemoveFromCart(cmd.Context(), cart.RefID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s. Cart total: %s\n", args[0], a.cart.Total())
			return nil
		},
	}
}

func newCartSetQtyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-qty <product-id> <quantity>",
		Short: "Set a cart line's quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be a number: %w", err)
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			if err := a.cart.UpdateQuantity(cmd.Context(), cart.RefID(args[0]), quantity); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s. Cart total: %s\n", args[0], a.cart.Total())
			return nil
		},
	}
}

func newCartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			if err := a.cart.ClearCart(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
			return nil
		},
	}
}
