package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Start a hosted checkout for the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			quote := a.checkout.Quote()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subtotal: %s\n", quote.Subtotal)
			fmt.Fprintf(out, "Tax:      %s\n", quote.Tax)
			fmt.Fprintf(out, "Total:    %s\n", quote.Total)

			url, err := a.checkout.Begin(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nComplete your purchase at:\n%s\n", url)
			return nil
		},
	}
}
