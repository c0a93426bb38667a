package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "BlissByUddy storefront client",
		Long:          "Command-line client for the BlissByUddy storefront: browse the catalog, manage the cart as a guest or signed in, and start checkout.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newProductsCmd())
	root.AddCommand(newLoginCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newCartCmd())
	root.AddCommand(newCheckoutCmd())
	return root
}
