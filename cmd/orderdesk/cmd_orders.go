package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/pkg/app"
)

var listStatus string

// orderdesk orders:list: list sale orders.
var ordersListCmd = &cobra.Command{
	Use:   "orders:list",
	Short: "List sale orders (--status=active|completed)",
	RunE: func(cmd *cobra.Command, args []string) error {
		var status models.Status
		if listStatus != "" {
			s, ok := models.ParseStatus(listStatus)
			if !ok {
				return fmt.Errorf("unknown status %q (want active or completed)", listStatus)
			}
			status = s
		}

		a, err := app.New(app.DefaultOptions())
		if err != nil {
			return err
		}
		return a.ListOrders(cmd.Context(), cmd.OutOrStdout(), status)
	},
}

// orderdesk orders:show <id>: print one sale order.
var ordersShowCmd = &cobra.Command{
	Use:   "orders:show <id>",
	Short: "Show one sale order with its line items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(app.DefaultOptions())
		if err != nil {
			return err
		}
		return a.ShowOrder(cmd.Context(), cmd.OutOrStdout(), models.ID(args[0]))
	},
}

// orderdesk catalog:list: print the product catalog.
var catalogListCmd = &cobra.Command{
	Use:   "catalog:list",
	Short: "List products and their SKUs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(app.DefaultOptions())
		if err != nil {
			return err
		}
		return a.ListCatalog(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	ordersListCmd.Flags().StringVar(&listStatus, "status", "", "active or completed (default: all)")
}
