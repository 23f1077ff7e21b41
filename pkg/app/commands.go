package app

// Output for the orderdesk CLI sub-commands. Each writes a table to w.

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shashiranjanraj/orderdesk/app/models"
	"github.com/shashiranjanraj/orderdesk/config"
)

// RouteList prints every named route.
func (a *Application) RouteList(w io.Writer) error {
	routes := a.Router().Routes()
	if len(routes) == 0 {
		fmt.Fprintln(w, "No named routes registered.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
	fmt.Fprintln(tw, "------\t----\t----")
	for _, ri := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return tw.Flush()
}

// ListOrders prints the orders in status ("" for all).
func (a *Application) ListOrders(ctx context.Context, w io.Writer, status models.Status) error {
	orders, err := a.Orders.List(ctx, status)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(w, "No sale orders.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tINVOICE\tSTATUS\tTOTAL\tLAST MODIFIED")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.CustomerID, o.InvoiceNo, o.Status(), money(o.Total()), stamp(o.UpdatedOn))
	}
	return tw.Flush()
}

// ShowOrder prints one order with its lines.
func (a *Application) ShowOrder(ctx context.Context, w io.Writer, id models.ID) error {
	o, err := a.Orders.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Sale order #%s (%s)\n", o.ID, o.Status())
	fmt.Fprintf(w, "  Customer:      %s\n", o.CustomerID)
	fmt.Fprintf(w, "  Invoice:       %s on %s\n", o.InvoiceNo, o.InvoiceDate)
	fmt.Fprintf(w, "  Added:         %s\n", stamp(o.AddingDate))
	fmt.Fprintf(w, "  Last modified: %s\n\n", stamp(o.UpdatedOn))

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "SKU\tPRODUCT\tPRICE\tQTY\tSUBTOTAL")
	for _, li := range o.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", li.SKUID, li.ProductID, money(li.Price), li.Quantity, money(li.Subtotal()))
	}
	fmt.Fprintf(tw, "\t\t\t\t%s\n", money(o.Total()))
	return tw.Flush()
}

// ListCatalog prints every SKU of every product.
func (a *Application) ListCatalog(ctx context.Context, w io.Writer) error {
	products, err := a.Orders.Catalog(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tSKU\tAMOUNT\tIN STOCK\tPRICE\tMRP")
	for _, p := range products {
		for _, s := range p.SKUs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%d\t%s\t%s\n",
				p.ID, p.Name, s.ID, strconv.FormatFloat(s.Amount, 'f', -1, 64), s.Unit,
				s.QuantityInInventory, money(s.SellingPrice), money(s.MaxRetailPrice))
		}
	}
	return tw.Flush()
}

// JobList prints the background jobs Serve would run.
func (a *Application) JobList(w io.Writer) error {
	entries := a.Jobs.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No background jobs.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "JOB\tEVERY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.ID, e.Interval)
	}
	return tw.Flush()
}

// ConfigCheck validates the configuration and prints the effective values.
func ConfigCheck(w io.Writer) error {
	if err := config.Validate(); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	rows := [][2]string{
		{"APP_ENV", config.AppEnv()},
		{"APP_PORT", config.AppPort()},
		{"BACKEND_URL", config.BackendURL()},
		{"BACKEND_TIMEOUT", config.BackendTimeout().String()},
		{"CACHE_DRIVER", config.CacheDriver()},
		{"CATALOG_CACHE_TTL", config.CatalogCacheTTL().String()},
		{"SESSION_TTL", config.SessionTTL().String()},
		{"TOKEN_STORE", config.TokenStore()},
		{"TOKEN_TTL", config.TokenTTL().String()},
		{"RATE_LIMIT", strconv.Itoa(config.RateLimit())},
		{"LOG_LEVEL", config.LogLevel()},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	fmt.Fprintln(tw, "\nconfiguration OK")
	return tw.Flush()
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
