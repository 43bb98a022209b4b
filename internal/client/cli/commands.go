package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/dmitrijs2005/butcherdesk/internal/client/apiclient"
	"github.com/dmitrijs2005/butcherdesk/internal/client/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/sync/errgroup"
)

var errNotLoggedIn = errors.New("not logged in")

func (a *App) Login(ctx context.Context) error {
	userName, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return a.report(ctx, err)
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return a.report(ctx, err)
	}

	u, err := a.auth.Login(ctx, userName, password)
	if err != nil {
		return a.report(ctx, err)
	}
	a.setUser(u)
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", u.Username, u.Role)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return a.report(ctx, err)
	}
	a.setUser(nil)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.auth.Me(ctx)
	if err != nil {
		return a.report(ctx, err)
	}
	a.setUser(u)
	fmt.Fprintf(a.out, "%s (%s), role %s\n", u.Username, u.FullName, u.Role)
	return nil
}

// Dashboard loads every collection at once. With an expired access token the
// parallel requests share a single refresh.
func (a *App) Dashboard(ctx context.Context) error {
	var counts [6]int
	g, gctx := errgroup.WithContext(ctx)

	count := func(i int, fn func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			counts[i] = n
			return err
		})
	}
	count(0, lenOf(a.catalog.Products.List))
	count(1, lenOf(a.orders.List))
	count(2, lenOf(a.catalog.Suppliers.List))
	count(3, lenOf(a.catalog.Customers.List))
	count(4, lenOf(a.documents.List))
	count(5, lenOf(a.catalog.Messages.List))

	if err := g.Wait(); err != nil {
		return a.report(ctx, err)
	}

	t := newTable(a.out, "Collection", "Count")
	for i, name := range []string{"products", "orders", "suppliers", "customers", "documents", "messages"} {
		t.AppendRow(table.Row{name, counts[i]})
	}
	t.Render()
	return nil
}

func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleDefault)
	t.AppendHeader(table.Row(header))
	return t
}

func lenOf[T any](list func(context.Context, url.Values) ([]T, error)) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		items, err := list(ctx, nil)
		return len(items), err
	}
}

// List prints one collection. filters are name=value query parameters.
func (a *App) List(ctx context.Context, resource string, filters []string) error {
	query, err := models.FiltersFromStrings(filters)
	if err != nil {
		return a.report(ctx, err)
	}

	var t table.Writer
	switch resource {
	case "products":
		items, err := a.catalog.Products.List(ctx, query)
		if err != nil {
			return a.report(ctx, err)
		}
		t = newTable(a.out, "ID", "SKU", "Name", "Price", "Stock")
		for _, p := range items {
			t.AppendRow(table.Row{p.ID, p.SKU, p.Name, money(p.Price) + "/" + p.Unit, milli(p.Stock) + " " + p.Unit})
		}
	case "orders":
		items, err := a.orders.List(ctx, query)
		if err != nil {
			return a.report(ctx, err)
		}
		t = newTable(a.out, "ID", "Customer", "Status", "Total")
		for _, o := range items {
			t.AppendRow(table.Row{o.ID, o.CustomerID, o.Status, money(o.Total())})
		}
	case "suppliers":
		items, err := a.catalog.Suppliers.List(ctx, query)
		if err != nil {
			return a.report(ctx, err)
		}
		t = newTable(a.out, "ID", "Name", "Contact", "Phone")
		for _, s := range items {
			t.AppendRow(table.Row{s.ID, s.Name, s.Contact, s.Phone})
		}
	case "customers":
		items, err := a.catalog.Customers.List(ctx, query)
		if err != nil {
			return a.report(ctx, err)
		}
		t = newTable(a.out, "ID", "Name", "Email")
		for _, c := range items {
			t.AppendRow(table.Row{c.ID, c.Name, c.Email})
		}
	case "documents":
		items, err := a.documents.List(ctx, query)
		if err != nil {
			return a.report(ctx, err)
		}
		t = newTable(a.out, "ID", "Title", "Supplier", "Status")
		for _, d := range items {
			t.AppendRow(table.Row{d.ID, d.Title, d.SupplierID, d.Status})
		}
	case "messages":
		items, err := a.catalog.Messages.List(ctx, query)
		if err != nil {
			return a.report(ctx, err)
		}
		t = newTable(a.out, "ID", "From", "Subject", "Read")
		for _, m := range items {
			t.AppendRow(table.Row{m.ID, m.From, m.Subject, m.Read})
		}
	default:
		return a.report(ctx, fmt.Errorf("unknown resource %q", resource))
	}
	t.Render()
	return nil
}

func (a *App) Approve(ctx context.Context, id string) error {
	d, err := a.documents.Approve(ctx, id, "")
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintf(a.out, "Document %s is %s\n", d.ID, d.Status)
	return nil
}

func (a *App) Reject(ctx context.Context, id string) error {
	comment, err := GetMultiline(a.reader, "Reason for rejection", a.out)
	if err != nil {
		return a.report(ctx, err)
	}
	d, err := a.documents.Reject(ctx, id, comment)
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintf(a.out, "Document %s is %s\n", d.ID, d.Status)
	return nil
}

func (a *App) SetOrderStatus(ctx context.Context, id, status string) error {
	o, err := a.orders.SetStatus(ctx, id, models.OrderStatus(status))
	if err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintf(a.out, "Order %s is %s\n", o.ID, o.Status)
	return nil
}

// report prints a user-facing line for err and returns it.
func (a *App) report(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, apiclient.ErrRefreshFailed):
		// onSessionExpired already told the user
	case apiclient.StatusCode(err) == 401:
		a.setUser(nil)
		fmt.Fprintln(a.out, "Error:", errNotLoggedIn)
	case apiclient.StatusCode(err) == 403:
		fmt.Fprintln(a.out, "Error: you are not allowed to do that")
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
	a.logger.Debug(ctx, "command failed", "error", err)
	return err
}

func money(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func milli(v int64) string {
	return fmt.Sprintf("%d.%03d", v/1000, v%1000)
}
