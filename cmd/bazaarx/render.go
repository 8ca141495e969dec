package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gmzseverr/bazaarx-client/internal/cart"
	"github.com/gmzseverr/bazaarx-client/internal/model"
	"github.com/gmzseverr/bazaarx-client/internal/pricing"
)

// money renders an amount the way the storefront does.
func money(v float64) string {
	return fmt.Sprintf("£%.2f", v)
}

func renderProducts(w io.Writer, items []model.Product) {
	if len(items) == 0 {
		fmt.Fprintln(w, "nothing here yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBRAND\tPRICE")
	for _, p := range items {
		price := money(pricing.UnitPrice(p))
		if p.Discount > 0 {
			price = fmt.Sprintf("%s (%.0f%% off)", price, p.Discount)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Brand, price)
	}
	_ = tw.Flush()
}

func renderProduct(w io.Writer, p model.Product, liked bool) {
	fmt.Fprintf(w, "%s\n", p.Name)
	if p.Brand != "" || p.Category != "" {
		fmt.Fprintf(w, "%s / %s\n", p.Brand, p.Category)
	}
	if p.Discount > 0 {
		fmt.Fprintf(w, "%s (was %s, %.0f%% off)\n", money(pricing.UnitPrice(p)), money(p.Price), p.Discount)
	} else {
		fmt.Fprintf(w, "%s\n", money(p.Price))
	}
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", p.Description)
	}
	if liked {
		fmt.Fprintln(w, "\n♥ in your favorites")
	}
}

func renderCart(w io.Writer, items []model.CartItem, sum cart.Summary) {
	if len(items) == 0 {
		fmt.Fprintln(w, "your cart is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tLINE")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", it.ID, it.Name, it.Quantity, money(pricing.LineTotal(it)))
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nSubtotal: %s\n", money(sum.Subtotal))
	if sum.Shipping == 0 {
		fmt.Fprintln(w, "Shipping: Free")
	} else {
		fmt.Fprintf(w, "Shipping: %s\n", money(sum.Shipping))
	}
	fmt.Fprintf(w, "Total:    %s\n", money(sum.Total))
}

func renderOrderSummary(w io.Writer, s model.OrderSummary) {
	fmt.Fprintf(w, "order #%d placed\n\n", s.OrderID)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range s.Items {
		fmt.Fprintf(tw, "%s\tx%d\t%s\n", it.ProductName, it.Quantity, money(it.Price*float64(it.Quantity)))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\nSubtotal: %s\n", money(s.Subtotal))
	if s.Shipping == 0 {
		fmt.Fprintln(w, "Shipping: Free")
	} else {
		fmt.Fprintf(w, "Shipping: %s\n", money(s.Shipping))
	}
	fmt.Fprintf(w, "Total:    %s\n", money(s.Total))
}
