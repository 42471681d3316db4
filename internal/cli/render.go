// internal/cli/render.go
package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/ammerola/storefront/internal/core/domain"
)

// Renderer prints banners and tables
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) banner(c *color.Color, text string) {
	fmt.Fprintln(r.out)
	c.Fprint(r.out, " "+text+" ")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out)
}

// Storefront prints a customer-facing heading
func (r *Renderer) Storefront(text string) {
	r.banner(color.New(color.BgCyan, color.FgBlack), text)
}

// Workplace prints a staff-facing heading
func (r *Renderer) Workplace(text string) {
	r.banner(color.New(color.BgYellow, color.FgBlack), text)
}

// Alert prints a rejection or low-inventory heading
func (r *Renderer) Alert(text string) {
	r.banner(color.New(color.BgRed, color.FgWhite), text)
}

// Success prints a completed-action heading
func (r *Renderer) Success(text string) {
	r.banner(color.New(color.BgGreen, color.FgBlack), text)
}

// Total prints the charged amount line
func (r *Renderer) Total(text string) {
	fmt.Fprintln(r.out)
	color.New(color.FgGreen).Fprintln(r.out, text)
	fmt.Fprintln(r.out)
}

// Error prints a failure line
func (r *Renderer) Error(text string) {
	color.New(color.FgRed).Fprintln(r.out, "\n"+text)
}

// Info prints a plain line
func (r *Renderer) Info(text string) {
	fmt.Fprintln(r.out, text)
}

// CustomerCatalog lists id, item and price
func (r *Renderer) CustomerCatalog(products []domain.Product) {
	w := tabwriter.NewWriter(r.out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "id\titem\tprice")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\n", p.ItemID, p.ProductName, p.Price.StringFixed(2))
	}
	w.Flush()
}

// ManagerProducts lists id, item, department, price and quantity
func (r *Renderer) ManagerProducts(products []domain.Product) {
	w := tabwriter.NewWriter(r.out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "id\titem\tdepartment\tprice\tquantity")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n",
			p.ItemID, p.ProductName, p.DepartmentName, p.Price.StringFixed(2), p.StockQuantity)
	}
	w.Flush()
}

// DepartmentSales lists the sales-by-department report
func (r *Renderer) DepartmentSales(rows []domain.DepartmentSales) {
	w := tabwriter.NewWriter(r.out, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "department_id\tdepartment_name\tover_head_costs\ttotal_sales\tprofit\t")
	for _, d := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n",
			d.DepartmentID, d.DepartmentName,
			d.OverheadCosts.StringFixed(2), d.TotalSales.StringFixed(2), d.Profit.StringFixed(2))
	}
	w.Flush()
}
