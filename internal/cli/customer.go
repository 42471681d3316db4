// internal/cli/customer.go
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
)

// Customer is the storefront shell: browse, order, repeat
type Customer struct {
	orders ports.OrderService
	prompt *Prompter
	render *Renderer
	logger *slog.Logger
}

// NewCustomer creates the customer shell
func NewCustomer(orders ports.OrderService, in io.Reader, out io.Writer, logger *slog.Logger) *Customer {
	return &Customer{
		orders: orders,
		prompt: NewPrompter(in, out),
		render: NewRenderer(out),
		logger: logger.With(slog.String("component", "customer_shell")),
	}
}

// Run loops until the customer declines another transaction or input ends
func (c *Customer) Run(ctx context.Context) error {
	for {
		again, err := c.transaction(ctx)
		if errors.Is(err, ErrInputClosed) {
			again, err = false, nil
		}
		if err != nil {
			return err
		}
		if !again {
			c.render.Storefront("Come back soon!")
			return nil
		}
	}
}

// transaction runs one browse-and-buy round and asks whether to go again
func (c *Customer) transaction(ctx context.Context) (bool, error) {
	catalog, err := c.orders.ListAvailable(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to list catalog", slog.String("error", err.Error()))
		c.render.Error("The catalog is unavailable right now")
		return false, nil
	}

	c.render.Storefront("Storefront")
	if catalog.Len() == 0 {
		c.render.Info("Everything is sold out")
		return false, nil
	}
	c.render.CustomerCatalog(catalog.Products())

	idText, err := c.prompt.Input("Please enter the id of the product you would like to purchase:", IDIn(catalog.Has))
	if err != nil {
		return false, err
	}
	itemID, _ := strconv.ParseInt(idText, 10, 64)
	product, _ := catalog.Get(itemID)

	qtyText, err := c.prompt.Input("Quantity of "+product.ProductName+" to purchase:", PositiveQuantity)
	if err != nil {
		return false, err
	}
	qty, _ := strconv.Atoi(qtyText)

	result, err := c.orders.PlaceOrder(ctx, domain.Order{ItemID: itemID, RequestedQuantity: qty})
	switch {
	case err == nil:
		c.render.Total("Transaction Successful! Your total is: " + result.Total.StringFixed(2))
		return c.prompt.Confirm("Would you like to make another transaction?", true)
	case result.Rejected():
		c.render.Alert("Transaction cannot be completed: " + domain.PublicMessage(err) + "!")
		return c.prompt.Confirm("Would you like to revisit the catalog and place a new order?", true)
	default:
		c.render.Error("Transaction " + domain.PublicMessage(err))
		return c.prompt.Confirm("Would you like to make another transaction?", true)
	}
}
