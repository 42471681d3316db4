// internal/cli/manager.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/core/services"
)

var managerMenu = []string{
	"View Products For Sale",
	"View Low Inventory",
	"Add to Inventory",
	"Add New Product",
	"Import Products From File",
}

// Manager is the workplace shell for stock keeping
type Manager struct {
	inventory ports.InventoryService
	prompt    *Prompter
	render    *Renderer
	logger    *slog.Logger
}

// NewManager creates the manager shell
func NewManager(inventory ports.InventoryService, in io.Reader, out io.Writer, logger *slog.Logger) *Manager {
	return &Manager{
		inventory: inventory,
		prompt:    NewPrompter(in, out),
		render:    NewRenderer(out),
		logger:    logger.With(slog.String("component", "manager_shell")),
	}
}

// Run shows the menu until the manager logs out or input ends
func (m *Manager) Run(ctx context.Context) error {
	for {
		again, err := m.round(ctx)
		if errors.Is(err, ErrInputClosed) {
			again, err = false, nil
		}
		if err != nil {
			return err
		}
		if !again {
			m.render.Workplace("You have been successfully logged out of the Storefront workplace.")
			return nil
		}
	}
}

func (m *Manager) round(ctx context.Context) (bool, error) {
	choice, err := m.prompt.Select("You are logged in to the Storefront Workplace. What would you like to do?", managerMenu)
	if err != nil {
		return false, err
	}

	switch choice {
	case 0:
		err = m.viewProducts(ctx)
	case 1:
		err = m.viewLowInventory(ctx)
	case 2:
		err = m.addInventory(ctx)
	case 3:
		err = m.addProduct(ctx)
	case 4:
		err = m.importProducts(ctx)
	}
	if err != nil {
		return false, err
	}

	return m.prompt.Confirm("Would you like to make another transaction?", true)
}

// fail reports a service error on screen and in the log
func (m *Manager) fail(ctx context.Context, action string, err error) {
	m.logger.ErrorContext(ctx, action+" failed", slog.String("error", err.Error()))
	m.render.Error(fmt.Sprintf("Could not %s: %s", action, domain.PublicMessage(err)))
}

func (m *Manager) viewProducts(ctx context.Context) error {
	catalog, err := m.inventory.ListProducts(ctx)
	if err != nil {
		m.fail(ctx, "list products", err)
		return nil
	}
	m.render.Workplace("Workplace - All Products")
	m.render.ManagerProducts(catalog.Products())
	return nil
}

func (m *Manager) viewLowInventory(ctx context.Context) error {
	products, err := m.inventory.ListLowInventory(ctx)
	if err != nil {
		m.fail(ctx, "list low inventory", err)
		return nil
	}
	m.render.Alert("Workplace - Low Inventory")
	if len(products) == 0 {
		m.render.Info("No products are running low")
		return nil
	}
	m.render.ManagerProducts(products)
	return nil
}

func (m *Manager) addInventory(ctx context.Context) error {
	catalog, err := m.inventory.ListProducts(ctx)
	if err != nil {
		m.fail(ctx, "list products", err)
		return nil
	}
	m.render.Workplace("Workplace - All Products")
	m.render.ManagerProducts(catalog.Products())

	idText, err := m.prompt.Input("Enter the item id", IDIn(catalog.Has))
	if err != nil {
		return err
	}
	qtyText, err := m.prompt.Input("Enter quantity to add", PositiveQuantity)
	if err != nil {
		return err
	}

	itemID, _ := strconv.ParseInt(idText, 10, 64)
	qty, _ := strconv.Atoi(qtyText)

	product, err := m.inventory.AddStock(ctx, itemID, qty)
	if err != nil {
		m.fail(ctx, "add inventory", err)
		return nil
	}
	m.render.Success("Inventory add successful!")
	m.render.ManagerProducts([]domain.Product{*product})
	return nil
}

func (m *Manager) addProduct(ctx context.Context) error {
	name, err := m.prompt.Input("Enter the item name", Required("item name"))
	if err != nil {
		return err
	}
	dept, err := m.prompt.Input("Enter the department", Required("department"))
	if err != nil {
		return err
	}
	priceText, err := m.prompt.Input("Enter the unit price", PositiveAmount)
	if err != nil {
		return err
	}
	stockText, err := m.prompt.Input("Enter the stock quantity to add", NonNegativeQuantity)
	if err != nil {
		return err
	}

	stock, _ := strconv.Atoi(stockText)
	product := &domain.Product{
		ProductName:    name,
		DepartmentName: dept,
		Price:          decimal.RequireFromString(priceText),
		StockQuantity:  stock,
	}
	if err := m.inventory.AddProduct(ctx, product); err != nil {
		m.fail(ctx, "add product", err)
		return nil
	}
	m.render.Success("Product add successful!")
	m.render.ManagerProducts([]domain.Product{*product})
	return nil
}

func (m *Manager) importProducts(ctx context.Context) error {
	path, err := m.prompt.Input("Enter the path of the .xlsx or .pdf file (local or s3://)", Required("file path"))
	if err != nil {
		return err
	}

	req, err := m.inventory.RequestImport(ctx, path, "")
	if errors.Is(err, services.ErrPublisherUnavailable) {
		m.render.Error("Background jobs are not available; use the seeder to import files")
		return nil
	}
	if err != nil {
		m.fail(ctx, "queue import", err)
		return nil
	}
	m.render.Success("Import queued as job " + req.JobID.String())
	return nil
}
