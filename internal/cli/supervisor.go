// internal/cli/supervisor.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/ports"
	"github.com/ammerola/storefront/internal/core/services"
)

var supervisorMenu = []string{
	"View Product Sales By Department",
	"Create New Department",
	"Export Sales Report",
}

// Supervisor is the shell for department accounting
type Supervisor struct {
	departments ports.DepartmentService
	requestedBy string
	prompt      *Prompter
	render      *Renderer
	logger      *slog.Logger
}

// NewSupervisor creates the supervisor shell. requestedBy is stamped on
// exported reports.
func NewSupervisor(departments ports.DepartmentService, requestedBy string, in io.Reader, out io.Writer, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		departments: departments,
		requestedBy: requestedBy,
		prompt:      NewPrompter(in, out),
		render:      NewRenderer(out),
		logger:      logger.With(slog.String("component", "supervisor_shell")),
	}
}

// Run shows the menu until the supervisor is done or input ends
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		again, err := s.round(ctx)
		if errors.Is(err, ErrInputClosed) {
			again, err = false, nil
		}
		if err != nil {
			return err
		}
		if !again {
			s.render.Workplace("Exit Manager Functions.")
			return nil
		}
	}
}

func (s *Supervisor) round(ctx context.Context) (bool, error) {
	choice, err := s.prompt.Select("Managerial functions:", supervisorMenu)
	if err != nil {
		return false, err
	}

	switch choice {
	case 0:
		s.viewSales(ctx)
	case 1:
		if err := s.createDepartment(ctx); err != nil {
			return false, err
		}
	case 2:
		s.exportReport(ctx)
	}

	return s.prompt.Confirm("Would you like to do anything else?", true)
}

func (s *Supervisor) fail(ctx context.Context, action string, err error) {
	s.logger.ErrorContext(ctx, action+" failed", slog.String("error", err.Error()))
	s.render.Error(fmt.Sprintf("Could not %s: %s", action, domain.PublicMessage(err)))
}

func (s *Supervisor) viewSales(ctx context.Context) {
	rows, err := s.departments.SalesByDepartment(ctx)
	if err != nil {
		s.fail(ctx, "load sales by department", err)
		return
	}
	s.render.Workplace("Product Sales By Department")
	s.render.DepartmentSales(rows)
}

func (s *Supervisor) createDepartment(ctx context.Context) error {
	name, err := s.prompt.Input("Enter the department name", Required("department name"))
	if err != nil {
		return err
	}
	costText, err := s.prompt.Input("Enter the department overhead costs", NonNegativeAmount)
	if err != nil {
		return err
	}

	dept, err := s.departments.CreateDepartment(ctx, name, decimal.RequireFromString(costText))
	if errors.Is(err, domain.ErrAlreadyExists) {
		s.render.Error(fmt.Sprintf("Department %q already exists", name))
		return nil
	}
	if err != nil {
		s.fail(ctx, "create department", err)
		return nil
	}

	s.render.Success("Department add: successful!")
	s.render.DepartmentSales([]domain.DepartmentSales{domain.NewDepartmentSales(*dept)})
	return nil
}

func (s *Supervisor) exportReport(ctx context.Context) {
	req, err := s.departments.RequestSalesReport(ctx, s.requestedBy)
	if errors.Is(err, services.ErrPublisherUnavailable) {
		s.render.Error("Background jobs are not available; report export needs the worker")
		return
	}
	if err != nil {
		s.fail(ctx, "queue sales report", err)
		return
	}
	s.render.Success("Sales report queued as job " + req.JobID.String())
}
