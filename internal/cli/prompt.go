// internal/cli/prompt.go
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

// ErrInputClosed is returned when stdin ends while a prompt is waiting
var ErrInputClosed = errors.New("input closed")

// Validator rejects an answer with the message shown before re-prompting
type Validator func(answer string) error

// Prompter asks line-oriented questions on a terminal
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a prompter reading answers from in
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) ask(message, hint string) {
	q := color.New(color.FgGreen).Sprint("?")
	if hint != "" {
		fmt.Fprintf(p.out, "%s %s %s ", q, message, hint)
		return
	}
	fmt.Fprintf(p.out, "%s %s ", q, message)
}

func (p *Prompter) complain(msg string) {
	color.New(color.FgRed).Fprintln(p.out, "\n"+msg)
}

// Input asks until validate accepts the answer. A nil validate accepts anything.
func (p *Prompter) Input(message string, validate Validator) (string, error) {
	for {
		p.ask(message, "")
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if validate == nil {
			return answer, nil
		}
		if verr := validate(answer); verr != nil {
			p.complain(verr.Error())
			continue
		}
		return answer, nil
	}
}

// Select shows numbered choices and returns the index picked. The answer
// may be the number or the choice text.
func (p *Prompter) Select(message string, choices []string) (int, error) {
	for {
		fmt.Fprintf(p.out, "%s %s\n", color.New(color.FgGreen).Sprint("?"), message)
		for i, c := range choices {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, c)
		}
		p.ask("Answer", fmt.Sprintf("[1-%d]", len(choices)))

		answer, err := p.readLine()
		if err != nil {
			return 0, err
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(choices) {
			return n - 1, nil
		}
		for i, c := range choices {
			if strings.EqualFold(answer, c) {
				return i, nil
			}
		}
		p.complain("Please choose one of the listed options")
	}
}

// Confirm asks a yes/no question; an empty answer takes def
func (p *Prompter) Confirm(message string, def bool) (bool, error) {
	hint := "(y/N)"
	if def {
		hint = "(Y/n)"
	}
	for {
		p.ask(message, hint)
		answer, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.complain("Please answer y or n")
	}
}

// IDIn accepts an integer id present in the listed set
func IDIn(has func(int64) bool) Validator {
	return func(answer string) error {
		id, err := strconv.ParseInt(answer, 10, 64)
		if err != nil || !has(id) {
			return errors.New("Please enter the id of an available product")
		}
		return nil
	}
}

// PositiveQuantity accepts an integer greater than zero that fits the stock column
func PositiveQuantity(answer string) error {
	n, err := strconv.ParseInt(answer, 10, 32)
	if err != nil || n <= 0 {
		return errors.New("Quantity must be a number greater than 0")
	}
	return nil
}

// NonNegativeQuantity accepts an integer of zero or more that fits the stock column
func NonNegativeQuantity(answer string) error {
	n, err := strconv.ParseInt(answer, 10, 32)
	if err != nil || n < 0 {
		return errors.New("Quantity must be a whole number of 0 or more")
	}
	return nil
}

// Required accepts any non-blank answer
func Required(field string) Validator {
	return func(answer string) error {
		if strings.TrimSpace(answer) == "" {
			return fmt.Errorf("Please enter the %s", field)
		}
		return nil
	}
}

// PositiveAmount accepts a decimal greater than zero
func PositiveAmount(answer string) error {
	d, err := decimal.NewFromString(answer)
	if err != nil || !d.IsPositive() {
		return errors.New("Price must be a number greater than 0")
	}
	return nil
}

// NonNegativeAmount accepts a decimal of zero or more
func NonNegativeAmount(answer string) error {
	d, err := decimal.NewFromString(answer)
	if err != nil || d.IsNegative() {
		return errors.New("Amount must be a number of 0 or more")
	}
	return nil
}
