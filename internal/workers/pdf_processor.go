// internal/workers/pdf_processor.go
package workers

import (
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ammerola/storefront/internal/core/domain"
)

// DefaultDepartment receives price-list items no keyword matched
const DefaultDepartment = "General"

var (
	priceListHeaderRe = regexp.MustCompile(`(?i)(ITEM.*PRICE|PRODUCT.*PRICE)`)
	priceListFooterRe = regexp.MustCompile(`(?i)^(SUBTOTAL|TOTAL|END OF LIST)`)
	dashRe            = regexp.MustCompile(`-{3,}`)
	// allow optional $ and thousands separators, anchored to end of line
	priceRe    = regexp.MustCompile(`\$?\s*\d{1,3}(?:,\d{3})*\.\d{2}\s*$`)
	quantityRe = regexp.MustCompile(`\s+(?:x|qty\s*)?(\d{1,5})$`)
	deptTagRe  = regexp.MustCompile(`\[([^\]]+)\]`)
	spacesRe   = regexp.MustCompile(`\s+`)
	leadIDRe   = regexp.MustCompile(`^\d+[.)]?\s+`)
)

// DepartmentClassifier guesses a department from product text
type DepartmentClassifier struct {
	departments []string
	keywords    map[string][]string
}

// NewDepartmentClassifier creates a classifier with the storefront's keyword table
func NewDepartmentClassifier() *DepartmentClassifier {
	return &DepartmentClassifier{
		departments: []string{"Electronics", "Home", "Garden", "Toys", "Clothing", "Books", "Sports", "Tools"},
		keywords: map[string][]string{
			"Electronics": {"headphone", "speaker", "charger", "cable", "camera", "phone",
				"laptop", "monitor", "keyboard", "mouse", "radio", "battery"},
			"Home": {"lamp", "pillow", "blanket", "curtain", "rug", "mug", "plate",
				"bowl", "towel", "candle", "vase", "frame"},
			"Garden": {"hose", "planter", "seed", "shovel", "rake", "sprinkler", "pot", "soil"},
			"Toys":   {"toy", "kite", "puzzle", "doll", "lego", "game", "plush", "blocks"},
			"Clothing": {"shirt", "jacket", "hat", "scarf", "sock", "shoe", "dress",
				"pants", "glove"},
			"Books":  {"book", "novel", "guide", "cookbook", "journal", "atlas"},
			"Sports": {"ball", "racket", "bike", "helmet", "yoga", "dumbbell", "tent"},
			"Tools":  {"drill", "hammer", "wrench", "saw", "pliers", "screwdriver", "tape measure"},
		},
	}
}

// Classify returns the department with the most keyword hits. Ties go to the
// department listed first.
func (c *DepartmentClassifier) Classify(text string) string {
	textLower := strings.ToLower(text)

	best, bestScore := DefaultDepartment, 0
	for _, dept := range c.departments {
		score := 0
		for _, kw := range c.keywords[dept] {
			if strings.Contains(textLower, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = dept, score
		}
	}
	return best
}

// extractTextLines reads the plain text of every page
func extractTextLines(data []byte, logger *slog.Logger) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textLines []string
	totalPages := r.NumPage()

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("failed to extract text from page",
				slog.Int("page", pageNum),
				slog.String("error", err.Error()))
			continue
		}

		textLines = append(textLines, strings.Split(text, "\n")...)
	}

	return textLines, nil
}

// parsePriceList turns price-list lines into products. Items start after the
// header line and stop at the footer. A line ending in a price closes an
// item; earlier lines without a price are buffered as its description. A
// trailing integer before the price is the stock quantity, and a [Department]
// tag overrides classification.
func parsePriceList(lines []string, classifier *DepartmentClassifier) []domain.Product {
	start := 0
	for i, line := range lines {
		if priceListHeaderRe.MatchString(line) {
			start = i + 1
			break
		}
	}

	var (
		products    []domain.Product
		pendingDesc []string
	)

	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if priceListFooterRe.MatchString(line) {
			break
		}

		if !priceRe.MatchString(line) {
			pendingDesc = append(pendingDesc, line)
			continue
		}

		price := parseCurrency(priceRe.FindString(line))
		descPart := strings.TrimSpace(priceRe.ReplaceAllString(line, ""))

		quantity := 1
		if m := quantityRe.FindStringSubmatch(descPart); m != nil {
			quantity, _ = strconv.Atoi(m[1])
			descPart = strings.TrimSpace(quantityRe.ReplaceAllString(descPart, ""))
		}

		desc := strings.Join(append(pendingDesc, descPart), " ")
		pendingDesc = pendingDesc[:0]

		department := ""
		if m := deptTagRe.FindStringSubmatch(desc); m != nil {
			department = strings.TrimSpace(m[1])
			desc = deptTagRe.ReplaceAllString(desc, " ")
		}

		desc = cleanDescription(desc)
		if desc == "" {
			continue
		}
		if department == "" {
			department = classifier.Classify(desc)
		}

		products = append(products, domain.Product{
			ProductName:    generateProductName(desc),
			DepartmentName: department,
			Price:          price,
			StockQuantity:  quantity,
		})
	}

	return products
}

func cleanDescription(desc string) string {
	desc = dashRe.ReplaceAllString(desc, " ")
	desc = spacesRe.ReplaceAllString(desc, " ")
	desc = leadIDRe.ReplaceAllString(strings.TrimSpace(desc), "")
	return strings.TrimSpace(desc)
}

// generateProductName keeps the first sentence within 60 characters and
// title-cases it
func generateProductName(description string) string {
	name := description
	if len(name) > 60 {
		name = name[:60]
		if idx := strings.Index(name, "."); idx > 0 {
			name = name[:idx]
		}
	}

	words := strings.Fields(strings.ToLower(name))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
