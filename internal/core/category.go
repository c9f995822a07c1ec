package core

import "strings"

// DefaultCategoryColor is used for every category without a dedicated color.
const DefaultCategoryColor = "#9B59B6"

// Style holds presentation attributes for a category.
type Style struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Known bool   `json:"known"`
}

// The category set is open; this table only decorates the common ones and
// never restricts what a store may hold.
var knownCategoryColors = map[string]string{
	"Food":          "#FF6B6B",
	"Travel":        "#4ECDC4",
	"Rent":          "#45B7D1",
	"Entertainment": "#FFA07A",
	"Utilities":     "#98D8C8",
}

// StyleFor returns presentation attributes for any category label.
func StyleFor(category string) Style {
	label := strings.TrimSpace(category)
	if label == "" {
		label = UncategorizedLabel
	}
	if color, ok := knownCategoryColors[label]; ok {
		return Style{Label: label, Color: color, Known: true}
	}
	return Style{Label: label, Color: DefaultCategoryColor}
}

// FilterByCategory returns the expenses whose category equals category
// exactly. No trimming or case folding is applied.
func FilterByCategory(expenses []Expense, category string) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}
