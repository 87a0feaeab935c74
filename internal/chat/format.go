package chat

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// maxListed is how many games a single reply lists before truncating.
const maxListed = 20

// FormatResult renders a tool result as user-facing text. Results
// arrive as decoded JSON, so products are generic maps and numbers are
// float64.
func FormatResult(v any) string {
	switch val := v.(type) {
	case nil:
		return "(empty result)"
	case []any:
		return formatList(val)
	case map[string]any:
		if _, ok := val["name"]; ok {
			return formatProduct(val, "")
		}
		return compactJSON(val)
	case string:
		return val
	case float64:
		return formatNumber(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatList(items []any) string {
	if len(items) == 0 {
		return "No games found."
	}
	products := make([]map[string]any, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			return compactJSON(items)
		}
		if _, ok := m["name"]; !ok {
			return compactJSON(items)
		}
		products = append(products, m)
	}

	var b strings.Builder
	shown := products
	if len(products) > maxListed {
		shown = products[:maxListed]
		fmt.Fprintf(&b, "Found %d games (showing the first %d):\n\n", len(products), maxListed)
	} else if len(products) == 1 {
		b.WriteString("Found 1 game:\n\n")
	} else {
		fmt.Fprintf(&b, "Found %d games:\n\n", len(products))
	}
	for _, p := range shown {
		b.WriteString(formatProduct(p, "   "))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatProduct renders one product card. indent prefixes the detail
// lines so cards nest under a list header.
func formatProduct(p map[string]any, indent string) string {
	mark := "🎮 "
	if isTruthy(p["is_featured"]) {
		mark = "⭐ "
	}
	var b strings.Builder
	b.WriteString(mark)
	b.WriteString(stringField(p, "name"))
	if v, ok := p["platform"]; ok {
		fmt.Fprintf(&b, "\n%sPlatform: %v", indent, v)
	}
	if v, ok := p["category"]; ok {
		fmt.Fprintf(&b, "\n%sGenre: %v", indent, v)
	}
	if price, ok := p["price"].(float64); ok {
		fmt.Fprintf(&b, "\n%sPrice: $%.2f", indent, price)
	}
	return b.String()
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return fmt.Sprintf("%v", m[key])
}

// isTruthy covers the encodings is_featured shows up in: bool from the
// tool server, numbers when a raw row leaks through.
func isTruthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	default:
		return false
	}
}

// formatNumber avoids scientific notation for big calculator results.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
