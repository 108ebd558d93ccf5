package utils

import "strings"

// NormalizeChannel maps free-form channel input onto the two supported
// channels, defaulting to Amazon.
func NormalizeChannel(channel string) string {
	if strings.EqualFold(strings.TrimSpace(channel), "shopify") {
		return "Shopify"
	}
	return "Amazon"
}

// NormalizeProductLine maps free-form product line text onto the canonical
// line names. Unknown values fall through to Unmapped.
func NormalizeProductLine(line string) string {
	v := strings.ToUpper(strings.TrimSpace(line))
	switch {
	case strings.Contains(v, "IQBAR") || strings.Contains(v, "BAR"):
		return "IQBAR"
	case strings.Contains(v, "IQMIX") || strings.Contains(v, "MIX"):
		return "IQMIX"
	case strings.Contains(v, "IQJOE") || strings.Contains(v, "JOE"):
		return "IQJOE"
	default:
		return "Unmapped"
	}
}

// ProductLines are the canonical lines in display order.
var ProductLines = []string{"IQBAR", "IQMIX", "IQJOE"}
