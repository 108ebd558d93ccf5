package main

import (
	"testing"

	"app/utils"
)

func TestNormalizeChannel(t *testing.T) {
	cases := map[string]string{
		"":         "Amazon",
		"amazon":   "Amazon",
		"Shopify":  "Shopify",
		"shopify ": "Shopify",
		"SHOPIFY":  "Shopify",
		"ebay":     "Amazon",
	}
	for in, want := range cases {
		if got := utils.NormalizeChannel(in); got != want {
			t.Errorf("NormalizeChannel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeProductLine(t *testing.T) {
	cases := map[string]string{
		"IQBAR Chocolate Chip 12ct": "IQBAR",
		"iqmix lemon":               "IQMIX",
		"IQJOE Original":            "IQJOE",
		"Protein Bar Variety":       "IQBAR",
		"Mystery Item":              "Unmapped",
		"":                          "Unmapped",
	}
	for in, want := range cases {
		if got := utils.NormalizeProductLine(in); got != want {
			t.Errorf("NormalizeProductLine(%q) = %q, want %q", in, got, want)
		}
	}
}
