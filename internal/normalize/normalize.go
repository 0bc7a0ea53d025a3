// Package normalize holds the matching primitives shared by catalog sync and
// receiving reconciliation: key normalization, SKU-code detection, document
// classification, and unit-price derivation. The rules are deliberately
// minimal and tied to the document conventions of existing corpora; changing
// them changes which historical lines match.
package normalize

import (
	"regexp"
	"strings"

	"goodsin/internal/domain"
)

var (
	allDigitsRe  = regexp.MustCompile(`^\d+$`)
	letterCodeRe = regexp.MustCompile(`^[A-Za-z]{1,2}\d{5,}$`)
	numericDocRe = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// Key returns the dedup/lookup key for an item name: trimmed and lowercased.
// No stemming, no punctuation stripping; two names match iff they are equal
// after trim+lowercase.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// LooksLikeCode reports whether the trimmed string is a bare SKU/article
// number rather than a real item name: all digits, or a one-to-two letter
// prefix followed by at least five digits.
func LooksLikeCode(name string) bool {
	s := strings.TrimSpace(name)
	if s == "" {
		return false
	}
	return allDigitsRe.MatchString(s) || letterCodeRe.MatchString(s)
}

// ClassifyDocument maps a document code to its procurement document type.
// "ML" prefixed or purely numeric/decimal codes are market-list documents,
// "RQ" prefixed codes are material requisitions, everything else is unknown.
func ClassifyDocument(code string) domain.DocumentType {
	c := strings.ToUpper(strings.TrimSpace(code))
	switch {
	case strings.HasPrefix(c, "ML"), numericDocRe.MatchString(c):
		return domain.DocumentTypeMarket
	case strings.HasPrefix(c, "RQ"):
		return domain.DocumentTypeMaterial
	default:
		return domain.DocumentTypeUnknown
	}
}

// UnitPrice infers a unit price from a heterogeneous historical row: an
// explicit positive unit price wins; otherwise total/quantity when both are
// positive; otherwise zero.
func UnitPrice(unitPrice, quantity, totalPrice float64) float64 {
	if unitPrice > 0 {
		return unitPrice
	}
	if quantity > 0 && totalPrice > 0 {
		return totalPrice / quantity
	}
	return 0
}
