package catalog

import (
	"fmt"
	"strings"

	"github.com/stylecheck/reconciler/internal/domain"
)

// MapVariants converts a product-details answer into a validation result.
// The first variant stands for the whole style; an empty list is not found.
func MapVariants(code string, variants []domain.VariantRecord) *domain.ValidationResult {
	if len(variants) == 0 {
		return domain.NotFoundResult(code, "")
	}

	first := variants[0]
	return &domain.ValidationResult{
		Code:         code,
		Kind:         domain.KindFound,
		Exists:       true,
		IsNew:        bool(first.IsNew),
		IsBestSeller: bool(first.IsBestSeller),
		Title:        strings.TrimSpace(first.Title),
		Brand:        strings.TrimSpace(first.Brand),
		Category:     strings.TrimSpace(first.Category),
		Status:       statusOrUnknown(first.Status),
	}
}

// MapSearch converts a search answer into a validation result.
// Only an exact, case-insensitive style match on the top hit counts as found;
// a different style sharing the prefix is rejected.
func MapSearch(code string, resp *domain.SearchResponse) *domain.ValidationResult {
	if resp == nil || len(resp.Products) == 0 {
		return domain.NotFoundResult(code, "")
	}

	top := resp.Products[0]
	if !strings.EqualFold(strings.TrimSpace(top.Style), strings.TrimSpace(code)) {
		return domain.NotFoundResult(code, fmt.Sprintf("partial match only: %s", top.Style))
	}

	return &domain.ValidationResult{
		Code:         code,
		Kind:         domain.KindFound,
		Exists:       true,
		IsNew:        bool(top.IsNew),
		IsBestSeller: bool(top.IsBestSeller),
		Title:        strings.TrimSpace(top.Title),
		Brand:        strings.TrimSpace(top.Brand),
		Category:     strings.TrimSpace(top.Category),
		Status:       statusOrUnknown(top.Status),
	}
}

func statusOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.StatusUnknown
	}
	return s
}
