package domain

import "fmt"

// LookupMode selects which catalog endpoint validates a style
type LookupMode string

const (
	// ModeLookup uses the product-details endpoint (array of variants)
	ModeLookup LookupMode = "lookup"
	// ModeSearch uses the product search endpoint (wrapper with exact-match check)
	ModeSearch LookupMode = "search"
)

// FlagKind names the catalog flag a reconciliation run checks
type FlagKind string

const (
	FlagNew        FlagKind = "isNew"
	FlagBestSeller FlagKind = "isBestSeller"
)

// Profile describes one reconciliation job: which dataset, which endpoint,
// and which flag the operator wants set on every listed product.
type Profile struct {
	Name              string
	Title             string
	Dataset           string
	GroupingColumn    string
	Mode              LookupMode
	Flag              FlagKind
	OutputPrefix      string
	DecorationMethods map[string]string
}

// Flagged reports whether the result carries the profile's flag
func (p Profile) Flagged(r *ValidationResult) bool {
	if r == nil {
		return false
	}
	switch p.Flag {
	case FlagNew:
		return r.IsNew
	case FlagBestSeller:
		return r.IsBestSeller
	}
	return false
}

// FlagLabel is the human-readable name of the profile's flag
func (p Profile) FlagLabel() string {
	if p.Flag == FlagNew {
		return "new"
	}
	return "best sellers"
}

var profiles = map[string]Profile{
	"top-sellers": {
		Name:           "top-sellers",
		Title:          "TOP SELLERS VALIDATION REPORT",
		Dataset:        "top_sellers.csv",
		GroupingColumn: "Order Type",
		Mode:           ModeSearch,
		Flag:           FlagBestSeller,
		OutputPrefix:   "top_sellers",
		DecorationMethods: map[string]string{
			"Screenprinting":    "screenprint",
			"Custom Embroidery": "embroidery",
			"Cap Order":         "caps",
		},
	},
	"new-products": {
		Name:           "new-products",
		Title:          "NEW PRODUCTS VALIDATION REPORT",
		Dataset:        "new_products.csv",
		GroupingColumn: "Category",
		Mode:           ModeLookup,
		Flag:           FlagNew,
		OutputPrefix:   "new_products",
	},
}

// LookupProfile returns the named profile
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (want top-sellers or new-products)", name)
	}
	return p, nil
}

// ProfileNames lists the known profiles
func ProfileNames() []string {
	return []string{"new-products", "top-sellers"}
}
