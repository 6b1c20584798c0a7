package usecase

import "strings"

// styleSeparator joins a base style to its size or variant suffix, as in "C112_OSFA"
const styleSeparator = "_"

// UnknownVendor is reported when no prefix rule matches a style
const UnknownVendor = "Unknown"

// SplitStyle separates a raw style number into its base code and variant suffix.
// Only the first separator splits, so "A_B_C" yields ("A", "B_C").
func SplitStyle(raw string) (base, suffix string) {
	if before, after, found := strings.Cut(raw, styleSeparator); found {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return strings.TrimSpace(raw), ""
}

// vendorRule maps a style prefix predicate to a vendor label
type vendorRule struct {
	vendor string
	match  func(style string) bool
}

func prefix(p string) func(string) bool {
	return func(s string) bool { return strings.HasPrefix(s, p) }
}

// vendorRules is evaluated in order and the first match wins. Shorter prefixes
// that share a first letter with longer ones ("C" vs "CT", "S" vs "ST") must
// either exclude the longer prefix or come after it.
var vendorRules = []vendorRule{
	{"Port & Company", prefix("PC")},
	{"Bella+Canvas", prefix("BC")},
	{"Port Authority", func(s string) bool {
		return strings.HasPrefix(s, "C") && !strings.HasPrefix(s, "CT") && !strings.HasPrefix(s, "CS")
	}},
	{"Carhartt", prefix("CT")},
	{"District", prefix("DT")},
	{"Eddie Bauer", prefix("EB")},
	{"New Era", prefix("NE")},
	{"Nike", prefix("NK")},
	{"Sport-Tek", prefix("ST")},
	{"TravisMathew", prefix("TM")},
	{"Port Authority", prefix("S")},
	{"The North Face", prefix("NF")},
	{"Brooks Brothers", prefix("BB")},
	{"OGIO", prefix("OG")},
	{"CornerStone", prefix("CS")},
}

// DetectVendor guesses the manufacturer from a base style's prefix
func DetectVendor(base string) string {
	style := strings.ToUpper(strings.TrimSpace(base))
	for _, rule := range vendorRules {
		if rule.match(style) {
			return rule.vendor
		}
	}
	return UnknownVendor
}
