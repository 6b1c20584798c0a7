package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexBool decodes catalog flags that arrive as JSON booleans, the strings
// "true"/"false", or the numbers 0/1. Anything else decodes as false.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}

	switch data[0] {
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*b = FlexBool(v)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseBool(strings.TrimSpace(s))
		*b = FlexBool(err == nil && v)
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		*b = FlexBool(err == nil && n != 0)
	}
	return nil
}

// VariantRecord is one color variant returned by the product-details endpoint
type VariantRecord struct {
	IsNew        FlexBool `json:"isNew"`
	IsBestSeller FlexBool `json:"isBestSeller"`
	Title        string   `json:"PRODUCT_TITLE"`
	Brand        string   `json:"BRAND_NAME"`
	Category     string   `json:"CATEGORY_NAME"`
	Status       string   `json:"PRODUCT_STATUS"`
}

// SearchProduct is one hit returned by the product search endpoint
type SearchProduct struct {
	Style        string   `json:"style"`
	IsNew        FlexBool `json:"isNew"`
	IsBestSeller FlexBool `json:"isBestSeller"`
	Title        string   `json:"title"`
	Brand        string   `json:"brand"`
	Category     string   `json:"category"`
	Status       string   `json:"status"`
}

// SearchResponse wraps the product search endpoint's hits
type SearchResponse struct {
	Products []SearchProduct `json:"products"`
}
