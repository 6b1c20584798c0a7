package http

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Fault names understood by the stub catalog
const (
	FaultRateLimit = "rate_limit"
	FaultServer    = "server_error"
	FaultSlow      = "slow"
)

// FixtureProduct is one style served by the stub catalog
type FixtureProduct struct {
	Style        string `json:"style"`
	Title        string `json:"title"`
	Brand        string `json:"brand"`
	Category     string `json:"category"`
	Status       string `json:"status"`
	IsNew        bool   `json:"isNew"`
	IsBestSeller bool   `json:"isBestSeller"`
}

// Fixture is the stub catalog's data set. Faults map a style to a failure
// the stub returns for that style, for rehearsing retry paths offline.
type Fixture struct {
	Products []FixtureProduct  `json:"products"`
	Faults   map[string]string `json:"faults"`
}

// LoadFixture reads a fixture from a JSON file. An empty path returns DefaultFixture.
func LoadFixture(path string) (*Fixture, error) {
	if path == "" {
		return DefaultFixture(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", path, err)
	}
	return &f, nil
}

// DefaultFixture covers a sample of the embedded datasets, with one unknown
// style left out on purpose in each.
func DefaultFixture() *Fixture {
	return &Fixture{
		Products: []FixtureProduct{
			{Style: "C112", Title: "Port Authority Snapback Trucker Cap", Brand: "Port Authority", Category: "Caps", Status: "Active", IsBestSeller: true},
			{Style: "C110", Title: "Port Authority Flexfit 110 Mesh Cap", Brand: "Port Authority", Category: "Caps", Status: "Active"},
			{Style: "PC54", Title: "Port & Company Core Cotton Tee", Brand: "Port & Company", Category: "T-Shirts", Status: "Active", IsBestSeller: true},
			{Style: "PC55P", Title: "Port & Company Core Blend Pocket Tee", Brand: "Port & Company", Category: "T-Shirts", Status: "Active"},
			{Style: "PC61", Title: "Port & Company Essential Tee", Brand: "Port & Company", Category: "T-Shirts", Status: "Discontinued"},
			{Style: "PC78H", Title: "Port & Company Core Fleece Pullover Hooded Sweatshirt", Brand: "Port & Company", Category: "Sweatshirts/Fleece", Status: "Active"},
			{Style: "ST850", Title: "Sport-Tek Sport-Wick Stretch 1/4-Zip Pullover", Brand: "Sport-Tek", Category: "Sweatshirts/Fleece", Status: "Active", IsNew: true},
			{Style: "NE1000", Title: "New Era Structured Stretch Cotton Cap", Brand: "New Era", Category: "Caps", Status: "Active"},
			{Style: "EB120", Title: "Eddie Bauer Adventurer 1/4-Zip", Brand: "Eddie Bauer", Category: "Outerwear", Status: "Active", IsNew: true},
			{Style: "EB121", Title: "Eddie Bauer Women's Adventurer Full-Zip", Brand: "Eddie Bauer", Category: "Outerwear", Status: "Active"},
			{Style: "DT620", Title: "District Snapback Flat Bill Cap", Brand: "District", Category: "Caps", Status: "Active", IsNew: true},
			{Style: "CT104670", Title: "Carhartt Storm Defender Shoreline Jacket", Brand: "Carhartt", Category: "Outerwear", Status: "Active", IsBestSeller: true},
			{Style: "CT103828", Title: "Carhartt Duck Detroit Jacket", Brand: "Carhartt", Category: "Outerwear", Status: "Active"},
			{Style: "NF0A7V85", Title: "The North Face Ladies Ridgewall Soft Shell Vest", Brand: "The North Face", Category: "Outerwear", Status: "Active"},
			{Style: "BB18200", Title: "Brooks Brothers Non-Iron Stretch Long Sleeve Shirt", Brand: "Brooks Brothers", Category: "Woven Shirts", Status: "Active", IsNew: true},
		},
		Faults: map[string]string{},
	}
}

// catalogStore indexes a fixture for lookups
type catalogStore struct {
	mu      sync.RWMutex
	byStyle map[string]FixtureProduct
	ordered []FixtureProduct
	faults  map[string]string
}

func newCatalogStore(f *Fixture) *catalogStore {
	s := &catalogStore{
		byStyle: make(map[string]FixtureProduct, len(f.Products)),
		faults:  make(map[string]string, len(f.Faults)),
	}
	for _, p := range f.Products {
		s.byStyle[strings.ToUpper(p.Style)] = p
	}
	for style, fault := range f.Faults {
		s.faults[strings.ToUpper(style)] = fault
	}
	s.ordered = append(s.ordered, f.Products...)
	sort.Slice(s.ordered, func(i, j int) bool { return s.ordered[i].Style < s.ordered[j].Style })
	return s
}

func (s *catalogStore) get(style string) (FixtureProduct, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byStyle[strings.ToUpper(strings.TrimSpace(style))]
	return p, ok
}

func (s *catalogStore) fault(style string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.faults[strings.ToUpper(strings.TrimSpace(style))]
}

// search returns up to limit products whose style starts with the query,
// exact matches first
func (s *catalogStore) search(query string, limit int) []FixtureProduct {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToUpper(strings.TrimSpace(query))
	var hits []FixtureProduct
	if p, ok := s.byStyle[q]; ok {
		hits = append(hits, p)
	}
	for _, p := range s.ordered {
		if len(hits) >= limit {
			break
		}
		style := strings.ToUpper(p.Style)
		if style != q && strings.HasPrefix(style, q) {
			hits = append(hits, p)
		}
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
