package services

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"computerx_chatbot/internal/textutil"
	"computerx_chatbot/pkg"
)

// MaxCandidates is how many names an ambiguous lookup lists
const MaxCandidates = 5

// CatalogSource provides the loaded products
type CatalogSource interface {
	Products() []pkg.Product
}

// ResolutionStatus is the outcome of resolving a keyword to a single product
type ResolutionStatus int

const (
	NotFound ResolutionStatus = iota
	Unique
	Ambiguous
)

// Resolution applies the disambiguation policy shared by price and stock lookups
type Resolution struct {
	Status     ResolutionStatus
	Product    pkg.Product // set when Status is Unique
	Candidates []string    // up to MaxCandidates names when Status is Ambiguous
}

// ProductService handles product operations over the catalog
type ProductService struct {
	source CatalogSource
}

// NewProductService creates a service over the given catalog
func NewProductService(source CatalogSource) *ProductService {
	return &ProductService{source: source}
}

// AllProducts returns the whole catalog in catalog order
func (ps *ProductService) AllProducts() []pkg.Product {
	return ps.source.Products()
}

// FindByKeyword returns every product matching keyword, in catalog order. A product
// matches when the keyword is a substring of its name, brand, description or any
// attribute value, or when its category and the keyword contain one another.
func (ps *ProductService) FindByKeyword(keyword string) []pkg.Product {
	query := strings.ToLower(keyword)

	var results []pkg.Product
	for _, product := range ps.source.Products() {
		if matches(product, query) {
			results = append(results, product)
		}
	}
	return results
}

func matches(product pkg.Product, query string) bool {
	category := strings.ToLower(product.Category)
	// an empty category would be contained in every query
	if category != "" && (strings.Contains(category, query) || strings.Contains(query, category)) {
		return true
	}
	if strings.Contains(strings.ToLower(product.Name), query) ||
		strings.Contains(strings.ToLower(product.Brand), query) ||
		strings.Contains(strings.ToLower(product.Description), query) {
		return true
	}
	for _, value := range product.Attributes {
		if strings.Contains(strings.ToLower(value), query) {
			return true
		}
	}
	return false
}

// UniqueCategories returns the distinct capitalized non-empty categories. The result is a set;
// it is sorted only so that replies are stable.
func (ps *ProductService) UniqueCategories() []string {
	seen := make(map[string]struct{})
	for _, product := range ps.source.Products() {
		if strings.TrimSpace(product.Category) == "" {
			continue
		}
		seen[textutil.Capitalize(product.Category)] = struct{}{}
	}

	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// AllProductNames returns every product name in catalog order
func (ps *ProductService) AllProductNames() []string {
	products := ps.source.Products()
	names := make([]string, 0, len(products))
	for _, product := range products {
		names = append(names, product.Name)
	}
	return names
}

// Resolve searches for keyword and classifies the result as not found, a unique
// product or an ambiguous set of candidates.
func (ps *ProductService) Resolve(keyword string) Resolution {
	found := ps.FindByKeyword(keyword)
	switch len(found) {
	case 0:
		return Resolution{Status: NotFound}
	case 1:
		return Resolution{Status: Unique, Product: found[0]}
	}

	limit := min(len(found), MaxCandidates)
	candidates := make([]string, 0, limit)
	for _, product := range found[:limit] {
		candidates = append(candidates, product.Name)
	}
	return Resolution{Status: Ambiguous, Candidates: candidates}
}

// Suggest returns up to limit product names that fuzzily match keyword, best first.
// It is meant for "did you mean" hints after a search came back empty.
func (ps *ProductService) Suggest(keyword string, limit int) []string {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || limit <= 0 {
		return nil
	}

	matches := fuzzy.Find(keyword, ps.AllProductNames())
	suggestions := make([]string, 0, min(len(matches), limit))
	for _, m := range matches {
		if len(suggestions) == limit {
			break
		}
		suggestions = append(suggestions, m.Str)
	}
	return suggestions
}
