package nodes

import (
	"context"
	"fmt"
	"strings"

	"computerx_chatbot/internal/core"
	"computerx_chatbot/internal/services"
	"computerx_chatbot/internal/textutil"
	"computerx_chatbot/pkg"
)

// Catalog is the product lookup surface the catalog rules need.
// *services.ProductService implements it.
type Catalog interface {
	AllProducts() []pkg.Product
	FindByKeyword(keyword string) []pkg.Product
	UniqueCategories() []string
	AllProductNames() []string
	Resolve(keyword string) services.Resolution
}

// Lead-in phrases stripped from the input to get the search keyword
var (
	listingLeadIns      = []string{"show me", "list all", "see all", "show", "list", "see"}
	priceLeadIns        = []string{"what is the price of", "price of"}
	stockLeadIns        = []string{"is", "are", "in stock", "available"}
	availabilityLeadIns = []string{"do you have", "any"}
)

// allKeywords ask for the whole catalog
var allKeywords = []string{"all", "all items", "all products", "everything"}

const (
	listingSeparator   = "\n---\n"
	clarifyListing     = "What kind of products are you looking for? For example: 'show me laptops'."
	stockStatusInStock = "in stock"
)

// ListingReply renders the products matching keyword, or the whole catalog when the
// keyword asks for everything.
func ListingReply(catalog Catalog, keyword string) string {
	if keyword == "" {
		return clarifyListing
	}

	if textutil.EqualsAny(strings.ToLower(keyword), allKeywords...) {
		return "Here are all the products we have:\n" + joinProducts(catalog.AllProducts())
	}

	found := catalog.FindByKeyword(keyword)
	if len(found) == 0 {
		return fmt.Sprintf("Sorry, I couldn't find any products matching '%s'.", keyword)
	}
	return fmt.Sprintf("Here's what I found for '%s':\n", keyword) + joinProducts(found)
}

func joinProducts(products []pkg.Product) string {
	rendered := make([]string, 0, len(products))
	for _, product := range products {
		rendered = append(rendered, product.String())
	}
	return strings.Join(rendered, listingSeparator)
}

// PriceReply resolves keyword to one product and quotes its price
func PriceReply(catalog Catalog, keyword string) string {
	return resolveReply(catalog, keyword, func(p pkg.Product) string {
		return fmt.Sprintf("The price of the %s is $%.2f.", p.Name, p.Price)
	})
}

// StockReply resolves keyword to one product and reports its stock status
func StockReply(catalog Catalog, keyword string) string {
	return resolveReply(catalog, keyword, func(p pkg.Product) string {
		if strings.EqualFold(p.Stock, stockStatusInStock) {
			return fmt.Sprintf("The %s is in stock.", p.Name)
		}
		return fmt.Sprintf("The %s is currently out of stock.", p.Name)
	})
}

func resolveReply(catalog Catalog, keyword string, unique func(pkg.Product) string) string {
	res := catalog.Resolve(keyword)
	switch res.Status {
	case services.Unique:
		return unique(res.Product)
	case services.Ambiguous:
		return fmt.Sprintf("I found multiple products matching '%s': %s... Can you be more specific?",
			keyword, strings.Join(res.Candidates, ", "))
	default:
		return fmt.Sprintf("Sorry, I couldn't find a product named '%s'.", keyword)
	}
}

// CatalogMetaRule answers questions about the categories and product names on offer
type CatalogMetaRule struct {
	catalog Catalog
}

// NewCatalogMetaRule creates the catalog meta rule
func NewCatalogMetaRule(catalog Catalog) *CatalogMetaRule {
	return &CatalogMetaRule{catalog: catalog}
}

func (r *CatalogMetaRule) GetName() string { return "catalog_meta" }

func (r *CatalogMetaRule) GetType() core.RuleType { return core.RuleTypeCatalog }

func asksCategories(s string) bool { return strings.Contains(s, "categor") }

func asksProductNames(s string) bool { return textutil.ContainsAny(s, "product names", "item names") }

func (r *CatalogMetaRule) Match(input core.RuleInput) bool {
	return asksCategories(input.Normalized) || asksProductNames(input.Normalized)
}

func (r *CatalogMetaRule) Execute(ctx context.Context, input core.RuleInput) (pkg.Response, error) {
	if asksCategories(input.Normalized) {
		msg := fmt.Sprintf("We have the following product categories: %s.", strings.Join(r.catalog.UniqueCategories(), ", "))
		return pkg.NewResponse(msg, pkg.MoodNormal, false), nil
	}
	msg := fmt.Sprintf("Here are all the product names we have: %s.", strings.Join(r.catalog.AllProductNames(), ", "))
	return pkg.NewResponse(msg, pkg.MoodNormal, false), nil
}

// ListingRule handles "show", "list" and "see" requests
type ListingRule struct {
	catalog Catalog
}

// NewListingRule creates the listing rule
func NewListingRule(catalog Catalog) *ListingRule {
	return &ListingRule{catalog: catalog}
}

func (r *ListingRule) GetName() string { return "listing" }

func (r *ListingRule) GetType() core.RuleType { return core.RuleTypeCatalog }

func (r *ListingRule) Match(input core.RuleInput) bool {
	return textutil.ContainsAny(input.Normalized, "show", "list", "see")
}

func (r *ListingRule) Execute(ctx context.Context, input core.RuleInput) (pkg.Response, error) {
	keyword := textutil.ExtractKeyword(input.Normalized, listingLeadIns...)
	return pkg.NewResponse(ListingReply(r.catalog, keyword), pkg.MoodNormal, false), nil
}

// PriceRule handles "price of ..." questions
type PriceRule struct {
	catalog Catalog
}

// NewPriceRule creates the price rule
func NewPriceRule(catalog Catalog) *PriceRule {
	return &PriceRule{catalog: catalog}
}

func (r *PriceRule) GetName() string { return "price" }

func (r *PriceRule) GetType() core.RuleType { return core.RuleTypeCatalog }

func (r *PriceRule) Match(input core.RuleInput) bool {
	return textutil.HasAnyPrefix(input.Normalized, "price of", "what is the price of")
}

func (r *PriceRule) Execute(ctx context.Context, input core.RuleInput) (pkg.Response, error) {
	keyword := textutil.ExtractKeyword(input.Normalized, priceLeadIns...)
	return pkg.NewResponse(PriceReply(r.catalog, keyword), pkg.MoodNormal, false), nil
}

// StockRule handles "is X in stock" and "is X available" questions
type StockRule struct {
	catalog Catalog
}

// NewStockRule creates the stock rule
func NewStockRule(catalog Catalog) *StockRule {
	return &StockRule{catalog: catalog}
}

func (r *StockRule) GetName() string { return "stock" }

func (r *StockRule) GetType() core.RuleType { return core.RuleTypeCatalog }

func (r *StockRule) Match(input core.RuleInput) bool {
	return textutil.ContainsAny(input.Normalized, "in stock", "available")
}

func (r *StockRule) Execute(ctx context.Context, input core.RuleInput) (pkg.Response, error) {
	keyword := textutil.ExtractKeyword(input.Normalized, stockLeadIns...)
	return pkg.NewResponse(StockReply(r.catalog, keyword), pkg.MoodNormal, false), nil
}

// AvailabilityRule handles "do you have ..." and "any ..." questions with a listing
type AvailabilityRule struct {
	catalog Catalog
}

// NewAvailabilityRule creates the availability rule
func NewAvailabilityRule(catalog Catalog) *AvailabilityRule {
	return &AvailabilityRule{catalog: catalog}
}

func (r *AvailabilityRule) GetName() string { return "availability" }

func (r *AvailabilityRule) GetType() core.RuleType { return core.RuleTypeCatalog }

func (r *AvailabilityRule) Match(input core.RuleInput) bool {
	return textutil.ContainsAny(input.Normalized, "do you have", "any")
}

func (r *AvailabilityRule) Execute(ctx context.Context, input core.RuleInput) (pkg.Response, error) {
	keyword := textutil.ExtractKeyword(input.Normalized, availabilityLeadIns...)
	return pkg.NewResponse(ListingReply(r.catalog, keyword), pkg.MoodNormal, false), nil
}
