package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"

	"computerx_chatbot/internal/logger"
)

// CatalogQuery is the argument every catalog tool takes
type CatalogQuery struct {
	Keyword string `json:"keyword" jsonschema:"description=product name or brand or category to look for"`
}

func (q CatalogQuery) keyword() string {
	return strings.TrimSpace(q.Keyword)
}

// ProductSearchTool lists the products matching a keyword, with the same wording as
// the listing rule
func ProductSearchTool(catalog Catalog) (tool.InvokableTool, error) {
	return utils.InferTool("product_search", "Search the catalog for products matching a keyword",
		func(ctx context.Context, q CatalogQuery) (string, error) {
			logger.Debug().Str("tool", "product_search").Str("keyword", q.keyword()).Msg("Tool invoked")
			return ListingReply(catalog, q.keyword()), nil
		})
}

// PriceLookupTool quotes the price of a single product
func PriceLookupTool(catalog Catalog) (tool.InvokableTool, error) {
	return utils.InferTool("price_lookup", "Look up the price of a specific product",
		func(ctx context.Context, q CatalogQuery) (string, error) {
			logger.Debug().Str("tool", "price_lookup").Str("keyword", q.keyword()).Msg("Tool invoked")
			return PriceReply(catalog, q.keyword()), nil
		})
}

// StockCheckTool reports whether a single product is in stock
func StockCheckTool(catalog Catalog) (tool.InvokableTool, error) {
	return utils.InferTool("stock_check", "Check whether a specific product is in stock",
		func(ctx context.Context, q CatalogQuery) (string, error) {
			logger.Debug().Str("tool", "stock_check").Str("keyword", q.keyword()).Msg("Tool invoked")
			return StockReply(catalog, q.keyword()), nil
		})
}

// CatalogTools returns the catalog lookups as eino tools
func CatalogTools(catalog Catalog) ([]tool.BaseTool, error) {
	builders := []func(Catalog) (tool.InvokableTool, error){
		ProductSearchTool,
		PriceLookupTool,
		StockCheckTool,
	}

	tools := make([]tool.BaseTool, 0, len(builders))
	for _, build := range builders {
		t, err := build(catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to create catalog tool: %w", err)
		}
		tools = append(tools, t)
	}
	return tools, nil
}
