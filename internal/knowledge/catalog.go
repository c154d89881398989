package knowledge

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"computerx_chatbot/internal/logger"
	"computerx_chatbot/pkg"
)

// Catalog columns, in file order. The attributes column is optional.
const (
	colCategory = iota
	colName
	colBrand
	colPrice
	colStock
	colDescription
	colAttributes

	minCatalogColumns = colDescription + 1
)

// LoadCatalogFile loads the product catalog from a CSV file
func (s *Store) LoadCatalogFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer file.Close()

	return s.LoadCatalog(file)
}

// LoadCatalog parses a CSV catalog with a header row and the columns
// category,name,brand,price,stock,description[,attributes]. Bad rows are skipped and
// reported in the returned error; every good row is kept.
func (s *Store) LoadCatalog(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var (
		products []pkg.Product
		rowErrs  []error
		header   = true
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				logger.Warn().Err(err).Int("line", parseErr.Line).Msg("Skipping unreadable catalog row")
				rowErrs = append(rowErrs, err)
				continue
			}
			rowErrs = append(rowErrs, fmt.Errorf("read catalog: %w", err))
			break
		}
		if header {
			header = false
			continue
		}

		line, _ := reader.FieldPos(0)
		product, err := parseProduct(record)
		if err != nil {
			logger.Warn().Err(err).Int("line", line).Msg("Skipping malformed catalog row")
			rowErrs = append(rowErrs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		products = append(products, product)
	}

	s.products = products
	logger.Info().Int("products", len(products)).Int("skipped", len(rowErrs)).Msg("Loaded product catalog")

	return errors.Join(rowErrs...)
}

func parseProduct(record []string) (pkg.Product, error) {
	if len(record) < minCatalogColumns {
		return pkg.Product{}, fmt.Errorf("expected at least %d columns, got %d", minCatalogColumns, len(record))
	}

	priceField := strings.TrimSpace(record[colPrice])
	price, err := strconv.ParseFloat(priceField, 64)
	if err != nil {
		return pkg.Product{}, fmt.Errorf("invalid price %q: %w", priceField, err)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return pkg.Product{}, fmt.Errorf("invalid price %q: not a finite number", priceField)
	}
	if price < 0 {
		return pkg.Product{}, fmt.Errorf("negative price %q", priceField)
	}

	product := pkg.Product{
		Category:    strings.TrimSpace(record[colCategory]),
		Name:        cleanField(record[colName]),
		Brand:       strings.TrimSpace(record[colBrand]),
		Price:       price,
		Stock:       strings.TrimSpace(record[colStock]),
		Description: cleanField(record[colDescription]),
		Attributes:  map[string]string{},
	}
	if len(record) > colAttributes {
		product.Attributes = parseAttributes(record[colAttributes])
	}
	return product, nil
}

// parseAttributes reads "key:value;key:value". Pairs without a colon are dropped and
// a repeated key keeps its last value.
func parseAttributes(field string) map[string]string {
	attributes := make(map[string]string)
	for _, pair := range strings.Split(cleanField(field), ";") {
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		attributes[key] = strings.TrimSpace(value)
	}
	return attributes
}

// cleanField trims a field and drops stray quotes left by lazy quoting
func cleanField(field string) string {
	return strings.TrimSpace(strings.ReplaceAll(field, `"`, ""))
}
