package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"storefront/internal/repository/product"
)

// CSVImporter reads product CSV files and inserts/updates rows of the
// products table.
//
// A row with a title starts a product. Rows without a title that carry
// field.* columns add customization fields to the product above them.
type CSVImporter struct {
	reader *csv.Reader
	writer product.Writer
	logger *zap.Logger
}

func NewCSVImporter(r io.Reader, w product.Writer, logger *zap.Logger) *CSVImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader: csvr,
		writer: w,
		logger: logger.Named("importer"),
	}
}

type csvRow struct {
	line          int
	ID            string
	Title         string
	Price         string
	OriginalPrice string
	ImageURL      string
	Category      string
	Description   string
	InStock       string
	Fields        []map[string]string
}

// Run parses CSV rows and upserts one product per title row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["title"]; !ok {
		return 0, errors.New("missing title column")
	}

	var (
		current  *csvRow
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)

		row := parseRow(record, index, line)
		if row == nil {
			continue
		}

		if row.Title != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (customization fields) belong to the current product.
		if current != nil {
			current.Fields = append(current.Fields, row.Fields...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	i.logger.Info("import finished", zap.Int("products", imported))
	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	out, err := row.toProductRow()
	if err != nil {
		return fmt.Errorf("line %d (%q): %w", row.line, row.Title, err)
	}

	saved, err := i.writer.Upsert(ctx, out)
	if err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Title, err)
	}
	i.logger.Debug("imported product", zap.String("id", saved.ID), zap.String("title", row.Title))
	return nil
}

func (r *csvRow) toProductRow() (product.Row, error) {
	if r.Category == "" {
		return product.Row{}, errors.New("category required")
	}
	if r.ID != "" {
		if _, err := uuid.Parse(r.ID); err != nil {
			return product.Row{}, fmt.Errorf("invalid id %q", r.ID)
		}
	}

	price, err := parsePrice(r.Price)
	if err != nil {
		return product.Row{}, fmt.Errorf("price: %w", err)
	}
	out := product.Row{
		ID:          r.ID,
		Title:       r.Title,
		Price:       price,
		ImageURL:    r.ImageURL,
		Category:    r.Category,
		Description: r.Description,
		InStock:     true,
	}

	if r.OriginalPrice != "" {
		orig, err := parsePrice(r.OriginalPrice)
		if err != nil {
			return product.Row{}, fmt.Errorf("original_price: %w", err)
		}
		out.OriginalPrice = decimal.NewNullDecimal(orig)
	}
	if r.InStock != "" {
		inStock, err := strconv.ParseBool(r.InStock)
		if err != nil {
			return product.Row{}, fmt.Errorf("in_stock: %w", err)
		}
		out.InStock = inStock
	}
	if len(r.Fields) > 0 {
		raw, err := json.Marshal(r.Fields)
		if err != nil {
			return product.Row{}, fmt.Errorf("customization fields: %w", err)
		}
		out.IsCustomizable = true
		out.CustomizationFields = raw
	}
	return out, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, errors.New("required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative value %s", s)
	}
	return d, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, line int) *csvRow {
	row := &csvRow{
		line:          line,
		ID:            pick(record, index, "id"),
		Title:         pick(record, index, "title"),
		Price:         pick(record, index, "price"),
		OriginalPrice: pick(record, index, "original_price"),
		ImageURL:      pick(record, index, "image_url"),
		Category:      pick(record, index, "category"),
		Description:   pick(record, index, "description"),
		InStock:       pick(record, index, "in_stock"),
	}

	field := map[string]string{}
	for _, attr := range []string{"name", "label", "type", "placeholder"} {
		if v := pick(record, index, "field."+attr); v != "" {
			field[attr] = v
		}
	}
	if field["name"] != "" {
		row.Fields = []map[string]string{field}
	}

	if row.Title == "" && len(row.Fields) == 0 {
		return nil
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
