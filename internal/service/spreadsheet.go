package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/viastore/viastore/internal/domain"
	"github.com/viastore/viastore/internal/repository"
)

const stockSheet = "Stock"

var (
	importHeaders = []string{"Name", "SKU", "Quantity", "Warehouse"}
	exportHeaders = []string{"Name", "SKU", "Quantity", "Warehouse", "Location"}
	colWidths     = []float64{32, 18, 10, 24, 28}
)

type SpreadsheetRepository interface {
	ImportRows(ctx context.Context, rows []domain.ImportRow, reference string) ([]domain.StockMovement, error)
	ListItems(ctx context.Context) ([]domain.ItemDetail, error)
}

// SpreadsheetService moves stock data in and out of xlsx workbooks.
type SpreadsheetService struct {
	repo      SpreadsheetRepository
	publisher StockPublisher
}

func NewSpreadsheetService(repo SpreadsheetRepository, publisher StockPublisher) *SpreadsheetService {
	return &SpreadsheetService{
		repo:      repo,
		publisher: publisher,
	}
}

// Import applies the first sheet of the workbook. Row 1 is a header. Each
// data row is name, SKU, quantity and warehouse name; rows with fewer cells
// are skipped. Quantities replace the stored ones. The first bad row aborts
// the whole import. Returns the number of rows applied.
func (s *SpreadsheetService) Import(ctx context.Context, r io.Reader, reference string) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return 0, ErrUnreadableWorkbook
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("f.GetRows -> %w", err)
	}

	rows, err := ParseImportRows(cells)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	movements, err := s.repo.ImportRows(ctx, rows, reference)
	if err != nil {
		return 0, fmt.Errorf("s.repo.ImportRows -> %w", err)
	}

	s.publishMovements(ctx, movements)

	zap.L().Info("stock imported",
		zap.String("reference", reference),
		zap.Int("rows", len(rows)),
		zap.Int("changed", len(movements)),
	)

	return len(rows), nil
}

// ParseImportRows validates the raw cell grid of an import sheet.
func ParseImportRows(cells [][]string) ([]domain.ImportRow, error) {
	var rows []domain.ImportRow

	for i, cell := range cells {
		if i == 0 || len(cell) < len(importHeaders) || blank(cell) {
			continue
		}

		row, err := parseImportRow(i+1, cell)
		if err != nil {
			return nil, &RowError{Line: i + 1, Err: err}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseImportRow(line int, cell []string) (domain.ImportRow, error) {
	row := domain.ImportRow{
		Line:          line,
		Name:          strings.TrimSpace(cell[0]),
		SKU:           strings.TrimSpace(cell[1]),
		WarehouseName: strings.TrimSpace(cell[3]),
	}

	switch {
	case row.Name == "":
		return row, fmt.Errorf("%w: name is empty", ErrInvalidImportRow)
	case row.SKU == "":
		return row, fmt.Errorf("%w: SKU is empty", ErrInvalidImportRow)
	case row.WarehouseName == "":
		return row, fmt.Errorf("%w: warehouse is empty", ErrInvalidImportRow)
	case utf8.RuneCountInString(row.Name) > maxItemNameLength:
		return row, fmt.Errorf("%w: name is longer than %d characters", ErrInvalidImportRow, maxItemNameLength)
	case utf8.RuneCountInString(row.SKU) > maxSKULength:
		return row, fmt.Errorf("%w: SKU is longer than %d characters", ErrInvalidImportRow, maxSKULength)
	case utf8.RuneCountInString(row.WarehouseName) > maxWarehouseNameLen:
		return row, fmt.Errorf("%w: warehouse is longer than %d characters", ErrInvalidImportRow, maxWarehouseNameLen)
	}

	qty, err := parseQuantity(cell[2])
	if err != nil {
		return row, err
	}
	row.Quantity = qty

	return row, nil
}

// parseQuantity accepts whole numbers, also when a spreadsheet stored them
// as floats ("12.0").
func parseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)

	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, fmt.Errorf("%w: quantity %q is not a whole number", ErrInvalidImportRow, raw)
		}
		n = int(f)
	}

	if n < 0 {
		return 0, fmt.Errorf("%w: quantity %d is negative", ErrInvalidImportRow, n)
	}
	if n > domain.MaxQuantity {
		return 0, fmt.Errorf("%w: quantity %d is too large", ErrInvalidImportRow, n)
	}

	return n, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}

// Export writes the stock listing as a single "Stock" sheet.
func (s *SpreadsheetService) Export(ctx context.Context, w io.Writer) error {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("s.repo.ListItems -> %w", err)
	}

	f, err := newWorkbook(exportHeaders)
	if err != nil {
		return err
	}
	defer f.Close()

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
		}
		values := []interface{}{item.Name, item.SKU, item.Quantity, item.WarehouseName, item.WarehouseLocation}
		if err = f.SetSheetRow(stockSheet, cell, &values); err != nil {
			return fmt.Errorf("f.SetSheetRow -> %w", err)
		}
	}

	if err = f.Write(w); err != nil {
		return fmt.Errorf("f.Write -> %w", err)
	}

	return nil
}

// Template writes an empty workbook carrying the import header row.
func (s *SpreadsheetService) Template(w io.Writer) error {
	f, err := newWorkbook(importHeaders)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = f.Write(w); err != nil {
		return fmt.Errorf("f.Write -> %w", err)
	}

	return nil
}

func newWorkbook(headers []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", stockSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("f.SetSheetName -> %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("f.NewStyle -> %w", err)
	}

	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(stockSheet, cell, h)
		f.SetCellStyle(stockSheet, cell, cell, bold)
		if i < len(colWidths) {
			f.SetColWidth(stockSheet, col, col, colWidths[i])
		}
	}

	return f, nil
}

func (s *SpreadsheetService) publishMovements(ctx context.Context, movements []domain.StockMovement) {
	if s.publisher == nil || len(movements) == 0 {
		return
	}

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		zap.L().Warn("import events skipped", zap.Error(err))
		return
	}

	byID := make(map[uint]domain.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item.Item
	}

	for _, m := range movements {
		item, ok := byID[m.ItemID]
		if !ok {
			continue
		}
		s.publisher.Publish(stockEvent(item, m))
	}
}

// IsImportRejection reports whether err came from bad sheet content rather
// than a failing store.
func IsImportRejection(err error) bool {
	var rowErr *RowError
	if errors.As(err, &rowErr) {
		return true
	}

	return errors.Is(err, ErrInvalidImportRow) || errors.Is(err, ErrUnreadableWorkbook) ||
		errors.Is(err, ErrDuplicateSKU) || errors.Is(err, repository.ErrSKUExists)
}
