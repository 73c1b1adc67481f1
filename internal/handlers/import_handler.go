package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"admin-service/internal/models"
	"admin-service/internal/repository"
)

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"`
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity     string                 `json:"entity"`
	Version    string                 `json:"version"`
	Columns    []ImportTemplateColumn `json:"columns"`
	SampleData []map[string]string    `json:"sampleData,omitempty"`
}

// ImportRowError represents an error for a specific row
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Success      bool             `json:"success"`
	TotalRows    int              `json:"totalRows"`
	SuccessCount int              `json:"successCount"`
	FailedCount  int              `json:"failedCount"`
	SkippedCount int              `json:"skippedCount"`
	Errors       []ImportRowError `json:"errors,omitempty"`
	CreatedIDs   []string         `json:"createdIds,omitempty"`
}

// ImportHandler handles product bulk import from CSV/XLSX files.
type ImportHandler struct {
	products repository.ProductRepository
}

func NewImportHandler(products repository.ProductRepository) *ImportHandler {
	return &ImportHandler{products: products}
}

// ProductImportTemplate returns the template for products
func ProductImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "products",
		Version: "1.0",
		Columns: []ImportTemplateColumn{
			{Name: "name", Description: "Product name", Required: true, Type: "string", Example: "Basmati Rice 5kg"},
			{Name: "price", Description: "Selling price", Required: true, Type: "number", Example: "450.00"},
			{Name: "sku", Description: "Unique SKU", Required: false, Type: "string", Example: "RICE-BASM-5KG"},
			{Name: "mrp", Description: "Maximum retail price", Required: false, Type: "number", Example: "499.00"},
			{Name: "stock", Description: "Opening stock", Required: false, Type: "number", Example: "100"},
			{Name: "lowStockThreshold", Description: "Low-stock alert level", Required: false, Type: "number", Example: "10"},
			{Name: "unit", Description: "Unit of sale (kg, g, L, pcs)", Required: false, Type: "string", Example: "kg"},
			{Name: "description", Description: "Product description", Required: false, Type: "string", Example: "Premium long-grain basmati"},
			{Name: "imageUrl", Description: "Product image URL", Required: false, Type: "string", Example: "https://cdn.example.com/rice.jpg"},
		},
		SampleData: []map[string]string{
			{
				"name":              "Basmati Rice 5kg",
				"price":             "450.00",
				"sku":               "RICE-BASM-5KG",
				"mrp":               "499.00",
				"stock":             "100",
				"lowStockThreshold": "10",
				"unit":              "kg",
				"description":       "Premium long-grain basmati",
				"imageUrl":          "",
			},
			{
				"name":              "Desi Ghee 1L",
				"price":             "650.00",
				"sku":               "GHEE-DESI-1L",
				"mrp":               "700.00",
				"stock":             "40",
				"lowStockThreshold": "5",
				"unit":              "L",
				"description":       "Pure cow ghee",
				"imageUrl":          "",
			},
		},
	}
}

// GetProductImportTemplate returns the product import template
// GET /api/v1/products/import/template
func (h *ImportHandler) GetProductImportTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	template := ProductImportTemplate()

	switch format {
	case "csv":
		h.generateCSVTemplate(c, template, "products")
	case "xlsx":
		h.generateXLSXTemplate(c, template, "Products")
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "template": template})
	}
}

func (h *ImportHandler) generateCSVTemplate(c *gin.Context, template ImportTemplate, entity string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_import_template.csv", entity))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	headers := make([]string, len(template.Columns))
	for i, col := range template.Columns {
		headers[i] = col.Name
	}
	writer.Write(headers)

	for _, sample := range template.SampleData {
		row := make([]string, len(template.Columns))
		for i, col := range template.Columns {
			row[i] = sample[col.Name]
		}
		writer.Write(row)
	}
}

func (h *ImportHandler) generateXLSXTemplate(c *gin.Context, template ImportTemplate, sheetName string) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})

	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
	})

	for i, col := range template.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		headerText := col.Name
		if col.Required {
			headerText = col.Name + " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 18)
	}

	for rowIdx, sample := range template.SampleData {
		for colIdx, col := range template.Columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, sample[col.Name])
		}
	}

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_import_template.xlsx", strings.ToLower(sheetName)))

	f.Write(c.Writer)
}

// ImportProducts imports products from a CSV or Excel file
// POST /api/v1/products/import
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "FILE_REQUIRED", "Please upload a CSV or Excel file")
		return
	}
	defer file.Close()

	validateOnly := c.DefaultPostForm("validateOnly", "false") == "true"

	rows, parseErr := h.parseFile(file, header.Filename)
	if parseErr != nil {
		respondError(c, http.StatusBadRequest, "PARSE_ERROR", parseErr.Error())
		return
	}
	if len(rows) == 0 {
		respondError(c, http.StatusBadRequest, "EMPTY_FILE", "The file contains no data rows")
		return
	}

	result := h.processProductRows(c, rows, validateOnly)
	c.JSON(http.StatusOK, result)
}

func (h *ImportHandler) parseFile(file io.Reader, filename string) ([]map[string]string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return h.parseCSV(file)
	} else if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		return h.parseXLSX(file)
	}
	return nil, fmt.Errorf("only CSV and XLSX files are supported")
}

func (h *ImportHandler) parseCSV(file io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	normalizeHeaders(headers)

	var rows []map[string]string
	lineNum := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", lineNum+1, err)
		}

		row := make(map[string]string)
		for i, value := range record {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(lineNum + 1)
		rows = append(rows, row)
		lineNum++
	}

	return rows, nil
}

func (h *ImportHandler) parseXLSX(file io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	excelRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(excelRows) < 2 {
		return nil, fmt.Errorf("file must have a header row and at least one data row")
	}

	headers := excelRows[0]
	normalizeHeaders(headers)

	var rows []map[string]string
	for rowIdx, excelRow := range excelRows[1:] {
		row := make(map[string]string)
		for i, value := range excelRow {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(rowIdx + 2)
		rows = append(rows, row)
	}

	return rows, nil
}

func normalizeHeaders(headers []string) {
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
		headers[i] = strings.TrimSuffix(headers[i], " *")
	}
}

func (h *ImportHandler) processProductRows(c *gin.Context, rows []map[string]string, validateOnly bool) *ImportResult {
	result := &ImportResult{
		TotalRows:  len(rows),
		Errors:     make([]ImportRowError, 0),
		CreatedIDs: make([]string, 0),
	}

	products := make([]*models.Product, 0, len(rows))
	for _, row := range rows {
		rowNum, _ := strconv.Atoi(row["_row"])

		if row["name"] == "" {
			result.Errors = append(result.Errors, ImportRowError{
				Row: rowNum, Column: "name", Code: "REQUIRED_FIELD",
				Message: "Required field 'name' is empty",
			})
			continue
		}
		price, err := strconv.ParseFloat(row["price"], 64)
		if err != nil || price <= 0 {
			result.Errors = append(result.Errors, ImportRowError{
				Row: rowNum, Column: "price", Code: "INVALID_PRICE",
				Message: "Price must be a positive number",
			})
			continue
		}

		product := &models.Product{
			Name:              row["name"],
			SKU:               row["sku"],
			Description:       row["description"],
			Price:             price,
			ImageURL:          row["imageurl"],
			Unit:              row["unit"],
			LowStockThreshold: 5,
			Active:            true,
		}
		if row["mrp"] != "" {
			if mrp, err := strconv.ParseFloat(row["mrp"], 64); err == nil {
				product.MRP = mrp
			}
		}
		if row["stock"] != "" {
			if stock, err := strconv.Atoi(row["stock"]); err == nil && stock >= 0 {
				product.Stock = stock
			}
		}
		if row["lowstockthreshold"] != "" {
			if threshold, err := strconv.Atoi(row["lowstockthreshold"]); err == nil {
				product.LowStockThreshold = threshold
			}
		}

		products = append(products, product)
	}

	if validateOnly {
		result.Success = len(result.Errors) == 0
		result.SuccessCount = len(products)
		result.FailedCount = result.TotalRows - len(products)
		return result
	}

	for _, product := range products {
		if err := h.products.Create(c.Request.Context(), product); err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, ImportRowError{
				Code:    "CREATE_FAILED",
				Message: fmt.Sprintf("Failed to create product %q: %v", product.Name, err),
			})
			continue
		}
		result.SuccessCount++
		result.CreatedIDs = append(result.CreatedIDs, product.ID.String())
	}

	result.FailedCount += result.TotalRows - len(products)
	result.Success = result.SuccessCount > 0 && len(result.Errors) == 0
	return result
}
