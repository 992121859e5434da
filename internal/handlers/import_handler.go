package handlers

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"inventory-ledger-service/internal/models"
	"inventory-ledger-service/internal/services"
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
	Errors       []ImportRowError `json:"errors,omitempty"`
	CreatedIDs   []string         `json:"createdIds,omitempty"`
}

// ImportHandler bulk-loads catalog data from CSV or Excel files and renders
// the valuation report as a spreadsheet.
type ImportHandler struct {
	catalog   *services.CatalogService
	analytics *services.AnalyticsService
}

func NewImportHandler(catalog *services.CatalogService, analytics *services.AnalyticsService) *ImportHandler {
	return &ImportHandler{catalog: catalog, analytics: analytics}
}

// ItemImportTemplate returns the template for inventory items
func ItemImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "items",
		Version: "1.0",
		Columns: []ImportTemplateColumn{
			{Name: "name", Description: "Item name", Required: true, Type: "string", Example: "Roma Tomatoes"},
			{Name: "unit", Description: "Unit of measure", Required: true, Type: "string", Example: "kg"},
			{Name: "category", Description: "Category (PRODUCE, MEAT, SEAFOOD, DAIRY, DRY_GOODS, BEVERAGE, PACKAGING, CLEANING, OTHER)", Required: false, Type: "string", Example: "PRODUCE"},
			{Name: "currentStock", Description: "Opening stock level", Required: false, Type: "number", Example: "25.5"},
			{Name: "minStock", Description: "Minimum stock threshold", Required: false, Type: "number", Example: "5"},
			{Name: "reorderPoint", Description: "Reorder point", Required: false, Type: "number", Example: "10"},
			{Name: "maxStock", Description: "Maximum stock level", Required: false, Type: "number", Example: "50"},
			{Name: "lastCost", Description: "Last unit cost", Required: false, Type: "number", Example: "2.30"},
			{Name: "isPerishable", Description: "Perishable item (true/false)", Required: false, Type: "boolean", Example: "true"},
			{Name: "notes", Description: "Additional notes", Required: false, Type: "string", Example: "Keep refrigerated"},
		},
		SampleData: []map[string]string{
			{
				"name":         "Roma Tomatoes",
				"unit":         "kg",
				"category":     "PRODUCE",
				"currentStock": "25.5",
				"minStock":     "5",
				"reorderPoint": "10",
				"maxStock":     "50",
				"lastCost":     "2.30",
				"isPerishable": "true",
				"notes":        "Keep refrigerated",
			},
			{
				"name":         "Olive Oil 5L",
				"unit":         "bottle",
				"category":     "DRY_GOODS",
				"currentStock": "8",
				"minStock":     "2",
				"reorderPoint": "4",
				"maxStock":     "12",
				"lastCost":     "34.90",
				"isPerishable": "false",
				"notes":        "",
			},
		},
	}
}

// SupplierImportTemplate returns the template for suppliers
func SupplierImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "suppliers",
		Version: "1.0",
		Columns: []ImportTemplateColumn{
			{Name: "name", Description: "Supplier name", Required: true, Type: "string", Example: "Fresh Farms Co."},
			{Name: "contactName", Description: "Primary contact name", Required: false, Type: "string", Example: "Maria Lopez"},
			{Name: "email", Description: "Email address", Required: false, Type: "string", Example: "orders@freshfarms.com"},
			{Name: "phone", Description: "Phone number", Required: false, Type: "string", Example: "+1-555-123-4567"},
			{Name: "address", Description: "Street address", Required: false, Type: "string", Example: "123 Market Road"},
			{Name: "leadTimeDays", Description: "Delivery lead time in days", Required: false, Type: "number", Example: "3"},
			{Name: "rating", Description: "Rating 0-5", Required: false, Type: "number", Example: "4.5"},
			{Name: "notes", Description: "Additional notes", Required: false, Type: "string", Example: "Delivers Mon/Thu"},
		},
		SampleData: []map[string]string{
			{
				"name":         "Fresh Farms Co.",
				"contactName":  "Maria Lopez",
				"email":        "orders@freshfarms.com",
				"phone":        "+1-555-123-4567",
				"address":      "123 Market Road",
				"leadTimeDays": "3",
				"rating":       "4.5",
				"notes":        "Delivers Mon/Thu",
			},
		},
	}
}

// GetItemImportTemplate returns the item import template
// GET /api/v1/items/import/template
func (h *ImportHandler) GetItemImportTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	template := ItemImportTemplate()

	switch format {
	case "csv":
		h.generateCSVTemplate(c, template, "items")
	case "xlsx":
		h.generateXLSXTemplate(c, template, "Items")
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "template": template})
	}
}

// GetSupplierImportTemplate returns the supplier import template
// GET /api/v1/suppliers/import/template
func (h *ImportHandler) GetSupplierImportTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", "json")
	template := SupplierImportTemplate()

	switch format {
	case "csv":
		h.generateCSVTemplate(c, template, "suppliers")
	case "xlsx":
		h.generateXLSXTemplate(c, template, "Suppliers")
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

// ImportItems imports inventory items from CSV or Excel file
// POST /api/v1/items/import
func (h *ImportHandler) ImportItems(c *gin.Context) {
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

	result := h.processItemRows(c.Request.Context(), rows, validateOnly)
	c.JSON(http.StatusOK, result)
}

// ImportSuppliers imports suppliers from CSV or Excel file
// POST /api/v1/suppliers/import
func (h *ImportHandler) ImportSuppliers(c *gin.Context) {
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

	result := h.processSupplierRows(c.Request.Context(), rows, validateOnly)
	c.JSON(http.StatusOK, result)
}

// ExportValuation streams the current valuation report as an XLSX workbook
// GET /api/v1/analytics/valuation/export
func (h *ImportHandler) ExportValuation(c *gin.Context) {
	report, err := h.analytics.Valuation(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Valuation"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})

	headers := []string{"Item", "Category", "Unit", "Current Stock", "Average Cost", "Total Value"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 18)
	}

	for rowIdx, row := range report.Items {
		values := []interface{}{row.Name, string(row.Category), row.Unit, row.CurrentStock, row.AverageCost, row.TotalValue}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	totalRow := len(report.Items) + 2
	labelCell, _ := excelize.CoordinatesToCellName(5, totalRow)
	valueCell, _ := excelize.CoordinatesToCellName(6, totalRow)
	f.SetCellValue(sheetName, labelCell, "TOTAL")
	f.SetCellValue(sheetName, valueCell, report.TotalValue)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=valuation_%s.xlsx", report.AsOf.Format("2006-01-02")))

	f.Write(c.Writer)
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

	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
		headers[i] = strings.TrimSuffix(headers[i], " *")
	}

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

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	headers := records[0]
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
		headers[i] = strings.TrimSuffix(headers[i], " *")
	}

	var rows []map[string]string
	for lineNum, record := range records[1:] {
		row := make(map[string]string)
		for i, value := range record {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(lineNum + 2)
		rows = append(rows, row)
	}

	return rows, nil
}

func (h *ImportHandler) processItemRows(ctx context.Context, rows []map[string]string, validateOnly bool) *ImportResult {
	result := &ImportResult{
		TotalRows:  len(rows),
		Errors:     make([]ImportRowError, 0),
		CreatedIDs: make([]string, 0),
	}

	requests := make([]models.CreateItemRequest, 0, len(rows))
	for _, row := range rows {
		rowNum, _ := strconv.Atoi(row["_row"])

		if row["name"] == "" || row["unit"] == "" {
			for _, colName := range []string{"name", "unit"} {
				if row[colName] == "" {
					result.Errors = append(result.Errors, ImportRowError{
						Row:     rowNum,
						Column:  colName,
						Code:    "REQUIRED_FIELD",
						Message: fmt.Sprintf("Required field '%s' is empty", colName),
					})
				}
			}
			continue
		}

		req := models.CreateItemRequest{
			Name: row["name"],
			Unit: row["unit"],
		}
		if row["category"] != "" {
			category := models.ItemCategory(strings.ToUpper(row["category"]))
			req.Category = &category
		}
		numericFields := map[string]**float64{
			"currentstock": &req.CurrentStock,
			"minstock":     &req.MinStock,
			"reorderpoint": &req.ReorderPoint,
			"maxstock":     &req.MaxStock,
			"lastcost":     &req.LastCost,
		}
		badNumber := false
		for colName, target := range numericFields {
			if row[colName] == "" {
				continue
			}
			value, err := strconv.ParseFloat(row[colName], 64)
			if err != nil {
				result.Errors = append(result.Errors, ImportRowError{
					Row:     rowNum,
					Column:  colName,
					Code:    "INVALID_NUMBER",
					Message: fmt.Sprintf("'%s' is not a number", row[colName]),
				})
				badNumber = true
				continue
			}
			*target = &value
		}
		if badNumber {
			continue
		}
		if row["isperishable"] != "" {
			perishable := strings.ToLower(row["isperishable"]) == "true"
			req.IsPerishable = &perishable
		}
		if row["notes"] != "" {
			req.Notes = stringPtr(row["notes"])
		}

		requests = append(requests, req)
	}

	if validateOnly {
		result.Success = len(result.Errors) == 0
		result.SuccessCount = len(requests)
		result.FailedCount = result.TotalRows - len(requests)
		return result
	}

	for _, req := range requests {
		item, err := h.catalog.CreateItem(ctx, req)
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, ImportRowError{
				Code:    "CREATE_FAILED",
				Message: fmt.Sprintf("%s: %s", req.Name, err.Error()),
			})
			continue
		}
		result.SuccessCount++
		result.CreatedIDs = append(result.CreatedIDs, item.ID.String())
	}
	result.FailedCount += result.TotalRows - len(requests)
	result.Success = result.FailedCount == 0
	return result
}

func (h *ImportHandler) processSupplierRows(ctx context.Context, rows []map[string]string, validateOnly bool) *ImportResult {
	result := &ImportResult{
		TotalRows:  len(rows),
		Errors:     make([]ImportRowError, 0),
		CreatedIDs: make([]string, 0),
	}

	requests := make([]models.CreateSupplierRequest, 0, len(rows))
	for _, row := range rows {
		rowNum, _ := strconv.Atoi(row["_row"])

		if row["name"] == "" {
			result.Errors = append(result.Errors, ImportRowError{
				Row:     rowNum,
				Column:  "name",
				Code:    "REQUIRED_FIELD",
				Message: "Required field 'name' is empty",
			})
			continue
		}

		req := models.CreateSupplierRequest{Name: row["name"]}
		if row["contactname"] != "" {
			req.ContactName = stringPtr(row["contactname"])
		}
		if row["email"] != "" {
			req.Email = stringPtr(row["email"])
		}
		if row["phone"] != "" {
			req.Phone = stringPtr(row["phone"])
		}
		if row["address"] != "" {
			req.Address = stringPtr(row["address"])
		}
		if row["leadtimedays"] != "" {
			leadTime, err := strconv.Atoi(row["leadtimedays"])
			if err != nil || leadTime <= 0 {
				result.Errors = append(result.Errors, ImportRowError{
					Row:     rowNum,
					Column:  "leadTimeDays",
					Code:    "INVALID_NUMBER",
					Message: fmt.Sprintf("'%s' is not a positive integer", row["leadtimedays"]),
				})
				continue
			}
			req.LeadTimeDays = &leadTime
		}
		if row["rating"] != "" {
			rating, err := strconv.ParseFloat(row["rating"], 64)
			if err != nil || rating < 0 || rating > 5 {
				result.Errors = append(result.Errors, ImportRowError{
					Row:     rowNum,
					Column:  "rating",
					Code:    "INVALID_NUMBER",
					Message: fmt.Sprintf("'%s' is not a rating between 0 and 5", row["rating"]),
				})
				continue
			}
			req.Rating = &rating
		}
		if row["notes"] != "" {
			req.Notes = stringPtr(row["notes"])
		}

		requests = append(requests, req)
	}

	if validateOnly {
		result.Success = len(result.Errors) == 0
		result.SuccessCount = len(requests)
		result.FailedCount = result.TotalRows - len(requests)
		return result
	}

	for _, req := range requests {
		supplier, err := h.catalog.CreateSupplier(ctx, req)
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, ImportRowError{
				Code:    "CREATE_FAILED",
				Message: fmt.Sprintf("%s: %s", req.Name, err.Error()),
			})
			continue
		}
		result.SuccessCount++
		result.CreatedIDs = append(result.CreatedIDs, supplier.ID.String())
	}
	result.FailedCount += result.TotalRows - len(requests)
	result.Success = result.FailedCount == 0
	return result
}
