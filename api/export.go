package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"

	"bajeti/format"
	"bajeti/models"
	"bajeti/service"
	"bajeti/summary"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	categories   categoryService
	transactions transactionService
	settings     settingsService
}

// NewExportHandler 创建导出处理器
func NewExportHandler(categories categoryService, transactions transactionService, settings settingsService) *ExportHandler {
	return &ExportHandler{
		categories:   categories,
		transactions: transactions,
		settings:     settings,
	}
}

var exportHeaders = []string{"Date", "Type", "Category", "Notes", "Amount", "Formatted"}

// exportData 一次导出需要的全部数据
type exportData struct {
	settings *models.UserSettings
	names    map[string]string
	txs      []models.Transaction
	from, to string
}

func (d *exportData) row(t models.Transaction) []string {
	name, ok := d.names[t.CategoryID]
	if !ok {
		name = summary.OtherCategory
	}
	return []string{
		format.Date(t.Date, d.settings.DateFormat),
		t.Type,
		name,
		t.Notes,
		t.Amount.StringFixed(2),
		format.Currency(t.Amount, d.settings.Currency),
	}
}

func (d *exportData) filename(ext string) string {
	from, to := d.from, d.to
	if from == "" {
		from = "start"
	}
	if to == "" {
		to = "today"
	}
	return fmt.Sprintf("transactions_%s_%s.%s", from, to, ext)
}

// load 并发读取偏好、分类和区间内的交易
func (h *ExportHandler) load(c *gin.Context) (*exportData, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return nil, false
	}

	from, to := c.Query("dateFrom"), c.Query("dateTo")
	if (from != "" && !models.ValidDate(from)) || (to != "" && !models.ValidDate(to)) {
		BadRequest(c, "invalid date, expected YYYY-MM-DD")
		return nil, false
	}

	d := &exportData{from: from, to: to}
	var cats []models.Category

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		st, err := h.settings.Get(ctx, userID)
		d.settings = st
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = h.categories.List(ctx, userID)
		return err
	})
	g.Go(func() error {
		page, err := h.transactions.Query(ctx, userID, service.TransactionFilter{DateFrom: from, DateTo: to})
		if err != nil {
			return err
		}
		d.txs = page.Transactions
		return nil
	})
	if err := g.Wait(); err != nil {
		HandleError(c, err, "failed to export transactions")
		return nil, false
	}

	d.names = summary.CategoryNames(cats)
	return d, true
}

// ExportCSV 导出交易为 CSV
// @Summary 导出交易为 CSV
// @Description 按日期倒序导出，日期和金额按用户偏好格式化；不传日期范围时导出全部
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param dateFrom query string false "开始日期 (2025-01-01)"
// @Param dateTo query string false "结束日期 (2025-12-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} ErrorResponse "日期格式错误"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	d, ok := h.load(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// BOM，Excel 打开时按 UTF-8 识别
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	rows := make([][]string, 0, len(d.txs)+1)
	rows = append(rows, exportHeaders)
	for _, t := range d.txs {
		rows = append(rows, d.row(t))
	}
	if err := writer.WriteAll(rows); err != nil {
		HandleError(c, err, "failed to generate csv")
		return
	}

	c.Header("Content-Disposition", contentDisposition(d.filename("csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出交易为 Excel
// @Summary 导出交易为 Excel
// @Description 导出 xlsx，末尾附收入、支出和结余合计
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param dateFrom query string false "开始日期 (2025-01-01)"
// @Param dateTo query string false "结束日期 (2025-12-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} ErrorResponse "日期格式错误"
// @Failure 401 {object} ErrorResponse "未授权"
// @Router /api/export/xlsx [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	d, ok := h.load(c)
	if !ok {
		return
	}

	f, err := buildWorkbook(d)
	if err != nil {
		HandleError(c, err, "failed to generate xlsx")
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", contentDisposition(d.filename("xlsx")))
	if err := f.Write(c.Writer); err != nil {
		HandleError(c, err, "failed to write xlsx")
	}
}

const sheetName = "Transactions"

func buildWorkbook(d *exportData) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	border := []excelize.Border{
		{Type: "left", Color: "CCCCCC", Style: 1},
		{Type: "top", Color: "CCCCCC", Style: 1},
		{Type: "right", Color: "CCCCCC", Style: 1},
		{Type: "bottom", Color: "CCCCCC", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}
	dataStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E2EFDA"}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return nil, err
	}

	widths := map[string]float64{"A": 18, "B": 10, "C": 20, "D": 40, "E": 14, "F": 18}
	for col, w := range widths {
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return nil, err
		}
	}

	if err := f.SetSheetRow(sheetName, "A1", &exportHeaders); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "F1", headerStyle); err != nil {
		return nil, err
	}

	row := 2
	for _, t := range d.txs {
		values := d.row(t)
		cells := []interface{}{values[0], values[1], values[2], values[3], t.Amount.InexactFloat64(), values[5]}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return nil, err
		}
		row++
	}
	if row > 2 {
		last, _ := excelize.CoordinatesToCellName(6, row-1)
		if err := f.SetCellStyle(sheetName, "A2", last, dataStyle); err != nil {
			return nil, err
		}
	}

	// 合计
	totals := summary.Overall(d.txs)
	row++
	lines := []struct {
		label string
		value decimal.Decimal
	}{
		{"Total income", totals.Income},
		{"Total expenses", totals.Expenses},
		{"Balance", totals.Balance},
	}
	for _, line := range lines {
		start, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(4, row)
		valueCell, _ := excelize.CoordinatesToCellName(5, row)
		if err := f.SetCellValue(sheetName, start, line.label); err != nil {
			return nil, err
		}
		cells := []interface{}{line.value.InexactFloat64(), format.Currency(line.value, d.settings.Currency)}
		if err := f.SetSheetRow(sheetName, valueCell, &cells); err != nil {
			return nil, err
		}
		// 先写值再合并，合并区域只保留左上角的值
		if err := f.MergeCell(sheetName, start, end); err != nil {
			return nil, err
		}
		last, _ := excelize.CoordinatesToCellName(6, row)
		if err := f.SetCellStyle(sheetName, start, last, totalStyle); err != nil {
			return nil, err
		}
		row++
	}

	return f, nil
}

func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%s; filename*=UTF-8''%s", filename, url.PathEscape(filename))
}
