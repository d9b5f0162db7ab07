package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"halqa-daily/internal/logger"
	"halqa-daily/internal/model"
	"halqa-daily/internal/scoring"
	"halqa-daily/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// importHeaders is the required header set for member import files.
// The check runs before any row is touched.
var importHeaders = []string{"name", "gender", "age", "phone", "email", "country"}

var exportHeaders = []string{
	"name", "gender", "halqa", "supervisor",
	"total_score", "max_score", "percentage", "cards_count",
}

type ExportHandler struct {
	db        *gorm.DB
	analytics *service.AnalyticsService
}

func NewExportHandler(db *gorm.DB, analytics *service.AnalyticsService) *ExportHandler {
	return &ExportHandler{db: db, analytics: analytics}
}

// Export streams the analytics dataset as csv or xlsx.
func (h *ExportHandler) Export(c *gin.Context) {
	rows, err := h.analytics.ExportRows(c.Request.Context(),
		c.Query("gender"), queryInt(c, "halqa_id"),
		scoring.Period(c.DefaultQuery("period", "all")))
	if err != nil {
		fail(c, err)
		return
	}

	if c.DefaultQuery("format", "csv") == "xlsx" {
		h.exportXLSX(c, rows)
		return
	}
	h.exportCSV(c, rows)
}

func (h *ExportHandler) exportCSV(c *gin.Context, rows []scoring.Result) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Write(exportHeaders)
	for _, r := range rows {
		w.Write([]string{
			r.FullName, r.Gender, r.HalqaName, r.SupervisorName,
			strconv.Itoa(r.TotalScore), strconv.Itoa(r.MaxScore),
			fmt.Sprintf("%.1f", r.Percentage), strconv.Itoa(r.CardsCount),
		})
	}
	w.Flush()

	c.Header("Content-Disposition", "attachment; filename=results.csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(sb.String()))
}

func (h *ExportHandler) exportXLSX(c *gin.Context, rows []scoring.Result) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	for i, r := range rows {
		values := []interface{}{
			r.FullName, r.Gender, r.HalqaName, r.SupervisorName,
			r.TotalScore, r.MaxScore, r.Percentage, r.CardsCount,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		fail(c, fmt.Errorf("write workbook: %w", err))
		return
	}
	c.Header("Content-Disposition", "attachment; filename=results.xlsx")
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// Import loads members from an xlsx file. Rows failing validation are
// skipped and reported individually; valid rows still commit.
func (h *ExportHandler) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		fail(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer src.Close()

	wb, err := excelize.OpenReader(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is not a valid spreadsheet"})
		return
	}
	defer wb.Close()

	rows, err := wb.GetRows(wb.GetSheetName(0))
	if err != nil || len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "spreadsheet is empty"})
		return
	}

	headers := map[string]int{}
	for i, head := range rows[0] {
		headers[strings.ToLower(strings.TrimSpace(head))] = i
	}
	for _, required := range importHeaders {
		if _, ok := headers[required]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("column %s is missing from the file", required),
			})
			return
		}
	}

	cell := func(row []string, name string) string {
		idx, ok := headers[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	defaultHash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		fail(c, fmt.Errorf("hash default password: %w", err))
		return
	}

	imported := 0
	var importErrors []string
	ctx := c.Request.Context()

	for idx, row := range rows[1:] {
		rowNum := idx + 2

		email := strings.ToLower(cell(row, "email"))
		if email == "" {
			importErrors = append(importErrors, fmt.Sprintf("row %d: email is empty", rowNum))
			continue
		}
		var count int64
		if err := h.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			fail(c, fmt.Errorf("check email: %w", err))
			return
		}
		if count > 0 {
			importErrors = append(importErrors, fmt.Sprintf("row %d: email already exists", rowNum))
			continue
		}

		age, err := strconv.Atoi(cell(row, "age"))
		if err != nil {
			importErrors = append(importErrors, fmt.Sprintf("row %d: age is not a number", rowNum))
			continue
		}

		u := model.User{
			FullName:       cell(row, "name"),
			Gender:         cell(row, "gender"),
			Age:            age,
			Phone:          cell(row, "phone"),
			Email:          email,
			PasswordHash:   string(defaultHash),
			Country:        cell(row, "country"),
			ReferralSource: cell(row, "source"),
			Status:         model.StatusActive,
			Role:           model.RoleParticipant,
		}
		if err := h.db.WithContext(ctx).Create(&u).Error; err != nil {
			importErrors = append(importErrors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		imported++
	}

	logger.Info("import finished", "imported", imported, "errors", len(importErrors))
	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("imported %d members", imported),
		"imported": imported,
		"errors":   importErrors,
	})
}

// ImportTemplate serves an empty import workbook with one example row.
func (h *ExportHandler) ImportTemplate(c *gin.Context) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := append(append([]string{}, importHeaders...), "source")
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	example := []interface{}{
		"Ahmed Mohammed Ali", "male", 25, "+966500000000",
		"ahmed@example.com", "Saudi Arabia", "friend",
	}
	for i, v := range example {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, cell, v)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		fail(c, fmt.Errorf("write workbook: %w", err))
		return
	}
	c.Header("Content-Disposition", "attachment; filename=import_template.xlsx")
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
