package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func importRequest(t *testing.T, headers []string, rows [][]interface{}) *http.Request {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	for r, row := range rows {
		for i, v := range row {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	wb, err := f.WriteToBuffer()
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "members.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(wb.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportRejectsMissingHeaderColumn(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// nil DB: the file must be rejected before any row is processed.
	h := NewExportHandler(nil, nil)
	r := gin.New()
	r.POST("/import", h.Import)

	req := importRequest(t,
		[]string{"name", "gender", "age", "email", "country"},
		[][]interface{}{{"Ahmed Mohammed Ali", "male", 25, "ahmed@example.com", "Saudi Arabia"}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "phone")
}

func TestImportRejectsEmptySpreadsheet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewExportHandler(nil, nil)
	r := gin.New()
	r.POST("/import", h.Import)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, importRequest(t, nil, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
