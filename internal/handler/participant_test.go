package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewParticipantHandler(nil, nil, nil)
	r := gin.New()
	r.POST("/cards", func(c *gin.Context) {
		c.Set("user_id", 1)
		h.SaveCard(c)
	})
	return r
}

func postCard(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/cards", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSaveCardRejectsScoreAboveMax(t *testing.T) {
	r := cardRouter()

	w := postCard(r, `{"date":"2024-03-11","quran":11}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "quran", resp["field"])
	assert.Contains(t, resp["error"], "quran")
}

func TestSaveCardRejectsNegativeScore(t *testing.T) {
	r := cardRouter()

	w := postCard(r, `{"date":"2024-03-11","taraweeh":-1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "taraweeh", resp["field"])
}
