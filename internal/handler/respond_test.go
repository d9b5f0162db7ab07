package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return c
}

func TestQueryIntParsesWholeIntegers(t *testing.T) {
	c := queryContext(t, "halqa_id=12")
	n := queryInt(c, "halqa_id")
	require.NotNil(t, n)
	assert.Equal(t, 12, *n)
}

func TestQueryIntRejectsTrailingGarbage(t *testing.T) {
	c := queryContext(t, "halqa_id=12abc")
	assert.Nil(t, queryInt(c, "halqa_id"))
	assert.Nil(t, queryInt(c, "missing"))
}

func TestQueryFloat(t *testing.T) {
	c := queryContext(t, "min_pct=40.5&max_pct=80.5x")

	f := queryFloat(c, "min_pct")
	require.NotNil(t, f)
	assert.Equal(t, 40.5, *f)
	assert.Nil(t, queryFloat(c, "max_pct"))
}
