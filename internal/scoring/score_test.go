package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 13.6, Percentage(15, MaxCardScore))
	assert.Equal(t, 100.0, Percentage(110, MaxCardScore))
	assert.Equal(t, 0.0, Percentage(0, MaxCardScore))
	assert.Equal(t, 50.0, Percentage(55, MaxCardScore))
}

func TestPercentageZeroMax(t *testing.T) {
	// Aggregates over zero cards have max == 0 and must not divide.
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 0.0, Percentage(42, 0))
}

func TestPercentageRounding(t *testing.T) {
	// 37/110 = 33.636...% -> one decimal
	assert.Equal(t, 33.6, Percentage(37, 110))
	assert.Equal(t, 13.6, Percentage(30, 220))
}

func TestReduce(t *testing.T) {
	total, max := Reduce([]int{15, 15})
	assert.Equal(t, 30, total)
	assert.Equal(t, 220, max)
	assert.Equal(t, 13.6, Percentage(total, max))

	total, max = Reduce(nil)
	assert.Equal(t, 0, total)
	assert.Equal(t, 0, max)
}

func TestMaxCardScore(t *testing.T) {
	assert.Equal(t, 110, MaxCardScore)
	assert.Len(t, ScoreFields, NumFields)
}
