package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sample() []Result {
	return []Result{
		{UserID: 1, FullName: "Amal", TotalScore: 40, Percentage: 40},
		{UserID: 2, FullName: "Badr", TotalScore: 90, Percentage: 90},
		{UserID: 3, FullName: "Dana", TotalScore: 40, Percentage: 40},
		{UserID: 4, FullName: "Cyra", TotalScore: 70, Percentage: 70},
	}
}

func TestSortResultsByScoreDesc(t *testing.T) {
	rs := sample()
	SortResults(rs, SortByScore, OrderDesc)
	assert.Equal(t, []int{2, 4, 1, 3}, ids(rs))
}

func TestSortResultsStableOnTies(t *testing.T) {
	// Users 1 and 3 tie at 40; input order must survive the sort.
	rs := sample()
	SortResults(rs, SortByScore, OrderDesc)
	assert.Equal(t, 1, rs[2].UserID)
	assert.Equal(t, 3, rs[3].UserID)
}

func TestSortResultsByName(t *testing.T) {
	rs := sample()
	SortResults(rs, SortByName, OrderAsc)
	assert.Equal(t, []int{1, 2, 4, 3}, ids(rs))

	SortResults(rs, SortByName, OrderDesc)
	assert.Equal(t, []int{3, 4, 2, 1}, ids(rs))
}

func TestAssignRanksDense(t *testing.T) {
	rs := sample()
	SortResults(rs, SortByScore, OrderDesc)
	AssignRanks(rs)
	for i, r := range rs {
		assert.Equal(t, i+1, r.Rank)
	}
	// Tied scores still get distinct, consecutive ranks.
	assert.Equal(t, 3, rs[2].Rank)
	assert.Equal(t, 4, rs[3].Rank)
}

func TestSelfRank(t *testing.T) {
	rs := sample()
	SortResults(rs, SortByScore, OrderDesc)
	assert.Equal(t, 1, SelfRank(rs, 2))
	assert.Equal(t, 3, SelfRank(rs, 1))
	// Absent caller ranks last.
	assert.Equal(t, 4, SelfRank(rs, 99))
	assert.Equal(t, 0, SelfRank(nil, 1))
}

func TestFilterByPercentage(t *testing.T) {
	lo, hi := 40.0, 80.0

	got := FilterByPercentage(sample(), &lo, &hi)
	assert.Equal(t, []int{1, 3, 4}, ids(got))

	got = FilterByPercentage(sample(), nil, &hi)
	assert.Equal(t, []int{1, 3, 4}, ids(got))

	got = FilterByPercentage(sample(), &lo, nil)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(got))

	got = FilterByPercentage(sample(), nil, nil)
	assert.Len(t, got, 4)
}

func ids(rs []Result) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.UserID
	}
	return out
}
