package scoring

import "sort"

// Result is one member's aggregate over a window.
type Result struct {
	UserID         int     `json:"user_id"`
	FullName       string  `json:"full_name"`
	Gender         string  `json:"gender,omitempty"`
	HalqaName      string  `json:"halqa_name,omitempty"`
	SupervisorName string  `json:"supervisor_name,omitempty"`
	TotalScore     int     `json:"total_score"`
	MaxScore       int     `json:"max_score"`
	Percentage     float64 `json:"percentage"`
	CardsCount     int     `json:"cards_count"`
	Rank           int     `json:"rank,omitempty"`
}

const (
	SortByScore = "score"
	SortByName  = "name"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SortResults orders results by the given key. The sort is stable, so
// ties keep the scope's enumeration order.
func SortResults(results []Result, sortBy, order string) {
	asc := order == OrderAsc
	sort.SliceStable(results, func(i, j int) bool {
		if sortBy == SortByName {
			if asc {
				return results[i].FullName < results[j].FullName
			}
			return results[i].FullName > results[j].FullName
		}
		if asc {
			return results[i].TotalScore < results[j].TotalScore
		}
		return results[i].TotalScore > results[j].TotalScore
	})
}

// AssignRanks numbers results 1..n in their current order. Ranks are
// dense and strictly sequential; ties get consecutive ranks, never a
// shared one.
func AssignRanks(results []Result) {
	for i := range results {
		results[i].Rank = i + 1
	}
}

// SelfRank locates userID in a leaderboard already sorted score-desc.
// A caller absent from the list ranks last, never errors.
func SelfRank(results []Result, userID int) int {
	for i, r := range results {
		if r.UserID == userID {
			return i + 1
		}
	}
	return len(results)
}

// FilterByPercentage drops results whose percentage falls outside the
// inclusive [min, max] band. Applied strictly after aggregation.
func FilterByPercentage(results []Result, minPct, maxPct *float64) []Result {
	if minPct == nil && maxPct == nil {
		return results
	}
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if minPct != nil && r.Percentage < *minPct {
			continue
		}
		if maxPct != nil && r.Percentage > *maxPct {
			continue
		}
		out = append(out, r)
	}
	return out
}
