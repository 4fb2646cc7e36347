package stats

import (
	"regexp"

	"github.com/XavierBriggs/fortuna/services/matchup-service/pkg/models"
)

var nonNumeric = regexp.MustCompile(`[^\d.-]`)

// Compare returns a - b after reducing both display strings to numbers.
// Positive means a is ahead. Either side unparseable yields 0 (a draw).
func Compare(a, b string) float64 {
	numA, okA := magnitude(a)
	numB, okB := magnitude(b)
	if !okA || !okB {
		return 0
	}
	return numA - numB
}

func magnitude(s string) (float64, bool) {
	return parseLeadingFloat(nonNumeric.ReplaceAllString(s, ""))
}

// Winner maps a Compare delta to a winner label
func Winner(delta float64) string {
	switch {
	case delta > 0:
		return models.WinnerTeam1
	case delta < 0:
		return models.WinnerTeam2
	default:
		return models.WinnerDraw
	}
}

// PairByName joins two teams' statistics by name instead of position.
// The k-th occurrence of a name on one side pairs with the k-th occurrence
// on the other. Results follow team1's order, then occurrences only team2
// has. A statistic present on one side only is reported as a draw with
// OnlyIn set.
func PairByName(team1, team2 []models.Statistic) []models.ComparisonResult {
	type occurrence struct {
		name string
		n    int
	}

	index2 := make(map[occurrence]models.Statistic, len(team2))
	keys2 := make([]occurrence, 0, len(team2))
	counts := make(map[string]int, len(team2))
	for _, s := range team2 {
		key := occurrence{s.Name, counts[s.Name]}
		counts[s.Name]++
		index2[key] = s
		keys2 = append(keys2, key)
	}

	matched := make(map[occurrence]bool, len(team1))
	results := make([]models.ComparisonResult, 0, len(team1))

	counts = make(map[string]int, len(team1))
	for _, s1 := range team1 {
		key := occurrence{s1.Name, counts[s1.Name]}
		counts[s1.Name]++

		s2, ok := index2[key]
		if !ok {
			results = append(results, models.ComparisonResult{
				Name:        s1.Name,
				Description: s1.Description,
				Team1Value:  s1.Value,
				Winner:      models.WinnerDraw,
				OnlyIn:      models.WinnerTeam1,
			})
			continue
		}
		matched[key] = true

		delta := Compare(s1.Value, s2.Value)
		results = append(results, models.ComparisonResult{
			Name:        s1.Name,
			Description: s1.Description,
			Team1Value:  s1.Value,
			Team2Value:  s2.Value,
			Delta:       delta,
			Winner:      Winner(delta),
		})
	}

	for _, key := range keys2 {
		if matched[key] {
			continue
		}
		s2 := index2[key]
		results = append(results, models.ComparisonResult{
			Name:        s2.Name,
			Description: s2.Description,
			Team2Value:  s2.Value,
			Winner:      models.WinnerDraw,
			OnlyIn:      models.WinnerTeam2,
		})
	}

	return results
}

// Tally counts wins per side and draws
func Tally(results []models.ComparisonResult) (team1Wins, team2Wins, draws int) {
	for _, r := range results {
		switch r.Winner {
		case models.WinnerTeam1:
			team1Wins++
		case models.WinnerTeam2:
			team2Wins++
		default:
			draws++
		}
	}
	return team1Wins, team2Wins, draws
}
