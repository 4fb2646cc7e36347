package stats

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/registry"
	"github.com/XavierBriggs/fortuna/services/matchup-service/pkg/models"
)

// SelectCategory extracts the display-formatted statistics of one category.
// The provider's stat order is preserved.
func SelectCategory(categories []models.Category, key string) ([]models.Statistic, error) {
	for _, c := range categories {
		if c.Name != key {
			continue
		}

		out := make([]models.Statistic, 0, len(c.Stats))
		for _, s := range c.Stats {
			out = append(out, models.Statistic{
				Name:        s.DisplayName,
				Value:       FormatStatValue(s.DisplayValue, s.DisplayName),
				Description: s.Description,
			})
		}
		return out, nil
	}

	return nil, &models.NotFoundError{Category: key, Available: CategoryNames(categories)}
}

// CategoryNames lists the category names in provider order
func CategoryNames(categories []models.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

// FormatStatValue applies category-specific formatting to a display value.
// Passer ratings above 158.3 are assumed to be hundredths-scaled.
func FormatStatValue(raw, displayName string) string {
	if !isRating(displayName) {
		return raw
	}

	v, ok := parseLeadingFloat(raw)
	if !ok || v == 0 {
		return raw
	}

	if v > registry.MaxPasserRating {
		v = v / 100
	}
	// Halves round up, not to even
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}

func isRating(displayName string) bool {
	name := strings.ToLower(displayName)
	for _, alias := range registry.RatingAliases {
		if strings.Contains(name, alias) {
			return true
		}
	}
	return false
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseLeadingFloat parses the longest numeric prefix, ignoring trailing text
func parseLeadingFloat(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
