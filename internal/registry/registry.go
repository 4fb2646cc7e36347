package registry

import (
	"fmt"
	"strings"

	"github.com/XavierBriggs/fortuna/services/matchup-service/pkg/models"
)

// AllCategories is the category key that triggers cross-category aggregation
const AllCategories = "all"

// AllCategoriesLabel is the category value sent to the narrative generator in aggregate mode
const AllCategoriesLabel = "all categories"

// Registry holds the fixed roster and category tables loaded once at startup
type Registry struct {
	teams      map[string]models.Team
	teamOrder  []string
	categories []models.CategoryInfo
}

// New creates a registry with the supported NFL roster and categories
func New() *Registry {
	r := &Registry{
		teams: make(map[string]models.Team),
	}

	for _, t := range nflTeams {
		r.Register(t)
	}
	r.categories = append(r.categories, nflCategories...)

	return r
}

// Register adds a team to the roster
func (r *Registry) Register(team models.Team) {
	if _, exists := r.teams[team.Key]; !exists {
		r.teamOrder = append(r.teamOrder, team.Key)
	}
	r.teams[team.Key] = team
}

// GetTeam retrieves a team by key
func (r *Registry) GetTeam(key string) (models.Team, error) {
	team, ok := r.teams[strings.ToLower(key)]
	if !ok {
		return models.Team{}, &models.InvalidTeamError{Team: key, Available: r.TeamKeys()}
	}
	return team, nil
}

// Teams returns the roster in registration order
func (r *Registry) Teams() []models.Team {
	teams := make([]models.Team, 0, len(r.teamOrder))
	for _, key := range r.teamOrder {
		teams = append(teams, r.teams[key])
	}
	return teams
}

// TeamKeys returns all team keys in registration order
func (r *Registry) TeamKeys() []string {
	keys := make([]string, len(r.teamOrder))
	copy(keys, r.teamOrder)
	return keys
}

// Categories returns the selectable categories, excluding the aggregate entry
func (r *Registry) Categories() []models.CategoryInfo {
	out := make([]models.CategoryInfo, len(r.categories))
	copy(out, r.categories)
	return out
}

// CategoryKeys returns the fixed iteration order used for aggregation
func (r *Registry) CategoryKeys() []string {
	keys := make([]string, 0, len(r.categories))
	for _, c := range r.categories {
		keys = append(keys, c.Key)
	}
	return keys
}

// DisplayName returns the narrative label for a category key
func (r *Registry) DisplayName(key string) string {
	for _, c := range r.categories {
		if c.Key == key {
			return c.DisplayName
		}
	}
	return key
}

// IsAggregate reports whether a category value requests every category
func IsAggregate(category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	return c == AllCategories || c == AllCategoriesLabel
}

// String is used in startup logs
func (r *Registry) String() string {
	return fmt.Sprintf("%d teams, %d categories", len(r.teamOrder), len(r.categories))
}
