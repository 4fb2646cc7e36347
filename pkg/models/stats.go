package models

// Statistic is one named, display-formatted team statistic
type Statistic struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// TeamStatsSet maps a team key to its ordered statistics
type TeamStatsSet map[string][]Statistic

// Category is a provider statistics grouping (passing, rushing, ...)
type Category struct {
	Name        string         `json:"name"`
	DisplayName string         `json:"displayName"`
	Stats       []ProviderStat `json:"stats"`
}

// ProviderStat is a single stat as the provider returns it
type ProviderStat struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	DisplayValue string `json:"displayValue"`
	Description  string `json:"description"`
}

// CategorySummary holds the eight headline values used for the all-categories narrative
type CategorySummary struct {
	PassingYards    string `json:"passing_yards"`
	RushingYards    string `json:"rushing_yards"`
	ReceivingYards  string `json:"receiving_yards"`
	TotalPoints     string `json:"total_points"`
	TotalTouchdowns string `json:"total_touchdowns"`
	Sacks           string `json:"sacks"`
	Interceptions   string `json:"interceptions"`
	ForcedFumbles   string `json:"forced_fumbles"`
}

// Winner values for a ComparisonResult
const (
	WinnerTeam1 = "team1"
	WinnerTeam2 = "team2"
	WinnerDraw  = "draw"
)

// ComparisonResult is the per-statistic outcome of a head-to-head comparison
type ComparisonResult struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Team1Value  string  `json:"team1_value"`
	Team2Value  string  `json:"team2_value"`
	Delta       float64 `json:"delta"`
	Winner      string  `json:"winner"`
	OnlyIn      string  `json:"only_in,omitempty"` // "team1" or "team2" when one side lacks the stat
}

// ComparisonReport is the server-side rendering of a full comparison
type ComparisonReport struct {
	ComparisonID string                     `json:"comparison_id"`
	Category     string                     `json:"category"`
	Team1        string                     `json:"team1"`
	Team2        string                     `json:"team2"`
	Stats        TeamStatsSet               `json:"stats"`
	Results      []ComparisonResult         `json:"results"`
	Team1Wins    int                        `json:"team1_wins"`
	Team2Wins    int                        `json:"team2_wins"`
	Draws        int                        `json:"draws"`
	Summaries    map[string]CategorySummary `json:"summaries,omitempty"`
}

// AnalysisRequest is the body of POST /analyze
type AnalysisRequest struct {
	Category   string      `json:"category"`
	Team1Stats []Statistic `json:"team1Stats"`
	Team2Stats []Statistic `json:"team2Stats"`
	Team1      string      `json:"team1"`
	Team2      string      `json:"team2"`
}

// AnalysisResponse carries the generated narrative
type AnalysisResponse struct {
	Summary string `json:"summary"`
}

// Team is one entry of the supported roster
type Team struct {
	Key        string `json:"key"`
	ProviderID string `json:"provider_id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
}

// CategoryInfo describes a selectable statistics category
type CategoryInfo struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	DisplayName string `json:"display_name"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error     string   `json:"error"`
	Message   string   `json:"message"`
	Code      int      `json:"code"`
	Available []string `json:"available,omitempty"`
}
