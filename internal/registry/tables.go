package registry

import "github.com/XavierBriggs/fortuna/services/matchup-service/pkg/models"

// Supported teams with their RapidAPI nfl-api-data identifiers
var nflTeams = []models.Team{
	{Key: "texans", ProviderID: "34", Name: "Houston Texans", Color: "#03202F"},
	{Key: "chiefs", ProviderID: "22", Name: "Kansas City Chiefs", Color: "#E31837"},
	{Key: "lions", ProviderID: "16", Name: "Detroit Lions", Color: "#0076B6"},
	{Key: "commanders", ProviderID: "28", Name: "Washington Commanders", Color: "#5A1414"},
	{Key: "rams", ProviderID: "14", Name: "Los Angeles Rams", Color: "#003594"},
	{Key: "eagles", ProviderID: "21", Name: "Philadelphia Eagles", Color: "#004C54"},
	{Key: "ravens", ProviderID: "33", Name: "Baltimore Ravens", Color: "#241773"},
	{Key: "bills", ProviderID: "2", Name: "Buffalo Bills", Color: "#00338D"},
}

// Category keys in aggregation order
var nflCategories = []models.CategoryInfo{
	{Key: "passing", Label: "Passing Stats", DisplayName: "Passing"},
	{Key: "rushing", Label: "Rushing Stats", DisplayName: "Rushing"},
	{Key: "receiving", Label: "Receiving Stats", DisplayName: "Receiving"},
	{Key: "defensive", Label: "Defensive Stats", DisplayName: "Defense"},
	{Key: "general", Label: "Fumbles Stats", DisplayName: "Fumbles"},
	{Key: "defensiveInterceptions", Label: "Interception Stats", DisplayName: "Interceptions"},
	{Key: "kicking", Label: "Kicking Stats", DisplayName: "Kicking"},
	{Key: "returning", Label: "Return Stats", DisplayName: "Returns"},
	{Key: "punting", Label: "Punting Stats", DisplayName: "Punting"},
	{Key: "scoring", Label: "Scoring Stats", DisplayName: "Scoring"},
	{Key: "miscellaneous", Label: "Miscellaneous Stats", DisplayName: "Miscellaneous"},
}

// RatingAliases identify passer-rating stats by case-insensitive substring
var RatingAliases = []string{
	"quarterback rating",
	"qb rating",
	"passer rating",
	"espn qb rating",
}

// MaxPasserRating is the top of the traditional 0-158.3 rating scale
const MaxPasserRating = 158.3

// SummaryField names one CategorySummary value and the stat names that feed it
type SummaryField struct {
	Field   string
	Aliases []string
	Set     func(s *models.CategorySummary, v string)
}

// NotAvailable marks a summary field with no matching statistic
const NotAvailable = "N/A"

// SummaryFields is checked in order; aliases are case-sensitive substrings
var SummaryFields = []SummaryField{
	{"passingYards", []string{"Passing Yards", "Net Passing"}, func(s *models.CategorySummary, v string) { s.PassingYards = v }},
	{"rushingYards", []string{"Rushing Yards", "Rush Yards"}, func(s *models.CategorySummary, v string) { s.RushingYards = v }},
	{"receivingYards", []string{"Receiving Yards", "Rec Yards"}, func(s *models.CategorySummary, v string) { s.ReceivingYards = v }},
	{"totalPoints", []string{"Points", "Total Points"}, func(s *models.CategorySummary, v string) { s.TotalPoints = v }},
	{"totalTouchdowns", []string{"Touchdowns", "Total TD"}, func(s *models.CategorySummary, v string) { s.TotalTouchdowns = v }},
	{"sacks", []string{"Sacks", "Total Sacks"}, func(s *models.CategorySummary, v string) { s.Sacks = v }},
	{"interceptions", []string{"Interceptions", "INT"}, func(s *models.CategorySummary, v string) { s.Interceptions = v }},
	{"forcedFumbles", []string{"Fumbles Forced", "Forced Fumbles"}, func(s *models.CategorySummary, v string) { s.ForcedFumbles = v }},
}
