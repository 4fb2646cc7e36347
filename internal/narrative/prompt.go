package narrative

import (
	"fmt"
	"strings"

	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/registry"
	"github.com/XavierBriggs/fortuna/services/matchup-service/pkg/models"
)

// BuildCategoryPrompt renders a single-category comparison prompt
func BuildCategoryPrompt(categoryLabel, team1, team2 string, paired []models.ComparisonResult) string {
	blocks := make([]string, 0, len(paired))
	for _, p := range paired {
		blocks = append(blocks, fmt.Sprintf("%s:\n- %s: %s\n- %s: %s\n- Description: %s",
			p.Name,
			team1, orNA(p.Team1Value),
			team2, orNA(p.Team2Value),
			p.Description))
	}
	statsComparison := strings.Join(blocks, "\n\n")

	return fmt.Sprintf(`Below are the EXACT statistics for the %[1]s and %[2]s in the %[3]s category. Analyze ONLY these numbers:

%[4]s

Provide your analysis in the following format:

Analysis: Using ONLY the statistics shown above, provide an insightful summary (2-3 sentences) comparing the teams in this category. Focus on the most significant differences and key takeaways using the exact numbers provided.

%[3]s Winner: Based ONLY on these statistics, clearly state which team has the advantage in this category and explain why using specific numbers. If the numbers are too close (within 5%% difference), declare it a "Draw" and explain why.

IMPORTANT: Use ONLY the statistics provided above. Do not reference any other data, historical matchups, or external factors.`,
		team1, team2, categoryLabel, statsComparison)
}

// BuildAllCategoriesPrompt renders the sectioned matchup prompt from two summaries
func BuildAllCategoriesPrompt(team1, team2 string, s1, s2 models.CategorySummary) string {
	line := func(label, v1, v2 string) string {
		return fmt.Sprintf("%s:\n- %s: %s\n- %s: %s", label, team1, v1, team2, v2)
	}

	var b strings.Builder
	b.WriteString("\nOFFENSIVE STATISTICS:\n")
	b.WriteString(line("Passing Yards", s1.PassingYards, s2.PassingYards) + "\n\n")
	b.WriteString(line("Rushing Yards", s1.RushingYards, s2.RushingYards) + "\n\n")
	b.WriteString(line("Receiving Yards", s1.ReceivingYards, s2.ReceivingYards) + "\n\n")
	b.WriteString("SCORING:\n")
	b.WriteString(line("Total Points", s1.TotalPoints, s2.TotalPoints) + "\n\n")
	b.WriteString(line("Total Touchdowns", s1.TotalTouchdowns, s2.TotalTouchdowns) + "\n\n")
	b.WriteString("DEFENSIVE STATISTICS:\n")
	b.WriteString(line("Sacks", s1.Sacks, s2.Sacks) + "\n\n")
	b.WriteString(line("Interceptions", s1.Interceptions, s2.Interceptions) + "\n\n")
	b.WriteString(line("Forced Fumbles", s1.ForcedFumbles, s2.ForcedFumbles))

	return fmt.Sprintf(`Below are the EXACT statistics for the %s and %s:

%s

Based ONLY on these statistics, analyze the matchup. Structure your response as follows:

Offensive Analysis:
Compare the offensive production using the EXACT numbers above. Highlight the differences in passing, rushing, and receiving yards. Calculate and mention the total yardage difference between the teams.

Defensive Analysis:
Compare the defensive performance using the EXACT numbers above for sacks, interceptions, and forced fumbles. Calculate and mention the total turnover potential (interceptions + forced fumbles) for each team.

Statistical Advantages:
List specific statistical advantages for each team with exact numerical differences.

Score Prediction:
1. Calculate the average points per game for each team using their total points and games played (assume %d games)
2. Factor in the opponent's defensive stats (turnovers forced)
3. Provide a specific score prediction with reasoning based purely on these statistics
4. Explain which key statistical matchup will most influence this outcome

IMPORTANT: Use ONLY the statistics provided above. Do not reference any other data, historical matchups, or external factors. If you mention a statistic, you must include the exact number from above.`,
		team1, team2, b.String(), SeasonGames)
}

func orNA(v string) string {
	if v == "" {
		return registry.NotAvailable
	}
	return v
}
