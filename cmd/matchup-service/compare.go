package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/llm"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/narrative"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/registry"
	"github.com/XavierBriggs/fortuna/services/matchup-service/internal/service"
	"github.com/XavierBriggs/fortuna/services/matchup-service/pkg/models"
	"github.com/spf13/cobra"
)

func compareCmd() *cobra.Command {
	var (
		category     string
		team1, team2 string
		analyze      bool
		asJSON       bool
		timeout      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two teams from the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			report, err := a.statsService().Compare(ctx, category, team1, team2)
			if err != nil {
				return err
			}

			var summary string
			if analyze {
				summary, err = narrate(ctx, a, report)
				if err != nil {
					return err
				}
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					*models.ComparisonReport
					Summary string `json:"summary,omitempty"`
				}{report, summary})
			}

			printReport(a.registry, report)
			if summary != "" {
				fmt.Printf("\n%s\n", summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", service.DefaultCategory, "statistics category, or \"all\"")
	cmd.Flags().StringVar(&team1, "team1", service.DefaultTeam1, "first team key")
	cmd.Flags().StringVar(&team2, "team2", service.DefaultTeam2, "second team key")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "also generate the written analysis")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline")
	return cmd
}

func narrate(ctx context.Context, a *app, report *models.ComparisonReport) (string, error) {
	client, err := llm.NewClient(a.cfg.Completion.APIKey, a.cfg.Completion.BaseURL)
	if err != nil {
		return "", err
	}
	gen := narrative.NewGenerator(client, a.registry, a.cfg.Completion.Model, a.logger.Named("narrative"))

	t1, _ := a.registry.GetTeam(report.Team1)
	t2, _ := a.registry.GetTeam(report.Team2)

	category := report.Category
	if registry.IsAggregate(category) {
		category = registry.AllCategoriesLabel
	}

	return gen.Generate(ctx, models.AnalysisRequest{
		Category:   category,
		Team1Stats: report.Stats[report.Team1],
		Team2Stats: report.Stats[report.Team2],
		Team1:      t1.Name,
		Team2:      t2.Name,
	})
}

func printReport(reg *registry.Registry, report *models.ComparisonReport) {
	t1, _ := reg.GetTeam(report.Team1)
	t2, _ := reg.GetTeam(report.Team2)

	fmt.Printf("%s vs %s (%s)\n\n", t1.Name, t2.Name, report.Category)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "STAT\t%s\t%s\tEDGE\n", t1.Key, t2.Key)
	for _, r := range report.Results {
		edge := "-"
		switch r.Winner {
		case models.WinnerTeam1:
			edge = t1.Key
		case models.WinnerTeam2:
			edge = t2.Key
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, orDash(r.Team1Value), orDash(r.Team2Value), edge)
	}
	tw.Flush()

	fmt.Printf("\n%s %d, %s %d, even %d\n", t1.Key, report.Team1Wins, t2.Key, report.Team2Wins, report.Draws)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func teamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List supported teams and categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New()

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tID\tNAME")
			for _, t := range reg.Teams() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Key, t.ProviderID, t.Name)
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "CATEGORY\tLABEL\t")
			for _, c := range reg.Categories() {
				fmt.Fprintf(tw, "%s\t%s\t\n", c.Key, c.Label)
			}
			fmt.Fprintf(tw, "%s\t%s\t\n", registry.AllCategories, "All Categories")
			return tw.Flush()
		},
	}
}
