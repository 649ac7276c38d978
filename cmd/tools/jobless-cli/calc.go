// cmd/tools/jobless-cli/calc.go
package main

import (
	"time"

	"jobless/internal/common/i18n"
	"jobless/internal/scoring"
	"jobless/internal/share"

	"github.com/spf13/cobra"
)

func newCalcCmd() *cobra.Command {
	var (
		input     scoring.Input
		creative  float64
		human     float64
		physical  float64
		lang      string
		year      int
		shareBase string
		withShare bool
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Score one job profile",
		Example: `  jobless-cli calc --industry finance --data-openness 80 --digitalization 90 \
    --standardization 70 --ai-adoption 60 --lang zh`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("creative") {
				input.CreativeRequirement = scoring.Float(creative)
			}
			if flags.Changed("human-interaction") {
				input.HumanInteraction = scoring.Float(human)
			}
			if flags.Changed("physical") {
				input.PhysicalOperation = scoring.Float(physical)
			}
			if year == 0 {
				year = time.Now().Year()
			}

			l := i18n.Normalize(lang)
			out := scoring.CalculateAIRiskAt(input, l, year)
			if !withShare {
				return printJSON(cmd.OutOrStdout(), out)
			}

			token := share.Encode(share.SummaryFromOutput(out, l))
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"result": out,
				"token":  token,
				"url":    share.URL(shareBase, token),
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&input.Industry, "industry", "other", "Industry key (finance, technology, ...)")
	f.IntVar(&input.YearsOfExperience, "years", 0, "Years of experience")
	f.Float64Var(&input.DataOpenness, "data-openness", 50, "Data openness, 0-100")
	f.Float64Var(&input.WorkDataDigitalization, "digitalization", 50, "Work data digitalization, 0-100")
	f.Float64Var(&input.ProcessStandardization, "standardization", 50, "Process standardization, 0-100")
	f.Float64Var(&input.CurrentAIAdoption, "ai-adoption", 50, "Current AI adoption, 0-100")
	f.Float64Var(&creative, "creative", scoring.DefaultProtectiveValue, "Creative requirement, 0-100")
	f.Float64Var(&human, "human-interaction", scoring.DefaultProtectiveValue, "Human interaction, 0-100")
	f.Float64Var(&physical, "physical", scoring.DefaultProtectiveValue, "Physical operation, 0-100")
	f.StringVar(&lang, "lang", "en", "Output language (en, zh)")
	f.IntVar(&year, "year", 0, "Base year for the prediction (default: current year)")
	f.BoolVar(&withShare, "share", false, "Also print a share token and URL")
	f.StringVar(&shareBase, "base-url", "http://localhost:8080", "Base URL for share links")
	return cmd
}
