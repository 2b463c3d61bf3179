package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/uire/internal/clarify"
	"github.com/ziadkadry99/uire/internal/detect"
	"github.com/ziadkadry99/uire/internal/resolve"
)

// factorSlots pairs each askable factor with the answer slot it fills.
var factorSlots = map[detect.Factor]string{
	detect.FactorCriteriaMissing: "criteria",
	detect.FactorRegionMissing:   "region",
	detect.FactorAudienceMissing: "audience",
	detect.FactorLengthMissing:   "length",
	detect.FactorLanguageMissing: "language",
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <query>",
	Short: "Interactively resolve a query into a structured intent",
	Long: `Detects ambiguity in the query, asks up to two clarification questions
on the terminal, and prints the resolved intent and final prompt as JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		detector := detect.New()
		clarifier := clarify.New()
		resolver := resolve.New()

		result := detector.Detect(query)
		answers := map[string]string{}

		if result.Ambiguous {
			fmt.Fprintf(os.Stderr, "Query is ambiguous (score %.2f)\n\n", result.Score)

			questions := clarifier.Generate(query, result.Factors)

			// Generate walks the factors in order and skips the ones without
			// a question, so pairing questions with askable factors in order
			// recovers the slot each question fills.
			slots := make([]string, 0, len(questions))
			for _, f := range result.Factors {
				if slot, ok := factorSlots[f]; ok {
					slots = append(slots, slot)
				}
			}

			for i, q := range questions {
				labels := make([]string, len(q.Options))
				cursor := 0
				for j, opt := range q.Options {
					labels[j] = opt.Label
					if opt.ID == q.Default {
						cursor = j
					}
				}

				sel := promptui.Select{
					Label:     q.Question,
					Items:     labels,
					CursorPos: cursor,
				}
				idx, _, err := sel.Run()
				if err != nil {
					return fmt.Errorf("clarification prompt: %w", err)
				}
				answers[slots[i]] = q.Options[idx].ID
			}
			fmt.Fprintln(os.Stderr)
		}

		resolved := resolver.Resolve(query, answers, nil)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resolved)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
