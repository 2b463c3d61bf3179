package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/uire/internal/detect"
)

// benchRecord is one line of a JSONL benchmark dataset.
type benchRecord struct {
	Query string `json:"query"`
}

var benchCmd = &cobra.Command{
	Use:   "bench <dataset.jsonl>",
	Short: "Run the ambiguity detector over a JSONL dataset",
	Long: `Reads a JSONL file with one {"query": ...} record per line, runs the
ambiguity detector on each query and reports how many were flagged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening dataset: %w", err)
		}
		defer f.Close()

		detector := detect.New()
		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Detecting"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)

		var total, flagged int
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			var rec benchRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				return fmt.Errorf("line %d: %w", total+1, err)
			}
			total++
			if detector.Detect(rec.Query).Ambiguous {
				flagged++
			}
			_ = bar.Add(1)
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading dataset: %w", err)
		}
		_ = bar.Finish()

		rate := 0.0
		if total > 0 {
			rate = math.Round(float64(flagged)/float64(total)*1000) / 1000
		}
		fmt.Printf("total:     %d\n", total)
		fmt.Printf("flagged:   %d\n", flagged)
		fmt.Printf("flag_rate: %.3f\n", rate)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
}
