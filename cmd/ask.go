package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/policyqa/internal/model"
)

var (
	askTopK          int
	askMinConfidence float64
	askJSON          bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question against the policy corpus",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		question := strings.Join(args, " ")

		ag, err := initAgent()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		result, usage, err := ag.AnswerQuery(ctx, question, askTopK, askMinConfidence)
		if err != nil {
			return eris.Wrap(err, "answer query")
		}

		run := &model.QueryRun{
			Question:         question,
			Answer:           result.Answer,
			Status:           result.Status,
			Confidence:       result.Confidence,
			ConflictDetected: result.ConflictDetected,
			LatencyMS:        usage.LatencyMS,
		}
		if err := st.CreateQueryRun(ctx, run); err != nil {
			zap.L().Warn("failed to record query run", zap.Error(err))
		}

		if askJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(model.AgentResponse{
				Status: result.Status,
				Output: result.Output(),
				Usage:  usage,
			})
		}

		formatResult(result)
		return nil
	},
}

func formatResult(r *model.QueryResult) {
	fmt.Println(r.Answer)

	if r.ConflictDetected {
		fmt.Printf("\nConflict detected, resolution: %s\n", r.ResolutionStrategy)
	}
	if r.Reasoning != "" {
		fmt.Printf("Reasoning: %s\n", r.Reasoning)
	}
	fmt.Printf("Confidence: %.2f (status: %s)\n", r.Confidence, r.Status)

	if len(r.Sources) > 0 {
		fmt.Println("Sources:")
		for _, s := range r.Sources {
			line := "  - " + s.Title
			if s.Version != "" {
				line += " (" + s.Version + ")"
			}
			fmt.Println(line)
		}
	}
}

func init() {
	askCmd.Flags().IntVar(&askTopK, "top-k", 3, "number of documents to retrieve")
	askCmd.Flags().Float64Var(&askMinConfidence, "min-confidence", 0.65, "confidence threshold for answering")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full response as JSON")
	rootCmd.AddCommand(askCmd)
}
