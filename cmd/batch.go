package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/policyqa/internal/agent"
	"github.com/sells-group/policyqa/internal/model"
	"github.com/sells-group/policyqa/internal/store"
)

var (
	batchLimit       int
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch <questions-file>",
	Short: "Answer a batch of questions from a file, one per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		questions, err := readQuestions(args[0])
		if err != nil {
			return err
		}

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

		return processBatch(ctx, ag, st, questions, batchLimit, batchConcurrency)
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of questions to process (0 = all)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "number of questions processed in parallel")
	rootCmd.AddCommand(batchCmd)
}

// readQuestions loads questions from a file, one per line. Blank lines and
// lines starting with # are skipped.
func readQuestions(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open questions file")
	}
	defer f.Close()

	var questions []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		questions = append(questions, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "read questions file")
	}
	return questions, nil
}

// processBatch applies limit, then answers questions concurrently, recording
// each run to the store.
func processBatch(ctx context.Context, ag *agent.Agent, st store.Store, questions []string, limit, concurrency int) error {
	if len(questions) == 0 {
		zap.L().Info("no questions to process")
		return nil
	}

	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}

	zap.L().Info("processing batch",
		zap.Int("questions", len(questions)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var answered, gated atomic.Int64

	for _, question := range questions {
		g.Go(func() error {
			log := zap.L().With(zap.String("question", question))

			result, usage, err := ag.AnswerQuery(gctx, question, cfg.Agent.TopK, cfg.Agent.MinConfidence)
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
			if err := st.CreateQueryRun(gctx, run); err != nil {
				log.Warn("failed to record query run", zap.Error(err))
			}

			if result.Status == model.StatusLowConfidence {
				gated.Add(1)
			} else {
				answered.Add(1)
			}
			log.Info("question answered",
				zap.String("status", string(result.Status)),
				zap.Float64("confidence", result.Confidence),
				zap.Bool("conflict", result.ConflictDetected),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("answered", answered.Load()),
		zap.Int64("low_confidence", gated.Load()),
	)
	return nil
}
