package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/interviewd/config"
	"github.com/mohammad-safakhou/interviewd/internal/chunk"
	"github.com/mohammad-safakhou/interviewd/internal/extract"
	"github.com/mohammad-safakhou/interviewd/internal/interview"
	"github.com/mohammad-safakhou/interviewd/internal/provider"
	"github.com/mohammad-safakhou/interviewd/internal/rag"
)

// interviewCMD runs a full interview in the terminal against a local
// document, without the HTTP server.
func interviewCMD() *cobra.Command {
	var cfgPath string
	var filePath string
	var evaluate bool
	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Run an interactive interview over a local job description",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if filePath == "" {
				return fmt.Errorf("--file is required")
			}
			return runInterview(cmd, cfg, filePath, evaluate)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default searches ./config and .)")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "job description file (pdf or plain text)")
	cmd.Flags().BoolVar(&evaluate, "evaluate", false, "grade every answer after it is given")
	return cmd
}

func runInterview(cmd *cobra.Command, cfg *config.Config, filePath string, evaluate bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}
	text, err := extract.New(cfg.Document).Text(ctx, raw)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Loaded %d characters from %s\n", len(text), filePath)

	embedder, err := provider.NewEmbedder(cfg.Providers)
	if err != nil {
		return err
	}
	generator, err := provider.NewGenerator(cfg.Providers)
	if err != nil {
		return err
	}

	chunks, err := chunk.Split(text, cfg.Document.ChunkSize, cfg.Document.ChunkOverlap)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Indexing %d chunks...\n", len(chunks))
	idx, err := rag.BuildIndex(ctx, embedder, chunks)
	if err != nil {
		return err
	}

	sess := interview.NewSession("local", idx, embedder, generator, cfg.Interview)
	fmt.Fprintf(out, "\nStarting interview (%d questions max). Type 'exit', 'quit' or 'stop' to end.\n\n", cfg.Interview.MaxQuestions)

	turn, err := sess.Start(ctx)
	if err != nil {
		return err
	}
	if !turn.Grounded {
		// Nothing was committed, so there is no interview to continue.
		fmt.Fprintf(out, "%s\n", turn.Question)
		return nil
	}
	printTurn(out, turn)

	scanner := bufio.NewScanner(os.Stdin)
	question := turn.Question
	for !turn.Complete {
		fmt.Fprint(out, "Your Answer: ")
		if !scanner.Scan() {
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(answer) {
		case "exit", "quit", "stop":
			fmt.Fprintln(out, "\nInterview ended. Thank you for participating!")
			return nil
		case "":
			fmt.Fprintln(out, "Please provide an answer.")
			continue
		}

		if evaluate && turn.Grounded && question != "" {
			eval, err := sess.Evaluate(ctx, question, answer)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nFeedback: %s\n", eval.Feedback)
		}

		turn, err = sess.SubmitAnswer(ctx, answer)
		if err != nil {
			return err
		}
		question = turn.Question
		fmt.Fprintln(out)
		printTurn(out, turn)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read answer: %w", err)
	}

	st := sess.Status()
	fmt.Fprintf(out, "Interview completed! You answered %d questions.\n", st.QuestionCount)
	return nil
}

func printTurn(out io.Writer, turn interview.Turn) {
	if turn.Question == "" {
		return
	}
	fmt.Fprintf(out, "AI Interviewer (%d/%d): %s\n\n", turn.QuestionNumber, turn.TotalQuestions, turn.Question)
}
