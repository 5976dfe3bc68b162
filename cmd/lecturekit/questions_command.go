package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/bdougie/lecturekit/internal/nlp"
	"github.com/bdougie/lecturekit/internal/questions"
)

func newQuestionsCommand(ctx *commandContext) *cobra.Command {
	var file string
	var inline string
	var maxPer int

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Generate study questions from text",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			text, err := readInput(inline, file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			qcfg := questions.Config{
				MaxPerSentence:   cfg.Questions.MaxPerSentence,
				CountryFollowUps: cfg.Questions.CountryFollowUps,
			}
			if maxPer > 0 {
				qcfg.MaxPerSentence = maxPer
			}
			if seed := cfg.Questions.Seed; seed != 0 {
				qcfg.Rand = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
			}

			gen := questions.NewGenerator(nlp.NewProseTagger(), qcfg)
			qs, err := gen.Generate(text)
			if err != nil {
				return err
			}
			ctx.log().Debug("questions generated", "count", len(qs))

			out := cmd.OutOrStdout()
			for _, q := range qs {
				fmt.Fprintln(out, q)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read text from a file")
	cmd.Flags().StringVarP(&inline, "text", "t", "", "Text to generate questions from")
	cmd.Flags().IntVar(&maxPer, "max", 0, "Maximum questions per sentence (overrides questions.max_per_sentence)")
	return cmd
}
