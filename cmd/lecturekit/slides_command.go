package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bdougie/lecturekit/internal/capture"
	"github.com/bdougie/lecturekit/internal/models"
	"github.com/bdougie/lecturekit/internal/ocr/tesseract"
	"github.com/bdougie/lecturekit/internal/slides"
	"github.com/bdougie/lecturekit/internal/storage"
)

func newSlidesCommand(ctx *commandContext) *cobra.Command {
	var videoPath string
	var source string
	var noGUI bool
	var sessionID string

	cmd := &cobra.Command{
		Use:   "slides",
		Short: "Watch a camera or video and summarize each new slide",
		Long: `Reads frames from the configured camera (or --source), OCRs every
frame_skip-th frame and prints a summary whenever the slide text changes.
With --video the recording is sampled with ffmpeg and processed offline.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.log()
			runCtx := cmd.Context()

			emb, err := ctx.embedder()
			if err != nil {
				return err
			}
			defer emb.Close()

			sum, err := ctx.summarizer(runCtx, emb)
			if err != nil {
				return err
			}

			engine := tesseract.New(
				tesseract.WithLanguages(cfg.OCR.Languages...),
				tesseract.WithPageSegMode(cfg.OCR.PageSegMode),
			)
			logger.Debug("ocr engine", "engine", engine.String(), "tesseract", tesseract.Version())

			session := strings.TrimSpace(sessionID)
			if session == "" {
				session = uuid.NewString()
			}
			store, err := storage.Open(runCtx, cfg, session)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Error("close storage", "error", err)
				}
			}()

			detector := slides.NewChangeDetector(cfg.Slides.FrameSkip, cfg.Slides.SimilarityThreshold)
			pcfg := slides.Config{
				Engine:           engine,
				Summarizer:       sum,
				Detector:         detector,
				SummarySentences: cfg.Slides.SummarySentences,
				Out:              cmd.OutOrStdout(),
				Logger:           logger,
				SessionID:        session,
			}
			if cfg.Storage.Backend != "none" {
				pcfg.Sink = store
				pcfg.Embedder = emb
				pcfg.OnSlide = func(s models.Slide) {
					logger.Debug("slide stored", "frame", s.FrameNum, "backend", cfg.Storage.Backend)
				}
			}
			pipeline, err := slides.New(pcfg)
			if err != nil {
				return err
			}

			if strings.TrimSpace(videoPath) != "" {
				return pipeline.ProcessVideo(runCtx, videoPath, cfg.Slides.FramesDir, cfg.Slides.FrameInterval, cfg.Slides.Workers)
			}

			src := cfg.Capture.Source
			if strings.TrimSpace(source) != "" {
				src = source
			}
			video, err := capture.Open(capture.Config{
				Source:  src,
				Sample:  detector.ShouldSample,
				ShowGUI: cfg.Capture.ShowGUI && !noGUI,
			}, logger)
			if err != nil {
				return err
			}
			defer video.Close()

			err = pipeline.Watch(runCtx, video)
			if errors.Is(err, capture.ErrStopped) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Stopped.")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&videoPath, "video", "", "Process a recorded video offline instead of watching live")
	cmd.Flags().StringVar(&source, "source", "", "Camera index or video file (overrides capture.source)")
	cmd.Flags().BoolVar(&noGUI, "no-gui", false, "Do not open the preview window")
	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID recorded with stored slides (default: random UUID)")
	return cmd
}
