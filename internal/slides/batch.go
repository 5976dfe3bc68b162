package slides

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/disintegration/imaging"

	"github.com/bdougie/lecturekit/internal/extractor"
	"github.com/bdougie/lecturekit/internal/models"
)

const defaultWorkers = 4

// ProcessVideo extracts frames from a recorded video every interval seconds
// and reports the slide changes among them.
func (p *Pipeline) ProcessVideo(ctx context.Context, videoPath, outputDir string, interval, workers int) error {
	p.cfg.Logger.Info("processing video", "video", videoPath, "session", p.cfg.SessionID)

	frameDir, err := extractor.ExtractFrames(ctx, p.cfg.Logger, videoPath, outputDir, interval)
	if err != nil {
		return err
	}
	src, err := extractor.NewDirSource(frameDir)
	if err != nil {
		return err
	}
	defer src.Close()

	p.cfg.Logger.Info("found frames to analyze", "frames", src.Len())
	return p.ProcessFrames(ctx, src.Paths(), workers)
}

// ProcessFrames OCRs the frames at paths with a worker pool, then feeds the
// texts through the change detector in path order. Frames that fail are
// skipped and reported together at the end.
func (p *Pipeline) ProcessFrames(ctx context.Context, paths []string, workers int) error {
	if workers <= 0 {
		workers = defaultWorkers
	}
	total := len(paths)
	workChan := make(chan models.WorkItem, total)
	results := make([]*models.FrameText, total)
	errorsChan := make(chan error, total)

	var wg sync.WaitGroup

	remainingFrames := atomic.Int64{}
	remainingFrames.Store(int64(total))

	// Start worker pool
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for work := range workChan {
				if ctx.Err() != nil {
					errorsChan <- ctx.Err()
					continue
				}
				ft, err := p.recognizePath(ctx, work.FramePath)
				if err != nil {
					errorsChan <- fmt.Errorf("frame %d/%d failed: %w", work.FrameNum, work.Total, err)
					continue
				}
				results[work.FrameNum-1] = &ft

				remaining := remainingFrames.Add(-1)
				p.cfg.Logger.Debug("frame recognized", "remaining", remaining, "total", total)
			}
		}()
	}

	// Send work to workers
	for i, path := range paths {
		workChan <- models.WorkItem{
			FramePath: path,
			FrameNum:  i + 1,
			Total:     total,
		}
	}
	close(workChan)

	wg.Wait()
	close(errorsChan)

	if err := ctx.Err(); err != nil {
		return err
	}

	for _, ft := range results {
		if ft == nil {
			continue
		}
		if _, err := p.Accept(ctx, *ft); err != nil {
			return err
		}
	}

	var errs []error
	for err := range errorsChan {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("encountered errors during processing: %w", errors.Join(errs...))
	}
	return nil
}

func (p *Pipeline) recognizePath(ctx context.Context, path string) (models.FrameText, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return models.FrameText{}, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	num := extractor.FrameNumber(path, 0)
	return p.Recognize(ctx, models.Frame{Num: num, Image: img})
}
