// Package capture reads frames from a camera or a video file with OpenCV and
// optionally mirrors them to a preview window.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/bdougie/lecturekit/internal/models"
)

// ErrStopped is returned when the user presses q in the preview window.
var ErrStopped = errors.New("capture: stopped from preview window")

const (
	windowTitle     = "Live OCR Feed"
	binaryThreshold = 150
	quitKey         = 'q'
)

// Config controls how frames are read.
type Config struct {
	// Source is a camera index ("0") or a video file path.
	Source string
	// Sample reports whether a frame number will be OCR'd. Unsampled frames
	// are shown but never converted to image.Image.
	Sample func(frameNum int) bool
	// ShowGUI mirrors every frame to a preview window.
	ShowGUI bool
}

// VideoSource reads frames through gocv. Next returns io.EOF when the
// stream ends or the device stops delivering frames.
type VideoSource struct {
	cfg    Config
	video  *gocv.VideoCapture
	window *gocv.Window
	frame  gocv.Mat
	gray   gocv.Mat
	count  int
	logger *slog.Logger
}

// Open starts capturing from cfg.Source.
func Open(cfg Config, logger *slog.Logger) (*VideoSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	video, err := gocv.OpenVideoCapture(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("open video source %q: %w", cfg.Source, err)
	}
	if !video.IsOpened() {
		video.Close()
		return nil, fmt.Errorf("open video source %q: device not opened", cfg.Source)
	}

	s := &VideoSource{
		cfg:    cfg,
		video:  video,
		frame:  gocv.NewMat(),
		gray:   gocv.NewMat(),
		logger: logger,
	}
	if cfg.ShowGUI {
		s.window = gocv.NewWindow(windowTitle)
	}
	logger.Info("video capture opened", "source", cfg.Source, "gui", cfg.ShowGUI)
	return s, nil
}

// Next reads one frame. Sampled frames are thresholded in place and returned
// as a preprocessed grayscale image; other frames carry no image.
func (s *VideoSource) Next(ctx context.Context) (models.Frame, error) {
	if err := ctx.Err(); err != nil {
		return models.Frame{}, err
	}
	if ok := s.video.Read(&s.frame); !ok || s.frame.Empty() {
		s.logger.Info("video source closed", "source", s.cfg.Source, "frames", s.count)
		return models.Frame{}, io.EOF
	}
	s.count++

	out := models.Frame{Num: s.count}
	if s.cfg.Sample == nil || s.cfg.Sample(s.count) {
		img, err := s.preprocess()
		if err != nil {
			return models.Frame{}, fmt.Errorf("frame %d: %w", s.count, err)
		}
		out.Image = img
		out.Preprocessed = true
	}

	if s.window != nil {
		s.window.IMShow(s.frame)
		if s.window.WaitKey(1)&0xFF == quitKey {
			return models.Frame{}, ErrStopped
		}
	}
	return out, nil
}

func (s *VideoSource) preprocess() (image.Image, error) {
	gocv.CvtColor(s.frame, &s.gray, gocv.ColorBGRToGray)
	gocv.Threshold(s.gray, &s.gray, binaryThreshold, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	return s.gray.ToImage()
}

// Close releases the capture device and window.
func (s *VideoSource) Close() error {
	if s.window != nil {
		s.window.Close()
	}
	s.frame.Close()
	s.gray.Close()
	return s.video.Close()
}

// ShowImage displays img in its own window until a key is pressed, the
// window is closed or ctx is done.
func ShowImage(ctx context.Context, title string, img image.Image) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	window := gocv.NewWindow(title)
	defer window.Close()

	window.IMShow(mat)
	for ctx.Err() == nil && window.IsOpen() {
		if window.WaitKey(100) >= 0 {
			break
		}
	}
	return nil
}
