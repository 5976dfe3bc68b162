package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FrameDir returns the directory frames of videoPath are extracted into.
func FrameDir(videoPath, outputDir string) string {
	videoName := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	return filepath.Join(outputDir, videoName)
}

// ExtractFrames extracts frames from a video file at the given interval in
// seconds and returns the directory holding them.
func ExtractFrames(ctx context.Context, logger *slog.Logger, videoPath, outputDir string, interval int) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		return "", fmt.Errorf("frame interval must be positive, got %d", interval)
	}

	// Check if video file exists
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return "", fmt.Errorf("video file does not exist at path: '%s'", videoPath)
	}

	frameDirPath := FrameDir(videoPath, outputDir)

	// Reuse frames from a previous run
	if n := countFrames(frameDirPath); n > 0 {
		logger.Info("frames already extracted, skipping ffmpeg", "dir", frameDirPath, "frames", n)
		return frameDirPath, nil
	}

	if err := os.MkdirAll(frameDirPath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create frame directory '%s': %w", frameDirPath, err)
	}

	logger.Info("extracting frames", "video", videoPath, "dir", frameDirPath, "interval_seconds", interval)

	ffmpegCommand := exec.CommandContext(ctx,
		"ffmpeg",
		"-loglevel", "error",
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=1/%d", interval),
		filepath.Join(frameDirPath, "frame_%04d.jpg"),
	)

	// Capture output for better error reporting
	output, err := ffmpegCommand.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(output))
	}

	logger.Info("extracted frames", "dir", frameDirPath, "frames", countFrames(frameDirPath))
	return frameDirPath, nil
}

func countFrames(dir string) int {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	frameCount := 0
	for _, file := range files {
		if !file.IsDir() && isJPEG(file.Name()) {
			frameCount++
		}
	}
	return frameCount
}

func isJPEG(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg")
}
