package extractor

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func writeFrame(t *testing.T, dir, name string, shade uint8) {
	t.Helper()
	img := imaging.New(8, 6, color.NRGBA{R: shade, G: shade, B: shade, A: 255})
	if err := imaging.Save(img, filepath.Join(dir, name)); err != nil {
		t.Fatalf("save %s: %v", name, err)
	}
}

func TestDirSourceYieldsFramesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, dir, "frame_0002.jpg", 200)
	writeFrame(t, dir, "frame_0001.jpg", 10)
	writeFrame(t, dir, "cover.JPG", 100)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := NewDirSource(dir)
	if err != nil {
		t.Fatalf("NewDirSource: %v", err)
	}
	if src.Len() != 3 {
		t.Fatalf("expected 3 frames, got %d", src.Len())
	}

	var nums []int
	for {
		frame, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if frame.Image == nil || frame.Image.Bounds() != image.Rect(0, 0, 8, 6) {
			t.Fatalf("unexpected frame image for %d", frame.Num)
		}
		if frame.Preprocessed {
			t.Fatal("directory frames should not be marked preprocessed")
		}
		nums = append(nums, frame.Num)
	}
	// cover.JPG sorts first and has no number, so it keeps its position
	want := []int{1, 1, 2}
	if len(nums) != len(want) {
		t.Fatalf("got frames %v, want %v", nums, want)
	}
	for i := range want {
		if nums[i] != want[i] {
			t.Fatalf("got frames %v, want %v", nums, want)
		}
	}
}

func TestNewDirSourceRejectsEmptyDir(t *testing.T) {
	if _, err := NewDirSource(t.TempDir()); err == nil {
		t.Fatal("expected error for directory without frames")
	}
}

func TestFrameNumber(t *testing.T) {
	tests := []struct {
		name     string
		fallback int
		want     int
	}{
		{"frame_0042.jpg", 1, 42},
		{"/tmp/x/frame_7.JPEG", 1, 7},
		{"title.jpg", 3, 3},
	}
	for _, tt := range tests {
		if got := FrameNumber(tt.name, tt.fallback); got != tt.want {
			t.Fatalf("FrameNumber(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestExtractFramesReusesExistingFrames(t *testing.T) {
	out := t.TempDir()
	video := filepath.Join(t.TempDir(), "lecture.mp4")
	if err := os.WriteFile(video, []byte("not really a video"), 0o644); err != nil {
		t.Fatal(err)
	}
	frameDir := FrameDir(video, out)
	if err := os.MkdirAll(frameDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFrame(t, frameDir, "frame_0001.jpg", 50)

	got, err := ExtractFrames(context.Background(), nil, video, out, 5)
	if err != nil {
		t.Fatalf("ExtractFrames: %v", err)
	}
	if got != frameDir {
		t.Fatalf("expected %q, got %q", frameDir, got)
	}
}

func TestExtractFramesMissingVideo(t *testing.T) {
	_, err := ExtractFrames(context.Background(), nil, filepath.Join(t.TempDir(), "missing.mp4"), t.TempDir(), 5)
	if err == nil {
		t.Fatal("expected error for missing video")
	}
}
