package extractor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/bdougie/lecturekit/internal/models"
)

var frameNumberPattern = regexp.MustCompile(`(\d+)\.(?i:jpe?g)$`)

// DirSource yields the JPEG frames of a directory in name order.
type DirSource struct {
	dir    string
	frames []string
	next   int
}

// NewDirSource lists the frames in dir.
func NewDirSource(dir string) (*DirSource, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frames directory '%s': %w", dir, err)
	}

	var frames []string
	for _, file := range files {
		if !file.IsDir() && isJPEG(file.Name()) {
			frames = append(frames, file.Name())
		}
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no JPEG frames found in directory '%s'", dir)
	}
	sort.Strings(frames)

	return &DirSource{dir: dir, frames: frames}, nil
}

// Len is the number of frames in the directory.
func (s *DirSource) Len() int { return len(s.frames) }

// Paths returns the frame paths in order.
func (s *DirSource) Paths() []string {
	out := make([]string, len(s.frames))
	for i, name := range s.frames {
		out[i] = filepath.Join(s.dir, name)
	}
	return out
}

// Next decodes the next frame, returning io.EOF after the last one. The frame
// number comes from the file name when it carries one, otherwise from its
// position.
func (s *DirSource) Next(ctx context.Context) (models.Frame, error) {
	if err := ctx.Err(); err != nil {
		return models.Frame{}, err
	}
	if s.next >= len(s.frames) {
		return models.Frame{}, io.EOF
	}
	name := s.frames[s.next]
	s.next++

	img, err := imaging.Open(filepath.Join(s.dir, name))
	if err != nil {
		return models.Frame{}, fmt.Errorf("open frame %s: %w", name, err)
	}
	return models.Frame{Num: FrameNumber(name, s.next), Image: img}, nil
}

// Close is a no-op; frames are read one at a time.
func (s *DirSource) Close() error { return nil }

// FrameNumber parses the trailing number of a frame file name such as
// frame_0007.jpg, falling back to fallback.
func FrameNumber(name string, fallback int) int {
	m := frameNumberPattern.FindStringSubmatch(filepath.Base(name))
	if len(m) < 2 {
		return fallback
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return fallback
	}
	return n
}
