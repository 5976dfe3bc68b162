package slides

import "github.com/bdougie/lecturekit/internal/textsim"

// ChangeDetector decides which frames to read and whether their text is a
// new slide. It is not safe for concurrent use.
type ChangeDetector struct {
	frameSkip int
	threshold float64
	previous  string
}

// NewChangeDetector samples every frameSkip-th frame and reports a change
// when similarity to the last accepted text drops below threshold.
func NewChangeDetector(frameSkip int, threshold float64) *ChangeDetector {
	if frameSkip <= 0 {
		frameSkip = 1
	}
	return &ChangeDetector{frameSkip: frameSkip, threshold: threshold}
}

// ShouldSample reports whether frame number n (1-based) should be OCR'd.
func (d *ChangeDetector) ShouldSample(n int) bool {
	return n%d.frameSkip == 0
}

// Observe compares text with the last accepted slide. On a change the text
// becomes the new reference.
func (d *ChangeDetector) Observe(text string) (changed bool, similarity float64) {
	similarity = textsim.Ratio(d.previous, text)
	if similarity < d.threshold {
		d.previous = text
		return true, similarity
	}
	return false, similarity
}

// Previous returns the text of the current slide.
func (d *ChangeDetector) Previous() string { return d.previous }
