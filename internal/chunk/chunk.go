// Package chunk splits document text into fixed-size overlapping windows.
package chunk

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyText is returned when the input contains no usable text.
	ErrEmptyText = errors.New("chunk: empty text")
	// ErrBadOverlap is returned when the window parameters cannot make forward progress.
	ErrBadOverlap = errors.New("chunk: overlap must be non-negative and smaller than size")
)

// Split cuts text into windows of at most size bytes where each window shares
// overlap bytes with its predecessor. Offsets are byte-based, so the same
// input always produces the same windows in document order, and
// chunks[0] + chunks[1][overlap:] + ... reassembles the input exactly.
func Split(text string, size, overlap int) ([]string, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, ErrBadOverlap
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if len(text) <= size {
		return []string{text}, nil
	}
	var chunks []string
	for start := 0; start < len(text); {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
		start = end - overlap
	}
	return chunks, nil
}
