// Package transcript reads Claude Code JSONL transcript files and extracts
// an audit trail of tool activity: files written, shell commands, git
// operations, subagent spawns, and risky commands.
package transcript

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// DefaultChunkSize is the read block size used when scanning a full
// transcript. Peak memory is bounded by the chunk size plus the longest
// single line, independent of file size.
const DefaultChunkSize = 64 * 1024

// ReadLines streams the file at path in fixed-size chunks, reassembles
// complete lines across chunk boundaries, and calls fn for each line. The
// final line is delivered even without a trailing newline. Lines are split
// on raw newline bytes before any interpretation, so multi-byte UTF-8
// sequences straddling a chunk boundary stay intact.
func ReadLines(path string, chunkSize int, fn func(line []byte) error) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening transcript %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	chunk := make([]byte, chunkSize)
	var pending []byte

	for {
		n, readErr := f.Read(chunk)
		if n > 0 {
			pending = append(pending, chunk[:n]...)
			for {
				idx := bytes.IndexByte(pending, '\n')
				if idx < 0 {
					break
				}
				line := pending[:idx]
				if len(line) > 0 && line[len(line)-1] == '\r' {
					line = line[:len(line)-1]
				}
				if err := fn(line); err != nil {
					return err
				}
				pending = pending[idx+1:]
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("reading transcript %s: %w", path, readErr)
		}
	}

	if len(pending) > 0 {
		if err := fn(pending); err != nil {
			return err
		}
	}
	return nil
}

// EdgeSample holds the first and last newline-delimited segments of a file,
// read without scanning the whole file.
type EdgeSample struct {
	First string
	Last  string
}

// SampleEdges reads at most headBytes from the start and tailBytes from the
// end of the file at path. The first segment of the head sample and the last
// non-blank segment of the tail sample are returned. This is a cheap
// best-effort read used for session discovery; callers skip the file when
// the samples do not parse.
func SampleEdges(path string, headBytes, tailBytes int64) (EdgeSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return EdgeSample{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return EdgeSample{}, fmt.Errorf("stat %s: %w", path, err)
	}
	size := info.Size()

	var sample EdgeSample

	head := make([]byte, min(headBytes, size))
	if _, err := io.ReadFull(f, head); err != nil && err != io.EOF {
		return EdgeSample{}, fmt.Errorf("reading head of %s: %w", path, err)
	}
	if idx := bytes.IndexByte(head, '\n'); idx >= 0 {
		sample.First = string(head[:idx])
	} else {
		sample.First = string(head)
	}

	tailLen := min(tailBytes, size)
	tail := make([]byte, tailLen)
	if _, err := f.ReadAt(tail, size-tailLen); err != nil && err != io.EOF {
		return EdgeSample{}, fmt.Errorf("reading tail of %s: %w", path, err)
	}
	for _, seg := range splitReverse(tail) {
		if len(bytes.TrimSpace(seg)) > 0 {
			sample.Last = string(seg)
			break
		}
	}

	return sample, nil
}

// splitReverse returns the newline-delimited segments of data, last first.
func splitReverse(data []byte) [][]byte {
	segs := bytes.Split(data, []byte{'\n'})
	out := make([][]byte, 0, len(segs))
	for i := len(segs) - 1; i >= 0; i-- {
		out = append(out, segs[i])
	}
	return out
}
