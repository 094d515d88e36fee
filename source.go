package docreader

import (
	"bytes"
	"fmt"
	"io"
)

// Source is the byte source for a conversion: either an in-memory buffer or
// a reader. The zero value is an empty source.
type Source struct {
	data []byte
	r    io.Reader
}

// BytesSource wraps an in-memory byte buffer.
func BytesSource(b []byte) Source {
	return Source{data: b}
}

// ReaderSource wraps a readable stream, typically an open file handle.
func ReaderSource(r io.Reader) Source {
	return Source{r: r}
}

// normalize produces a single seekable stream over the source content plus
// its total byte length. Seekable readers are measured in place with a
// seek-to-end-and-restore; anything else is buffered first.
func (s Source) normalize() (io.ReadSeeker, int64, error) {
	if s.data != nil {
		return bytes.NewReader(s.data), int64(len(s.data)), nil
	}
	if s.r == nil {
		return bytes.NewReader(nil), 0, nil
	}
	if rs, ok := s.r.(io.ReadSeeker); ok {
		cur, err := rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, 0, fmt.Errorf("seek: %w", err)
		}
		end, err := rs.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, fmt.Errorf("seek: %w", err)
		}
		if _, err := rs.Seek(cur, io.SeekStart); err != nil {
			return nil, 0, fmt.Errorf("seek: %w", err)
		}
		return rs, end, nil
	}
	buf, err := io.ReadAll(s.r)
	if err != nil {
		return nil, 0, fmt.Errorf("read content: %w", err)
	}
	return bytes.NewReader(buf), int64(len(buf)), nil
}
