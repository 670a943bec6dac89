package main

import (
	"bufio"
	"io"
	"os"

	"github.com/jcorbin/lgo/internal/flushio"
	"github.com/jcorbin/lgo/internal/runeio"
)

// stream.go implements spec §3/§4.8's file-stream jref: {kind, OS handle,
// direction flag}. Input streams are wrapped through the same
// internal/runeio.Reader the teacher uses for its script queue; output
// streams reuse internal/flushio.WriteFlusher so buffered writes and
// Flush()/Close() discipline are identical to the teacher's `Core.out`.

// StreamDirection distinguishes an input stream from an output stream.
type StreamDirection uint8

const (
	DirInput StreamDirection = iota
	DirOutput
	DirIO
)

// Stream is the jref object behind file-stream values.
type Stream struct {
	Name      string
	Direction StreamDirection

	in  runeio.Reader
	out flushio.WriteFlusher

	closer io.Closer
	closed bool
}

func (s *Stream) jrefSubtype() JrefSubtype { return SubStream }
func (s *Stream) markChildren(h *Heap)     {}

// ReadRune satisfies io.RuneReader so streams compose with the reader.
func (s *Stream) ReadRune() (rune, int, error) {
	if s.in == nil {
		return 0, 0, io.EOF
	}
	return s.in.ReadRune()
}

// WriteRune writes a single rune using the teacher's ANSI-aware writer.
func (s *Stream) WriteRune(r rune) error {
	if s.out == nil {
		return io.ErrClosedPipe
	}
	_, err := runeio.WriteANSIRune(s.out, r)
	return err
}

// WriteString writes a string's runes via WriteRune.
func (s *Stream) WriteString(str string) error {
	for _, r := range str {
		if err := s.WriteRune(r); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered output.
func (s *Stream) Flush() error {
	if s.out == nil {
		return nil
	}
	return s.out.Flush()
}

// Close flushes and releases the underlying OS resource, if any.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	ferr := s.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); ferr == nil {
			ferr = cerr
		}
	}
	return ferr
}

// openFileStream implements `make-file-stream`: opens a real OS file for
// reading, writing, or appending.
func openFileStream(path string, dir StreamDirection, appendMode bool) (*Stream, error) {
	switch dir {
	case DirInput:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		return &Stream{Name: path, Direction: dir, in: runeio.NewReader(f), closer: f}, nil
	default:
		flags := os.O_CREATE | os.O_WRONLY
		if appendMode {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, err := os.OpenFile(path, flags, 0644)
		if err != nil {
			return nil, err
		}
		return &Stream{Name: path, Direction: dir, out: flushio.NewWriteFlusher(f), closer: f}, nil
	}
}

// wrapInputStream adapts an arbitrary io.Reader (e.g. stdin) into a Stream.
func wrapInputStream(name string, r io.Reader) *Stream {
	return &Stream{Name: name, Direction: DirInput, in: runeio.NewReader(r)}
}

// wrapOutputStream adapts an arbitrary io.Writer (e.g. stdout) into a Stream.
func wrapOutputStream(name string, w io.Writer) *Stream {
	return &Stream{Name: name, Direction: DirOutput, out: flushio.NewWriteFlusher(w)}
}

// bufferedStdin wraps os.Stdin in a bufio.Reader, without line tracking. No
// code in this package calls it: the REPL reads through it.Input and
// *STANDARD-INPUT* wraps os.Stdin with wrapInputStream.
func bufferedStdin() *bufio.Reader { return bufio.NewReader(os.Stdin) }
