package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// Reader decodes a replay stream
type Reader struct {
	dec    *msgpack.Decoder
	header Header
}

// NewReader reads the header from r
func NewReader(r io.Reader) (*Reader, error) {
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	var header Header
	if err := dec.Decode(&header); err != nil {
		return nil, fmt.Errorf("failed to read replay header: %w", err)
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported replay version %d", header.Version)
	}
	return &Reader{dec: dec, header: header}, nil
}

// Header returns the replay header
func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next frame, or io.EOF after the last one
func (r *Reader) Next() (Frame, error) {
	var frame Frame
	if err := r.dec.Decode(&frame); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("failed to read replay frame: %w", err)
	}
	return frame, nil
}

// DecodeSnapshot unpacks a frame's snapshot into v
func (f Frame) DecodeSnapshot(v interface{}) error {
	return msgpack.Unmarshal(f.Snapshot, v)
}

// Summary describes a whole replay
type Summary struct {
	Header      Header
	Frames      int
	FirstTick   uint64
	LastTick    uint64
	Duration    float64
	PeakRaiders int
	FinalScore  int
	PeakScore   int
}

// Summarize reads every frame from r
func Summarize(r io.Reader) (*Summary, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}

	s := &Summary{Header: reader.Header()}
	var startTime float64
	for {
		frame, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if s.Frames == 0 {
			s.FirstTick = frame.Tick
			startTime = frame.Time
		}
		s.Frames++
		s.LastTick = frame.Tick
		s.Duration = frame.Time - startTime
		s.FinalScore = frame.Score
		if frame.Score > s.PeakScore {
			s.PeakScore = frame.Score
		}
		if frame.Raiders > s.PeakRaiders {
			s.PeakRaiders = frame.Raiders
		}
	}
	return s, nil
}

// SummarizeFile opens path and summarizes it
func SummarizeFile(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay: %w", err)
	}
	defer f.Close()
	return Summarize(f)
}
