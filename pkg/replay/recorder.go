package replay

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// FormatVersion is written into every header
const FormatVersion = 1

// Header opens every replay file
type Header struct {
	Version        int       `msgpack:"v"`
	Seed           int64     `msgpack:"seed"`
	Width          float64   `msgpack:"w"`
	Height         float64   `msgpack:"h"`
	TickRate       int       `msgpack:"tick_rate"`
	SettingsDigest string    `msgpack:"digest"`
	CreatedAt      time.Time `msgpack:"created_at"`
}

// Frame is one recorded tick. Snapshot holds the msgpack-encoded render
// snapshot so the replay format does not depend on the simulation types.
type Frame struct {
	Tick     uint64             `msgpack:"tick"`
	Time     float64            `msgpack:"time"`
	Score    int                `msgpack:"score"`
	Raiders  int                `msgpack:"raiders"`
	Snapshot msgpack.RawMessage `msgpack:"snap"`
}

// Recorder streams a header followed by frames to a writer
type Recorder struct {
	mu     sync.Mutex
	buf    *bufio.Writer
	enc    *msgpack.Encoder
	closer io.Closer
	frames int
}

// NewRecorder writes the header to w and returns a recorder for frames
func NewRecorder(w io.Writer, header Header) (*Recorder, error) {
	if header.Version == 0 {
		header.Version = FormatVersion
	}
	buf := bufio.NewWriter(w)
	r := &Recorder{buf: buf, enc: msgpack.NewEncoder(buf)}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	if err := r.enc.Encode(&header); err != nil {
		return nil, fmt.Errorf("failed to write replay header: %w", err)
	}
	return r, nil
}

// Create opens path for writing, creating its directory, and writes the header
func Create(path string, header Header) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create replay directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create replay file: %w", err)
	}
	r, err := NewRecorder(f, header)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// Record appends one frame, encoding snapshot with msgpack
func (r *Recorder) Record(tick uint64, simTime float64, score, raiders int, snapshot interface{}) error {
	raw, err := msgpack.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	frame := Frame{Tick: tick, Time: simTime, Score: score, Raiders: raiders, Snapshot: raw}
	if err := r.enc.Encode(&frame); err != nil {
		return fmt.Errorf("failed to write replay frame: %w", err)
	}
	r.frames++
	return nil
}

// Frames returns the number of frames written so far
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Close flushes buffered frames and closes the underlying file, if any
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush replay: %w", err)
	}
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
