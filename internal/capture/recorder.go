package capture

import "time"

// Recorder turns a session's event stream into the ordered chunk log,
// enforcing the output size cap. Input chunks are logged for
// traceability but do not count against the cap.
type Recorder struct {
	maxBytes  int64
	size      int64
	truncated bool
	closed    bool
	chunks    []Chunk
}

// NewRecorder creates a Recorder with the given output byte cap.
func NewRecorder(maxBytes int64) *Recorder {
	return &Recorder{maxBytes: maxBytes}
}

// RecordInput appends an input-direction chunk. Input is never counted
// against the cap and never truncated.
func (r *Recorder) RecordInput(data string) {
	if data == "" {
		return
	}
	r.chunks = append(r.chunks, Chunk{
		Timestamp: time.Now().UTC(),
		Direction: DirectionInput,
		Data:      data,
	})
}

// RecordOutput appends an output-direction chunk, truncating at the
// cap. Once the cap is reached the recorder appends the truncation
// marker as a final synthetic chunk and discards all further output.
func (r *Recorder) RecordOutput(data string) {
	if r.closed || data == "" {
		return
	}
	remaining := r.maxBytes - r.size
	if remaining <= 0 {
		r.close()
		return
	}
	if int64(len(data)) >= remaining {
		data = data[:remaining]
		r.append(data)
		r.close()
		return
	}
	r.append(data)
}

func (r *Recorder) append(data string) {
	r.size += int64(len(data))
	r.chunks = append(r.chunks, Chunk{
		Timestamp: time.Now().UTC(),
		Direction: DirectionOutput,
		Data:      data,
	})
}

// close marks the cap as reached and emits the marker chunk exactly once.
func (r *Recorder) close() {
	if r.closed {
		return
	}
	r.closed = true
	r.truncated = true
	r.chunks = append(r.chunks, Chunk{
		Timestamp: time.Now().UTC(),
		Direction: DirectionOutput,
		Data:      TruncationMarker,
	})
}

// Chunks returns the recorded log in observation order.
func (r *Recorder) Chunks() []Chunk {
	return r.chunks
}

// Size is the number of output bytes recorded, excluding the marker.
func (r *Recorder) Size() int64 { return r.size }

// Truncated reports whether the cap was reached.
func (r *Recorder) Truncated() bool { return r.truncated }
