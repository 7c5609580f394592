// Package telemetry reads and accounts for firmware telemetry streams on
// the host side.
package telemetry

import (
	"io"

	"coiltone/protocol"
)

// Stats summarizes a telemetry session.
type Stats struct {
	Frames    uint64 // valid frames decoded
	Bytes     uint64 // raw bytes consumed
	CRCErrors uint64 // frames rejected by CRC
	Skipped   uint64 // bytes skipped hunting for sync
	Gaps      uint64 // frames inferred lost from timestamp jumps
}

// Reader decodes frames from a raw stream and tracks session statistics.
type Reader struct {
	src io.Reader
	dec protocol.Decoder
	buf []byte

	pending []protocol.Frame

	bytes    uint64
	gaps     uint64
	lastTS   uint32
	haveLast bool
}

// NewReader wraps src, typically stdin or a serial port.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src, buf: make([]byte, 4096)}
}

// Next blocks until one frame is available or the stream ends.
func (r *Reader) Next() (protocol.Frame, error) {
	for len(r.pending) == 0 {
		n, err := r.src.Read(r.buf)
		if n > 0 {
			r.bytes += uint64(n)
			r.dec.Feed(r.buf[:n], func(f protocol.Frame) {
				r.account(f)
				r.pending = append(r.pending, f)
			})
		}
		if len(r.pending) > 0 {
			break
		}
		if err != nil {
			return protocol.Frame{}, err
		}
	}
	f := r.pending[0]
	r.pending = r.pending[1:]
	return f, nil
}

// account updates gap statistics from frame timestamps. Consecutive
// control periods are one control interval apart; a larger jump means the
// firmware dropped frames on a full queue.
func (r *Reader) account(f protocol.Frame) {
	if r.haveLast {
		// Wrap-safe tick delta; one control period is 32 samples at
		// 20kHz on a 1MHz clock.
		const period = 1000000 / 20000 * 32
		delta := f.Timestamp - r.lastTS
		if delta > period+period/2 {
			r.gaps += uint64(delta/period - 1)
		}
	}
	r.lastTS = f.Timestamp
	r.haveLast = true
}

// Stats returns the session statistics so far.
func (r *Reader) Stats() Stats {
	return Stats{
		Frames:    r.dec.Frames,
		Bytes:     r.bytes,
		CRCErrors: r.dec.CRCErrors,
		Skipped:   r.dec.Skipped,
		Gaps:      r.gaps,
	}
}
