package core

import "coiltone/protocol"

// Telemetry: one frame per control period capturing every pipeline stage,
// pushed through a bounded queue to the diagnostic transport. Telemetry is
// best effort by design; it never blocks and never affects control timing.

// TelemetryFrame captures one control period's pipeline values.
type TelemetryFrame struct {
	Timestamp Instant
	Sample    FixedSample
	IQ        IQPair
	Envelope  Envelope
	Drive     DriveCommand
}

// wire converts the frame to its wire representation.
func (f *TelemetryFrame) wire() protocol.Frame {
	return protocol.Frame{
		Timestamp: uint32(f.Timestamp),
		Sample:    int16(f.Sample),
		I:         int16(f.IQ.I),
		Q:         int16(f.IQ.Q),
		Envelope:  uint16(f.Envelope),
		FreqHz:    f.Drive.FreqHz,
		Duty:      f.Drive.Duty,
	}
}

// FrameRing is the fixed-capacity outbound frame queue. Single producer
// (the sampling task), single consumer (the flush task); priority ordering
// keeps the two from interleaving, so index updates need no locks. A push
// onto a full ring drops the new frame: older frames are delivered
// unchanged and in order.
type FrameRing struct {
	frames  [TelemetryQueueCap + 1]TelemetryFrame
	read    uint32
	write   uint32
	dropped uint32
}

// Push enqueues a frame, reporting false if the ring was full and the
// frame was dropped.
func (r *FrameRing) Push(f TelemetryFrame) bool {
	next := (r.write + 1) % uint32(len(r.frames))
	if next == r.read {
		r.dropped++
		return false
	}
	r.frames[r.write] = f
	r.write = next
	return true
}

// Pop dequeues the oldest frame.
func (r *FrameRing) Pop() (TelemetryFrame, bool) {
	if r.read == r.write {
		return TelemetryFrame{}, false
	}
	f := r.frames[r.read]
	r.read = (r.read + 1) % uint32(len(r.frames))
	return f, true
}

// Len returns the number of queued frames.
func (r *FrameRing) Len() int {
	return int((r.write + uint32(len(r.frames)) - r.read) % uint32(len(r.frames)))
}

// Dropped returns the number of frames dropped on a full queue.
func (r *FrameRing) Dropped() uint32 {
	return r.dropped
}

// FlushFrames drains up to TelemetryFlushBatch frames from the ring,
// encoding each and handing it to the diagnostic transport. Runs in the
// lowest-priority task.
func FlushFrames(r *FrameRing) {
	var buf [protocol.FrameLen]byte
	for n := 0; n < TelemetryFlushBatch; n++ {
		f, ok := r.Pop()
		if !ok {
			return
		}
		w := f.wire()
		_ = w.Encode(buf[:])
		EmitTelemetry(buf[:])
	}
}
