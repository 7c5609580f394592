package core

import (
	"testing"

	"coiltone/protocol"
)

func TestFrameRingFIFO(t *testing.T) {
	var r FrameRing
	for i := 0; i < 10; i++ {
		if !r.Push(TelemetryFrame{Timestamp: Instant(i)}) {
			t.Fatalf("push %d failed on non-full ring", i)
		}
	}
	if r.Len() != 10 {
		t.Fatalf("Len = %d, want 10", r.Len())
	}
	for i := 0; i < 10; i++ {
		f, ok := r.Pop()
		if !ok {
			t.Fatalf("pop %d failed", i)
		}
		if f.Timestamp != Instant(i) {
			t.Errorf("pop %d: timestamp %d, out of order", i, f.Timestamp)
		}
	}
	if _, ok := r.Pop(); ok {
		t.Error("pop succeeded on empty ring")
	}
}

// TestFrameRingDropNewest: a full ring drops the incoming frame and keeps
// the queued ones intact and in order.
func TestFrameRingDropNewest(t *testing.T) {
	var r FrameRing
	for i := 0; i < TelemetryQueueCap; i++ {
		if !r.Push(TelemetryFrame{Timestamp: Instant(i)}) {
			t.Fatalf("push %d failed before capacity", i)
		}
	}
	if r.Push(TelemetryFrame{Timestamp: 9999}) {
		t.Fatal("push succeeded on full ring")
	}
	if r.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", r.Dropped())
	}

	// The oldest frame is still first and the dropped one is absent.
	f, ok := r.Pop()
	if !ok || f.Timestamp != 0 {
		t.Errorf("first pop = %+v, %v; want timestamp 0", f, ok)
	}
	for {
		f, ok := r.Pop()
		if !ok {
			break
		}
		if f.Timestamp == 9999 {
			t.Fatal("dropped frame was delivered")
		}
	}
}

func TestFlushFramesBatchLimit(t *testing.T) {
	prev := EmitTelemetry
	t.Cleanup(func() { EmitTelemetry = prev })

	emitted := 0
	EmitTelemetry = func([]byte) { emitted++ }

	var r FrameRing
	for i := 0; i < TelemetryFlushBatch+3; i++ {
		r.Push(TelemetryFrame{Timestamp: Instant(i)})
	}

	FlushFrames(&r)
	if emitted != TelemetryFlushBatch {
		t.Errorf("first flush emitted %d, want %d", emitted, TelemetryFlushBatch)
	}
	if r.Len() != 3 {
		t.Errorf("ring holds %d after flush, want 3", r.Len())
	}

	FlushFrames(&r)
	if emitted != TelemetryFlushBatch+3 {
		t.Errorf("second flush: total emitted %d, want %d", emitted, TelemetryFlushBatch+3)
	}
}

// TestFlushFramesWire: flushed bytes decode back to the queued values.
func TestFlushFramesWire(t *testing.T) {
	prev := EmitTelemetry
	t.Cleanup(func() { EmitTelemetry = prev })

	var raw []byte
	EmitTelemetry = func(frame []byte) { raw = append(raw, frame...) }

	var r FrameRing
	r.Push(TelemetryFrame{
		Timestamp: 123456,
		Sample:    -1234,
		IQ:        IQPair{I: 100, Q: -200},
		Envelope:  8192,
		Drive:     DriveCommand{FreqHz: 440, Duty: 16},
	})
	FlushFrames(&r)

	var dec protocol.Decoder
	var got []protocol.Frame
	dec.Feed(raw, func(f protocol.Frame) { got = append(got, f) })

	if len(got) != 1 {
		t.Fatalf("decoded %d frames, want 1", len(got))
	}
	f := got[0]
	if f.Timestamp != 123456 || f.Sample != -1234 || f.I != 100 || f.Q != -200 ||
		f.Envelope != 8192 || f.FreqHz != 440 || f.Duty != 16 {
		t.Errorf("decoded frame = %+v", f)
	}
}
