// Package protocol defines the diagnostic stream wire format: fixed-size
// telemetry records framed by a sync byte and a CRC-16 trailer. The layout
// is a compile-time constant on both ends, so the host parses it without
// any version negotiation.
package protocol

import (
	"encoding/binary"
	"errors"
)

// Wire layout, 19 bytes per frame:
//
//	offset size  field
//	0      1     sync byte (0x7E)
//	1      4     timestamp, ticks, little endian
//	5      2     sample, i16
//	7      2     in-phase, i16
//	9      2     quadrature, i16
//	11     2     envelope, u16
//	13     2     firing frequency, Hz, u16
//	15     1     duty, 1/256ths
//	16     1     reserved (zero)
//	17     2     CRC-16 over bytes 1..16, high byte first
const (
	FrameSync    = 0x7E
	FrameLen     = 19
	payloadStart = 1
	payloadLen   = 16
	crcStart     = payloadStart + payloadLen
)

var ErrShortBuffer = errors.New("protocol: buffer shorter than one frame")

// Frame is one decoded telemetry record.
type Frame struct {
	Timestamp uint32
	Sample    int16
	I         int16
	Q         int16
	Envelope  uint16
	FreqHz    uint16
	Duty      uint8
	Reserved  uint8
}

// Encode serializes the frame into dst, which must hold FrameLen bytes.
// Encoding cannot fail on a large enough buffer.
func (f *Frame) Encode(dst []byte) error {
	if len(dst) < FrameLen {
		return ErrShortBuffer
	}
	dst[0] = FrameSync
	binary.LittleEndian.PutUint32(dst[1:], f.Timestamp)
	binary.LittleEndian.PutUint16(dst[5:], uint16(f.Sample))
	binary.LittleEndian.PutUint16(dst[7:], uint16(f.I))
	binary.LittleEndian.PutUint16(dst[9:], uint16(f.Q))
	binary.LittleEndian.PutUint16(dst[11:], f.Envelope)
	binary.LittleEndian.PutUint16(dst[13:], f.FreqHz)
	dst[15] = f.Duty
	dst[16] = f.Reserved
	crc := CRC16(dst[payloadStart:crcStart])
	dst[17] = uint8(crc >> 8)
	dst[18] = uint8(crc)
	return nil
}

// decodePayload fills f from the 16 payload bytes.
func (f *Frame) decodePayload(p []byte) {
	f.Timestamp = binary.LittleEndian.Uint32(p[0:])
	f.Sample = int16(binary.LittleEndian.Uint16(p[4:]))
	f.I = int16(binary.LittleEndian.Uint16(p[6:]))
	f.Q = int16(binary.LittleEndian.Uint16(p[8:]))
	f.Envelope = binary.LittleEndian.Uint16(p[10:])
	f.FreqHz = binary.LittleEndian.Uint16(p[12:])
	f.Duty = p[14]
	f.Reserved = p[15]
}
