package protocol

// Decoder turns a raw diagnostic byte stream back into frames. The stream
// may start mid-frame or carry corrupted stretches (serial noise, firmware
// resets); the decoder resynchronizes by scanning for the next sync byte
// and verifying the CRC before accepting a frame.
type Decoder struct {
	buf [2 * FrameLen]byte
	n   int

	// Stats.
	Frames    uint64 // frames decoded
	CRCErrors uint64 // frames rejected by CRC
	Skipped   uint64 // bytes discarded while hunting for sync
}

// Feed consumes raw bytes, invoking emit for every complete, valid frame.
// Partial frames are retained for the next Feed call.
func (d *Decoder) Feed(data []byte, emit func(Frame)) {
	for len(data) > 0 {
		// Top up the working buffer.
		c := copy(d.buf[d.n:], data)
		d.n += c
		data = data[c:]

		for {
			// Hunt for the sync byte.
			start := 0
			for start < d.n && d.buf[start] != FrameSync {
				start++
			}
			if start > 0 {
				d.Skipped += uint64(start)
				d.n = copy(d.buf[:], d.buf[start:d.n])
			}
			if d.n < FrameLen {
				break
			}

			crc := CRC16(d.buf[payloadStart:crcStart])
			got := uint16(d.buf[crcStart])<<8 | uint16(d.buf[crcStart+1])
			if crc != got {
				// Bad frame: drop the sync byte and rescan. The
				// real frame boundary may be inside this window.
				d.CRCErrors++
				d.n = copy(d.buf[:], d.buf[1:d.n])
				continue
			}

			var f Frame
			f.decodePayload(d.buf[payloadStart:crcStart])
			d.Frames++
			emit(f)
			d.n = copy(d.buf[:], d.buf[FrameLen:d.n])
		}
	}
}
