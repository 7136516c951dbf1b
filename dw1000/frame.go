package dw1000

import "encoding/binary"

// BlinkFrameCtrl is the IEEE 802.15.4 frame control byte used by the blink frame
// (an unacknowledged, minimal frame carrying only a 64-bit tag id).
const BlinkFrameCtrl = 0xc5

// BlinkFrame is the wire format of a ranging blink: [frame_ctrl, seq_num, tag_id(8
// bytes LE)], 10 bytes total. The frame owns its own sequence counter, advanced on
// every serialization.
type BlinkFrame struct {
	TagID  uint64
	seqNum byte
}

// NewBlinkFrame returns a blink frame for the given tag id, with its sequence counter
// starting at 1.
func NewBlinkFrame(tagID uint64) *BlinkFrame {
	return &BlinkFrame{TagID: tagID, seqNum: 1}
}

// Data renders the frame to its 10-byte wire form and advances the sequence counter.
func (f *BlinkFrame) Data() []byte {
	buf := make([]byte, 10)
	buf[0] = BlinkFrameCtrl
	buf[1] = f.seqNum
	binary.LittleEndian.PutUint64(buf[2:], f.TagID)
	f.seqNum++
	return buf
}

// ParseBlinkFrame decodes a received blink frame, or reports ok=false if raw is too
// short or its frame-control byte doesn't match BlinkFrameCtrl.
func ParseBlinkFrame(raw []byte) (frameCtrl, seqNum byte, tagID uint64, ok bool) {
	if len(raw) < 10 {
		return 0, 0, 0, false
	}
	frameCtrl = raw[0]
	seqNum = raw[1]
	tagID = binary.LittleEndian.Uint64(raw[2:10])
	return frameCtrl, seqNum, tagID, frameCtrl == BlinkFrameCtrl
}

// FieldValues renders the frame's named fields for diagnostics.
func (f *BlinkFrame) FieldValues() map[string]uint64 {
	return map[string]uint64{
		"framectrl": BlinkFrameCtrl,
		"seqnum":    uint64(f.seqNum),
		"tagid":     f.TagID,
	}
}
