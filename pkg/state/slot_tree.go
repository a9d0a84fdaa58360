package state

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/gokanplan/gokanplan/pkg/arena"
)

// slotTree is a content-addressed span of uint32 ids written into a
// SegmentedBuffer: a sorted atom-id set for a fluent or derived slot, or
// a dense per-position vector of float-table ids for the numeric slot.
// Its Key is computed from the ids before they are written, so two
// states with identical contents intern to the same slotTree without
// ever re-reading the arena.
type slotTree struct {
	key    string
	offset arena.Offset
	count  int
}

func (t slotTree) Key() string { return t.key }

func encodeIDKey(ids []uint32) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	return b.String()
}

func encodeIDBytes(ids []uint32) []byte {
	buf := make([]byte, 4*len(ids))
	for i, id := range ids {
		binary.LittleEndian.PutUint32(buf[i*4:], id)
	}
	return buf
}

func decodeIDBytes(raw []byte) []uint32 {
	out := make([]uint32, len(raw)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return out
}
