package table

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/xxh3"
)

// Cell tags. Neither collides with a Kind value.
const (
	cellPresent byte = 0xFE
	cellMissing byte = 0xFF
)

// Fingerprint returns an xxh3 hash over the column names, kinds and every
// cell (including which cells are missing). Two tables with the same
// fingerprint hold the same data, up to hash collisions.
func (t *Table) Fingerprint() uint64 {
	h := xxh3.New()
	var buf [9]byte
	for _, c := range t.cols {
		// Length-prefixed name, then the kind.
		binary.LittleEndian.PutUint64(buf[1:], uint64(len(c.name)))
		buf[0] = byte(c.kind)
		_, _ = h.Write(buf[1:])
		_, _ = h.WriteString(c.name)
		_, _ = h.Write(buf[:1])
		for i := 0; i < c.n; i++ {
			if !c.Valid(i) {
				buf[0] = cellMissing
				_, _ = h.Write(buf[:1])
				continue
			}
			buf[0] = cellPresent
			switch c.kind {
			case KindString:
				binary.LittleEndian.PutUint64(buf[1:], uint64(len(c.strs[i])))
				_, _ = h.Write(buf[:])
				_, _ = h.WriteString(c.strs[i])
			case KindTime:
				binary.LittleEndian.PutUint64(buf[1:], uint64(c.times[i].UnixNano()))
				_, _ = h.Write(buf[:])
			case KindInt, KindNullableInt:
				binary.LittleEndian.PutUint64(buf[1:], uint64(c.ints[i]))
				_, _ = h.Write(buf[:])
			case KindFloat:
				binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(c.floats[i]))
				_, _ = h.Write(buf[:])
			}
		}
	}
	return h.Sum64()
}
