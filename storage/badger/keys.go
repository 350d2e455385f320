package badger

import "encoding/binary"

// Key prefixes for the index cache
const (
	indexInfoKey      = "idxinfo"
	indexDocPrefix    = "idxdoc"
	indexVectorPrefix = "idxvec"
)

// makeDocKey generates a key for the document at a snapshot position.
// Positions are encoded BigEndian so lexicographic iteration preserves
// snapshot order.
func makeDocKey(position int) []byte {
	return makePositionKey(indexDocPrefix, position)
}

// makeVectorKey generates a key for the vector at a snapshot position.
func makeVectorKey(position int) []byte {
	return makePositionKey(indexVectorPrefix, position)
}

func makePositionKey(prefix string, position int) []byte {
	p := prefix + ":"
	buf := make([]byte, len(p)+8)
	offset := copy(buf, p)
	binary.BigEndian.PutUint64(buf[offset:], uint64(position))
	return buf
}
