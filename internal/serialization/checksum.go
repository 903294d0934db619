package serialization

import "crypto/sha256"

// computeChecksum hashes the encoded tensor messages in order.
func computeChecksum(tensors [][]byte) [32]byte {
	h := sha256.New()
	for _, t := range tensors {
		h.Write(t)
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
