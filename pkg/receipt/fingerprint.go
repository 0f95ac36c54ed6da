package receipt

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Fingerprint derives the content-addressed identity of a receipt line from
// its five descriptive fields. Each field is length-prefixed before hashing,
// so field boundaries survive any byte content and ("ab", "") can never
// collide with ("a", "b"). A missing optional field is the empty string.
func Fingerprint(title, sku, upc, hsn, reference string) string {
	h := sha256.New()
	for _, field := range []string{title, sku, upc, hsn, reference} {
		var size [4]byte
		binary.BigEndian.PutUint32(size[:], uint32(len(field)))
		h.Write(size[:])
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}
