package trainer

import "crypto/sha256"
import "encoding/binary"
import "encoding/hex"

// Fingerprint identifies the predictions of a split. Equal fingerprints on
// consecutive epochs mean the model did not change its output.
type Fingerprint [sha256.Size]byte

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

func fingerprint(predictions [][]int) (f Fingerprint) {
	h := sha256.New()
	var buf [4]byte
	for _, sentence := range predictions {
		binary.LittleEndian.PutUint32(buf[:], uint32(len(sentence)))
		h.Write(buf[:])
		for _, label := range sentence {
			binary.LittleEndian.PutUint32(buf[:], uint32(label))
			h.Write(buf[:])
		}
	}
	h.Sum(f[:0])
	return
}
