package common

import (
	"crypto/rand"
	"encoding/binary"
	"strings"
)

const keyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"

// MakeRandKey generates a cryptographically random alphanumeric string of the
// given length. Four random bytes are drawn per output character, which keeps
// the modulo bias over the 62-character alphabet negligible (2^32 is not a
// multiple of 62). Used for share-token strings.
func MakeRandKey(size int) (string, error) {
	data := make([]byte, 4*size)
	if _, err := rand.Read(data); err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(size)
	for i := 0; i < size; i++ {
		n := binary.LittleEndian.Uint32(data[i*4 : (i+1)*4])
		b.WriteByte(keyAlphabet[n%uint32(len(keyAlphabet))])
	}
	return b.String(), nil
}
