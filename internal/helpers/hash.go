package helpers

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"os"
)

// Hash is an utility to determine a MD5 hash (acceptable as not used for security reasons).
func Hash(bytes []byte) string {
	h := md5.New()
	h.Write(bytes)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// HashFromFile reads the file content to determine the hash.
func HashFromFile(path string) (string, error) {
	contentBytes, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Hash(contentBytes), nil
}

// Checksum returns the note checksum expected by Anki:
// the first 8 hexadecimal digits of the SHA1 of the sort field.
func Checksum(sortField string) int64 {
	h := sha1.Sum([]byte(sortField))
	return int64(binary.BigEndian.Uint32(h[:4]))
}
