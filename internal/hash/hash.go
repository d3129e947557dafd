package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
)

// SHA256Hex streams r through SHA-256 and returns the hex digest and the
// number of bytes consumed. The digest depends only on the bytes, never on
// how the stream was chunked, and the whole input is never buffered.
func SHA256Hex(r io.Reader) (string, int64, error) {
	d := NewDigest()
	if _, err := io.Copy(d, r); err != nil {
		return "", 0, fmt.Errorf("hash: reading stream: %w", err)
	}
	return d.SumHex(), d.Size(), nil
}

// Digest is an io.Writer that fingerprints everything written through it,
// so a stream can be hashed while it is forwarded elsewhere.
type Digest struct {
	h    hash.Hash
	size int64
}

func NewDigest() *Digest {
	return &Digest{h: sha256.New()}
}

func (d *Digest) Write(p []byte) (int, error) {
	n, err := d.h.Write(p)
	d.size += int64(n)
	return n, err
}

func (d *Digest) SumHex() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

func (d *Digest) Size() int64 {
	return d.size
}
