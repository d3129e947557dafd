package hash

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known SHA-256 of empty input.
const emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// chunkedReader yields at most n bytes per Read to exercise arbitrary
// transport chunking.
type chunkedReader struct {
	r io.Reader
	n int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(p) > c.n {
		p = p[:c.n]
	}
	return c.r.Read(p)
}

func TestSHA256HexEmptyInput(t *testing.T) {
	digest, n, err := SHA256Hex(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, emptySHA256, digest)
}

func TestSHA256HexDeterministic(t *testing.T) {
	data := make([]byte, 1<<20)
	_, err := rand.Read(data)
	require.NoError(t, err)

	first, n1, err := SHA256Hex(bytes.NewReader(data))
	require.NoError(t, err)
	second, n2, err := SHA256Hex(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, n1, n2)
	assert.Equal(t, int64(len(data)), n1)
}

func TestSHA256HexChunkingInvariant(t *testing.T) {
	data := make([]byte, 64*1024+17)
	_, err := rand.Read(data)
	require.NoError(t, err)

	whole, _, err := SHA256Hex(bytes.NewReader(data))
	require.NoError(t, err)

	for _, chunk := range []int{1, 7, 512, 4096} {
		got, n, err := SHA256Hex(&chunkedReader{r: bytes.NewReader(data), n: chunk})
		require.NoError(t, err)
		assert.Equal(t, whole, got, "chunk size %d", chunk)
		assert.Equal(t, int64(len(data)), n)
	}
}

type failingReader struct {
	data []byte
	read bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.read {
		f.read = true
		return copy(p, f.data), nil
	}
	return 0, errors.New("stream reset")
}

func TestSHA256HexStreamError(t *testing.T) {
	digest, _, err := SHA256Hex(&failingReader{data: []byte("partial")})
	require.Error(t, err)
	// A partial digest is never returned.
	assert.Empty(t, digest)
}

func TestDigestTee(t *testing.T) {
	data := []byte("registered bytes")

	want, _, err := SHA256Hex(bytes.NewReader(data))
	require.NoError(t, err)

	d := NewDigest()
	var sink bytes.Buffer
	_, err = io.Copy(&sink, io.TeeReader(bytes.NewReader(data), d))
	require.NoError(t, err)

	assert.Equal(t, want, d.SumHex())
	assert.Equal(t, int64(len(data)), d.Size())
	assert.Equal(t, data, sink.Bytes())
}
