// Package hashing streams files or in-memory buffers through a selectable
// digest algorithm with bounded memory, producing a hex digest string.
package hashing

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"hash/crc64"
	"io"
	"os"
	"strings"

	oneofone "github.com/OneOfOne/xxhash"
	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// Algorithm identifies a supported digest algorithm.
type Algorithm string

const (
	CRC32    Algorithm = "crc32"
	CRC64    Algorithm = "crc64"
	MD5      Algorithm = "md5"
	SHA1     Algorithm = "sha1"
	SHA224   Algorithm = "sha224"
	SHA256   Algorithm = "sha256"
	SHA384   Algorithm = "sha384"
	SHA512   Algorithm = "sha512"
	SHA3_224 Algorithm = "sha3-224"
	SHA3_256 Algorithm = "sha3-256"
	SHA3_384 Algorithm = "sha3-384"
	SHA3_512 Algorithm = "sha3-512"
	Shake128 Algorithm = "shake128"
	Shake256 Algorithm = "shake256"
	Blake2b  Algorithm = "blake2b"
	Blake2s  Algorithm = "blake2s"
	Blake3   Algorithm = "blake3"
	XXHash32 Algorithm = "xxhash32"
	XXHash64 Algorithm = "xxhash64"
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{
	CRC32, CRC64, MD5, SHA1, SHA224, SHA256, SHA384, SHA512,
	SHA3_224, SHA3_256, SHA3_384, SHA3_512, Shake128, Shake256,
	Blake2b, Blake2s, Blake3, XXHash32, XXHash64,
}

// ErrUnknownAlgorithm is returned for identifiers outside the supported set.
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// DefaultBufferSize is the read chunk size used when none is configured.
const DefaultBufferSize = 256 * 1024

var crc64Table = crc64.MakeTable(crc64.ECMA)

// ParseAlgorithm resolves a user-supplied identifier to an Algorithm.
// Matching ignores case and separator style, so "SHA3_256" and "sha3-256"
// both resolve. It fails before any I/O occurs.
func ParseAlgorithm(s string) (Algorithm, error) {
	want := normalize(s)
	for _, alg := range Algorithms {
		if normalize(string(alg)) == want {
			return alg, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, "_", "")
}

// New returns a fresh streaming accumulator for alg.
func New(alg Algorithm) (hash.Hash, error) {
	switch alg {
	case CRC32:
		return crc32.NewIEEE(), nil
	case CRC64:
		return crc64.New(crc64Table), nil
	case MD5:
		return md5.New(), nil
	case SHA1:
		return sha1.New(), nil
	case SHA224:
		return sha256.New224(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA384:
		return sha512.New384(), nil
	case SHA512:
		return sha512.New(), nil
	case SHA3_224:
		return sha3.New224(), nil
	case SHA3_256:
		return sha3.New256(), nil
	case SHA3_384:
		return sha3.New384(), nil
	case SHA3_512:
		return sha3.New512(), nil
	case Shake128:
		return sha3.NewShake128(), nil
	case Shake256:
		return sha3.NewShake256(), nil
	case Blake2b:
		return blake2b.New512(nil)
	case Blake2s:
		return blake2s.New256(nil)
	case Blake3:
		return blake3.New(), nil
	case XXHash32:
		return oneofone.New32(), nil
	case XXHash64:
		return xxhash.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
}

// Option configures a hash computation.
type Option func(*options)

type options struct {
	bufferSize int
}

// WithBufferSize sets the read chunk size in bytes. Values <= 0 use the
// default. The digest is independent of the chosen size.
func WithBufferSize(n int) Option {
	return func(o *options) { o.bufferSize = n }
}

// HashFile streams the file at path through alg and returns the hex digest.
// The file is never loaded into memory whole.
func HashFile(path string, alg Algorithm, opts ...Option) (string, error) {
	h, err := New(alg)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	digest, err := sum(h, f, applyOpts(opts))
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return digest, nil
}

// HashBytes streams b through alg and returns the hex digest.
func HashBytes(b []byte, alg Algorithm, opts ...Option) (string, error) {
	h, err := New(alg)
	if err != nil {
		return "", err
	}
	return sum(h, bytes.NewReader(b), applyOpts(opts))
}

func applyOpts(opts []Option) options {
	o := options{bufferSize: DefaultBufferSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.bufferSize <= 0 {
		o.bufferSize = DefaultBufferSize
	}
	return o
}

func sum(h hash.Hash, r io.Reader, o options) (string, error) {
	buf := make([]byte, o.bufferSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
