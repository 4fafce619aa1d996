package writer

import (
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/opencontainers/go-digest"
)

// FileDigest is the digest of one written document.
type FileDigest struct {
	Name   string        `json:"name"`
	Digest digest.Digest `json:"digest"`
}

// Digest hashes the canonical JSON form of raw, so that documents differing
// only in whitespace or member order share a digest.
func Digest(raw []byte, algo digest.Algorithm) (digest.Digest, error) {
	if !algo.Available() {
		return "", fmt.Errorf("unsupported hash algorithm: %s", algo)
	}
	canonical, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("error canonicalizing document: %w", err)
	}
	return algo.FromBytes(canonical), nil
}

// DigestFiles digests the named documents in dir, in the given order.
func DigestFiles(dir string, names []string, algo digest.Algorithm) ([]FileDigest, error) {
	out := make([]FileDigest, 0, len(names))
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		d, err := Digest(raw, algo)
		if err != nil {
			return nil, fmt.Errorf("digesting %s failed: %w", name, err)
		}
		out = append(out, FileDigest{Name: name, Digest: d})
	}
	return out, nil
}
