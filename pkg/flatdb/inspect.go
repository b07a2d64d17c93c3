package flatdb

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/blake2b"

	"github.com/flatdb/flatdb-go/pkg/network"
)

// Inspect errors.
var (
	// ErrTruncated means the file is too short to hold a checksum.
	ErrTruncated = errors.New("store file too short to hold a checksum")

	// ErrBadHeader means the checksummed region does not start with a
	// parseable store tag and network magic.
	ErrBadHeader = errors.New("store file header is invalid")
)

// FileInfo describes a store file without decoding its payload.
type FileInfo struct {
	// Path of the inspected file.
	Path string

	// Size is the total file size in bytes.
	Size int64

	// StoreTag is the tag decoded from the header.
	StoreTag string

	// Magic is the network magic decoded from the header.
	Magic network.Magic

	// PayloadSize is the length of the payload region in bytes.
	PayloadSize int

	// Payload is the raw, still-encoded payload region.
	Payload []byte

	// Checksum is the stored checksum trailer.
	Checksum [ChecksumSize]byte

	// ChecksumOK reports whether the stored checksum matches the
	// recomputed one.
	ChecksumOK bool
}

// Inspect reads the file at path and reports its header fields and
// checksum state without decoding the payload. It is meant for
// tooling: a failed checksum is reported in FileInfo, not as an error.
//
// On ErrTruncated and ErrBadHeader the returned FileInfo still carries
// whatever could be determined (size, stored checksum).
func Inspect(path string) (*FileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	info := &FileInfo{Path: path, Size: int64(len(data))}
	if len(data) < ChecksumSize {
		return info, fmt.Errorf("%s: %w", path, ErrTruncated)
	}

	body := data[:len(data)-ChecksumSize]
	copy(info.Checksum[:], data[len(data)-ChecksumSize:])
	info.ChecksumOK = blake2b.Sum256(body) == info.Checksum

	tag, magic, payload, err := parseHeader(body)
	if err != nil {
		return info, fmt.Errorf("%s: %w: %v", path, ErrBadHeader, err)
	}
	info.StoreTag = tag
	info.Magic = magic
	info.PayloadSize = len(payload)
	info.Payload = payload
	return info, nil
}
