package flatdb

import (
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/flatdb/flatdb-go/pkg/network"
)

// ChecksumSize is the width of the checksum trailer in bytes.
const ChecksumSize = blake2b.Size256

// Store errors.
var (
	// ErrUnusableFile means the store file failed verification in a way
	// that is never repaired automatically: bad checksum, foreign store
	// tag or network, or an IO failure while reading. The file is kept
	// as-is so it can be inspected, fixed, or removed by hand.
	ErrUnusableFile = errors.New("store file is unusable")
)

// Object is the capability set a persisted type must provide, as a
// constraint on the pointer to the type.
//
// MarshalBinary and UnmarshalBinary produce and consume the payload
// bytes. String returns a one-line content summary for logs. Clear
// resets the object to empty; the store calls it when a payload turns
// out to be undecodable. CheckAndRemove prunes stale entries and runs
// after every non-dry-run read. Lock and Unlock guard the object
// during Write.
type Object[T any] interface {
	*T
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	fmt.Stringer
	sync.Locker
	Clear()
	CheckAndRemove()
}

// Config configures a Store.
type Config struct {
	// Dir is the directory holding the store file.
	Dir string

	// Filename is the store file name within Dir.
	Filename string

	// Tag identifies the logical store type (e.g. "peercache-v1").
	// A file carrying a different tag is rejected.
	Tag string

	// Magic is the network the file belongs to. Files written for a
	// different network are rejected.
	Magic network.Magic

	// Logger receives progress and error lines. Nil disables logging.
	Logger *slog.Logger
}

// Store persists a single object of type T to a checksummed flat file.
//
// A store binds one file path, one store tag, and one network magic
// for its lifetime; create one instance per logical store type. The
// zero value is not usable, use New.
type Store[T any, PT Object[T]] struct {
	path     string
	filename string
	tag      string
	magic    network.Magic
	logger   *slog.Logger
}

// New creates a store from cfg. The file itself is not touched until
// one of Read, Write, Load, or Dump is called.
func New[T any, PT Object[T]](cfg Config) (*Store[T, PT], error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("store dir is required")
	}
	if cfg.Filename == "" {
		return nil, fmt.Errorf("store filename is required")
	}
	if cfg.Tag == "" {
		return nil, fmt.Errorf("store tag is required")
	}

	return &Store[T, PT]{
		path:     filepath.Join(cfg.Dir, cfg.Filename),
		filename: cfg.Filename,
		tag:      cfg.Tag,
		magic:    cfg.Magic,
		logger:   cfg.Logger,
	}, nil
}

// Path returns the full path of the store file.
func (s *Store[T, PT]) Path() string {
	return s.path
}

// Tag returns the store tag written into the file header.
func (s *Store[T, PT]) Tag() string {
	return s.tag
}

// Magic returns the network magic written into the file header.
func (s *Store[T, PT]) Magic() network.Magic {
	return s.magic
}

// Write serializes obj and overwrites the store file.
//
// The object's lock is held for the full duration, so concurrent
// mutators block until the snapshot is on disk. The write is a plain
// truncating overwrite: no temp file, no rename, no fsync. A crash
// mid-write can leave a corrupt file, which the checksum turns into a
// detected condition on the next read.
func (s *Store[T, PT]) Write(obj PT) error {
	start := time.Now()

	obj.Lock()
	defer obj.Unlock()

	payload, err := obj.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", s.filename, err)
	}

	buf := make([]byte, 0, len(s.tag)+binary.MaxVarintLen64+network.MagicSize+len(payload)+ChecksumSize)
	buf = appendHeader(buf, s.tag, s.magic)
	buf = append(buf, payload...)
	sum := blake2b.Sum256(buf)
	buf = append(buf, sum[:]...)

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	if err := os.WriteFile(s.path, buf, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.filename, err)
	}

	s.infoLog("wrote store file", "path", s.path, "bytes", len(buf), "elapsed", time.Since(start))
	s.debugLog("store content", "summary", obj.String())
	return nil
}

// Read loads the store file into obj and classifies the outcome.
//
// Unless dryRun is set, a successful read finishes by pruning obj via
// CheckAndRemove. Read does not take the object's lock: objects are
// loaded before they are shared, and callers must not hand obj to
// other goroutines until Read returns.
func (s *Store[T, PT]) Read(obj PT, dryRun bool) ReadResult {
	start := time.Now()

	f, err := os.Open(s.path)
	if err != nil {
		s.debugLog("store file not readable", "path", s.path, "err", err)
		return ReadFileError
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		s.errorLog("failed to stat store file", "path", s.path, "err", err)
		return ReadHashIOError
	}

	// Payload length is derived from the file size, never stored.
	dataSize := fi.Size() - ChecksumSize
	if dataSize < 0 {
		dataSize = 0
	}

	data := make([]byte, dataSize)
	if _, err := io.ReadFull(f, data); err != nil {
		s.errorLog("failed to read store file", "path", s.path, "err", err)
		return ReadHashIOError
	}
	var sum [ChecksumSize]byte
	if _, err := io.ReadFull(f, sum[:]); err != nil {
		s.errorLog("failed to read store checksum", "path", s.path, "err", err)
		return ReadHashIOError
	}

	if blake2b.Sum256(data) != sum {
		s.errorLog("store checksum mismatch", "path", s.path)
		return ReadBadChecksum
	}

	tag, magic, payload, err := parseHeader(data)
	if err != nil {
		obj.Clear()
		s.warnLog("store header is invalid", "path", s.path, "err", err)
		return ReadBadFormat
	}
	if tag != s.tag {
		s.errorLog("store tag mismatch", "path", s.path, "got", tag, "want", s.tag)
		return ReadBadStoreTag
	}
	if magic != s.magic {
		s.errorLog("store network mismatch", "path", s.path, "got", magic, "want", s.magic)
		return ReadBadMagic
	}

	if err := obj.UnmarshalBinary(payload); err != nil {
		obj.Clear()
		s.warnLog("failed to decode store payload", "path", s.path, "err", err)
		return ReadBadFormat
	}

	s.infoLog("read store file", "path", s.path, "bytes", fi.Size(), "elapsed", time.Since(start))
	s.debugLog("store content", "summary", obj.String())

	if !dryRun {
		obj.CheckAndRemove()
		s.debugLog("store content after prune", "summary", obj.String())
	}
	return ReadOK
}

// Load restores obj from the store file at startup.
//
// A missing file and an undecodable payload are cold-start conditions:
// obj stays (or is reset to) empty and the next Dump recreates the
// file. Any other failure returns an error wrapping ErrUnusableFile
// and leaves the file in place for inspection.
func (s *Store[T, PT]) Load(obj PT) error {
	switch result := s.Read(obj, false); result {
	case ReadOK:
	case ReadFileError:
		s.infoLog("store file missing, will create on next dump", "path", s.path)
	case ReadBadFormat:
		s.warnLog("store tags ok but payload invalid, starting empty", "path", s.path)
	default:
		s.errorLog("store file is unusable, fix or remove it manually", "path", s.path, "result", result)
		return fmt.Errorf("failed to load %s: %s: %w", s.filename, result, ErrUnusableFile)
	}
	return nil
}

// Dump verifies the existing store file, then overwrites it with obj.
//
// The verification is a dry-run Read into a scratch object, so stale
// file contents never touch obj. A fatal verification result aborts
// the dump: an unusable file is evidence worth keeping, not something
// to overwrite.
func (s *Store[T, PT]) Dump(obj PT) error {
	start := time.Now()

	s.debugLog("verifying store file", "path", s.path)
	scratch := PT(new(T))
	switch result := s.Read(scratch, true); result {
	case ReadOK:
	case ReadFileError:
		s.infoLog("store file missing, will create", "path", s.path)
	case ReadBadFormat:
		s.warnLog("store payload invalid, will overwrite", "path", s.path)
	default:
		s.errorLog("store file is unusable, fix or remove it manually", "path", s.path, "result", result)
		return fmt.Errorf("failed to dump %s: %s: %w", s.filename, result, ErrUnusableFile)
	}

	if err := s.Write(obj); err != nil {
		return err
	}

	s.infoLog("dump finished", "path", s.path, "elapsed", time.Since(start))
	return nil
}

// appendHeader appends the store tag (uvarint length prefix + bytes)
// and the network magic to buf.
func appendHeader(buf []byte, tag string, magic network.Magic) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(tag)))
	buf = append(buf, tag...)
	buf = append(buf, magic[:]...)
	return buf
}

// parseHeader splits the checksummed region into tag, magic, and
// payload.
func parseHeader(data []byte) (tag string, magic network.Magic, payload []byte, err error) {
	n, width := binary.Uvarint(data)
	if width <= 0 {
		return "", network.Magic{}, nil, fmt.Errorf("invalid tag length prefix")
	}
	rest := data[width:]
	if n > uint64(len(rest)) || len(rest)-int(n) < network.MagicSize {
		return "", network.Magic{}, nil, fmt.Errorf("header truncated")
	}
	tag = string(rest[:n])
	copy(magic[:], rest[n:])
	payload = rest[int(n)+network.MagicSize:]
	return tag, magic, payload, nil
}

// debugLog logs a debug message if logging is enabled.
func (s *Store[T, PT]) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Store[T, PT]) infoLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Store[T, PT]) warnLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func (s *Store[T, PT]) errorLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}
