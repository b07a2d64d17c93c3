package flatdb

// ReadResult classifies the outcome of reading a store file.
type ReadResult uint8

const (
	// ReadOK indicates the file was read, verified, and decoded.
	ReadOK ReadResult = iota

	// ReadFileError indicates the file is absent or could not be opened.
	ReadFileError

	// ReadHashIOError indicates an IO failure while reading the payload
	// or the checksum trailer, including files too short to hold one.
	ReadHashIOError

	// ReadBadChecksum indicates the stored checksum does not match the
	// recomputed one.
	ReadBadChecksum

	// ReadBadStoreTag indicates the file belongs to a different store.
	ReadBadStoreTag

	// ReadBadMagic indicates the file was written for a different
	// network.
	ReadBadMagic

	// ReadBadFormat indicates the header or payload could not be
	// decoded. The target object has been cleared.
	ReadBadFormat
)

// String returns a human-readable result name.
func (r ReadResult) String() string {
	switch r {
	case ReadOK:
		return "OK"
	case ReadFileError:
		return "FILE_ERROR"
	case ReadHashIOError:
		return "HASH_IO_ERROR"
	case ReadBadChecksum:
		return "BAD_CHECKSUM"
	case ReadBadStoreTag:
		return "BAD_STORE_TAG"
	case ReadBadMagic:
		return "BAD_MAGIC"
	case ReadBadFormat:
		return "BAD_FORMAT"
	default:
		return "UNKNOWN"
	}
}

// Recoverable reports whether a load may proceed after this result.
//
// A missing file (cold start) and an undecodable payload (object
// already cleared) recover by rewriting the file on the next dump.
// Every other failure means the file looks intact but wrong, or could
// not be read at all, and must be fixed or removed manually.
func (r ReadResult) Recoverable() bool {
	switch r {
	case ReadOK, ReadFileError, ReadBadFormat:
		return true
	default:
		return false
	}
}
