package flatdb

import "testing"

func TestReadResultString(t *testing.T) {
	tests := []struct {
		result ReadResult
		want   string
	}{
		{ReadOK, "OK"},
		{ReadFileError, "FILE_ERROR"},
		{ReadHashIOError, "HASH_IO_ERROR"},
		{ReadBadChecksum, "BAD_CHECKSUM"},
		{ReadBadStoreTag, "BAD_STORE_TAG"},
		{ReadBadMagic, "BAD_MAGIC"},
		{ReadBadFormat, "BAD_FORMAT"},
		{ReadResult(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.result.String(); got != tt.want {
			t.Errorf("ReadResult(%d).String() = %q, want %q", tt.result, got, tt.want)
		}
	}
}

func TestReadResultRecoverable(t *testing.T) {
	tests := []struct {
		result ReadResult
		want   bool
	}{
		{ReadOK, true},
		{ReadFileError, true},
		{ReadBadFormat, true},
		{ReadHashIOError, false},
		{ReadBadChecksum, false},
		{ReadBadStoreTag, false},
		{ReadBadMagic, false},
	}

	for _, tt := range tests {
		if got := tt.result.Recoverable(); got != tt.want {
			t.Errorf("%s.Recoverable() = %v, want %v", tt.result, got, tt.want)
		}
	}
}
