package commands

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/flatdb/flatdb-go/pkg/flatdb"
)

// DefaultPreviewLimit caps the payload preview of the show command.
const DefaultPreviewLimit = 256

// ShowOptions specifies how the show command renders a store file.
type ShowOptions struct {
	// Limit caps the payload preview in bytes. Zero means
	// DefaultPreviewLimit; a negative value shows the whole payload.
	Limit int

	// HeaderOnly suppresses the payload preview.
	HeaderOnly bool
}

// RunShow prints a store file's header fields, checksum state, and a
// hex dump of the leading payload bytes. Unlike verify it reports a
// checksum mismatch in the output rather than as an error, so damaged
// files can still be examined.
func RunShow(path string, opts ShowOptions, w io.Writer) error {
	info, err := flatdb.Inspect(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "File:     %s\n", info.Path)
	fmt.Fprintf(w, "Size:     %d bytes\n", info.Size)
	fmt.Fprintf(w, "Tag:      %s\n", info.StoreTag)
	fmt.Fprintf(w, "Network:  %s\n", describeMagic(info.Magic))
	fmt.Fprintf(w, "Payload:  %d bytes\n", info.PayloadSize)
	fmt.Fprintf(w, "Checksum: %s\n", hex.EncodeToString(info.Checksum[:]))
	if info.ChecksumOK {
		fmt.Fprintln(w, "Status:   checksum OK")
	} else {
		fmt.Fprintln(w, "Status:   CHECKSUM MISMATCH")
	}

	if opts.HeaderOnly {
		return nil
	}

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultPreviewLimit
	}
	preview := info.Payload
	if limit > 0 && len(preview) > limit {
		preview = preview[:limit]
	}

	fmt.Fprintln(w)
	if len(preview) == 0 {
		fmt.Fprintln(w, "Payload is empty.")
		return nil
	}
	if len(preview) < len(info.Payload) {
		fmt.Fprintf(w, "Payload (first %d of %d bytes):\n", len(preview), len(info.Payload))
	} else {
		fmt.Fprintf(w, "Payload (%d bytes):\n", len(info.Payload))
	}
	fmt.Fprint(w, hex.Dump(preview))
	return nil
}
