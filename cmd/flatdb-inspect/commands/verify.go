// Package commands implements the flatdb-inspect CLI commands.
package commands

import (
	"fmt"
	"io"

	"github.com/flatdb/flatdb-go/pkg/flatdb"
	"github.com/flatdb/flatdb-go/pkg/network"
)

// VerifyOptions specifies the extra checks applied by the verify command.
type VerifyOptions struct {
	// Tag, when non-empty, is the store tag the file must carry.
	Tag string

	// Network, when non-empty, names the registered network whose
	// magic the file must carry.
	Network string
}

// RunVerify checks the structural integrity of a store file and prints
// its header fields. It returns an error when the file is unreadable,
// truncated, has an unparseable header or a checksum mismatch, or when
// one of the optional checks in opts fails.
func RunVerify(path string, opts VerifyOptions, w io.Writer) error {
	info, err := flatdb.Inspect(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "File:     %s\n", info.Path)
	fmt.Fprintf(w, "Size:     %d bytes\n", info.Size)
	fmt.Fprintf(w, "Tag:      %s\n", info.StoreTag)
	fmt.Fprintf(w, "Network:  %s\n", describeMagic(info.Magic))
	fmt.Fprintf(w, "Payload:  %d bytes\n", info.PayloadSize)

	if !info.ChecksumOK {
		fmt.Fprintln(w, "Checksum: MISMATCH")
		return fmt.Errorf("checksum mismatch in %s", path)
	}
	fmt.Fprintln(w, "Checksum: OK")

	if opts.Tag != "" && info.StoreTag != opts.Tag {
		return fmt.Errorf("store tag %q does not match expected %q", info.StoreTag, opts.Tag)
	}
	if opts.Network != "" {
		n, err := network.Lookup(opts.Network)
		if err != nil {
			return err
		}
		if info.Magic != n.Magic {
			return fmt.Errorf("file magic %s does not match network %s (%s)", info.Magic, n.Name, n.Magic)
		}
	}

	fmt.Fprintln(w, "Verified.")
	return nil
}

// describeMagic renders a magic together with its network name when a
// registered network carries it.
func describeMagic(m network.Magic) string {
	for _, name := range network.Names() {
		if n, err := network.Lookup(name); err == nil && n.Magic == m {
			return fmt.Sprintf("%s (%s)", m, name)
		}
	}
	return m.String()
}
