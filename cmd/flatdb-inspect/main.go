// Command flatdb-inspect examines checksummed flat store files.
//
// Store files are created by applications that persist their caches
// through the flatdb package, such as peerd-example.
//
// Usage:
//
//	flatdb-inspect <command> [flags] <file.dat>
//
// Commands:
//
//	verify   Check file integrity and optional tag/network expectations
//	show     Print header fields and a hex preview of the payload
//	shell    Examine files interactively
//
// Examples:
//
//	# Verify a peer cache file against its expected tag and network
//	flatdb-inspect verify -tag peercache-v1 -network mainnet peers.dat
//
//	# Show the header and the first payload bytes
//	flatdb-inspect show peers.dat
//
//	# Show the whole payload
//	flatdb-inspect show -limit -1 peers.dat
//
//	# Examine a file interactively
//	flatdb-inspect shell peers.dat
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/flatdb/flatdb-go/cmd/flatdb-inspect/commands"
	"github.com/flatdb/flatdb-go/cmd/flatdb-inspect/interactive"
	"github.com/flatdb/flatdb-go/pkg/network"
)

const usage = `flatdb-inspect - Flat Store File Inspector

Usage:
  flatdb-inspect <command> [flags] <file.dat>

Commands:
  verify   Check file integrity and optional tag/network expectations
  show     Print header fields and a hex preview of the payload
  shell    Examine files interactively

Use "flatdb-inspect <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "verify":
		runVerify(args)
	case "show":
		runShow(args)
	case "shell":
		runShell(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// loadManifestFlag registers extra networks from a user manifest so
// that -network checks and magic name resolution can see them.
func loadManifestFlag(path string) {
	if path == "" {
		return
	}
	if _, err := network.LoadManifest(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `flatdb-inspect verify - Check file integrity

Usage:
  flatdb-inspect verify [flags] <file.dat>

Flags:
`)
		fs.PrintDefaults()
	}

	tag := fs.String("tag", "", "Expected store tag")
	netName := fs.String("network", "", "Expected network name (mainnet, testnet, devnet, ...)")
	manifest := fs.String("manifest", "", "Extra network manifest file")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: store file path required")
		fs.Usage()
		os.Exit(1)
	}

	loadManifestFlag(*manifest)
	path := fs.Arg(0)

	opts := commands.VerifyOptions{
		Tag:     *tag,
		Network: *netName,
	}

	if err := commands.RunVerify(path, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runShow(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `flatdb-inspect show - Print header fields and payload preview

Usage:
  flatdb-inspect show [flags] <file.dat>

Flags:
`)
		fs.PrintDefaults()
	}

	limit := fs.Int("limit", commands.DefaultPreviewLimit, "Payload preview bytes, -1 for the whole payload")
	headerOnly := fs.Bool("header-only", false, "Print header fields only, no payload preview")
	manifest := fs.String("manifest", "", "Extra network manifest file")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: store file path required")
		fs.Usage()
		os.Exit(1)
	}

	loadManifestFlag(*manifest)
	path := fs.Arg(0)

	opts := commands.ShowOptions{
		Limit:      *limit,
		HeaderOnly: *headerOnly,
	}

	if err := commands.RunShow(path, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runShell(args []string) {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `flatdb-inspect shell - Examine files interactively

Usage:
  flatdb-inspect shell [flags] [file.dat]

Flags:
`)
		fs.PrintDefaults()
	}

	manifest := fs.String("manifest", "", "Extra network manifest file")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	loadManifestFlag(*manifest)

	var path string
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	sh, err := interactive.New(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sh.Run()
}
