// Package interactive provides the interactive shell for
// flatdb-inspect.
package interactive

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/flatdb/flatdb-go/cmd/flatdb-inspect/commands"
	"github.com/flatdb/flatdb-go/pkg/network"
)

// Shell examines store files interactively.
type Shell struct {
	path string
	rl   *readline.Instance
}

// New creates a shell targeting path. An empty path starts the shell
// without a selected file; use the file command to pick one.
func New(path string) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "flatdb> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Shell{path: path, rl: rl}, nil
}

// Stdout returns a writer that coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts the interactive command loop.
func (s *Shell) Run() {
	defer s.rl.Close()

	s.printHelp()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "file", "f":
			s.cmdFile(args)

		case "header", "h":
			s.cmdHeader()

		case "verify", "v":
			s.cmdVerify(args)

		case "hex", "x":
			s.cmdHex(args)

		case "networks":
			s.cmdNetworks()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
Store File Commands:
  file [path]            - Select a store file (or show the current one)
  header                 - Print header fields and checksum state
  verify [tag] [network] - Check integrity, optionally against a tag and network
  hex [n|all]            - Hex dump the first n payload bytes (default 256)
  networks               - List registered network names

General:
  help                   - Show this help
  quit                   - Exit`)
}

// selected returns the current target path, reporting when none is set.
func (s *Shell) selected() (string, bool) {
	if s.path == "" {
		fmt.Fprintln(s.rl.Stdout(), "No file selected (use 'file <path>')")
		return "", false
	}
	return s.path, true
}

func (s *Shell) cmdFile(args []string) {
	if len(args) == 0 {
		if s.path == "" {
			fmt.Fprintln(s.rl.Stdout(), "No file selected")
		} else {
			fmt.Fprintf(s.rl.Stdout(), "Current file: %s\n", s.path)
		}
		return
	}
	s.path = args[0]
	fmt.Fprintf(s.rl.Stdout(), "Selected %s\n", s.path)
}

func (s *Shell) cmdHeader() {
	path, ok := s.selected()
	if !ok {
		return
	}
	if err := commands.RunShow(path, commands.ShowOptions{HeaderOnly: true}, s.rl.Stdout()); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
	}
}

func (s *Shell) cmdVerify(args []string) {
	path, ok := s.selected()
	if !ok {
		return
	}

	var opts commands.VerifyOptions
	if len(args) > 0 {
		opts.Tag = args[0]
	}
	if len(args) > 1 {
		opts.Network = args[1]
	}

	if err := commands.RunVerify(path, opts, s.rl.Stdout()); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
	}
}

func (s *Shell) cmdHex(args []string) {
	path, ok := s.selected()
	if !ok {
		return
	}

	limit := commands.DefaultPreviewLimit
	if len(args) > 0 {
		if args[0] == "all" {
			limit = -1
		} else {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Fprintf(s.rl.Stdout(), "Invalid byte count: %s\n", args[0])
				return
			}
			limit = n
		}
	}

	if err := commands.RunShow(path, commands.ShowOptions{Limit: limit}, s.rl.Stdout()); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
	}
}

func (s *Shell) cmdNetworks() {
	for _, name := range network.Names() {
		n := network.MustLookup(name)
		fmt.Fprintf(s.rl.Stdout(), "  %-12s %s\n", name, n.Magic)
	}
}
