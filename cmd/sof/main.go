// sof - Scratch object format CLI tool
//
// Usage:
//
//	sof encode [options] [file]   Encode a JSON/JSONC/YAML document into a token store
//	sof decode [options] [file]   Decode a token store back to JSON or YAML
//	sof inspect [options] [file]  Print the record layout of a token store
//	sof check [options] [file]    Verify a document survives encode/decode
//	sof version                   Print version info
//
// If no file is given, reads from stdin.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/Neumenon/sof/sof"
)

const libVersion = "0.1.0"

// env carries the process surroundings so commands can run in tests.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	level  *slog.LevelVar
	logger *slog.Logger
}

func newEnv(stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) *env {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	if getenv("SOF_DEBUG") != "" {
		level.Set(slog.LevelDebug)
	}
	return &env{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		getenv: getenv,
		level:  level,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	e := newEnv(os.Stdin, os.Stdout, os.Stderr, os.Getenv)
	if err := run(os.Args[1:], e); err != nil {
		fmt.Fprintf(os.Stderr, "sof: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, e *env) error {
	if len(args) == 0 {
		printUsage(e.stderr)
		return errors.New("missing command")
	}

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "encode":
		err = encodeCmd(rest, e)
	case "decode":
		err = decodeCmd(rest, e)
	case "inspect":
		err = inspectCmd(rest, e)
	case "check":
		err = checkCmd(rest, e)
	case "version", "--version":
		fmt.Fprintf(e.stdout, "sof %s (format v%d)\n", libVersion, sof.Version)
	case "help", "-h", "--help":
		printUsage(e.stdout)
	default:
		printUsage(e.stderr)
		return fmt.Errorf("unknown command: %s", cmd)
	}

	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `sof - Scratch object format CLI tool

Usage:
  sof encode [options] [file]    Encode a JSON/JSONC/YAML document into a token store
  sof decode [options] [file]    Decode a token store back to JSON or YAML
  sof inspect [options] [file]   Print the record layout of a token store
  sof check [options] [file]     Verify a document survives encode/decode
  sof version                    Print version info

Common options:
  --config PATH             YAML config file (default: $SOF_CONFIG)
  -s, --store-format FMT    Token store container: lines, json, cbor, msgpack
  -v, --verbose             Log debug details to stderr

Run "sof <command> --help" for command options.

If no file is given, reads from stdin.

Examples:
  echo '["alfa","bravo"]' | sof encode
  # A
  # 2
  # V
  # alfa
  # V
  # bravo

  sof encode --optimize profile.json -o profile.txt
  sof decode profile.txt > profile.json
  sof decode --to yaml profile.cbor
`)
}
