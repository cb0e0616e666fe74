package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/Neumenon/sof/sof"
	"github.com/Neumenon/sof/store"
)

// common holds the flags every command accepts.
type common struct {
	config      string
	storeFormat string
	verbose     bool
}

func (c *common) register(fs *pflag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "YAML config file (default: $SOF_CONFIG)")
	fs.StringVarP(&c.storeFormat, "store-format", "s", "", "token store container: lines, json, cbor, msgpack")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "log debug details to stderr")
}

// setup loads the config and applies --verbose.
func (c *common) setup(e *env) (Config, error) {
	if c.verbose {
		e.level.Set(slog.LevelDebug)
	}
	cfg, err := LoadConfig(c.config, e.getenv)
	if err != nil {
		return cfg, err
	}
	e.logger.Debug("config loaded", "path", c.config, "store_format", cfg.StoreFormat, "optimize", cfg.Optimize)
	return cfg, nil
}

// resolveStoreFormat picks the store container: explicit flag first, then a
// recognised extension of path, then the config default.
func (c *common) resolveStoreFormat(path string, cfg Config) (store.Format, error) {
	if c.storeFormat != "" {
		return store.ParseFormat(c.storeFormat)
	}
	if f, ok := store.LookupPathFormat(path); ok {
		return f, nil
	}
	return cfg.storeFormat(), nil
}

func newFlagSet(name string, e *env) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.SortFlags = false
	return fs
}

// inputArg returns the single optional positional argument.
func inputArg(fs *pflag.FlagSet) (string, error) {
	switch fs.NArg() {
	case 0:
		return "", nil
	case 1:
		return fs.Arg(0), nil
	default:
		return "", fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}
}

// openInput opens path, or stdin when path is empty or "-". An interactive
// stdin is refused so the command does not hang waiting for a terminal.
func openInput(path string, e *env) (io.ReadCloser, error) {
	if path != "" && path != "-" {
		return os.Open(path)
	}
	if f, ok := e.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, errors.New("no input file given and stdin is a terminal")
	}
	return io.NopCloser(e.stdin), nil
}

func readInput(path string, e *env) ([]byte, error) {
	r, err := openInput(path, e)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
func writeOutput(path string, e *env, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(e.stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseDocument reads a JSON, JSONC or YAML document into a Value.
func parseDocument(data []byte, from string) (*sof.Value, error) {
	switch from {
	case "json":
		return sof.FromJSON(data)
	case "jsonc":
		return sof.FromJSONC(data)
	case "yaml", "yml":
		return sof.FromYAML(data)
	default:
		return nil, fmt.Errorf("unknown input format %q (want json, jsonc or yaml)", from)
	}
}

// documentFormat guesses the document syntax from a file extension.
func documentFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".jsonc":
		return "jsonc"
	default:
		return "json"
	}
}

func readStore(path string, format store.Format, cfg Config, e *env) ([]string, error) {
	r, err := openInput(path, e)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	tokens, err := store.Read(r, format, cfg.readerOptions()...)
	if err != nil {
		return nil, fmt.Errorf("read %s store: %w", format, err)
	}
	e.logger.Debug("store read", "format", format.String(), "tokens", len(tokens))
	return tokens, nil
}

func encodeCmd(args []string, e *env) error {
	fs := newFlagSet("encode", e)
	var c common
	c.register(fs)
	optimize := fs.BoolP("optimize", "O", false, "write AV/DV records for scalar-only containers")
	from := fs.StringP("from", "f", "", "input syntax: json, jsonc, yaml (default: from extension)")
	output := fs.StringP("output", "o", "", "output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	input, err := inputArg(fs)
	if err != nil {
		return err
	}
	cfg, err := c.setup(e)
	if err != nil {
		return err
	}

	syntax := *from
	if syntax == "" {
		syntax = documentFormat(input)
	}
	format, err := c.resolveStoreFormat(*output, cfg)
	if err != nil {
		return err
	}

	data, err := readInput(input, e)
	if err != nil {
		return err
	}
	v, err := parseDocument(data, syntax)
	if err != nil {
		return fmt.Errorf("parse %s: %w", syntax, err)
	}

	opts := sof.EncodeOptions{Optimize: cfg.Optimize}
	if fs.Changed("optimize") {
		opts.Optimize = *optimize
	}
	tokens, err := sof.Encode(v, opts)
	if err != nil {
		return err
	}
	e.logger.Debug("encoded", "syntax", syntax, "optimize", opts.Optimize, "tokens", len(tokens), "format", format.String())

	return writeOutput(*output, e, func(w io.Writer) error {
		return store.Write(w, tokens, format)
	})
}

func decodeCmd(args []string, e *env) error {
	fs := newFlagSet("decode", e)
	var c common
	c.register(fs)
	to := fs.StringP("to", "t", "json", "output syntax: json, yaml")
	indent := fs.String("indent", "", "JSON indentation (default: from config)")
	output := fs.StringP("output", "o", "", "output file (default: stdout)")
	maxDepth := fs.Int("max-depth", 0, "maximum pointer nesting (default: from config)")
	maxNodes := fs.Int("max-nodes", 0, "maximum values built while decoding (default: from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	input, err := inputArg(fs)
	if err != nil {
		return err
	}
	cfg, err := c.setup(e)
	if err != nil {
		return err
	}
	if fs.Changed("indent") {
		cfg.Indent = *indent
	}
	if fs.Changed("max-depth") {
		cfg.MaxDepth = *maxDepth
	}
	if fs.Changed("max-nodes") {
		cfg.MaxNodes = *maxNodes
	}

	format, err := c.resolveStoreFormat(input, cfg)
	if err != nil {
		return err
	}
	tokens, err := readStore(input, format, cfg, e)
	if err != nil {
		return err
	}
	v, err := sof.DecodeWithOptions(tokens, cfg.decodeOptions())
	if err != nil {
		return err
	}

	var out []byte
	switch *to {
	case "json":
		out, err = sof.ToJSON(v, cfg.Indent)
		out = append(out, '\n')
	case "yaml", "yml":
		out, err = sof.ToYAML(v)
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", *to)
	}
	if err != nil {
		return err
	}

	return writeOutput(*output, e, func(w io.Writer) error {
		_, err := w.Write(out)
		return err
	})
}

func inspectCmd(args []string, e *env) error {
	fs := newFlagSet("inspect", e)
	var c common
	c.register(fs)
	expect := fs.String("expect-hash", "", "fail unless the store's blake3 fingerprint equals this hex digest")
	if err := fs.Parse(args); err != nil {
		return err
	}
	input, err := inputArg(fs)
	if err != nil {
		return err
	}
	cfg, err := c.setup(e)
	if err != nil {
		return err
	}
	var want [32]byte
	if *expect != "" {
		if want, err = store.HexToHash(*expect); err != nil {
			return fmt.Errorf("--expect-hash: %w", err)
		}
	}
	format, err := c.resolveStoreFormat(input, cfg)
	if err != nil {
		return err
	}
	tokens, err := readStore(input, format, cfg, e)
	if err != nil {
		return err
	}
	stats, err := sof.InspectWithOptions(tokens, cfg.decodeOptions())
	if err != nil {
		return err
	}
	sum := store.Fingerprint(tokens)

	w := e.stdout
	fmt.Fprintf(w, "tokens:       %d\n", stats.Tokens)
	fmt.Fprintf(w, "reachable:    %d\n", stats.Reachable)
	fmt.Fprintf(w, "unreachable:  %d\n", stats.Unreachable())
	fmt.Fprintf(w, "pointers:     %d\n", stats.Pointers)
	fmt.Fprintf(w, "max depth:    %d\n", stats.MaxDepth)
	fmt.Fprintf(w, "forward only: %t\n", stats.ForwardOnly)
	fmt.Fprintf(w, "overlapping:  %t\n", stats.Overlapping)

	kinds := make([]string, 0, len(stats.Records))
	for k := range stats.Records {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "records %-4s  %d\n", k+":", stats.Records[sof.RecordKind(k)])
	}
	fmt.Fprintf(w, "blake3:       %s\n", store.HashToHex(sum))

	if *expect != "" && sum != want {
		return fmt.Errorf("fingerprint mismatch: store is %s, expected %s", store.HashToHex(sum), store.HashToHex(want))
	}
	return nil
}

// checkCmd verifies that a document decodes back to itself in both encoder
// modes, and that the tokens survive the store container.
func checkCmd(args []string, e *env) error {
	fs := newFlagSet("check", e)
	var c common
	c.register(fs)
	from := fs.StringP("from", "f", "", "input syntax: json, jsonc, yaml (default: from extension)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	input, err := inputArg(fs)
	if err != nil {
		return err
	}
	cfg, err := c.setup(e)
	if err != nil {
		return err
	}
	format, err := c.resolveStoreFormat("", cfg)
	if err != nil {
		return err
	}

	syntax := *from
	if syntax == "" {
		syntax = documentFormat(input)
	}
	data, err := readInput(input, e)
	if err != nil {
		return err
	}
	v, err := parseDocument(data, syntax)
	if err != nil {
		return fmt.Errorf("parse %s: %w", syntax, err)
	}

	for _, optimize := range []bool{false, true} {
		tokens, err := sof.Encode(v, sof.EncodeOptions{Optimize: optimize})
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := store.Write(&buf, tokens, format); err != nil {
			return fmt.Errorf("optimize=%t: write %s store: %w", optimize, format, err)
		}
		stored, err := store.Read(&buf, format)
		if err != nil {
			return fmt.Errorf("optimize=%t: read %s store: %w", optimize, format, err)
		}
		if store.Fingerprint(stored) != store.Fingerprint(tokens) {
			return fmt.Errorf("optimize=%t: %s store changed the tokens", optimize, format)
		}

		back, err := sof.DecodeWithOptions(stored, cfg.decodeOptions())
		if err != nil {
			return fmt.Errorf("optimize=%t: %w", optimize, err)
		}
		if !sof.Equal(v, back) {
			return fmt.Errorf("optimize=%t: decoded value differs from input", optimize)
		}
		fmt.Fprintf(e.stdout, "ok optimize=%-5t tokens=%d\n", optimize, len(tokens))
	}
	return nil
}
