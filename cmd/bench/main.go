// bench - sof corpus runner
//
// Encodes every JSON document in a directory with and without the
// AV/DV optimization, checks that both token stores decode back to the
// input, and compares:
//   - Token counts
//   - Bytes per store container (lines, json, cbor, msgpack)
//
// Output: CSV and markdown summary
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/Neumenon/sof/sof"
	"github.com/Neumenon/sof/store"
)

type CaseResult struct {
	Name            string
	PlainTokens     int
	OptimizedTokens int
	TokensSaved     int
	TokensPct       float64
	Bytes           map[store.Format]int // optimized store size per container
	Fingerprint     string
}

var containers = []store.Format{store.FormatLines, store.FormatJSON, store.FormatCBOR, store.FormatMsgpack}

func main() {
	fs := pflag.NewFlagSet("bench", pflag.ContinueOnError)
	csvPath := fs.String("csv", "bench_results.csv", "CSV output path (empty to skip)")
	mdPath := fs.String("markdown", "BENCH.md", "markdown output path (empty to skip)")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	dir := fs.Arg(0)
	if dir == "" {
		dir = findTestdata()
	}
	if dir == "" {
		fmt.Fprintln(os.Stderr, "Cannot find testdata/golden directory; pass one as an argument")
		os.Exit(1)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No JSON documents in %s\n", dir)
		os.Exit(1)
	}
	sort.Strings(files)

	fmt.Fprintf(os.Stderr, "sof Benchmark Runner\n")
	fmt.Fprintf(os.Stderr, "====================\n")
	fmt.Fprintf(os.Stderr, "Corpus: %s (%d cases)\n\n", dir, len(files))

	var results []CaseResult
	failed := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: %v\n", path, err)
			continue
		}
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		r, err := runCase(name, data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", name, err)
			failed++
			continue
		}
		results = append(results, r)
	}

	if *csvPath != "" {
		if f, err := os.Create(*csvPath); err == nil {
			writeCSV(f, results)
			f.Close()
			fmt.Fprintf(os.Stderr, "CSV written to: %s\n", *csvPath)
		}
	}
	if *mdPath != "" {
		if f, err := os.Create(*mdPath); err == nil {
			writeMarkdown(f, results, dir)
			f.Close()
			fmt.Fprintf(os.Stderr, "Markdown written to: %s\n", *mdPath)
		}
	}

	plain, optimized := totals(results)
	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Cases:        %d (%d failed)\n", len(results), failed)
	fmt.Printf("Plain total:  %d tokens\n", plain)
	fmt.Printf("Optimized:    %d tokens\n", optimized)
	fmt.Printf("Tokens saved: %d (%.1f%%)\n", plain-optimized, pct(plain-optimized, plain))

	if failed > 0 {
		os.Exit(1)
	}
}

// runCase encodes one document both ways and verifies the round trip.
func runCase(name string, data []byte) (CaseResult, error) {
	v, err := sof.FromJSON(data)
	if err != nil {
		return CaseResult{}, fmt.Errorf("parse: %w", err)
	}

	var counts [2]int
	var optimized []string
	for i, optimize := range []bool{false, true} {
		tokens, err := sof.Encode(v, sof.EncodeOptions{Optimize: optimize})
		if err != nil {
			return CaseResult{}, err
		}
		back, err := sof.Decode(tokens)
		if err != nil {
			return CaseResult{}, fmt.Errorf("optimize=%t: %w", optimize, err)
		}
		if !sof.Equal(v, back) {
			return CaseResult{}, fmt.Errorf("optimize=%t: round trip mismatch", optimize)
		}
		counts[i] = len(tokens)
		optimized = tokens
	}

	r := CaseResult{
		Name:            name,
		PlainTokens:     counts[0],
		OptimizedTokens: counts[1],
		TokensSaved:     counts[0] - counts[1],
		TokensPct:       pct(counts[0]-counts[1], counts[0]),
		Bytes:           make(map[store.Format]int),
		Fingerprint:     store.HashToHex(store.Fingerprint(optimized)),
	}
	for _, format := range containers {
		var buf bytes.Buffer
		if err := store.Write(&buf, optimized, format); err != nil {
			// Lines cannot hold tokens with newlines; the other containers still count.
			if errors.Is(err, store.ErrNewlineInToken) {
				r.Bytes[format] = -1
				continue
			}
			return CaseResult{}, err
		}
		r.Bytes[format] = buf.Len()
	}
	return r, nil
}

func totals(results []CaseResult) (plain, optimized int) {
	for _, r := range results {
		plain += r.PlainTokens
		optimized += r.OptimizedTokens
	}
	return plain, optimized
}

func pct(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func findTestdata() string {
	paths := []string{
		"sof/testdata/golden",
		"../sof/testdata/golden",
		"../../sof/testdata/golden",
		"testdata/golden",
	}
	for _, p := range paths {
		if st, err := os.Stat(p); err == nil && st.IsDir() {
			return p
		}
	}
	return ""
}

func writeCSV(w io.Writer, results []CaseResult) {
	fmt.Fprintln(w, "name,plain_tokens,optimized_tokens,tokens_saved,tokens_pct,lines_bytes,json_bytes,cbor_bytes,msgpack_bytes,blake3")
	for _, r := range results {
		fmt.Fprintf(w, "%s,%d,%d,%d,%.1f,%d,%d,%d,%d,%s\n",
			r.Name, r.PlainTokens, r.OptimizedTokens, r.TokensSaved, r.TokensPct,
			r.Bytes[store.FormatLines], r.Bytes[store.FormatJSON],
			r.Bytes[store.FormatCBOR], r.Bytes[store.FormatMsgpack], r.Fingerprint)
	}
}

func writeMarkdown(w io.Writer, results []CaseResult, corpus string) {
	plain, optimized := totals(results)

	fmt.Fprintf(w, "# sof Benchmark Results\n\n")
	fmt.Fprintf(w, "**Corpus:** %s (%d cases)  \n", corpus, len(results))
	fmt.Fprintf(w, "**Format Version:** %d  \n\n", sof.Version)

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Plain | Optimized | Savings |\n")
	fmt.Fprintf(w, "|--------|-------|-----------|---------|\n")
	fmt.Fprintf(w, "| **Tokens** | %d | %d | %d (%.1f%%) |\n\n", plain, optimized, plain-optimized, pct(plain-optimized, plain))

	sorted := make([]CaseResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TokensPct > sorted[j].TokensPct
	})

	fmt.Fprintf(w, "### Top 5 Token Savings\n\n")
	fmt.Fprintf(w, "| Case | Plain | Optimized | Saved |\n")
	fmt.Fprintf(w, "|------|-------|-----------|-------|\n")
	for i := 0; i < min(5, len(sorted)); i++ {
		r := sorted[i]
		fmt.Fprintf(w, "| %s | %d | %d | %.1f%% |\n", r.Name, r.PlainTokens, r.OptimizedTokens, r.TokensPct)
	}

	fmt.Fprintf(w, "\n## Store Sizes (optimized, bytes)\n\n")
	fmt.Fprintf(w, "| Case | lines | json | cbor | msgpack |\n")
	fmt.Fprintf(w, "|------|-------|------|------|---------|\n")
	for _, r := range results {
		fmt.Fprintf(w, "| %s |", truncateName(r.Name, 25))
		for _, format := range containers {
			if n := r.Bytes[format]; n >= 0 {
				fmt.Fprintf(w, " %d |", n)
			} else {
				fmt.Fprintf(w, " n/a |")
			}
		}
		fmt.Fprintln(w)
	}
}

func truncateName(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
