// Command period parses, applies and compares ISO 8601 durations from the shell.
//
//	period -parse P1Y2M10DT2H30M
//	period -apply P1M -from 2024-01-31 -count 3
//	period -compare PT36H -with P1DT12H
//	period -parse P2W -yaml -cbor
package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/wealthpath/cadence/pkg/datetime"
	"github.com/wealthpath/cadence/pkg/duration"
)

const (
	exitOK     = 0
	exitFormat = 1
	exitUsage  = 2
)

// maxCount bounds -count the same way the API bounds a preview.
const maxCount = 366

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, time.Now))
}

type options struct {
	parse   string
	apply   string
	from    string
	count   int
	compare string
	with    string
	format  string
	yaml    bool
	cbor    bool
}

func run(args []string, stdout, stderr io.Writer, now func() time.Time) int {
	fs := flag.NewFlagSet("period", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.parse, "parse", "", "Duration to parse and print in canonical form")
	fs.StringVar(&opts.apply, "apply", "", "Duration to add to -from")
	fs.StringVar(&opts.from, "from", "", "Start for -apply: RFC 3339 timestamp or YYYY-MM-DD (default: now)")
	fs.IntVar(&opts.count, "count", 1, fmt.Sprintf("Number of successive applications for -apply (at most %d)", maxCount))
	fs.StringVar(&opts.compare, "compare", "", "First duration to compare")
	fs.StringVar(&opts.with, "with", "", "Second duration for -compare")
	fs.StringVar(&opts.format, "format", "text", "Output format: text or json")
	fs.BoolVar(&opts.yaml, "yaml", false, "Also print the -parse result as a YAML document")
	fs.BoolVar(&opts.cbor, "cbor", false, "Also print the -parse result as hex-encoded CBOR")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	var err error
	switch {
	case opts.format != "text" && opts.format != "json":
		err = fmt.Errorf("%w: -format must be text or json", errUsage)
	case opts.parse != "":
		err = runParse(stdout, opts)
	case opts.apply != "":
		err = runApply(stdout, opts, now)
	case opts.compare != "":
		err = runCompare(stdout, opts)
	default:
		fs.Usage()
		return exitUsage
	}

	if err == nil {
		return exitOK
	}
	fmt.Fprintln(stderr, "Error:", strings.TrimPrefix(err.Error(), errUsage.Error()+": "))
	if errors.Is(err, errUsage) {
		return exitUsage
	}
	return exitFormat
}

type parseResult struct {
	Canonical string             `json:"canonical" yaml:"canonical"`
	Fields    map[string]float64 `json:"fields" yaml:"fields"`
}

func fieldsOf(d duration.Duration) map[string]float64 {
	f := d.Fields()
	out := map[string]float64{}
	for name, v := range map[string]*float64{
		"years": f.Years, "months": f.Months, "weeks": f.Weeks, "days": f.Days,
		"hours": f.Hours, "minutes": f.Minutes, "seconds": f.Seconds,
	} {
		if v != nil {
			out[name] = *v
		}
	}
	return out
}

func runParse(w io.Writer, opts options) error {
	d, err := duration.Parse(opts.parse)
	if err != nil {
		return err
	}

	res := parseResult{Canonical: d.String(), Fields: fieldsOf(d)}
	if opts.format == "json" {
		if err := writeJSON(w, res); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(w, res.Canonical)
		for _, name := range []string{"years", "months", "weeks", "days", "hours", "minutes", "seconds"} {
			if v, ok := res.Fields[name]; ok {
				fmt.Fprintf(w, "  %-8s %g\n", name, v)
			}
		}
	}

	if opts.yaml {
		doc, err := yaml.Marshal(struct {
			Duration duration.Duration `yaml:"duration"`
		}{d})
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		fmt.Fprint(w, string(doc))
	}
	if opts.cbor {
		data, err := cbor.Marshal(d)
		if err != nil {
			return fmt.Errorf("encode cbor: %w", err)
		}
		fmt.Fprintln(w, "cbor:", hex.EncodeToString(data))
	}
	return nil
}

type applyResult struct {
	From  string   `json:"from"`
	Steps []string `json:"steps"`
}

func runApply(w io.Writer, opts options, now func() time.Time) error {
	d, err := duration.Parse(opts.apply)
	if err != nil {
		return err
	}
	if opts.count < 1 || opts.count > maxCount {
		return fmt.Errorf("%w: -count must be between 1 and %d", errUsage, maxCount)
	}

	start := now()
	if opts.from != "" {
		start, err = datetime.Parse(opts.from)
		if err != nil {
			return err
		}
	}

	res := applyResult{From: datetime.Format(start), Steps: make([]string, 0, opts.count)}
	at := start
	for i := 0; i < opts.count; i++ {
		at = d.Apply(at)
		res.Steps = append(res.Steps, datetime.Format(at))
	}

	if opts.format == "json" {
		return writeJSON(w, res)
	}
	for _, step := range res.Steps {
		fmt.Fprintln(w, step)
	}
	return nil
}

type compareResult struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Result int    `json:"result"`
}

func runCompare(w io.Writer, opts options) error {
	if opts.with == "" {
		return fmt.Errorf("%w: -compare needs -with", errUsage)
	}
	a, err := duration.Parse(opts.compare)
	if err != nil {
		return err
	}
	b, err := duration.Parse(opts.with)
	if err != nil {
		return err
	}

	res := compareResult{A: a.String(), B: b.String(), Result: a.Compare(b)}
	if opts.format == "json" {
		return writeJSON(w, res)
	}
	symbol := map[int]string{-1: "<", 0: "=", 1: ">"}[res.Result]
	fmt.Fprintf(w, "%s %s %s\n", res.A, symbol, res.B)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
