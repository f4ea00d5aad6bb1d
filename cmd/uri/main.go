// Command uri parses, resolves and canonicalizes URIs given as arguments.
//
// Usage:
//
//	uri [flags] uri...
//
// Each argument is printed back in the chosen format. Passwords are masked unless -reveal is set.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"braces.dev/errtrace"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/rfc3986/internal/errorutil"
	"github.com/ghettovoice/rfc3986/internal/log"
	"github.com/ghettovoice/rfc3986/internal/types"
	"github.com/ghettovoice/rfc3986/params"
	"github.com/ghettovoice/rfc3986/uri"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type config struct {
	base       string
	canonical  bool
	withParams bool
	format     string
	reveal     bool
	dev        bool
	verbose    bool
	quiet      bool
	maxNesting int
}

type report struct {
	URI      string      `json:"uri" yaml:"uri"`
	Scheme   string      `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	User     string      `json:"user,omitempty" yaml:"user,omitempty"`
	Host     string      `json:"host,omitempty" yaml:"host,omitempty"`
	Port     uint16      `json:"port,omitempty" yaml:"port,omitempty"`
	Path     string      `json:"path,omitempty" yaml:"path,omitempty"`
	Query    string      `json:"query,omitempty" yaml:"query,omitempty"`
	Fragment string      `json:"fragment,omitempty" yaml:"fragment,omitempty"`
	Valid    bool        `json:"valid" yaml:"valid"`
	Params   *params.Map `json:"params,omitempty" yaml:"params,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var cfg config
	fs := flag.NewFlagSet("uri", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.base, "base", "", "resolve arguments as references against this base URI")
	fs.BoolVar(&cfg.canonical, "canonical", false, "print canonical form")
	fs.BoolVar(&cfg.withParams, "params", false, "decode query parameters")
	fs.StringVar(&cfg.format, "format", formatText, "output format: text, json or yaml")
	fs.BoolVar(&cfg.reveal, "reveal", false, "print passwords as is")
	fs.BoolVar(&cfg.dev, "dev", false, "use verbose developer log output")
	fs.BoolVar(&cfg.verbose, "v", false, "log debug records")
	fs.BoolVar(&cfg.quiet, "q", false, "disable logging, only the exit code reports rejected URIs")
	fs.IntVar(&cfg.maxNesting, "max-nesting", params.DefaultMaxNesting, "maximum query parameter nesting level")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: uri [flags] uri...\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	switch cfg.format {
	case formatText, formatJSON, formatYAML:
	default:
		fmt.Fprintf(stderr, "unknown format %q\n", cfg.format)
		return 2
	}

	lvl := slog.LevelWarn
	if cfg.verbose {
		lvl = slog.LevelDebug
	}
	var logger *slog.Logger
	switch {
	case cfg.quiet:
		logger = log.Noop
	case cfg.dev:
		logger = log.Dev(stderr, lvl)
	default:
		logger = log.Console(stderr, lvl)
	}

	var (
		errs    []error
		reports []*report
	)
	for _, arg := range fs.Args() {
		rep, err := process(arg, &cfg, logger)
		if err != nil {
			logger.Debug("failed to process URI",
				"input", log.StringValue(arg),
				"grammar", errorutil.IsGrammarErr(err),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%q: %w", arg, err))
			continue
		}
		reports = append(reports, rep)
	}

	if err := write(stdout, cfg.format, reports); err != nil {
		logger.Error("failed to write output", "error", err)
		return 1
	}
	if err := errorutil.JoinPrefix("failed to process URIs:", errs...); err != nil {
		logger.Error("some URIs were rejected", "error", err)
		return 1
	}
	return 0
}

func process(arg string, cfg *config, logger *slog.Logger) (*report, error) {
	var (
		u   *uri.URI
		err error
	)
	if cfg.base != "" {
		u, err = uri.ParseRelative(cfg.base, arg)
	} else {
		u, err = uri.Parse(arg)
	}
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	if cfg.canonical {
		u = u.Canonicalize()
	}
	logger.Debug("parsed URI", "uri", u, "details", log.FmtValue(u, false))

	opts := &uri.RenderOptions{MaskSecrets: !cfg.reveal}
	rep := &report{
		URI:      u.Render(opts),
		Scheme:   u.Scheme(),
		User:     u.User().Username(),
		Host:     u.Host(),
		Path:     u.Path(),
		Query:    u.RawQuery(),
		Fragment: u.Fragment(),
		Valid:    types.IsValid(u),
	}
	rep.Port, _ = u.Port()
	if !rep.Valid {
		logger.Warn("URI is not valid", "uri", u)
	}
	if cfg.withParams {
		m, err := params.Decode(u.RawQuery(), &params.DecodeOptions{MaxNesting: cfg.maxNesting})
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		rep.Params = m
	}
	return rep, nil
}

func write(w io.Writer, format string, reports []*report) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errtrace.Wrap(enc.Encode(reports))
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return errtrace.Wrap(err)
		}
		return errtrace.Wrap(enc.Close())
	default:
		for _, rep := range reports {
			if _, err := fmt.Fprintln(w, rep.URI); err != nil {
				return errtrace.Wrap(err)
			}
			for k, v := range rep.Params.All() {
				if _, err := fmt.Fprintf(w, "\t%s: %v\n", k, v); err != nil {
					return errtrace.Wrap(err)
				}
			}
		}
		return nil
	}
}
