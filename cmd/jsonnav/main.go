// Command jsonnav tokenizes a JSON document and answers structural queries
// against it without building a value tree.
//
// Commands:
//
//	jsonnav count [--path P] [file|-]
//	    Print the element count of the array or object at P (default: root).
//
//	jsonnav get --path P [file|-]
//	    Print the raw text of the value at P. Strings are printed undecoded.
//
//	jsonnav keys [--path P] [file|-]
//	    Print the keys of the object at P, one per line, in document order.
//
//	jsonnav check [--quiet] [file|-]
//	    Check the top-level shape of a signing request.
//
//	jsonnav fields --profile F [file|-]
//	    Print "label: value" for every field listed in the YAML profile F.
//
// Exit codes:
//
//	0  success
//	2  invalid input, usage error, or missing field
//	10 internal error
//
// Common options:
//
//	--max-tokens N   Token capacity (default 1024)
//	--debug          Log diagnostics to stderr
//	--quiet          Suppress success messages
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lattice-substrate/json-nav/nav"
	"github.com/lattice-substrate/json-nav/naverr"
	"github.com/lattice-substrate/json-nav/navpath"
	"github.com/lattice-substrate/json-nav/navtok"
	"github.com/lattice-substrate/json-nav/txcheck"
)

const (
	exitSuccess  = 0
	exitInvalid  = 2
	exitInternal = 10
)

const usage = "usage: jsonnav <count|get|keys|check|fields> [options] [file|-]"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 {
		if err := writeLine(stderr, usage); err != nil {
			return exitInternal
		}
		return exitInvalid
	}

	cmd, ok := commands[args[0]]
	if !ok {
		if err := writef(stderr, "unknown command: %s\n", args[0]); err != nil {
			return exitInternal
		}
		if err := writeLine(stderr, usage); err != nil {
			return exitInternal
		}
		return exitInvalid
	}

	fl, positional, err := parseFlags(args[1:])
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	if fl.help {
		if err := writeHelp(stderr, cmd.help); err != nil {
			return exitInternal
		}
		return exitSuccess
	}
	if len(positional) > 1 {
		return writeClassifiedError(stderr, naverr.New(naverr.CLIUsage, -1, "multiple input files specified"))
	}

	inv := &invocation{
		flags:      fl,
		positional: positional,
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		log:        newLogger(stderr, fl.debug).With().Str("command", args[0]).Logger(),
	}
	if err := cmd.run(inv); err != nil {
		inv.log.Debug().Str("class", string(naverr.ClassOf(err))).Msg("command failed")
		return writeClassifiedError(stderr, err)
	}
	return exitSuccess
}

type command struct {
	run  func(*invocation) error
	help []string
}

var commands = map[string]command{
	"count": {
		run: cmdCount,
		help: []string{
			"usage: jsonnav count [--path P] [file|-]",
			"  Print the element count of the array or object at P (default: root).",
		},
	},
	"get": {
		run: cmdGet,
		help: []string{
			"usage: jsonnav get --path P [file|-]",
			"  Print the raw text of the value at P.",
		},
	},
	"keys": {
		run: cmdKeys,
		help: []string{
			"usage: jsonnav keys [--path P] [file|-]",
			"  Print the keys of the object at P in document order.",
		},
	},
	"check": {
		run: cmdCheck,
		help: []string{
			"usage: jsonnav check [--quiet] [file|-]",
			"  Check the top-level shape of a signing request.",
			"  --quiet  Suppress success messages",
		},
	},
	"fields": {
		run: cmdFields,
		help: []string{
			"usage: jsonnav fields --profile F [file|-]",
			"  Print \"label: value\" for every field listed in the YAML profile F.",
		},
	},
}

type flags struct {
	quiet     bool
	help      bool
	debug     bool
	path      string
	profile   string
	maxTokens int
}

func parseFlags(args []string) (flags, []string, error) {
	var f flags
	var positional []string
	consumeAsPositional := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if consumeAsPositional {
			positional = append(positional, arg)
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		switch name {
		case "--path", "-p", "--profile", "--max-tokens":
			if !hasValue {
				if i+1 >= len(args) {
					return flags{}, nil, naverr.Newf(naverr.CLIUsage, -1, "option %s requires a value", name)
				}
				i++
				value = args[i]
			}
			if err := f.set(name, value); err != nil {
				return flags{}, nil, err
			}
		case "--quiet", "-q":
			f.quiet = true
		case "--help", "-h":
			f.help = true
		case "--debug":
			f.debug = true
		case "--":
			consumeAsPositional = true
		case "-":
			positional = append(positional, arg)
		default:
			if strings.HasPrefix(arg, "-") {
				return flags{}, nil, naverr.Newf(naverr.CLIUsage, -1, "unknown option: %s", arg)
			}
			positional = append(positional, arg)
		}
	}
	return f, positional, nil
}

func (f *flags) set(name, value string) error {
	switch name {
	case "--path", "-p":
		f.path = value
	case "--profile":
		f.profile = value
	case "--max-tokens":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return naverr.Newf(naverr.CLIUsage, -1, "invalid --max-tokens value %q", value)
		}
		// Every token spans at least one input byte.
		if n > navtok.DefaultMaxInputSize {
			return naverr.Newf(naverr.CLIUsage, -1,
				"--max-tokens %d exceeds input size limit %d", n, navtok.DefaultMaxInputSize)
		}
		f.maxTokens = n
	}
	return nil
}

// invocation carries one command run.
type invocation struct {
	flags      flags
	positional []string
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	log        zerolog.Logger
}

// load reads and tokenizes the input document.
func (inv *invocation) load() (*navtok.Document, []byte, error) {
	src, err := readInput(inv.positional, inv.stdin, navtok.DefaultMaxInputSize)
	if err != nil {
		return nil, nil, err
	}
	doc, err := navtok.Tokenize(src, &navtok.Options{MaxTokens: inv.flags.maxTokens})
	if err != nil {
		return nil, nil, err
	}
	inv.log.Debug().
		Int("bytes", len(src)).
		Int("tokens", doc.Len()).
		Int("capacity", cap(doc.Tokens)).
		Msg("tokenized")
	return doc, src, nil
}

// resolve loads the document and resolves the --path option.
func (inv *invocation) resolve() (*navtok.Document, []byte, int, error) {
	doc, src, err := inv.load()
	if err != nil {
		return nil, nil, nav.NotFound, err
	}
	idx, err := navpath.Resolve(doc, src, inv.flags.path)
	if err != nil {
		return nil, nil, nav.NotFound, err
	}
	inv.log.Debug().
		Str("path", inv.flags.path).
		Int("token", idx).
		Stringer("type", doc.Tokens[idx].Type).
		Msg("resolved")
	return doc, src, idx, nil
}

func cmdCount(inv *invocation) error {
	doc, _, idx, err := inv.resolve()
	if err != nil {
		return err
	}
	var n int
	switch tok := doc.Tokens[idx]; tok.Type {
	case navtok.Array:
		n = nav.ArrayElementCount(doc, idx)
	case navtok.Object:
		n = nav.ObjectElementCount(doc, idx)
	default:
		return naverr.Newf(naverr.TypeMismatch, tok.Start, "value at %q is a %s, not a container", inv.flags.path, tok.Type)
	}
	return writef(inv.stdout, "%d\n", n)
}

func cmdGet(inv *invocation) error {
	if inv.flags.path == "" {
		return naverr.New(naverr.CLIUsage, -1, "get requires --path")
	}
	doc, src, idx, err := inv.resolve()
	if err != nil {
		return err
	}
	return writef(inv.stdout, "%s\n", doc.Bytes(src, idx))
}

func cmdKeys(inv *invocation) error {
	doc, src, idx, err := inv.resolve()
	if err != nil {
		return err
	}
	if tok := doc.Tokens[idx]; tok.Type != navtok.Object {
		return naverr.Newf(naverr.TypeMismatch, tok.Start, "value at %q is a %s, not an object", inv.flags.path, tok.Type)
	}
	for n := 0; n < nav.ObjectElementCount(doc, idx); n++ {
		key := nav.ObjectNthKey(doc, idx, n)
		if key == nav.NotFound {
			return naverr.Newf(naverr.InternalError, -1, "key %d of token %d not found", n, idx)
		}
		if err := writef(inv.stdout, "%s\n", doc.Bytes(src, key)); err != nil {
			return err
		}
	}
	return nil
}

func cmdCheck(inv *invocation) error {
	doc, src, err := inv.load()
	if err != nil {
		return err
	}
	if err := txcheck.Validate(doc, src); err != nil {
		return err
	}
	if !inv.flags.quiet {
		return writeLine(inv.stderr, "ok")
	}
	return nil
}

func cmdFields(inv *invocation) error {
	if inv.flags.profile == "" {
		return naverr.New(naverr.CLIUsage, -1, "fields requires --profile")
	}
	prof, err := loadProfile(inv.flags.profile)
	if err != nil {
		return err
	}
	doc, src, err := inv.load()
	if err != nil {
		return err
	}
	for _, f := range prof.Fields {
		idx, err := f.parsed.Resolve(doc, src)
		if err != nil {
			if f.Optional && naverr.ClassOf(err) == naverr.NotFound {
				inv.log.Warn().Str("field", f.Label).Str("path", f.Path).Msg("optional field absent")
				continue
			}
			return fmt.Errorf("field %q: %w", f.Label, err)
		}
		if err := writef(inv.stdout, "%s: %s\n", f.Label, doc.Bytes(src, idx)); err != nil {
			return err
		}
	}
	return nil
}

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func readInput(positional []string, stdin io.Reader, maxInputSize int) ([]byte, error) {
	if len(positional) == 0 || positional[0] == "-" {
		return readBounded(stdin, maxInputSize)
	}

	f, err := os.Open(positional[0])
	if err != nil {
		return nil, naverr.Wrap(naverr.InternalIO, -1, fmt.Sprintf("read file %q", positional[0]), err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := readBounded(f, maxInputSize)
	if err != nil {
		return nil, fmt.Errorf("read file %q: %w", positional[0], err)
	}
	return data, nil
}

func readBounded(r io.Reader, maxInputSize int) ([]byte, error) {
	lr := io.LimitReader(r, int64(maxInputSize)+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, naverr.Wrap(naverr.InternalIO, -1, "reading input", err)
	}
	if len(data) > maxInputSize {
		return nil, naverr.Newf(naverr.BoundExceeded, -1, "input exceeds maximum size %d bytes", maxInputSize)
	}
	return data, nil
}

// writeClassifiedError reports err on stderr and returns the exit code of
// its failure class.
func writeClassifiedError(stderr io.Writer, err error) int {
	code := naverr.ClassOf(err).ExitCode()
	if werr := writef(stderr, "error: %v\n", err); werr != nil {
		return exitInternal
	}
	return code
}

func writeHelp(w io.Writer, lines []string) error {
	lines = append(lines,
		"  --max-tokens N  Token capacity (default "+strconv.Itoa(navtok.DefaultMaxTokens)+")",
		"  --debug         Log diagnostics to stderr",
	)
	for _, l := range lines {
		if err := writeLine(w, l); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return naverr.Wrap(naverr.InternalIO, -1, "write stream", err)
	}
	return nil
}
