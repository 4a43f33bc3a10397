package navtok

import (
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/lattice-substrate/json-nav/naverr"
)

// Limits for denial-of-service protection.
const (
	// DefaultMaxTokens is the token capacity used when Options.MaxTokens is unset.
	DefaultMaxTokens = 1024

	// DefaultMaxDepth is the maximum nesting depth for objects and arrays.
	DefaultMaxDepth = 64

	// DefaultMaxInputSize is the maximum input size in bytes (64 KiB).
	DefaultMaxInputSize = 64 * 1024
)

// Options controls tokenizer behavior.
type Options struct {
	MaxTokens    int // 0 means DefaultMaxTokens; ignored by TokenizeInto
	MaxDepth     int // 0 means DefaultMaxDepth
	MaxInputSize int // 0 means DefaultMaxInputSize

	// AllowDuplicateKeys disables rejection of objects that repeat a key.
	// Keys are compared after unescaping, so "a" and "\u0061" collide.
	AllowDuplicateKeys bool
}

func (o *Options) maxTokens() int {
	if o != nil && o.MaxTokens > 0 {
		return o.MaxTokens
	}
	return DefaultMaxTokens
}

func (o *Options) maxDepth() int {
	if o != nil && o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

func (o *Options) maxInputSize() int {
	if o != nil && o.MaxInputSize > 0 {
		return o.MaxInputSize
	}
	return DefaultMaxInputSize
}

func (o *Options) allowDuplicateKeys() bool {
	return o != nil && o.AllowDuplicateKeys
}

// parser holds the state for tokenizing.
type parser struct {
	data     []byte
	pos      int
	depth    int
	maxDepth int
	allowDup bool
	toks     []Token
	key      []byte // decoded text of the last key parsed with decode set
}

// Tokenize tokenizes a complete JSON text into a Document whose token array
// has capacity opts.MaxTokens. It returns a *naverr.Error when the text is
// not well-formed JSON or needs more tokens than the capacity allows.
//
// Constraints enforced:
//   - Strict RFC 8259 grammar (no leading zeros, trailing commas, comments)
//   - Valid UTF-8 and no unescaped control characters inside strings
//   - Valid escapes, and no lone surrogates in \uXXXX escapes
//   - No duplicate object keys unless AllowDuplicateKeys is set
//   - Token count, nesting depth and input size bounded by opts
func Tokenize(data []byte, opts *Options) (*Document, error) {
	return TokenizeInto(make([]Token, 0, opts.maxTokens()), data, opts)
}

// TokenizeInto is like Tokenize but stores tokens in dst, whose capacity is
// the token limit. dst is never grown; on success the returned Document
// shares its backing array. opts.MaxTokens is ignored.
func TokenizeInto(dst []Token, data []byte, opts *Options) (*Document, error) {
	maxInput := opts.maxInputSize()
	if len(data) > maxInput {
		return nil, naverr.Newf(naverr.BoundExceeded, 0,
			"input size %d exceeds maximum %d", len(data), maxInput)
	}

	p := &parser{
		data:     data,
		maxDepth: opts.maxDepth(),
		allowDup: opts.allowDuplicateKeys(),
		toks:     dst[:0],
	}

	p.skipWhitespace()
	if _, err := p.parseValue(); err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.pos != len(p.data) {
		return nil, p.errorf(naverr.InvalidGrammar, "trailing content after JSON value")
	}
	return &Document{Tokens: p.toks}, nil
}

func (p *parser) errorf(class naverr.FailureClass, format string, args ...any) *naverr.Error {
	return naverr.Newf(class, p.pos, format, args...)
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	return p.data[p.pos], true
}

func (p *parser) next() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	b := p.data[p.pos]
	p.pos++
	return b, true
}

func (p *parser) expect(b byte) error {
	c, ok := p.next()
	if !ok {
		return p.errorf(naverr.InvalidGrammar, "unexpected end of input, expected %q", string(b))
	}
	if c != b {
		p.pos--
		return p.errorf(naverr.InvalidGrammar, "expected %q, got %q", string(b), string(c))
	}
	return nil
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) pushDepth() error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf(naverr.BoundExceeded, "nesting depth %d exceeds maximum %d", p.depth, p.maxDepth)
	}
	return nil
}

func (p *parser) popDepth() {
	p.depth--
}

// alloc appends a token and returns its index. The token array never grows
// past its capacity.
func (p *parser) alloc(typ Type, start int) (int, error) {
	if len(p.toks) == cap(p.toks) {
		return 0, naverr.Newf(naverr.BoundExceeded, start,
			"token count exceeds capacity %d", cap(p.toks))
	}
	p.toks = append(p.toks, Token{Type: typ, Start: start, End: start})
	return len(p.toks) - 1, nil
}

func (p *parser) parseValue() (int, error) {
	c, ok := p.peek()
	if !ok {
		return 0, p.errorf(naverr.InvalidGrammar, "unexpected end of input")
	}

	switch c {
	case '{':
		return p.parseObject()
	case '[':
		return p.parseArray()
	case '"':
		return p.parseString(false)
	case 't':
		return p.parseLiteral("true")
	case 'f':
		return p.parseLiteral("false")
	case 'n':
		return p.parseLiteral("null")
	default:
		return p.parseNumber()
	}
}

func (p *parser) parseObject() (int, error) {
	if err := p.pushDepth(); err != nil {
		return 0, err
	}
	defer p.popDepth()

	idx, err := p.alloc(Object, p.pos)
	if err != nil {
		return 0, err
	}
	if err := p.expect('{'); err != nil {
		return 0, err
	}
	p.skipWhitespace()

	var seen map[string]int // decoded key -> byte offset of first occurrence
	if !p.allowDup {
		seen = make(map[string]int)
	}

	c, ok := p.peek()
	if !ok {
		return 0, p.errorf(naverr.InvalidGrammar, "unexpected end of input in object")
	}
	if c == '}' {
		p.pos++
		p.toks[idx].End = p.pos
		return idx, nil
	}

	for {
		p.skipWhitespace()

		if c, ok := p.peek(); !ok || c != '"' {
			return 0, p.errorf(naverr.InvalidGrammar, "expected object key string")
		}
		keyIdx, err := p.parseString(seen != nil)
		if err != nil {
			return 0, err
		}

		if seen != nil {
			keyOff := p.toks[keyIdx].Start - 1
			if firstOff, exists := seen[string(p.key)]; exists {
				return 0, naverr.Newf(naverr.DuplicateKey, keyOff,
					"duplicate object key %q (first at byte %d)", p.key, firstOff)
			}
			seen[string(p.key)] = keyOff
		}

		p.skipWhitespace()
		if err := p.expect(':'); err != nil {
			return 0, err
		}
		p.skipWhitespace()

		if _, err := p.parseValue(); err != nil {
			return 0, err
		}
		p.toks[idx].Size++

		p.skipWhitespace()
		c, ok := p.peek()
		if !ok {
			return 0, p.errorf(naverr.InvalidGrammar, "unexpected end of input in object")
		}
		if c == '}' {
			p.pos++
			p.toks[idx].End = p.pos
			return idx, nil
		}
		if c == ',' {
			p.pos++
			continue
		}
		return 0, p.errorf(naverr.InvalidGrammar, "expected ',' or '}' in object, got %q", string(c))
	}
}

func (p *parser) parseArray() (int, error) {
	if err := p.pushDepth(); err != nil {
		return 0, err
	}
	defer p.popDepth()

	idx, err := p.alloc(Array, p.pos)
	if err != nil {
		return 0, err
	}
	if err := p.expect('['); err != nil {
		return 0, err
	}
	p.skipWhitespace()

	c, ok := p.peek()
	if !ok {
		return 0, p.errorf(naverr.InvalidGrammar, "unexpected end of input in array")
	}
	if c == ']' {
		p.pos++
		p.toks[idx].End = p.pos
		return idx, nil
	}

	for {
		p.skipWhitespace()
		if _, err := p.parseValue(); err != nil {
			return 0, err
		}
		p.toks[idx].Size++

		p.skipWhitespace()
		c, ok := p.peek()
		if !ok {
			return 0, p.errorf(naverr.InvalidGrammar, "unexpected end of input in array")
		}
		if c == ']' {
			p.pos++
			p.toks[idx].End = p.pos
			return idx, nil
		}
		if c == ',' {
			p.pos++
			continue
		}
		return 0, p.errorf(naverr.InvalidGrammar, "expected ',' or ']' in array, got %q", string(c))
	}
}

// parseString validates a JSON string and emits a token spanning its raw
// contents between the quotes. When decode is set the unescaped text is
// also left in p.key; the token span stays raw either way.
func (p *parser) parseString(decode bool) (int, error) {
	if err := p.expect('"'); err != nil {
		return 0, err
	}
	idx, err := p.alloc(String, p.pos)
	if err != nil {
		return 0, err
	}
	p.key = p.key[:0]

	for {
		if p.pos >= len(p.data) {
			return 0, p.errorf(naverr.InvalidGrammar, "unterminated string")
		}
		b := p.data[p.pos]

		if b == '"' {
			p.toks[idx].End = p.pos
			p.pos++
			return idx, nil
		}

		if b == '\\' {
			p.pos++
			r, err := p.parseEscape()
			if err != nil {
				return 0, err
			}
			if decode {
				p.key = utf8.AppendRune(p.key, r)
			}
			continue
		}

		// Control characters U+0000-U+001F must not appear unescaped
		if b < 0x20 {
			return 0, p.errorf(naverr.InvalidGrammar, "unescaped control character 0x%02X in string", b)
		}

		size := 1
		if b >= utf8.RuneSelf {
			var r rune
			r, size = utf8.DecodeRune(p.data[p.pos:])
			if r == utf8.RuneError && size <= 1 {
				return 0, p.errorf(naverr.InvalidUTF8, "invalid UTF-8 byte 0x%02X in string", b)
			}
		}
		if decode {
			p.key = append(p.key, p.data[p.pos:p.pos+size]...)
		}
		p.pos += size
	}
}

// parseEscape reads the character after '\' and returns the rune it denotes.
func (p *parser) parseEscape() (rune, error) {
	if p.pos >= len(p.data) {
		return 0, p.errorf(naverr.InvalidGrammar, "unterminated escape sequence")
	}
	b := p.data[p.pos]
	p.pos++

	switch b {
	case '"', '\\', '/':
		return rune(b), nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		return p.parseUnicodeEscape()
	default:
		p.pos--
		return 0, p.errorf(naverr.InvalidGrammar, "invalid escape character %q", string(b))
	}
}

// parseUnicodeEscape parses \uXXXX (and \uXXXX\uXXXX for surrogate pairs).
func (p *parser) parseUnicodeEscape() (rune, error) {
	r1, err := p.readHex4()
	if err != nil {
		return 0, err
	}
	if !utf16.IsSurrogate(r1) {
		return r1, nil
	}
	if r1 >= 0xDC00 {
		return 0, p.errorf(naverr.LoneSurrogate, "lone low surrogate U+%04X", r1)
	}
	if p.pos+1 >= len(p.data) || p.data[p.pos] != '\\' || p.data[p.pos+1] != 'u' {
		return 0, p.errorf(naverr.LoneSurrogate, "lone high surrogate U+%04X (no following \\u)", r1)
	}
	p.pos += 2
	r2, err := p.readHex4()
	if err != nil {
		return 0, err
	}
	if r2 < 0xDC00 || r2 > 0xDFFF {
		return 0, p.errorf(naverr.LoneSurrogate, "high surrogate U+%04X followed by non-low-surrogate U+%04X", r1, r2)
	}
	return utf16.DecodeRune(r1, r2), nil
}

// readHex4 reads exactly 4 hex digits and returns the rune value.
func (p *parser) readHex4() (rune, error) {
	if p.pos+4 > len(p.data) {
		return 0, p.errorf(naverr.InvalidGrammar, "incomplete \\u escape")
	}
	hex := string(p.data[p.pos : p.pos+4])
	val, err := strconv.ParseUint(hex, 16, 16)
	if err != nil {
		return 0, p.errorf(naverr.InvalidGrammar, "invalid hex in \\u escape: %q", hex)
	}
	p.pos += 4
	return rune(val), nil
}

// parseNumber checks the RFC 8259 number grammar and emits a primitive token.
// The value is not converted; callers read the raw span.
func (p *parser) parseNumber() (int, error) {
	start := p.pos

	if p.pos < len(p.data) && p.data[p.pos] == '-' {
		p.pos++
	}

	if p.pos >= len(p.data) {
		return 0, p.errorf(naverr.InvalidGrammar, "unexpected end of input in number")
	}

	if p.data[p.pos] == '0' {
		p.pos++
		if p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			return 0, p.errorf(naverr.InvalidGrammar, "leading zero in number")
		}
	} else if p.data[p.pos] >= '1' && p.data[p.pos] <= '9' {
		p.skipDigits()
	} else {
		return 0, p.errorf(naverr.InvalidGrammar, "invalid number character %q", string(p.data[p.pos]))
	}

	if p.pos < len(p.data) && p.data[p.pos] == '.' {
		p.pos++
		if p.pos >= len(p.data) || !isDigit(p.data[p.pos]) {
			return 0, p.errorf(naverr.InvalidGrammar, "expected digit after decimal point")
		}
		p.skipDigits()
	}

	if p.pos < len(p.data) && (p.data[p.pos] == 'e' || p.data[p.pos] == 'E') {
		p.pos++
		if p.pos < len(p.data) && (p.data[p.pos] == '+' || p.data[p.pos] == '-') {
			p.pos++
		}
		if p.pos >= len(p.data) || !isDigit(p.data[p.pos]) {
			return 0, p.errorf(naverr.InvalidGrammar, "expected digit in exponent")
		}
		p.skipDigits()
	}

	idx, err := p.alloc(Primitive, start)
	if err != nil {
		return 0, err
	}
	p.toks[idx].End = p.pos
	return idx, nil
}

func (p *parser) skipDigits() {
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func (p *parser) parseLiteral(lit string) (int, error) {
	start := p.pos
	if p.pos+len(lit) > len(p.data) || string(p.data[p.pos:p.pos+len(lit)]) != lit {
		return 0, p.errorf(naverr.InvalidGrammar, "invalid literal")
	}
	p.pos += len(lit)
	idx, err := p.alloc(Primitive, start)
	if err != nil {
		return 0, err
	}
	p.toks[idx].End = p.pos
	return idx, nil
}
