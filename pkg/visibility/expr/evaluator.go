package expr

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-signupform/pkg/visibility"
)

// Evaluator is a small, dependency-free rule evaluator shared by visibility
// derivation and conditional validation.
//
// Supported forms:
//   - truthiness: `newsletter`, `!newsletter`
//   - comparisons: `colour == "blue"`, `colour != ""`, `count == 3`
//   - membership: `animal has "tiger"` (set element, or substring of a string)
//   - composition: `a && (b || !c)`
//
// Identifiers resolve against visibility.Context.Values, or against
// visibility.Context.Extras with the `extras.` prefix. Parsed rules are
// cached; every Eval reads the values it is given.
type Evaluator struct {
	cache sync.Map // rule -> node
}

// New constructs an Evaluator.
func New() *Evaluator { return &Evaluator{} }

// Eval parses (or reuses) rule and evaluates it against ctx. An empty rule is
// true.
func (e *Evaluator) Eval(_ string, rule string, ctx visibility.Context) (bool, error) {
	node, err := e.compile(rule)
	if err != nil {
		return false, err
	}
	if node == nil {
		return true, nil
	}
	return node.eval(ctx), nil
}

// Check parses rule without evaluating it.
func (e *Evaluator) Check(rule string) error {
	_, err := e.compile(rule)
	return err
}

func (e *Evaluator) compile(rule string) (node, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return nil, nil
	}
	if cached, ok := e.cache.Load(trimmed); ok {
		return cached.(node), nil
	}
	toks, err := scan(trimmed)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("visibility/expr: unexpected token %q", p.peek().text)
	}
	e.cache.Store(trimmed, n)
	return n, nil
}

type kind int

const (
	kIdent kind = iota
	kString
	kNumber
	kBool
	kNull
	kEq
	kNeq
	kHas
	kAnd
	kOr
	kNot
	kLParen
	kRParen
)

type tok struct {
	kind kind
	text string
}

var symbols = []struct {
	text string
	kind kind
}{
	{"==", kEq},
	{"!=", kNeq},
	{"&&", kAnd},
	{"||", kOr},
	{"!", kNot},
	{"(", kLParen},
	{")", kRParen},
}

func scan(input string) ([]tok, error) {
	var out []tok
	for i := 0; i < len(input); {
		ch := input[i]
		if isSpace(ch) {
			i++
			continue
		}

		if matched, ok := matchSymbol(input[i:]); ok {
			out = append(out, matched)
			i += len(matched.text)
			continue
		}

		switch {
		case ch == '"' || ch == '\'':
			end := closingQuote(input, i)
			if end < 0 {
				return nil, errors.New("visibility/expr: unterminated string literal")
			}
			body := input[i+1 : end]
			if ch == '\'' {
				body = strings.ReplaceAll(body, `\'`, `'`)
				body = strings.ReplaceAll(body, `"`, `\"`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return nil, fmt.Errorf("visibility/expr: invalid string literal: %w", err)
			}
			out = append(out, tok{kind: kString, text: value})
			i = end + 1
		case ch == '=' || ch == '&' || ch == '|':
			return nil, fmt.Errorf("visibility/expr: unexpected %q at offset %d", ch, i)
		default:
			start := i
			for i < len(input) && isWordByte(input[i]) {
				i++
			}
			if start == i {
				return nil, fmt.Errorf("visibility/expr: unexpected %q at offset %d", ch, i)
			}
			out = append(out, classifyWord(input[start:i]))
		}
	}
	return out, nil
}

func matchSymbol(rest string) (tok, bool) {
	for _, sym := range symbols {
		if strings.HasPrefix(rest, sym.text) {
			return tok{kind: sym.kind, text: sym.text}, true
		}
	}
	return tok{}, false
}

func closingQuote(input string, open int) int {
	quote := input[open]
	for i := open + 1; i < len(input); i++ {
		switch input[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}

func classifyWord(word string) tok {
	switch strings.ToLower(word) {
	case "true", "false":
		return tok{kind: kBool, text: strings.ToLower(word)}
	case "null", "nil":
		return tok{kind: kNull, text: "null"}
	case "has":
		return tok{kind: kHas, text: "has"}
	}
	if _, err := strconv.ParseFloat(word, 64); err == nil {
		return tok{kind: kNumber, text: word}
	}
	return tok{kind: kIdent, text: word}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isWordByte(ch byte) bool {
	return ch == '_' || ch == '.' || ch == '-' || ch == '+' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

type parser struct {
	toks []tok
	pos  int
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() tok {
	if p.done() {
		return tok{}
	}
	return p.toks[p.pos]
}

func (p *parser) accept(k kind) bool {
	if p.done() || p.toks[p.pos].kind != k {
		return false
	}
	p.pos++
	return true
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept(kOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left, right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.accept(kAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left, right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.accept(kNot) {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	if p.accept(kLParen) {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.accept(kRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	if p.done() {
		return nil, errors.New("visibility/expr: unexpected end of expression")
	}
	ident := p.peek()
	if ident.kind != kIdent {
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q", ident.text)
	}
	p.pos++

	op := p.peek()
	switch op.kind {
	case kEq, kNeq, kHas:
		p.pos++
	default:
		return truthyNode{path: ident.text}, nil
	}

	if p.done() {
		return nil, fmt.Errorf("visibility/expr: missing operand after %q", op.text)
	}
	lit := p.toks[p.pos]
	p.pos++
	switch lit.kind {
	case kString, kNumber, kBool, kNull:
	case kIdent:
		// bare words compare as strings
		lit.kind = kString
	default:
		return nil, fmt.Errorf("visibility/expr: expected literal, got %q", lit.text)
	}
	if op.kind == kHas && lit.kind == kNull {
		return nil, errors.New("visibility/expr: 'has' needs a non-null operand")
	}
	return compareNode{path: ident.text, op: op.kind, lit: lit}, nil
}

type node interface {
	eval(ctx visibility.Context) bool
}

type orNode struct{ left, right node }

func (n orNode) eval(ctx visibility.Context) bool { return n.left.eval(ctx) || n.right.eval(ctx) }

type andNode struct{ left, right node }

func (n andNode) eval(ctx visibility.Context) bool { return n.left.eval(ctx) && n.right.eval(ctx) }

type notNode struct{ inner node }

func (n notNode) eval(ctx visibility.Context) bool { return !n.inner.eval(ctx) }

type truthyNode struct{ path string }

func (n truthyNode) eval(ctx visibility.Context) bool {
	value, _ := lookup(ctx, n.path)
	return truthy(value)
}

type compareNode struct {
	path string
	op   kind
	lit  tok
}

func (n compareNode) eval(ctx visibility.Context) bool {
	value, _ := lookup(ctx, n.path)
	if n.op == kHas {
		return contains(value, n.lit.text)
	}
	equal := matches(value, n.lit)
	if n.op == kNeq {
		return !equal
	}
	return equal
}

func matches(value any, lit tok) bool {
	switch lit.kind {
	case kNull:
		return value == nil
	case kBool:
		return truthy(value) == (lit.text == "true")
	case kNumber:
		want, _ := strconv.ParseFloat(lit.text, 64)
		got, ok := number(value)
		return ok && got == want
	default:
		return stringify(value) == lit.text
	}
}

func contains(value any, token string) bool {
	switch typed := value.(type) {
	case []string:
		return slices.Contains(typed, token)
	case []any:
		for _, item := range typed {
			if stringify(item) == token {
				return true
			}
		}
		return false
	case string:
		// A plain string is a one-element set.
		return typed == token
	default:
		return false
	}
}

func lookup(ctx visibility.Context, path string) (any, bool) {
	if rest, ok := strings.CutPrefix(path, "extras."); ok {
		return walk(ctx.Extras, rest)
	}
	return walk(ctx.Values, path)
}

func walk(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}
	var current any = values
	for _, part := range strings.Split(path, ".") {
		var next any
		var ok bool
		switch typed := current.(type) {
		case map[string]any:
			next, ok = typed[part]
		case map[string]string:
			next, ok = typed[part]
		}
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
		return strings.TrimSpace(v) != ""
	case []string:
		return len(v) > 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		if f, ok := number(v); ok {
			return f != 0
		}
		return true
	}
}

func number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
