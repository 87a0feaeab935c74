// Package eval implements the safe arithmetic evaluator behind the
// calculate tool. Input passes a pipeline of hard gates (length, character
// whitelist, digit-run limit) before any parsing happens; evaluation itself
// is a pure arithmetic grammar with no names and no calls.
package eval

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/gamedex-io/gamedex/pkg/protocol"
)

const (
	maxExpressionLen = 100
	maxDigitRun      = 10
)

// maxMagnitude is the post-evaluation ceiling on |result|.
var maxMagnitude = new(big.Rat).SetInt64(1_000_000_000_000_000) // 1e15

var errDivisionByZero = errors.New("division by zero")

// Evaluate validates and evaluates an arithmetic expression, returning the
// outcome in envelope form. The first failing gate determines the error.
// Evaluate never panics and never returns an unpopulated envelope.
func Evaluate(expression string) protocol.ToolResult {
	expr := strings.TrimSpace(expression)
	if expr == "" {
		return protocol.ErrResult("no expression given")
	}
	if utf8.RuneCountInString(expr) > maxExpressionLen {
		return protocol.ErrResult("expression too long (max 100 characters)")
	}
	if strings.Contains(expr, "**") {
		return protocol.ErrResult("exponentiation operator not allowed for security reasons")
	}
	for _, r := range expr {
		if !allowedRune(r) {
			return protocol.ErrResult("only numbers and + - * / ( ) are allowed")
		}
	}
	if longestDigitRun(expr) > maxDigitRun {
		return protocol.ErrResult("numbers in the expression are too large (max 10 digits)")
	}

	p := &parser{input: expr}
	v, err := p.parseExpr()
	if err == nil {
		p.skipSpace()
		if p.pos < len(p.input) {
			err = fmt.Errorf("invalid expression: unexpected %q", p.input[p.pos])
		}
	}
	if err != nil {
		return protocol.ErrResult(err.Error())
	}

	if new(big.Rat).Abs(v).Cmp(maxMagnitude) > 0 {
		return protocol.ErrResult("result too large")
	}
	return protocol.OkResult(numeric(v))
}

func allowedRune(r rune) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	switch r {
	case '(', ')', '+', '-', '*', '/', '.', ' ', '\t', '\n':
		return true
	}
	return false
}

func longestDigitRun(s string) int {
	longest, run := 0, 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

// numeric converts the exact rational result to the value placed in the
// envelope: an int64 when the computation stayed integral, else a float64.
func numeric(v *big.Rat) any {
	if v.IsInt() {
		return v.Num().Int64()
	}
	f, _ := v.Float64()
	return f
}

// parser is a recursive-descent parser over the whitelisted input.
// All arithmetic runs on exact rationals, so intermediate values cannot
// overflow and integer results stay distinguishable from floats.
type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n':
			p.pos++
		default:
			return
		}
	}
}

// parseExpr handles + and - at the lowest precedence level.
func (p *parser) parseExpr() (*big.Rat, error) {
	v, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.input) {
			return v, nil
		}
		switch p.input[p.pos] {
		case '+':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			v.Add(v, rhs)
		case '-':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			v.Sub(v, rhs)
		default:
			return v, nil
		}
	}
}

// parseTerm handles * and /, binding tighter than + and -.
func (p *parser) parseTerm() (*big.Rat, error) {
	v, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.input) {
			return v, nil
		}
		switch p.input[p.pos] {
		case '*':
			p.pos++
			rhs, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			v.Mul(v, rhs)
		case '/':
			p.pos++
			rhs, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			if rhs.Sign() == 0 {
				return nil, errDivisionByZero
			}
			v.Quo(v, rhs)
		default:
			return v, nil
		}
	}
}

// parseUnary handles prefix signs. Literals themselves are unsigned; a
// leading - or + is part of the grammar, not the number.
func (p *parser) parseUnary() (*big.Rat, error) {
	p.skipSpace()
	if p.pos < len(p.input) {
		switch p.input[p.pos] {
		case '-':
			p.pos++
			v, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return v.Neg(v), nil
		case '+':
			p.pos++
			return p.parseUnary()
		}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*big.Rat, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, errors.New("invalid expression: unexpected end of input")
	}

	if p.input[p.pos] == '(' {
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return nil, errors.New("invalid expression: missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}

	if isDigit(p.input[p.pos]) || p.input[p.pos] == '.' {
		start := p.pos
		for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
			p.pos++
		}
		lit := p.input[start:p.pos]
		v, ok := new(big.Rat).SetString(lit)
		if !ok {
			return nil, fmt.Errorf("invalid expression: bad number %q", lit)
		}
		return v, nil
	}

	return nil, fmt.Errorf("invalid expression: unexpected %q", p.input[p.pos])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
