package vm

import "github.com/lumen-lang/lumen/internal/lexer"

// Precedence levels, lowest to highest, driving the Pratt parser's
// parsePrecedence loop.
type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

type parseFn func(p *Parser, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

var rules map[lexer.Type]parseRule

func init() {
	rules = map[lexer.Type]parseRule{
		lexer.LEFT_PAREN:    {prefix: (*Parser).grouping, infix: (*Parser).call, precedence: precCall},
		lexer.RIGHT_PAREN:   {},
		lexer.LEFT_BRACE:    {},
		lexer.RIGHT_BRACE:   {},
		lexer.COMMA:         {},
		lexer.DOT:           {infix: (*Parser).dot, precedence: precCall},
		lexer.MINUS:         {prefix: (*Parser).unary, infix: (*Parser).binary, precedence: precTerm},
		lexer.PLUS:          {infix: (*Parser).binary, precedence: precTerm},
		lexer.SEMICOLON:     {},
		lexer.SLASH:         {infix: (*Parser).binary, precedence: precFactor},
		lexer.STAR:          {infix: (*Parser).binary, precedence: precFactor},
		lexer.BANG:          {prefix: (*Parser).unary},
		lexer.BANG_EQUAL:    {infix: (*Parser).binary, precedence: precEquality},
		lexer.EQUAL:         {},
		lexer.EQUAL_EQUAL:   {infix: (*Parser).binary, precedence: precEquality},
		lexer.GREATER:       {infix: (*Parser).binary, precedence: precComparison},
		lexer.GREATER_EQUAL: {infix: (*Parser).binary, precedence: precComparison},
		lexer.LESS:          {infix: (*Parser).binary, precedence: precComparison},
		lexer.LESS_EQUAL:    {infix: (*Parser).binary, precedence: precComparison},
		lexer.IDENTIFIER:    {prefix: (*Parser).variable},
		lexer.STRING:        {prefix: (*Parser).string},
		lexer.NUMBER:        {prefix: (*Parser).number},
		lexer.AND:           {infix: (*Parser).and_, precedence: precAnd},
		lexer.CLASS:         {},
		lexer.ELSE:          {},
		lexer.FALSE:         {prefix: (*Parser).literal},
		lexer.FOR:           {},
		lexer.FUN:           {},
		lexer.IF:            {},
		lexer.NIL:           {prefix: (*Parser).literal},
		lexer.OR:            {infix: (*Parser).or_, precedence: precOr},
		lexer.PRINT:         {},
		lexer.RETURN:        {},
		lexer.SUPER:         {prefix: (*Parser).super_},
		lexer.THIS:          {prefix: (*Parser).this_},
		lexer.TRUE:          {prefix: (*Parser).literal},
		lexer.VAR:           {},
		lexer.WHILE:         {},
		lexer.EOF:           {},
		lexer.ERROR:         {},
	}
}

func getRule(t lexer.Type) parseRule { return rules[t] }

// parsePrecedence parses one expression whose operators bind at least as
// tightly as prec, the heart of the Pratt scheme: it consumes a prefix
// production, then keeps folding in infix productions as long as the next
// token's precedence is high enough.
func (p *Parser) parsePrecedence(prec precedence) {
	p.advance()
	prefixRule := getRule(p.previous.Type).prefix
	if prefixRule == nil {
		p.errorAtPrevious("Expect expression.")
		return
	}

	canAssign := prec <= precAssignment
	prefixRule(p, canAssign)

	for prec <= getRule(p.current.Type).precedence {
		p.advance()
		infixRule := getRule(p.previous.Type).infix
		infixRule(p, canAssign)
	}

	if canAssign && p.match(lexer.EQUAL) {
		p.errorAtPrevious("Invalid assignment target.")
	}
}

func (p *Parser) expression() { p.parsePrecedence(precAssignment) }
