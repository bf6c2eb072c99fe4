package vm

import (
	"strconv"

	"github.com/lumen-lang/lumen/internal/lexer"
)

func (p *Parser) number(canAssign bool) {
	lexeme := p.previous.Lexeme(p.source)
	n, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		p.errorAtPrevious("Invalid number literal.")
		return
	}
	p.emitConstant(NumberVal(n))
}

// string parses a STRING token's lexeme into its contents, stripping the
// surrounding quotes. Escape sequences are not processed; string contents
// are verbatim source bytes.
func (p *Parser) string(canAssign bool) {
	lexeme := p.previous.Lexeme(p.source)
	contents := lexeme[1 : len(lexeme)-1]
	p.emitConstant(ObjVal(p.vm.internString(contents)))
}

func (p *Parser) literal(canAssign bool) {
	switch p.previous.Type {
	case lexer.FALSE:
		p.emitOp(OpFalse)
	case lexer.TRUE:
		p.emitOp(OpTrue)
	case lexer.NIL:
		p.emitOp(OpNil)
	}
}

func (p *Parser) grouping(canAssign bool) {
	p.expression()
	p.consume(lexer.RIGHT_PAREN, "Expect ')' after expression.")
}

func (p *Parser) unary(canAssign bool) {
	opType := p.previous.Type
	p.parsePrecedence(precUnary)
	switch opType {
	case lexer.BANG:
		p.emitOp(OpNot)
	case lexer.MINUS:
		p.emitOp(OpNegate)
	}
}

func (p *Parser) binary(canAssign bool) {
	opType := p.previous.Type
	rule := getRule(opType)
	p.parsePrecedence(rule.precedence + 1)

	switch opType {
	case lexer.BANG_EQUAL:
		p.emitOp(OpEqual)
		p.emitOp(OpNot)
	case lexer.EQUAL_EQUAL:
		p.emitOp(OpEqual)
	case lexer.GREATER:
		p.emitOp(OpGreater)
	case lexer.GREATER_EQUAL:
		p.emitOp(OpLess)
		p.emitOp(OpNot)
	case lexer.LESS:
		p.emitOp(OpLess)
	case lexer.LESS_EQUAL:
		p.emitOp(OpGreater)
		p.emitOp(OpNot)
	case lexer.PLUS:
		p.emitOp(OpAdd)
	case lexer.MINUS:
		p.emitOp(OpSubtract)
	case lexer.STAR:
		p.emitOp(OpMultiply)
	case lexer.SLASH:
		p.emitOp(OpDivide)
	}
}

func (p *Parser) call(canAssign bool) {
	argCount := argumentList(p)
	p.emitOpByte(OpCall, argCount)
}

func (p *Parser) dot(canAssign bool) {
	p.consume(lexer.IDENTIFIER, "Expect property name after '.'.")
	name := p.identifierConstant(p.previous)

	switch {
	case canAssign && p.match(lexer.EQUAL):
		p.expression()
		p.emitOpByte(OpSetProperty, name)
	case p.match(lexer.LEFT_PAREN):
		argCount := argumentList(p)
		p.emitOpByte(OpInvoke, name)
		p.emitByte(argCount)
	default:
		p.emitOpByte(OpGetProperty, name)
	}
}

func (p *Parser) and_(canAssign bool) {
	endJump := p.emitJump(OpJumpIfFalse)
	p.emitOp(OpPop)
	p.parsePrecedence(precAnd)
	p.patchJump(endJump)
}

func (p *Parser) or_(canAssign bool) {
	elseJump := p.emitJump(OpJumpIfFalse)
	endJump := p.emitJump(OpJump)
	p.patchJump(elseJump)
	p.emitOp(OpPop)
	p.parsePrecedence(precOr)
	p.patchJump(endJump)
}

func (p *Parser) variable(canAssign bool) {
	p.namedVariable(p.previous, canAssign)
}

func (p *Parser) namedVariable(name lexer.Token, canAssign bool) {
	text := name.Lexeme(p.source)

	var getOp, setOp OpCode
	arg := resolveLocal(p.compiler, text)
	switch {
	case arg == -2:
		p.errorAtPrevious("Can't read local variable in its own initializer.")
		arg = 0
		getOp, setOp = OpGetLocal, OpSetLocal
	case arg != -1:
		getOp, setOp = OpGetLocal, OpSetLocal
	default:
		if up := resolveUpvalue(p, p.compiler, text); up != -1 {
			arg = up
			getOp, setOp = OpGetUpvalue, OpSetUpvalue
		} else {
			arg = int(p.identifierConstant(name))
			getOp, setOp = OpGetGlobal, OpSetGlobal
		}
	}

	if canAssign && p.match(lexer.EQUAL) {
		p.expression()
		p.emitOpByte(setOp, byte(arg))
	} else {
		p.emitOpByte(getOp, byte(arg))
	}
}

func (p *Parser) this_(canAssign bool) {
	if p.classCompiler == nil {
		p.errorAtPrevious("Can't use 'this' outside of a class.")
		return
	}
	p.namedVariableText("this", false)
}

func (p *Parser) super_(canAssign bool) {
	if p.classCompiler == nil {
		p.errorAtPrevious("Can't use 'super' outside of a class.")
	} else if !p.classCompiler.hasSuperclass {
		p.errorAtPrevious("Can't use 'super' in a class with no superclass.")
	}

	p.consume(lexer.DOT, "Expect '.' after 'super'.")
	p.consume(lexer.IDENTIFIER, "Expect superclass method name.")
	name := p.identifierConstant(p.previous)

	p.namedVariableText("this", false)
	if p.match(lexer.LEFT_PAREN) {
		argCount := argumentList(p)
		p.namedVariableText("super", false)
		p.emitOpByte(OpSuperInvoke, name)
		p.emitByte(argCount)
	} else {
		p.namedVariableText("super", false)
		p.emitOpByte(OpGetSuper, name)
	}
}

// namedVariableText resolves and emits a variable reference by raw name
// text rather than a source-backed Token, for the compiler-synthesized
// `this`/`super` references.
func (p *Parser) namedVariableText(text string, canAssign bool) {
	var getOp OpCode
	arg := resolveLocal(p.compiler, text)
	switch {
	case arg >= 0:
		getOp = OpGetLocal
	default:
		if up := resolveUpvalue(p, p.compiler, text); up != -1 {
			arg = up
			getOp = OpGetUpvalue
		} else {
			arg = int(byte(p.identifierConstantText(text)))
			getOp = OpGetGlobal
		}
	}
	p.emitOpByte(getOp, byte(arg))
}

func (p *Parser) identifierConstantText(text string) byte {
	idx, err := p.currentChunk().AddConstant(ObjVal(p.vm.internString(text)))
	if err != nil {
		p.errorAtPrevious(err.Error())
		return 0
	}
	return byte(idx)
}
