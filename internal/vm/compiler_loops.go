package vm

import "github.com/lumen-lang/lumen/internal/lexer"

func (p *Parser) ifStatement() {
	p.consume(lexer.LEFT_PAREN, "Expect '(' after 'if'.")
	p.expression()
	p.consume(lexer.RIGHT_PAREN, "Expect ')' after condition.")

	thenJump := p.emitJump(OpJumpIfFalse)
	p.emitOp(OpPop)
	p.statement()

	elseJump := p.emitJump(OpJump)
	p.patchJump(thenJump)
	p.emitOp(OpPop)

	if p.match(lexer.ELSE) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *Parser) whileStatement() {
	loopStart := p.currentChunk().Len()
	p.consume(lexer.LEFT_PAREN, "Expect '(' after 'while'.")
	p.expression()
	p.consume(lexer.RIGHT_PAREN, "Expect ')' after condition.")

	exitJump := p.emitJump(OpJumpIfFalse)
	p.emitOp(OpPop)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(OpPop)
}

// forStatement desugars C-style for loops entirely into the lower-level
// conditional-jump/loop primitives; there is no dedicated FOR opcode.
func (p *Parser) forStatement() {
	p.beginScope()
	p.consume(lexer.LEFT_PAREN, "Expect '(' after 'for'.")

	switch {
	case p.match(lexer.SEMICOLON):
		// no initializer
	case p.match(lexer.VAR):
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loopStart := p.currentChunk().Len()
	exitJump := -1
	if !p.match(lexer.SEMICOLON) {
		p.expression()
		p.consume(lexer.SEMICOLON, "Expect ';' after loop condition.")

		exitJump = p.emitJump(OpJumpIfFalse)
		p.emitOp(OpPop)
	}

	if !p.match(lexer.RIGHT_PAREN) {
		bodyJump := p.emitJump(OpJump)

		incrementStart := p.currentChunk().Len()
		p.expression()
		p.emitOp(OpPop)
		p.consume(lexer.RIGHT_PAREN, "Expect ')' after for clauses.")

		p.emitLoop(loopStart)
		loopStart = incrementStart
		p.patchJump(bodyJump)
	}

	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(OpPop)
	}

	p.endScope()
}
