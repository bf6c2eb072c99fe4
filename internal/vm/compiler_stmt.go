package vm

import "github.com/lumen-lang/lumen/internal/lexer"

// declaration is the top-level production inside any block: a class,
// function, or variable declaration, or else an ordinary statement. It
// resynchronizes on error so one bad declaration doesn't abort the whole
// compile.
func (p *Parser) declaration() {
	switch {
	case p.match(lexer.CLASS):
		p.classDeclaration()
	case p.match(lexer.FUN):
		p.funDeclaration()
	case p.match(lexer.VAR):
		p.varDeclaration()
	default:
		p.statement()
	}

	if p.panicMode {
		p.synchronize()
	}
}

func (p *Parser) statement() {
	switch {
	case p.match(lexer.PRINT):
		p.printStatement()
	case p.match(lexer.IF):
		p.ifStatement()
	case p.match(lexer.RETURN):
		p.returnStatement()
	case p.match(lexer.WHILE):
		p.whileStatement()
	case p.match(lexer.FOR):
		p.forStatement()
	case p.match(lexer.LEFT_BRACE):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *Parser) block() {
	for !p.check(lexer.RIGHT_BRACE) && !p.check(lexer.EOF) {
		p.declaration()
	}
	p.consume(lexer.RIGHT_BRACE, "Expect '}' after block.")
}

func (p *Parser) printStatement() {
	p.expression()
	p.consume(lexer.SEMICOLON, "Expect ';' after value.")
	p.emitOp(OpPrint)
}

func (p *Parser) expressionStatement() {
	p.expression()
	p.consume(lexer.SEMICOLON, "Expect ';' after expression.")
	p.emitOp(OpPop)
}

func (p *Parser) returnStatement() {
	if p.compiler.kind == funcScript {
		p.errorAtPrevious("Can't return from top-level code.")
	}

	if p.match(lexer.SEMICOLON) {
		p.emitReturn()
		return
	}

	if p.compiler.kind == funcInitializer {
		p.errorAtPrevious("Can't return a value from an initializer.")
	}

	p.expression()
	p.consume(lexer.SEMICOLON, "Expect ';' after return value.")
	p.emitOp(OpReturn)
}

func (p *Parser) varDeclaration() {
	global := p.parseVariable("Expect variable name.")

	if p.match(lexer.EQUAL) {
		p.expression()
	} else {
		p.emitOp(OpNil)
	}
	p.consume(lexer.SEMICOLON, "Expect ';' after variable declaration.")

	p.defineVariable(global)
}

func (p *Parser) funDeclaration() {
	global := p.parseVariable("Expect function name.")
	p.markInitialized()
	p.function(funcFunction)
	p.defineVariable(global)
}

// function compiles a parameter list and body into its own chunk, inside
// a fresh Compiler chained to the current one, then emits a CLOSURE
// instruction in the *enclosing* function's chunk referencing it.
func (p *Parser) function(kind FuncType) {
	p.newCompiler(p.compiler, kind)
	p.beginScope()

	p.consume(lexer.LEFT_PAREN, "Expect '(' after function name.")
	if !p.check(lexer.RIGHT_PAREN) {
		for {
			p.compiler.function.Arity++
			if p.compiler.function.Arity > 255 {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			paramConst := p.parseVariable("Expect parameter name.")
			p.defineVariable(paramConst)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.consume(lexer.RIGHT_PAREN, "Expect ')' after parameters.")
	p.consume(lexer.LEFT_BRACE, "Expect '{' before function body.")
	p.block()

	upvalues := p.compiler.upvalues
	fn := p.endCompiler()
	idx, err := p.currentChunk().AddConstant(ObjVal(fn))
	if err != nil {
		p.errorAtPrevious(err.Error())
		return
	}
	p.emitOpByte(OpClosure, byte(idx))
	for _, uv := range upvalues {
		if uv.isLocal {
			p.emitByte(1)
		} else {
			p.emitByte(0)
		}
		p.emitByte(byte(uv.index))
	}
}

func (p *Parser) classDeclaration() {
	p.consume(lexer.IDENTIFIER, "Expect class name.")
	nameTok := p.previous
	nameConst := p.identifierConstant(nameTok)
	className := nameTok.Lexeme(p.source)
	p.declareVariable()

	p.emitOpByte(OpClass, nameConst)
	p.defineVariable(nameConst)

	classCompiler := &ClassCompiler{enclosing: p.classCompiler}
	p.classCompiler = classCompiler

	if p.match(lexer.LESS) {
		p.consume(lexer.IDENTIFIER, "Expect superclass name.")
		p.variable(false)
		if p.previous.Lexeme(p.source) == className {
			p.errorAtPrevious("A class can't inherit from itself.")
		}

		p.beginScope()
		p.addLocal("super")
		p.defineVariable(0)

		p.namedVariableText(className, false)
		p.emitOp(OpInherit)
		classCompiler.hasSuperclass = true
	}

	p.namedVariableText(className, false)
	p.consume(lexer.LEFT_BRACE, "Expect '{' before class body.")
	for !p.check(lexer.RIGHT_BRACE) && !p.check(lexer.EOF) {
		p.method()
	}
	p.consume(lexer.RIGHT_BRACE, "Expect '}' after class body.")
	p.emitOp(OpPop) // the class object pushed for namedVariableText above

	if classCompiler.hasSuperclass {
		p.endScope()
	}
	p.classCompiler = p.classCompiler.enclosing
}

func (p *Parser) method() {
	p.consume(lexer.IDENTIFIER, "Expect method name.")
	name := p.previous
	nameConst := p.identifierConstant(name)

	kind := funcMethod
	if name.Lexeme(p.source) == "init" {
		kind = funcInitializer
	}
	p.function(kind)
	p.emitOpByte(OpMethod, nameConst)
}
