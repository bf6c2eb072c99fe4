package vm

import (
	"github.com/lumen-lang/lumen/internal/lexer"
)

// FuncType distinguishes the four shapes of compiled function body: the
// implicit top-level script, an ordinary function, a method, and a class
// initializer (whose implicit return value is always `this`, never the
// expression after `return`).
type FuncType int

const (
	funcScript FuncType = iota
	funcFunction
	funcMethod
	funcInitializer
)

const maxLocals = 256

// Local is a stack slot reserved for a block-scoped variable still being
// compiled. depth is -1 between the variable's declaration and its
// initializer finishing, so a local's own initializer cannot refer to
// itself.
type Local struct {
	name       string
	depth      int
	isCaptured bool
}

// UpvalueRef records, per compiled function, how to reach a free variable
// it closes over: either directly off the enclosing function's locals
// (isLocal) or by forwarding the enclosing function's own upvalue slot.
type UpvalueRef struct {
	index   int
	isLocal bool
}

// Compiler is one function's worth of compile-time state: the chunk being
// assembled (via function.Chunk), the locals currently in scope, and the
// captured-variable table, chained to the lexically enclosing function's
// Compiler so resolution can walk outward.
type Compiler struct {
	enclosing *Compiler
	function  *ObjFunction
	kind      FuncType

	locals     []Local
	upvalues   []UpvalueRef
	scopeDepth int
}

// ClassCompiler tracks class-body compile state, chained the same way as
// Compiler, so nested class declarations and `super` resolution both work.
type ClassCompiler struct {
	enclosing     *ClassCompiler
	hasSuperclass bool
}

// Parser drives the lexer one token at a time and assembles bytecode
// directly as it recognizes grammar productions; there is no
// intermediate AST.
type Parser struct {
	vm     *VM
	lex    *lexer.Lexer
	source string

	current  lexer.Token
	previous lexer.Token

	hadError  bool
	panicMode bool
	errors    []string

	compiler      *Compiler
	classCompiler *ClassCompiler
}

// Compile compiles source into a top-level ObjFunction ready to be
// wrapped in a closure and run, or returns a *CompileError collecting
// every diagnostic produced.
func (vm *VM) Compile(source string) (*ObjFunction, error) {
	p := &Parser{
		vm:     vm,
		lex:    lexer.New(source),
		source: source,
	}
	p.newCompiler(nil, funcScript)

	p.advance()
	for !p.match(lexer.EOF) {
		p.declaration()
	}
	fn := p.endCompiler()
	vm.compiler = nil

	if p.hadError {
		return nil, &CompileError{Errors: p.errors}
	}
	return fn, nil
}

func (p *Parser) newCompiler(enclosing *Compiler, kind FuncType) *Compiler {
	c := &Compiler{
		enclosing: enclosing,
		kind:      kind,
		function:  p.vm.newFunction(),
	}

	// Chain c in before interning the name: the collector walks the
	// compiler chain for roots, and interning can trigger a collection
	// that must already see the new function.
	p.compiler = c
	p.vm.compiler = c
	if kind != funcScript {
		c.function.Name = p.vm.internString(p.previous.Lexeme(p.source))
	}

	// Slot 0 is reserved for the callee (script/plain functions) or the
	// receiver, `this` (methods/initializers).
	slotName := ""
	if kind == funcMethod || kind == funcInitializer {
		slotName = "this"
	}
	c.locals = append(c.locals, Local{name: slotName, depth: 0})
	return c
}

func (p *Parser) currentChunk() *Chunk { return p.compiler.function.Chunk }

// --- token stream -----------------------------------------------------

func (p *Parser) advance() {
	p.previous = p.current
	for {
		p.current = p.lex.NextToken()
		if p.current.Type != lexer.ERROR {
			break
		}
		p.errorAtCurrent(p.current.Message())
	}
}

func (p *Parser) check(t lexer.Type) bool { return p.current.Type == t }

func (p *Parser) match(t lexer.Type) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(t lexer.Type, message string) {
	if p.current.Type == t {
		p.advance()
		return
	}
	p.errorAtCurrent(message)
}

// --- error reporting ----------------------------------------------------

func (p *Parser) errorAtCurrent(message string) { p.errorAt(p.current, message) }
func (p *Parser) errorAtPrevious(message string) { p.errorAt(p.previous, message) }

func (p *Parser) errorAt(tok lexer.Token, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true

	where := ""
	switch tok.Type {
	case lexer.EOF:
		where = "end"
	case lexer.ERROR:
		// message already names the problem; no lexeme to show.
	default:
		where = "'" + tok.Lexeme(p.source) + "'"
	}
	p.errors = append(p.errors, newCompileError(tok.Line, where, message))
}

// synchronize discards tokens until it reaches a likely statement
// boundary, so one syntax error is reported instead of a cascade.
func (p *Parser) synchronize() {
	p.panicMode = false
	for p.current.Type != lexer.EOF {
		if p.previous.Type == lexer.SEMICOLON {
			return
		}
		switch p.current.Type {
		case lexer.CLASS, lexer.FUN, lexer.VAR, lexer.FOR,
			lexer.IF, lexer.WHILE, lexer.PRINT, lexer.RETURN:
			return
		}
		p.advance()
	}
}

// --- bytecode emission --------------------------------------------------

func (p *Parser) emitByte(b byte) { p.currentChunk().Write(b, p.previous.Line) }
func (p *Parser) emitOp(op OpCode) { p.currentChunk().WriteOp(op, p.previous.Line) }

func (p *Parser) emitOpByte(op OpCode, operand byte) {
	p.emitOp(op)
	p.emitByte(operand)
}

func (p *Parser) emitConstant(v Value) {
	idx, err := p.currentChunk().AddConstant(v)
	if err != nil {
		p.errorAtPrevious(err.Error())
		return
	}
	p.emitOpByte(OpConstant, byte(idx))
}

// emitJump writes a jump opcode with a two-byte placeholder offset and
// returns the offset of the first placeholder byte, for patchJump to fill
// in once the jump target is known.
func (p *Parser) emitJump(op OpCode) int {
	p.emitOp(op)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return p.currentChunk().Len() - 2
}

func (p *Parser) patchJump(offset int) {
	jump := p.currentChunk().Len() - offset - 2
	if jump > 0xffff {
		p.errorAtPrevious("Too much code to jump over.")
		return
	}
	p.currentChunk().Code[offset] = byte(jump >> 8)
	p.currentChunk().Code[offset+1] = byte(jump & 0xff)
}

func (p *Parser) emitLoop(loopStart int) {
	p.emitOp(OpLoop)
	offset := p.currentChunk().Len() - loopStart + 2
	if offset > 0xffff {
		p.errorAtPrevious("Loop body too large.")
	}
	p.emitByte(byte(offset >> 8))
	p.emitByte(byte(offset & 0xff))
}

func (p *Parser) emitReturn() {
	if p.compiler.kind == funcInitializer {
		p.emitOpByte(OpGetLocal, 0) // `this`
	} else {
		p.emitOp(OpNil)
	}
	p.emitOp(OpReturn)
}

// endCompiler finishes the current function's chunk and pops back to the
// enclosing Compiler, returning the finished ObjFunction.
func (p *Parser) endCompiler() *ObjFunction {
	p.emitReturn()
	fn := p.compiler.function
	p.compiler = p.compiler.enclosing
	p.vm.compiler = p.compiler
	return fn
}

// --- scope/local handling ------------------------------------------------

func (p *Parser) beginScope() { p.compiler.scopeDepth++ }

func (p *Parser) endScope() {
	p.compiler.scopeDepth--
	c := p.compiler
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		last := c.locals[len(c.locals)-1]
		if last.isCaptured {
			p.emitOp(OpCloseUpvalue)
		} else {
			p.emitOp(OpPop)
		}
		c.locals = c.locals[:len(c.locals)-1]
	}
}

func (p *Parser) addLocal(name string) {
	if len(p.compiler.locals) >= maxLocals {
		p.errorAtPrevious("Too many local variables in function.")
		return
	}
	p.compiler.locals = append(p.compiler.locals, Local{name: name, depth: -1})
}

func (p *Parser) declareVariable() {
	if p.compiler.scopeDepth == 0 {
		return
	}
	name := p.previous.Lexeme(p.source)
	c := p.compiler
	for i := len(c.locals) - 1; i >= 0; i-- {
		local := c.locals[i]
		if local.depth != -1 && local.depth < c.scopeDepth {
			break
		}
		if local.name == name {
			p.errorAtPrevious("Already a variable with this name in this scope.")
		}
	}
	p.addLocal(name)
}

func (p *Parser) markInitialized() {
	if p.compiler.scopeDepth == 0 {
		return
	}
	p.compiler.locals[len(p.compiler.locals)-1].depth = p.compiler.scopeDepth
}

func (p *Parser) parseVariable(errMsg string) byte {
	p.consume(lexer.IDENTIFIER, errMsg)
	p.declareVariable()
	if p.compiler.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(p.previous)
}

func (p *Parser) defineVariable(global byte) {
	if p.compiler.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitOpByte(OpDefineGlobal, global)
}

func (p *Parser) identifierConstant(name lexer.Token) byte {
	idx, err := p.currentChunk().AddConstant(ObjVal(p.vm.internString(name.Lexeme(p.source))))
	if err != nil {
		p.errorAtPrevious(err.Error())
		return 0
	}
	return byte(idx)
}

func resolveLocal(c *Compiler, name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			if c.locals[i].depth == -1 {
				return -2 // sentinel: read-before-initialized
			}
			return i
		}
	}
	return -1
}

func (p *Parser) addUpvalue(c *Compiler, index int, isLocal bool) int {
	for i, uv := range c.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	if len(c.upvalues) >= maxLocals {
		p.errorAtPrevious("Too many closure variables in function.")
		return 0
	}
	c.upvalues = append(c.upvalues, UpvalueRef{index: index, isLocal: isLocal})
	c.function.UpvalueCount = len(c.upvalues)
	return len(c.upvalues) - 1
}

func resolveUpvalue(p *Parser, c *Compiler, name string) int {
	if c.enclosing == nil {
		return -1
	}
	local := resolveLocal(c.enclosing, name)
	if local == -2 {
		p.errorAtPrevious("Can't read local variable in its own initializer.")
		return -1
	}
	if local >= 0 {
		c.enclosing.locals[local].isCaptured = true
		return p.addUpvalue(c, local, true)
	}
	if up := resolveUpvalue(p, c.enclosing, name); up != -1 {
		return p.addUpvalue(c, up, false)
	}
	return -1
}

func argumentList(p *Parser) byte {
	var count int
	if !p.check(lexer.RIGHT_PAREN) {
		for {
			p.expression()
			if count == 255 {
				p.errorAtPrevious("Can't have more than 255 arguments.")
			}
			count++
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.consume(lexer.RIGHT_PAREN, "Expect ')' after arguments.")
	return byte(count)
}
