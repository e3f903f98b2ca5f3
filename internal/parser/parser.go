// Package parser implements a two-token-lookahead recursive-descent parser
// for the grammar in spec.md §4.2.
package parser

import (
	"fmt"
	"io"
	"os"

	"github.com/glasswing-labs/minishell/internal/ast"
	"github.com/glasswing-labs/minishell/internal/lexer"
	"github.com/glasswing-labs/minishell/internal/token"
)

// separator is the set of tokens that may never immediately follow a
// separator (';', '&&', '||', '|') — used by the three productions in
// spec.md §4.2 that forbid a bare separator-after-separator.
var separator = token.Of(token.SEMI, token.AND_IF, token.OR_IF, token.PIPE)

// Parser holds a lexer reference and two tokens of lookahead.
type Parser struct {
	lexer *lexer.Lexer

	current token.Token
	peek    token.Token

	shellName string
	errOut    io.Writer
	hasError  bool
}

// New constructs a parser over lexer l, priming current/peek with two
// advances as spec.md §4.2 requires. shellName is used in diagnostics
// ("<shellName>: syntax error near unexpected token '<literal>'").
func New(l *lexer.Lexer, shellName string) *Parser {
	p := &Parser{lexer: l, shellName: shellName, errOut: os.Stderr}
	p.advance()
	p.advance()
	return p
}

// SetErrorOutput redirects syntax-error diagnostics (default os.Stderr);
// useful for tests that want to capture them.
func (p *Parser) SetErrorOutput(w io.Writer) { p.errOut = w }

// HasError reports whether a syntax error was encountered.
func (p *Parser) HasError() bool { return p.hasError }

func (p *Parser) advance() {
	p.current = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) isAt(set token.Set) bool {
	return set.In(p.current.Kind)
}

// fail records the first syntax error, printing exactly one diagnostic
// even if the caller's recursive-descent unwind touches further
// productions that would otherwise also report a mismatch.
func (p *Parser) fail() ast.Node {
	if !p.hasError {
		fmt.Fprintf(p.errOut, "%s: syntax error near unexpected token '%s'\n", p.shellName, p.current.Literal)
	}
	p.hasError = true
	return nil
}

// Parse parses the full input and returns the AST root (spec.md §4.2's
// `list` production). It returns nil for an input with no tokens (empty or
// all whitespace), and nil if a syntax error occurred (HasError reports
// true only in that case).
func (p *Parser) Parse() ast.Node {
	if p.isAt(token.Of(token.NEWLINE)) {
		return nil
	}
	root := p.parseList()
	if p.hasError {
		return nil
	}
	return root
}

// list := and_or ( ';' list? )?
func (p *Parser) parseList() ast.Node {
	left := p.parseAndOr()
	if left == nil {
		return nil
	}
	if !p.isAt(token.Of(token.SEMI)) {
		return left
	}

	p.advance()
	if p.isAt(separator) {
		return p.fail()
	}
	if p.isAt(token.Of(token.NEWLINE)) {
		// dangling ';' at end of input: LIST with a nil Right.
		return &ast.List{Left: left, Right: nil}
	}

	right := p.parseList()
	return &ast.List{Left: left, Right: right}
}

// and_or := pipe_sequence ( (AND_IF | OR_IF) and_or )?
func (p *Parser) parseAndOr() ast.Node {
	left := p.parsePipeSequence()
	if left == nil {
		return nil
	}
	if !p.isAt(token.Of(token.AND_IF, token.OR_IF)) {
		return left
	}

	op := p.current
	p.advance()
	if p.isAt(separator) {
		return p.fail()
	}

	right := p.parseAndOr()
	if right == nil {
		return nil
	}
	return &ast.AndOr{Left: left, Op: op, Right: right}
}

// pipe_sequence := simple_command ( '|' pipe_sequence )?
func (p *Parser) parsePipeSequence() ast.Node {
	left := p.parseSimpleCommand()
	if left == nil {
		return nil
	}
	if !p.isAt(token.Of(token.PIPE)) {
		return left
	}

	p.advance()
	if p.isAt(separator) {
		return p.fail()
	}

	right := p.parsePipeSequence()
	if right == nil {
		return nil
	}
	return &ast.PipeSequence{Left: left, Right: right}
}

// simple_command := '(' and_or ')' | cmd_prefix? WORD cmd_suffix?
func (p *Parser) parseSimpleCommand() ast.Node {
	if p.isAt(token.Of(token.LPAREN)) {
		p.advance()
		return p.parseSubshell()
	}

	prefix := p.parseCmdPrefix()

	if !p.isAt(token.Of(token.WORD)) {
		// No command name: empty command is a syntax error (spec.md §9).
		return p.fail()
	}

	name := p.current.Literal
	p.advance()

	suffix := p.parseCmdSuffix()

	return &ast.SimpleCommand{Prefix: prefix, Name: name, Suffix: suffix}
}

// Subshell handling: '(' has already been consumed by the caller.
func (p *Parser) parseSubshell() ast.Node {
	inner := p.parseAndOr()
	if inner == nil {
		return nil
	}
	if !p.isAt(token.Of(token.RPAREN)) {
		return p.fail()
	}

	p.advance()
	if p.isAt(token.Of(token.LPAREN, token.RPAREN, token.WORD)) {
		return p.fail()
	}

	return &ast.Subshell{Inner: inner}
}

// cmd_prefix := io_file cmd_prefix?
func (p *Parser) parseCmdPrefix() *ast.CmdPrefix {
	io := p.parseIOFile()
	if io == nil {
		return nil
	}
	return &ast.CmdPrefix{IO: io, Next: p.parseCmdPrefix()}
}

// cmd_suffix := ( io_file | WORD ) cmd_suffix?
func (p *Parser) parseCmdSuffix() *ast.CmdSuffix {
	if io := p.parseIOFile(); io != nil {
		return &ast.CmdSuffix{IO: io, Next: p.parseCmdSuffix()}
	}

	if !p.isAt(token.Of(token.WORD)) {
		return nil
	}

	word := p.current.Literal
	p.advance()

	return &ast.CmdSuffix{Word: word, Next: p.parseCmdSuffix()}
}

// io_file := ( '<' | '>' | '<<' | '>>' ) WORD
func (p *Parser) parseIOFile() *ast.IOFile {
	if !p.isAt(token.Of(token.LESS, token.GREAT, token.DLESS, token.DGREAT)) {
		return nil
	}

	op := p.current
	p.advance()

	if !p.isAt(token.Of(token.WORD)) {
		p.fail()
		return nil
	}

	filename := p.current.Literal
	p.advance()

	return &ast.IOFile{Op: op, Filename: filename}
}
