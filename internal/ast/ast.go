// Package ast defines the tagged tree of grammar productions produced by
// internal/parser and walked by internal/engine.
package ast

import (
	"strings"

	"github.com/glasswing-labs/minishell/internal/token"
)

// Node is any node in the AST. String reproduces canonical shell source for
// the subtree — used both for debug printing (--debug-ast) and, more
// operationally, as the script text handed to a re-exec'd child process for
// subshells and pipeline stages (SPEC_FULL.md §1.1).
type Node interface {
	String() string
}

// List is sequential composition (';'). Right may be nil when the input
// ends with a dangling ';'.
type List struct {
	Left  Node
	Right Node
}

func (n *List) String() string {
	if n.Right == nil {
		return n.Left.String() + ";"
	}
	return n.Left.String() + "; " + n.Right.String()
}

// AndOr is short-circuit boolean composition ('&&' or '||').
type AndOr struct {
	Left  Node
	Op    token.Token
	Right Node
}

func (n *AndOr) String() string {
	return n.Left.String() + " " + n.Op.Literal + " " + n.Right.String()
}

// PipeSequence is pipe composition ('|'), right-associative.
type PipeSequence struct {
	Left  Node
	Right Node
}

func (n *PipeSequence) String() string {
	return n.Left.String() + " | " + n.Right.String()
}

// Subshell is a parenthesized group executed in a child process.
type Subshell struct {
	Inner Node
}

func (n *Subshell) String() string {
	return "(" + n.Inner.String() + ")"
}

// SimpleCommand is a command with optional leading redirections (Prefix)
// and trailing words/redirections (Suffix). Name is always non-empty.
type SimpleCommand struct {
	Prefix *CmdPrefix
	Name   string
	Suffix *CmdSuffix
}

func (n *SimpleCommand) String() string {
	var b strings.Builder
	if n.Prefix != nil {
		b.WriteString(n.Prefix.String())
		b.WriteByte(' ')
	}
	b.WriteString(n.Name)
	if n.Suffix != nil {
		b.WriteByte(' ')
		b.WriteString(n.Suffix.String())
	}
	return b.String()
}

// CmdPrefix is a linked list of redirections preceding the command name.
type CmdPrefix struct {
	IO   *IOFile
	Next *CmdPrefix
}

func (n *CmdPrefix) String() string {
	if n == nil {
		return ""
	}
	parts := []string{n.IO.String()}
	if n.Next != nil {
		parts = append(parts, n.Next.String())
	}
	return strings.Join(parts, " ")
}

// CmdSuffix is a linked list of words and redirections following the
// command name. Exactly one of IO or Word is set per node.
type CmdSuffix struct {
	IO   *IOFile
	Word string // empty when IO is set
	Next *CmdSuffix
}

func (n *CmdSuffix) String() string {
	if n == nil {
		return ""
	}
	var head string
	if n.IO != nil {
		head = n.IO.String()
	} else {
		head = n.Word
	}
	parts := []string{head}
	if n.Next != nil {
		parts = append(parts, n.Next.String())
	}
	return strings.Join(parts, " ")
}

// IOFile is a single redirection: op is one of LESS/GREAT/DLESS/DGREAT.
type IOFile struct {
	Op       token.Token
	Filename string
}

func (n *IOFile) String() string {
	return n.Op.Literal + " " + n.Filename
}
