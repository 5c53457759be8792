package sexy

import (
	"fmt"
	"strings"
	"unicode"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeInteger
	NodeList
)

func (t NodeType) String() string {
	switch t {
	case NodeSymbol:
		return "symbol"
	case NodeString:
		return "string"
	case NodeInteger:
		return "integer"
	case NodeList:
		return "list"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// Node is one datum of a guest tree written as an S-expression.
type Node struct {
	Type NodeType

	// Text holds the spelling of NodeSymbol, NodeString and NodeInteger.
	Text string

	// Items holds the elements of a NodeList.
	Items []*Node

	// Line and Column locate the first character of the datum (1-based).
	// Both are zero for nodes built in code.
	Line   int
	Column int
}

func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch n.Type {
	case NodeSymbol, NodeInteger:
		b.WriteString(n.Text)
	case NodeString:
		b.WriteString(Quote(n.Text))
	case NodeList:
		b.WriteByte('(')
		for i, item := range n.Items {
			if i > 0 {
				b.WriteByte(' ')
			}
			item.write(b)
		}
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "UNKNOWN_NODE_TYPE_%d", n.Type)
	}
}

// Quote renders s as a string datum that Parse reads back unchanged.
func Quote(s string) string {
	escaped := strings.ReplaceAll(s, "\\", "\\\\")
	escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
	escaped = strings.ReplaceAll(escaped, "\n", "\\n")
	return "\"" + escaped + "\""
}

// Helper constructors for common node types
func NewSymbol(name string) *Node {
	return &Node{Type: NodeSymbol, Text: name}
}

func NewString(value string) *Node {
	return &Node{Type: NodeString, Text: value}
}

func NewInteger(text string) *Node {
	return &Node{Type: NodeInteger, Text: text}
}

func NewList(items []*Node) *Node {
	return &Node{Type: NodeList, Items: items}
}

// IsAtom checks if the node is an atomic value
func (n *Node) IsAtom() bool {
	return n.Type != NodeList
}

// Head returns the symbol naming a list, or "" if the list is empty or
// starts with something other than a symbol.
func (n *Node) Head() string {
	if n.Type != NodeList || len(n.Items) == 0 || n.Items[0].Type != NodeSymbol {
		return ""
	}
	return n.Items[0].Text
}

// SyntaxError reports malformed S-expression text.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

type parser struct {
	lexer        *lexer
	currentToken token
	peekToken    token
}

// Parse parses the entire input and returns the top-level datum
func Parse(input string) (*Node, error) {
	p := &parser{lexer: newLexer(input)}
	p.nextToken()
	p.nextToken()

	result, err := p.ParseDatum()
	if len(p.lexer.errors) > 0 {
		// Lexer errors take priority because they might cause confusing parser errors.
		return nil, p.lexer.errors[0]
	}
	if err != nil {
		return nil, err
	}

	if p.currentToken.Type != tokenEOF {
		return nil, p.errorf("expected EOF but got %s", p.currentToken.Type)
	}

	return result, nil
}

func (p *parser) nextToken() {
	p.currentToken = p.peekToken
	p.peekToken = p.lexer.nextToken()
}

func (p *parser) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Line:    p.currentToken.Line,
		Column:  p.currentToken.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *parser) ParseDatum() (*Node, error) {
	tok := p.currentToken
	var node *Node
	switch tok.Type {
	case tokenSymbol:
		node = NewSymbol(tok.Value)
	case tokenString:
		node = NewString(tok.Value)
	case tokenInteger:
		node = NewInteger(tok.Value)
	case tokenLParen:
		return p.parseList()
	default:
		return nil, p.errorf("unexpected token: %s", tok.Type)
	}
	node.Line, node.Column = tok.Line, tok.Column
	p.nextToken()
	return node, nil
}

func (p *parser) parseList() (*Node, error) {
	list := NewList(nil)
	list.Line, list.Column = p.currentToken.Line, p.currentToken.Column
	p.nextToken() // consume '('

	for p.currentToken.Type != tokenRParen && p.currentToken.Type != tokenEOF {
		item, err := p.ParseDatum()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}

	if p.currentToken.Type != tokenRParen {
		return nil, p.errorf("expected ')' but got %s", p.currentToken.Type)
	}
	p.nextToken() // consume ')'

	return list, nil
}

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenSymbol
	tokenString
	tokenInteger
	tokenLParen
	tokenRParen
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "EOF"
	case tokenSymbol:
		return "symbol"
	case tokenString:
		return "string"
	case tokenInteger:
		return "integer"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	default:
		return fmt.Sprintf("unknown token %d", int(t))
	}
}

type token struct {
	Type   tokenType
	Value  string
	Line   int
	Column int
}

type lexer struct {
	input    string
	position int
	current  rune
	line     int
	column   int
	errors   []*SyntaxError
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.current == '\n' {
		l.line++
		l.column = 0
	}
	if l.position >= len(l.input) {
		l.current = 0
	} else {
		l.current = rune(l.input[l.position])
	}
	l.position++
	l.column++
}

func (l *lexer) peekChar() rune {
	if l.position >= len(l.input) {
		return 0
	}
	return rune(l.input[l.position])
}

func (l *lexer) errorf(line, column int, format string, args ...any) {
	l.errors = append(l.errors, &SyntaxError{Line: line, Column: column, Message: fmt.Sprintf(format, args...)})
}

func (l *lexer) skipWhitespace() {
	for unicode.IsSpace(l.current) {
		l.readChar()
	}
}

func (l *lexer) skipComment() {
	for l.current != '\n' && l.current != '\r' && l.current != 0 {
		l.readChar()
	}
}

func (l *lexer) readSymbol() string {
	start := l.position - 1
	for isSymbolChar(l.current) {
		l.readChar()
	}
	return l.input[start : l.position-1]
}

func (l *lexer) readString() (string, error) {
	var result strings.Builder
	l.readChar() // skip opening quote

	for l.current != '"' && l.current != 0 {
		if l.current == '\\' {
			l.readChar()
			switch l.current {
			case '"':
				result.WriteByte('"')
			case '\\':
				result.WriteByte('\\')
			case 'n':
				result.WriteByte('\n')
			default:
				return "", fmt.Errorf("invalid escape sequence: \\%c", l.current)
			}
		} else {
			result.WriteByte(byte(l.current))
		}
		l.readChar()
	}

	if l.current != '"' {
		return "", fmt.Errorf("unterminated string")
	}
	l.readChar() // skip closing quote

	return result.String(), nil
}

func (l *lexer) readInteger() string {
	start := l.position - 1
	if l.current == '+' || l.current == '-' {
		l.readChar()
	}
	for unicode.IsDigit(l.current) {
		l.readChar()
	}
	return l.input[start : l.position-1]
}

func (l *lexer) nextToken() token {
	for {
		l.skipWhitespace()

		line, col := l.line, l.column

		switch l.current {
		case 0:
			return token{Type: tokenEOF, Line: line, Column: col}
		case ';':
			l.skipComment()
			continue
		case '(':
			l.readChar()
			return token{Type: tokenLParen, Value: "(", Line: line, Column: col}
		case ')':
			l.readChar()
			return token{Type: tokenRParen, Value: ")", Line: line, Column: col}
		case '"':
			str, err := l.readString()
			if err != nil {
				l.errorf(line, col, "%s", err)
				return token{Type: tokenEOF, Line: line, Column: col}
			}
			return token{Type: tokenString, Value: str, Line: line, Column: col}
		default:
			if (l.current == '+' || l.current == '-') && unicode.IsDigit(l.peekChar()) || unicode.IsDigit(l.current) {
				integer := l.readInteger()
				return token{Type: tokenInteger, Value: integer, Line: line, Column: col}
			}
			if isSymbolStart(l.current) {
				symbol := l.readSymbol()
				return token{Type: tokenSymbol, Value: symbol, Line: line, Column: col}
			}
			// Unknown character is a syntax error
			l.errorf(line, col, "unexpected character '%c'", l.current)
			return token{Type: tokenEOF, Line: line, Column: col}
		}
	}
}

// Guest identifiers carry sigils (@ivar, $gvar, *rest, &blk) and operator
// method names (==, <=>, +) are bare symbols too.
const symbolPunctuation = "_@$*&!?<>=+-/%~^|"

func isSymbolStart(r rune) bool {
	return unicode.IsLetter(r) || (r != 0 && strings.ContainsRune(symbolPunctuation, r))
}

func isSymbolChar(r rune) bool {
	return isSymbolStart(r) || unicode.IsDigit(r)
}
