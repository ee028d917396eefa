package syntax

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// bindingPowers is the Pratt parser's precedence table. Values below 10
// mark tokens that cannot begin the right-hand side of a projection and
// so make parseProjectionRHS synthesize an identity node instead of
// recursing (see the projection-rewiring rule in parseProjectionRHS).
var bindingPowers = map[TokKind]int{
	TokEOF:                0,
	TokUnquotedIdentifier: 0,
	TokQuotedIdentifier:   0,
	TokRbracket:           0,
	TokRbrace:             0,
	TokComma:              0,
	TokRparen:             0,
	TokColon:              0,
	TokPipe:               1,
	TokOr:                 2,
	TokAnd:                3,
	TokEQ:                 5,
	TokLT:                 5,
	TokLTE:                5,
	TokGT:                 5,
	TokGTE:                5,
	TokNE:                 5,
	TokFlatten:            9,
	TokStar:               20,
	TokFilter:             21,
	TokDot:                40,
	TokNot:                45,
	TokLbrace:             50,
	TokLbracket:           55,
	TokLparen:             60,
	TokCurrent:            0,
	TokExpref:             0,
	TokRawString:          0,
	TokJSONLiteral:        0,
	TokNumber:             0,
}

// Parser is a top-down operator precedence (Pratt) parser over the token
// stream produced by Lexer. One Parser parses one expression; construct a
// fresh one per call to Parse.
type Parser struct {
	tokens     []Token
	index      int
	expression string
}

// NewParser constructs a Parser ready to Parse expression text.
func NewParser() *Parser {
	return &Parser{}
}

// Parse lexes and parses expression into its AST root, or returns a
// SyntaxError describing the first malformed construct.
func (p *Parser) Parse(expression string) (*Node, error) {
	tokens, err := NewLexer().Tokenize(expression)
	if err != nil {
		return nil, err
	}
	p.tokens = tokens
	p.index = 0
	p.expression = expression

	result, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if p.current() != TokEOF {
		return nil, p.syntaxError(fmt.Sprintf("unexpected trailing token %s", p.currentToken().Kind))
	}
	return result, nil
}

func (p *Parser) currentToken() Token {
	return p.tokens[p.index]
}

func (p *Parser) current() TokKind {
	return p.tokens[p.index].Kind
}

func (p *Parser) lookahead(n int) TokKind {
	idx := p.index + n
	if idx >= len(p.tokens) {
		return TokEOF
	}
	return p.tokens[idx].Kind
}

func (p *Parser) advance() {
	if p.index < len(p.tokens)-1 {
		p.index++
	}
}

func (p *Parser) match(kind TokKind) error {
	if p.current() != kind {
		return p.syntaxError(fmt.Sprintf("expected %s, got %s", kind, p.current()))
	}
	p.advance()
	return nil
}

func (p *Parser) syntaxError(msg string) error {
	return SyntaxError{Message: msg, Expression: p.expression, Offset: p.currentToken().Position}
}

// parseExpression is the Pratt parser core: it repeatedly folds the
// current left-hand node into a larger tree for as long as the next
// token's binding power exceeds the caller's minimum (rbp).
func (p *Parser) parseExpression(rbp int) (*Node, error) {
	leftToken := p.currentToken()
	p.advance()
	left, err := p.nud(leftToken)
	if err != nil {
		return nil, err
	}
	for rbp < bindingPowers[p.current()] {
		nextToken := p.currentToken()
		p.advance()
		left, err = p.led(nextToken, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func identity() *Node { return &Node{Type: NodeCurrent} }

// nud ("null denotation") parses a token that begins an expression: a
// literal, identifier, unary prefix operator, or a bracket/brace that
// opens a self-contained construct.
func (p *Parser) nud(tok Token) (*Node, error) {
	switch tok.Kind {
	case TokJSONLiteral:
		if !json.Valid([]byte(tok.Lexeme)) {
			return nil, SyntaxError{Message: "invalid JSON literal", Expression: p.expression, Offset: tok.Position}
		}
		// Value holds the raw JSON text rather than a pre-decoded value:
		// decoding here would require encoding/json's map[string]any,
		// which discards object key order before the runtime ever sees
		// it. The evaluator decodes through runtime.ParseOrderedJSON
		// instead, so literal object keys keep source order like every
		// other object value in the language.
		return &Node{Type: NodeLiteral, Value: tok.Lexeme}, nil
	case TokRawString:
		return &Node{Type: NodeRawString, Value: tok.Lexeme}, nil
	case TokUnquotedIdentifier:
		return &Node{Type: NodeField, Name: tok.Lexeme}, nil
	case TokQuotedIdentifier:
		if p.current() == TokLparen {
			return nil, p.syntaxError("quoted identifiers cannot be used as function names")
		}
		return &Node{Type: NodeField, Name: tok.Lexeme}, nil
	case TokStar:
		left := identity()
		var right *Node
		var err error
		if p.current() == TokRbracket {
			right = identity()
		} else {
			right, err = p.parseProjectionRHS(bindingPowers[TokStar])
			if err != nil {
				return nil, err
			}
		}
		return &Node{Type: NodeObjectProjection, Children: []*Node{left, right}}, nil
	case TokFilter:
		return p.led(tok, identity())
	case TokLbrace:
		return p.parseMultiSelectHash()
	case TokFlatten:
		left := &Node{Type: NodeFlatten, Children: []*Node{identity()}}
		right, err := p.parseProjectionRHS(bindingPowers[TokFlatten])
		if err != nil {
			return nil, err
		}
		return &Node{Type: NodeProjection, Children: []*Node{left, right}}, nil
	case TokLbracket:
		switch {
		case p.current() == TokNumber || p.current() == TokColon:
			right, err := p.parseIndexExpression()
			if err != nil {
				return nil, err
			}
			return p.projectIfSlice(identity(), right)
		case p.current() == TokStar && p.lookahead(1) == TokRbracket:
			p.advance()
			p.advance()
			right, err := p.parseProjectionRHS(bindingPowers[TokStar])
			if err != nil {
				return nil, err
			}
			return &Node{Type: NodeProjection, Children: []*Node{identity(), right}}, nil
		default:
			return p.parseMultiSelectList()
		}
	case TokCurrent:
		return identity(), nil
	case TokExpref:
		expr, err := p.parseExpression(bindingPowers[TokExpref])
		if err != nil {
			return nil, err
		}
		return &Node{Type: NodeExpressionRef, Children: []*Node{expr}}, nil
	case TokNot:
		expr, err := p.parseExpression(bindingPowers[TokNot])
		if err != nil {
			return nil, err
		}
		return &Node{Type: NodeNot, Children: []*Node{expr}}, nil
	case TokLparen:
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if err := p.match(TokRparen); err != nil {
			return nil, err
		}
		return expr, nil
	case TokEOF:
		return nil, p.syntaxError("incomplete expression")
	default:
		return nil, p.syntaxError(fmt.Sprintf("invalid token %s", tok.Kind))
	}
}

// led ("left denotation") folds a previously parsed node (left) with an
// infix or postfix operator token into a larger node.
func (p *Parser) led(tok Token, left *Node) (*Node, error) {
	switch tok.Kind {
	case TokDot:
		if p.current() != TokStar {
			right, err := p.parseDotRHS(bindingPowers[TokDot])
			if err != nil {
				return nil, err
			}
			return &Node{Type: NodeSubexpression, Children: []*Node{left, right}}, nil
		}
		p.advance()
		right, err := p.parseProjectionRHS(bindingPowers[TokDot])
		if err != nil {
			return nil, err
		}
		return &Node{Type: NodeObjectProjection, Children: []*Node{left, right}}, nil
	case TokPipe:
		right, err := p.parseExpression(bindingPowers[TokPipe])
		if err != nil {
			return nil, err
		}
		return &Node{Type: NodePipe, Children: []*Node{left, right}}, nil
	case TokOr:
		right, err := p.parseExpression(bindingPowers[TokOr])
		if err != nil {
			return nil, err
		}
		return &Node{Type: NodeOr, Children: []*Node{left, right}}, nil
	case TokAnd:
		right, err := p.parseExpression(bindingPowers[TokAnd])
		if err != nil {
			return nil, err
		}
		return &Node{Type: NodeAnd, Children: []*Node{left, right}}, nil
	case TokEQ, TokNE, TokGT, TokGTE, TokLT, TokLTE:
		right, err := p.parseExpression(bindingPowers[tok.Kind])
		if err != nil {
			return nil, err
		}
		return &Node{Type: NodeComparator, Value: tok.Kind, Children: []*Node{left, right}}, nil
	case TokLparen:
		if left.Type != NodeField {
			return nil, p.syntaxError("invalid function call target")
		}
		name := left.Name
		var args []*Node
		for p.current() != TokRparen {
			arg, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.current() == TokComma {
				p.advance()
			}
		}
		if err := p.match(TokRparen); err != nil {
			return nil, err
		}
		return &Node{Type: NodeFunctionCall, Value: name, Children: args}, nil
	case TokFilter:
		condition, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if err := p.match(TokRbracket); err != nil {
			return nil, err
		}
		var right *Node
		if p.current() == TokFlatten {
			right = identity()
		} else {
			right, err = p.parseProjectionRHS(bindingPowers[TokFilter])
			if err != nil {
				return nil, err
			}
		}
		return &Node{Type: NodeFilterProjection, Children: []*Node{left, right, condition}}, nil
	case TokFlatten:
		flattened := &Node{Type: NodeFlatten, Children: []*Node{left}}
		right, err := p.parseProjectionRHS(bindingPowers[TokFlatten])
		if err != nil {
			return nil, err
		}
		return &Node{Type: NodeProjection, Children: []*Node{flattened, right}}, nil
	case TokLbracket:
		switch {
		case p.current() == TokNumber || p.current() == TokColon:
			right, err := p.parseIndexExpression()
			if err != nil {
				return nil, err
			}
			return p.projectIfSlice(left, right)
		default:
			if err := p.match(TokStar); err != nil {
				return nil, err
			}
			if err := p.match(TokRbracket); err != nil {
				return nil, err
			}
			right, err := p.parseProjectionRHS(bindingPowers[TokStar])
			if err != nil {
				return nil, err
			}
			return &Node{Type: NodeProjection, Children: []*Node{left, right}}, nil
		}
	default:
		return nil, p.syntaxError(fmt.Sprintf("unexpected token %s", tok.Kind))
	}
}

// projectIfSlice wraps left[right] as a plain subexpression unless right
// is a slice, in which case the result becomes the source of a new array
// projection — a slice always produces a sequence to project over.
func (p *Parser) projectIfSlice(left, right *Node) (*Node, error) {
	indexed := &Node{Type: NodeSubexpression, Children: []*Node{left, right}}
	if right.Type != NodeSlice {
		return indexed, nil
	}
	rhs, err := p.parseProjectionRHS(bindingPowers[TokStar])
	if err != nil {
		return nil, err
	}
	return &Node{Type: NodeProjection, Children: []*Node{indexed, rhs}}, nil
}

// parseDotRHS parses what follows a `.`: a field name, a multi-select
// list/hash opened without a leading identifier, or (via the caller) a
// wildcard already consumed before this is reached.
func (p *Parser) parseDotRHS(bindingPower int) (*Node, error) {
	switch p.current() {
	case TokQuotedIdentifier, TokUnquotedIdentifier, TokStar:
		return p.parseExpression(bindingPower)
	case TokLbracket:
		p.advance()
		return p.parseMultiSelectList()
	case TokLbrace:
		p.advance()
		return p.parseMultiSelectHash()
	default:
		return nil, p.syntaxError(fmt.Sprintf("expected identifier, '[' or '{' after '.', got %s", p.current()))
	}
}

// parseProjectionRHS decides what a projection applies to its elements.
// Per the projection-rewiring rule: a token that cannot itself start a
// projectable expression (binding power below 10, e.g. ')' ',' ']' '|'
// '[]' or a comparator) stops the projection, which then applies the
// identity function; '.' '[' (including a concrete index such as [0]) and
// '[?' propagate the projection into whatever follows.
func (p *Parser) parseProjectionRHS(bindingPower int) (*Node, error) {
	switch {
	case bindingPowers[p.current()] < 10:
		return identity(), nil
	case p.current() == TokDot:
		p.advance()
		return p.parseDotRHS(bindingPower)
	case p.current() == TokLbracket:
		return p.parseExpression(bindingPower)
	case p.current() == TokFilter:
		return p.parseExpression(bindingPower)
	default:
		return nil, p.syntaxError(fmt.Sprintf("unexpected token in projection: %s", p.current()))
	}
}

// parseIndexExpression parses the contents of `[...]` once it is known to
// start with a number or colon: either a concrete index or a slice.
func (p *Parser) parseIndexExpression() (*Node, error) {
	if p.current() == TokColon || p.lookahead(1) == TokColon {
		return p.parseSliceExpression()
	}
	tok := p.currentToken()
	n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		return nil, SyntaxError{Message: "invalid index: " + err.Error(), Expression: p.expression, Offset: tok.Position}
	}
	p.advance()
	if err := p.match(TokRbracket); err != nil {
		return nil, err
	}
	return &Node{Type: NodeIndex, Value: n}, nil
}

// parseSliceExpression parses `start:stop:step` (each part optional)
// inside brackets already known to contain a colon.
func (p *Parser) parseSliceExpression() (*Node, error) {
	var parts [3]*int64
	part := 0
	for p.current() != TokRbracket && part < 3 {
		switch p.current() {
		case TokColon:
			part++
			p.advance()
		case TokNumber:
			tok := p.currentToken()
			n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
			if err != nil {
				return nil, SyntaxError{Message: "invalid slice bound: " + err.Error(), Expression: p.expression, Offset: tok.Position}
			}
			parts[part] = &n
			p.advance()
		default:
			return nil, p.syntaxError(fmt.Sprintf("unexpected token in slice expression: %s", p.current()))
		}
	}
	if err := p.match(TokRbracket); err != nil {
		return nil, err
	}
	return &Node{Type: NodeSlice, Start: parts[0], Stop: parts[1], Step: parts[2]}, nil
}

// parseMultiSelectList parses `[expr, expr, ...]` once the opening
// bracket has already been consumed.
func (p *Parser) parseMultiSelectList() (*Node, error) {
	var items []*Node
	for {
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		items = append(items, expr)
		if p.current() == TokRbracket {
			break
		}
		if err := p.match(TokComma); err != nil {
			return nil, err
		}
	}
	if err := p.match(TokRbracket); err != nil {
		return nil, err
	}
	return &Node{Type: NodeMultiSelectList, Children: items}, nil
}

// parseMultiSelectHash parses `{key: expr, key: expr, ...}` once the
// opening brace has already been consumed.
func (p *Parser) parseMultiSelectHash() (*Node, error) {
	var pairs []HashPair
	for {
		keyTok := p.currentToken()
		if keyTok.Kind != TokUnquotedIdentifier && keyTok.Kind != TokQuotedIdentifier {
			return nil, p.syntaxError(fmt.Sprintf("expected identifier as hash key, got %s", keyTok.Kind))
		}
		p.advance()
		if err := p.match(TokColon); err != nil {
			return nil, err
		}
		value, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, HashPair{Key: keyTok.Lexeme, Value: value})

		switch p.current() {
		case TokComma:
			p.advance()
		case TokRbrace:
			p.advance()
			return &Node{Type: NodeMultiSelectHash, Value: pairs}, nil
		default:
			return nil, p.syntaxError(fmt.Sprintf("expected ',' or '}' in multi-select hash, got %s", p.current()))
		}
	}
}
