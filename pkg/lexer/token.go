package lexer

import (
	"fmt"

	"github.com/sidenote-lang/sidenote/pkg/errors"
)

// TokenType represents the type of a sidenote token
type TokenType int

const (
	TokenUnknown TokenType = iota
	TokenIdentifier
	TokenComment
	TokenMentionOpen         // [
	TokenMentionClose        // ]
	TokenIndirectMentionOpen // ?[
	TokenOpenBrace           // {
	TokenCloseBrace          // }
	TokenOpenParen           // (
	TokenCloseParen          // )
	TokenOpenBracket
	TokenCloseBracket
	TokenComma     // ,
	TokenColon     // :
	TokenSemicolon // ;
	TokenString
	TokenInteger
	TokenPipe   // |
	TokenEquals // =
	TokenDot    // .
	TokenEOF
)

// Token represents a lexical token, including comments: they are ordinary
// tokens here and become evaluable nodes in the parser.
type Token struct {
	Type  TokenType
	Text  string
	Range errors.Range
}

func (t TokenType) String() string {
	names := map[TokenType]string{
		TokenUnknown:             "UNKNOWN",
		TokenIdentifier:          "IDENTIFIER",
		TokenComment:             "COMMENT",
		TokenMentionOpen:         "MENTION_OPEN",
		TokenMentionClose:        "MENTION_CLOSE",
		TokenIndirectMentionOpen: "INDIRECT_MENTION_OPEN",
		TokenOpenBrace:           "OPEN_BRACE",
		TokenCloseBrace:          "CLOSE_BRACE",
		TokenOpenParen:           "OPEN_PAREN",
		TokenCloseParen:          "CLOSE_PAREN",
		TokenOpenBracket:         "OPEN_BRACKET",
		TokenCloseBracket:        "CLOSE_BRACKET",
		TokenComma:               "COMMA",
		TokenColon:               "COLON",
		TokenSemicolon:           "SEMICOLON",
		TokenString:              "STRING",
		TokenInteger:             "INTEGER",
		TokenPipe:                "PIPE",
		TokenEquals:              "EQUALS",
		TokenDot:                 "DOT",
		TokenEOF:                 "EOF",
	}
	if name, ok := names[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

func (t *Token) String() string {
	return fmt.Sprintf("Token{Type: %s, Text: %q, Pos: %d:%d}",
		t.Type, t.Text, t.Range.Start.Line, t.Range.Start.Column)
}
