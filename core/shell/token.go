// Package shell tokenizes and parses command lines into pipelines.
//
// The grammar is deliberately small: arguments separated by blanks, the
// pipe operators | and |&, and the output redirection operators > and >&.
// There is no quoting or escaping, so operator characters can never appear
// inside an argument.
package shell

// TokenKind classifies a lexed token.
type TokenKind int

const (
	TokenArgument TokenKind = iota
	TokenPipe
	TokenPipeErr
	TokenRedirect
	TokenRedirectErr
)

// Token is one lexical element of a command line.
type Token struct {
	Kind TokenKind
	Text string
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func isOperator(c byte) bool {
	return c == '|' || c == '>'
}

// Tokenize splits a raw command line into tokens in input order. An
// operator immediately followed by & lexes as its stderr-including variant;
// everything else up to the next blank or operator is an argument.
func Tokenize(line string) []Token {
	var tokens []Token

	for i := 0; i < len(line); {
		for i < len(line) && isBlank(line[i]) {
			i++
		}
		if i == len(line) {
			break
		}

		switch line[i] {
		case '|', '>':
			kind := TokenPipe
			if line[i] == '>' {
				kind = TokenRedirect
			}
			start := i
			i++
			if i < len(line) && line[i] == '&' {
				i++
				if kind == TokenPipe {
					kind = TokenPipeErr
				} else {
					kind = TokenRedirectErr
				}
			}
			tokens = append(tokens, Token{Kind: kind, Text: line[start:i]})

		default:
			start := i
			for i < len(line) && !isBlank(line[i]) && !isOperator(line[i]) {
				i++
			}
			tokens = append(tokens, Token{Kind: TokenArgument, Text: line[start:i]})
		}
	}

	return tokens
}
