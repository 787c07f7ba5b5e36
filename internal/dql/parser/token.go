package parser

// TokenKind enumerates everything the lexer can produce.
type TokenKind int

const (
	// Keywords
	TokNew TokenKind = iota
	TokTable
	TokIf
	TokExists
	TokIs
	TokTrue
	TokFalse
	TokUnic
	TokMain
	TokAdd
	TokItem
	TokTo
	TokPrint
	TokWhere
	TokFrom
	TokDelete
	TokRemove
	TokChange
	TokValue
	TokOf

	// Type names
	TokUuid
	TokStr
	TokPassword
	TokInt16
	TokInt32
	TokInt64
	TokChar
	TokBool

	// Punctuation
	TokLBrace
	TokRBrace
	TokLParen
	TokRParen
	TokComma
	TokSemicolon
	TokEquals

	// Literals and names
	TokIdent
	TokString
	TokNumber

	TokEOF
)

var tokenNames = map[TokenKind]string{
	TokNew: "NEW", TokTable: "TABLE", TokIf: "IF", TokExists: "EXISTS",
	TokIs: "IS", TokTrue: "TRUE", TokFalse: "FALSE", TokUnic: "UNIC",
	TokMain: "MAIN", TokAdd: "ADD", TokItem: "ITEM", TokTo: "TO",
	TokPrint: "PRINT", TokWhere: "WHERE", TokFrom: "FROM", TokDelete: "DELETE",
	TokRemove: "REMOVE", TokChange: "CHANGE", TokValue: "VALUE", TokOf: "OF",
	TokUuid: "UUID", TokStr: "STR", TokPassword: "PASSWORD",
	TokInt16: "INT16", TokInt32: "INT32", TokInt64: "INT64",
	TokChar: "CHAR", TokBool: "BOOL",
	TokLBrace: "'{'", TokRBrace: "'}'", TokLParen: "'('", TokRParen: "')'",
	TokComma: "','", TokSemicolon: "';'", TokEquals: "'='",
	TokIdent: "identifier", TokString: "string", TokNumber: "number",
	TokEOF: "end of input",
}

func (k TokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return "unknown token"
}

// keywords maps fully uppercase words to their token kind. Mixed- or
// lower-case words are always identifiers.
var keywords = map[string]TokenKind{
	"NEW": TokNew, "TABLE": TokTable, "IF": TokIf, "EXISTS": TokExists,
	"IS": TokIs, "TRUE": TokTrue, "FALSE": TokFalse, "UNIC": TokUnic,
	"MAIN": TokMain, "ADD": TokAdd, "ITEM": TokItem, "TO": TokTo,
	"PRINT": TokPrint, "WHERE": TokWhere, "FROM": TokFrom, "DELETE": TokDelete,
	"REMOVE": TokRemove, "CHANGE": TokChange, "VALUE": TokValue, "OF": TokOf,
	"UUID": TokUuid, "STR": TokStr, "PASSWORD": TokPassword,
	"INT16": TokInt16, "INT32": TokInt32, "INT64": TokInt64,
	"CHAR": TokChar, "BOOL": TokBool,
}

// Token is one lexeme with its source position (1-based).
type Token struct {
	Kind   TokenKind
	Text   string
	Line   int
	Column int
}
