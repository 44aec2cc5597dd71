package grammar

import "github.com/nano-lang/nnc/token"

// StartRule is the rule the nano grammar starts from.
const StartRule = "Program"

// Nano returns the nano expression grammar.
func Nano() *Table {
	return MustTable(
		Rule{Name: StartRule, Seq: Seq(
			ZeroOrMore(Ref("Statement")),
		)},
		Rule{Name: "Statement", Seq: Seq(
			Ref("Expr"),
			Opt(Tok(token.Semicolon)),
		)},
		Rule{Name: "Expr", Seq: Seq(
			Ref("Term"),
			ZeroOrMore(Ref("BinaryOp"), Ref("Term")),
		)},
		Rule{Name: "Term", Seq: Seq(
			AnyOf(
				Seq(Ref("UnaryOp"), Ref("Term")),
				Seq(Ref("Literal")),
				Seq(Tok(token.Identifier), Opt(Ref("Call"))),
				Seq(Tok(token.ParenOpen), Ref("Expr"), Tok(token.ParenClose)),
			),
		)},
		Rule{Name: "Call", Seq: Seq(
			Tok(token.ParenOpen),
			Opt(Ref("ExprListComma")),
			Tok(token.ParenClose),
		)},
		Rule{Name: "ExprListComma", Seq: Seq(
			Ref("Expr"),
			ZeroOrMore(Tok(token.Comma), Ref("Expr")),
		)},
		Rule{Name: "Literal", Seq: Seq(
			AnyOf(
				Seq(Tok(token.IntLiteral)),
				Seq(Tok(token.StringLiteral)),
				Seq(Tok(token.BooleanLiteral)),
			),
		)},
		Rule{Name: "UnaryOp", Seq: Seq(
			AnyOf(
				Seq(Tok(token.OpNot)),
				Seq(Tok(token.OpDash)),
				Seq(Tok(token.OpTypeof)),
				Seq(Tok(token.OpAddrof)),
			),
		)},
		Rule{Name: "BinaryOp", Seq: Seq(
			AnyOf(
				Seq(Tok(token.OpPlus)),
				Seq(Tok(token.OpDash)),
				Seq(Tok(token.OpAsterisk)),
				Seq(Tok(token.OpDoubleForwardSlash)),
				Seq(Tok(token.OpForwardSlash)),
				Seq(Tok(token.OpPercent)),
				Seq(Tok(token.OpAnd)),
				Seq(Tok(token.OpOr)),
				Seq(Tok(token.OpXis)),
				Seq(Tok(token.OpIs)),
				Seq(Tok(token.OpEqSign)),
				Seq(Tok(token.Pipe)),
			),
		)},
	)
}
