// Package internal provides the engine behind the nnc front end.
//
// Key components:
//
// Engine: runs the lexer and the grammar interpreter over one source and turns
// their errors into diagnostics. It is configured with Settings; zero values
// select the nano language.
//
// Result: everything produced for a source, the tokens, the tree when the
// parse succeeded and the diagnostics otherwise.
//
// Cache: remembers the last result of each file by content hash, so watch mode
// does not reprocess a file whose content did not change.
//
// SourceCode: a simple structure to represent the content of a source file as a
// collection of lines, used when rendering diagnostics.
//
// Usage:
//
//	engine, err := internal.NewEngine(internal.Settings{}, logger)
//	if err != nil {
//	    // handle error
//	}
//	res, err := engine.Run("main.nano")
package internal
