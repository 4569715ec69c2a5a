// Package pegcore implements a PEG-style parser combinator engine: an
// ordered-choice backtracking interpreter over a UTF-8 text buffer that
// compiles declarative token patterns and parser rules into an Abstract
// Syntax Tree with user-attached values.
//
// The engine is organized around three tightly coupled subsystems:
//
//   - the rule/token execution engine (element.go, tokens.go, rules.go):
//     an ordered-choice backtracking interpreter with first-character
//     dispatch, lookahead, and sequence/repeat/optional combinators;
//   - the skip-and-barrier coordination layer (skip.go, barrier.go):
//     interleaved whitespace/comment skipping plus a barrier token
//     mechanism for layout-sensitive synchronization points;
//   - the error aggregation & recovery layer (errors_runtime.go):
//     furthest-error tracking, multi-strategy recovery, and diagnostic
//     grouping.
//
// A Parser owns immutable arrays of Rule and TokenPattern elements, each
// with a stable integer id. At parse time it builds a ParserContext
// holding the input, a position cursor, a max-position cap, mutable
// error/success bitsets and a reference to the shared barrier collection.
// The driver (driver.go) invokes the main rule; rules recursively dispatch
// to children by id, mediated by the skip strategy and the barrier
// collection. Token patterns are terminal: they consume characters and
// optionally produce an intermediate value.
//
// Grammars are assembled by adding TokenPattern and Rule values to a
// Builder (AddToken, AddRule, ReserveRule/DefineRule), which hands out
// their ids. Build/MustBuild then check aliases, empty composites and
// circular reference-only chains, compute first-character sets and, with
// FlagFirstCharacterMatch, the Choice dispatch tables.
package pegcore // import "github.com/scannerless/pegcore"
