// Package interpreter evaluates expression trees from pkg/ast against a
// persistent runtime.Environment. Evaluation is a direct tree walk: the only
// state carried between nodes is the environment and a per-call evalState that
// tracks call depth for diagnostics and resource limits.
//
// The package also decodes the JSON/YAML AST interchange format used by the
// exec fixtures under fixtures/exec and by cmd/fixture.
package interpreter
