// Package ir implements the generic attribute tree carried by every
// soundbank object: nested maps and sequences of scalar values,
// addressed by '/'-separated paths.
//
// Values are a tagged union rather than interface{} so that path
// traversal failures are matched exhaustively:
//
//   - NullType: null
//   - BoolType: boolean
//   - IntType: integer (Int, raw literal in Num)
//   - FloatType: floating point (Float, raw literal in Num)
//   - StringType: string
//   - ArrayType: ordered sequence (Values)
//   - ObjectType: key/value map preserving document order
//     (parallel Fields/Values slices)
//
// Paths select into the tree one key per '/'-separated segment. A
// segment may carry one or more ':i' index suffixes to select a
// sequence element, e.g. "children/items:2". Get and Set address a
// single value; Resolve additionally supports the single-level
// wildcard '*' and the recursive wildcard '**'.
package ir
