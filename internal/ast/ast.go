// Package ast defines the tree produced by the parser and consumed by the
// verifier and code generator: enums, structs, the RPC container, imports,
// and the type-reference tree that ties them together.
package ast

// Span is a half-open byte range into the source text that produced a
// token or node. Spans are carried through lexing, parsing and
// verification so that diagnostics can point at the offending bytes.
type Span struct {
	Start int
	End   int
}

// Ident is an identifier together with the span of its occurrence.
type Ident struct {
	Name string
	Span Span
}

// Kind enumerates the shapes a TypeRef can take.
type Kind int

const (
	// KindNothing is the distinguished "no value" return type, written by
	// omitting "-> Type" on a procedure declaration.
	KindNothing Kind = iota
	KindFixedInt
	KindVarInt
	KindString
	KindArray
	KindOption
	// KindExternal references a declared Enum or Struct by name.
	KindExternal
)

// TypeRef is the recursive type-reference tree: built-ins carry their own
// shape (width/signedness for integers, element type for array/option);
// everything else is an External reference resolved by the verifier.
type TypeRef struct {
	Kind Kind

	// Bits and Signed are set when Kind is KindFixedInt or KindVarInt.
	Bits   int
	Signed bool

	// Elem is set when Kind is KindArray or KindOption.
	Elem *TypeRef

	// External is set when Kind is KindExternal: the identifier as written,
	// plus its span for "unresolved type" diagnostics.
	External Ident

	// Span covers the full textual extent of this type reference,
	// including any @array[...]/@option[...] wrapper.
	Span Span
}

// EnumVariant is one `Ident -> Number ;` line inside an enum declaration.
type EnumVariant struct {
	Name Ident
	Tag  int16
	// TagSpan is the span of the numeric literal, used to anchor
	// duplicate-tag diagnostics independently of the variant name.
	TagSpan Span
}

// Enum is a `enum Ident { ... }` declaration.
type Enum struct {
	Name     Ident
	Variants []EnumVariant
}

// StructField is one `Ident -> Type ;` line inside a struct declaration.
type StructField struct {
	Name Ident
	Type TypeRef
}

// Struct is a `struct Ident { ... }` declaration.
type Struct struct {
	Name   Ident
	Fields []StructField
}

// Param is one parameter of a procedure declaration.
type Param struct {
	Name Ident
	Type TypeRef
}

// Procedure is one `proc Ident(...) [-> Type] ;` declaration. Return.Kind
// is KindNothing when the declaration omits the arrow.
type Procedure struct {
	Name   Ident
	Params []Param
	Return TypeRef
}

// Import is an `import Ident ;` statement.
type Import struct {
	Name Ident
}

// File is the parsed form of one IDL source file. The IDL grammar allows
// multiple `rpc { ... }` blocks; their procedures are concatenated here in
// source order.
type File struct {
	// Name identifies the source for diagnostics (e.g. a file path).
	Name string

	Enums      []Enum
	Structs    []Struct
	Procedures []Procedure
	Imports    []Import
}
