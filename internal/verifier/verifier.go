// Package verifier runs the semantic checks that turn a parsed ast.File
// (or a set of them, for cross-file imports) into a validated tree the
// code generator can trust: every identifier declared once, every
// external type reference resolved.
package verifier

import (
	"fmt"

	"github.com/olympusrpc/olympus/internal/ast"
	"github.com/olympusrpc/olympus/internal/diag"
)

// FileSet maps a file name to its parsed AST plus the diag.Source used to
// render spans from it. A single-file verification is just a FileSet
// with one entry and no Import statements.
type FileSet map[string]*Entry

// Entry pairs a parsed file with the diag.Source it was parsed from.
type Entry struct {
	File   *ast.File
	Source *diag.Source
}

// Verify checks every file in fs. Declarations are validated per file;
// external TypeRefs are resolved against the importing file's own
// declarations plus every file it imports. The first failure found is
// returned; verification is not attempted file-by-file in isolation
// since import resolution is inherently cross-file.
func Verify(fs FileSet) *diag.Diagnostic {
	for _, entry := range fs {
		if d := verifyFile(fs, entry); d != nil {
			return d
		}
	}
	return nil
}

func verifyFile(fs FileSet, entry *Entry) *diag.Diagnostic {
	file := entry.File
	src := entry.Source

	if d := checkUniqueIdents(src, identSpans(file.Enums, file.Structs)); d != nil {
		return d
	}

	for _, e := range file.Enums {
		if d := checkUniqueVariants(src, e); d != nil {
			return d
		}
	}
	for _, s := range file.Structs {
		if d := checkUniqueFields(src, s); d != nil {
			return d
		}
	}
	if d := checkUniqueProcedures(src, file.Procedures); d != nil {
		return d
	}
	for _, p := range file.Procedures {
		if d := checkUniqueParams(src, p); d != nil {
			return d
		}
	}

	scope, d := buildScope(fs, entry)
	if d != nil {
		return d
	}

	for _, s := range file.Structs {
		for _, f := range s.Fields {
			if d := resolveType(src, scope, f.Type); d != nil {
				return d
			}
		}
	}
	for _, p := range file.Procedures {
		for _, param := range p.Params {
			if d := resolveType(src, scope, param.Type); d != nil {
				return d
			}
		}
		if d := resolveType(src, scope, p.Return); d != nil {
			return d
		}
	}

	return nil
}

type namedSpan struct {
	name string
	span ast.Span
}

func identSpans(enums []ast.Enum, structs []ast.Struct) []namedSpan {
	out := make([]namedSpan, 0, len(enums)+len(structs))
	for _, e := range enums {
		out = append(out, namedSpan{e.Name.Name, e.Name.Span})
	}
	for _, s := range structs {
		out = append(out, namedSpan{s.Name.Name, s.Name.Span})
	}
	return out
}

// checkUniqueIdents reports a duplicate top-level enum/struct name: the
// first occurrence labeled yellow, the duplicate labeled red.
func checkUniqueIdents(src *diag.Source, names []namedSpan) *diag.Diagnostic {
	seen := make(map[string]ast.Span, len(names))
	for _, n := range names {
		if origSpan, ok := seen[n.name]; ok {
			return duplicateDiag(src, fmt.Sprintf("duplicate declaration %q", n.name), origSpan, n.span)
		}
		seen[n.name] = n.span
	}
	return nil
}

func checkUniqueVariants(src *diag.Source, e ast.Enum) *diag.Diagnostic {
	names := make(map[string]ast.Span, len(e.Variants))
	tags := make(map[int16]ast.Span, len(e.Variants))
	for _, v := range e.Variants {
		if origSpan, ok := names[v.Name.Name]; ok {
			return duplicateDiag(src, fmt.Sprintf("duplicate variant %q in enum %q", v.Name.Name, e.Name.Name), origSpan, v.Name.Span)
		}
		names[v.Name.Name] = v.Name.Span

		if origSpan, ok := tags[v.Tag]; ok {
			return duplicateDiag(src, fmt.Sprintf("duplicate tag %d in enum %q", v.Tag, e.Name.Name), origSpan, v.TagSpan)
		}
		tags[v.Tag] = v.TagSpan
	}
	return nil
}

func checkUniqueFields(src *diag.Source, s ast.Struct) *diag.Diagnostic {
	seen := make(map[string]ast.Span, len(s.Fields))
	for _, f := range s.Fields {
		if origSpan, ok := seen[f.Name.Name]; ok {
			return duplicateDiag(src, fmt.Sprintf("duplicate field %q in struct %q", f.Name.Name, s.Name.Name), origSpan, f.Name.Span)
		}
		seen[f.Name.Name] = f.Name.Span
	}
	return nil
}

func checkUniqueProcedures(src *diag.Source, procs []ast.Procedure) *diag.Diagnostic {
	seen := make(map[string]ast.Span, len(procs))
	for _, p := range procs {
		if origSpan, ok := seen[p.Name.Name]; ok {
			return duplicateDiag(src, fmt.Sprintf("duplicate procedure %q", p.Name.Name), origSpan, p.Name.Span)
		}
		seen[p.Name.Name] = p.Name.Span
	}
	return nil
}

func checkUniqueParams(src *diag.Source, p ast.Procedure) *diag.Diagnostic {
	seen := make(map[string]ast.Span, len(p.Params))
	for _, param := range p.Params {
		if origSpan, ok := seen[param.Name.Name]; ok {
			return duplicateDiag(src, fmt.Sprintf("duplicate parameter %q in procedure %q", param.Name.Name, p.Name.Name), origSpan, param.Name.Span)
		}
		seen[param.Name.Name] = param.Name.Span
	}
	return nil
}

func duplicateDiag(src *diag.Source, subject string, origSpan, dupSpan ast.Span) *diag.Diagnostic {
	return diag.New(subject).
		WithLabel(src, "first declared here", origSpan, diag.Yellow).
		WithLabel(src, "duplicated here", dupSpan, diag.Red)
}

// scope is the set of enum/struct names visible to one file: its own
// declarations plus those of every file it imports (one level, no
// transitive re-export).
type scope map[string]bool

func buildScope(fs FileSet, entry *Entry) (scope, *diag.Diagnostic) {
	sc := make(scope)
	addDeclarations(sc, entry.File)

	for _, imp := range entry.File.Imports {
		imported, ok := fs[imp.Name.Name]
		if !ok {
			return nil, diag.Error(entry.Source, fmt.Sprintf("unresolved import %q", imp.Name.Name), imp.Name.Span)
		}
		addDeclarations(sc, imported.File)
	}

	return sc, nil
}

func addDeclarations(sc scope, file *ast.File) {
	for _, e := range file.Enums {
		sc[e.Name.Name] = true
	}
	for _, s := range file.Structs {
		sc[s.Name.Name] = true
	}
}

func resolveType(src *diag.Source, sc scope, t ast.TypeRef) *diag.Diagnostic {
	switch t.Kind {
	case ast.KindArray, ast.KindOption:
		return resolveType(src, sc, *t.Elem)
	case ast.KindExternal:
		if !sc[t.External.Name] {
			return diag.Error(src, fmt.Sprintf("unresolved type %q", t.External.Name), t.External.Span)
		}
	}
	return nil
}
