// Package codegen emits Go source from a validated ast.File: one type
// declaration plus a matching wire decoder/encoder per enum and struct,
// a {ProcName}Params struct per non-empty procedure parameter list, an
// abstract server interface, and a registration helper that binds every
// procedure's verbatim IDL name to an fnv.Sum64 fingerprint. Identifier
// casing is governed by an internal/naming.Config; the registered name
// literal is never transformed, since the wire Fingerprint must hash the
// IDL-source spelling exactly.
package codegen

import (
	"fmt"
	"strings"

	"github.com/olympusrpc/olympus/internal/ast"
	"github.com/olympusrpc/olympus/internal/naming"
)

// Config selects the target package name and naming-convention policy
// for one generation pass.
type Config struct {
	PackageName string
	Naming      naming.Config
}

// Generate emits a single Go source file implementing file's enums,
// structs and RPC container.
func Generate(file *ast.File, cfg Config) (string, error) {
	g := &generator{file: file, cfg: cfg}
	return g.run()
}

type generator struct {
	file *ast.File
	cfg  Config
	buf  strings.Builder
}

func (g *generator) printf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

func (g *generator) typeName(ident string) string {
	return naming.Apply(ident, naming.CategoryTypes, g.cfg.Naming)
}

func (g *generator) variantName(ident string) string {
	return naming.Apply(ident, naming.CategoryEnumVariants, g.cfg.Naming)
}

func (g *generator) fieldName(ident string) string {
	return naming.Apply(ident, naming.CategoryStructFields, g.cfg.Naming)
}

func (g *generator) procName(ident string) string {
	return naming.Apply(ident, naming.CategoryProcedures, g.cfg.Naming)
}

func (g *generator) run() (string, error) {
	g.printf("// Code generated by olympusc. DO NOT EDIT.\n\n")
	g.printf("package %s\n\n", g.cfg.PackageName)
	g.printf("import (\n")
	g.printf("\t\"github.com/olympusrpc/olympus/pkg/rpc\"\n")
	g.printf("\t\"github.com/olympusrpc/olympus/pkg/wire\"\n")
	g.printf(")\n\n")

	for _, e := range g.file.Enums {
		g.generateEnum(e)
	}
	for _, s := range g.file.Structs {
		g.generateStruct(s)
	}
	for _, p := range g.file.Procedures {
		if len(p.Params) > 0 {
			g.generateParamsStruct(p)
		}
	}
	if len(g.file.Procedures) > 0 {
		g.generateServerInterface()
		g.generateRegistration()
		for _, p := range g.file.Procedures {
			g.generateClientSend(p)
			g.generateClientResponseHandler(p)
		}
	}

	return g.buf.String(), nil
}

func (g *generator) generateEnum(e ast.Enum) {
	name := g.typeName(e.Name.Name)
	g.printf("// %s is generated from the %q enum declaration.\n", name, e.Name.Name)
	g.printf("type %s uint16\n\n", name)

	g.printf("const (\n")
	for _, v := range e.Variants {
		g.printf("\t%s%s %s = %d\n", name, g.variantName(v.Name.Name), name, uint16(v.Tag))
	}
	g.printf(")\n\n")

	g.printf("func decode%s(d *wire.Decoder) (%s, error) {\n", name, name)
	g.printf("\ttag, err := d.GetEnumTag(map[uint16]bool{\n")
	for _, v := range e.Variants {
		g.printf("\t\t%d: true,\n", uint16(v.Tag))
	}
	g.printf("\t})\n")
	g.printf("\tif err != nil {\n\t\treturn 0, err\n\t}\n")
	g.printf("\treturn %s(tag), nil\n", name)
	g.printf("}\n\n")

	g.printf("func encode%s(e *wire.Encoder, v %s) {\n", name, name)
	g.printf("\te.PutEnumTag(uint16(v))\n")
	g.printf("}\n\n")
}

func (g *generator) generateStruct(s ast.Struct) {
	name := g.typeName(s.Name.Name)
	g.printf("// %s is generated from the %q struct declaration.\n", name, s.Name.Name)
	g.printf("type %s struct {\n", name)
	for _, f := range s.Fields {
		g.printf("\t%s %s\n", g.fieldName(f.Name.Name), g.goType(f.Type))
	}
	g.printf("}\n\n")

	g.generateDecoder(name, s.Fields)
	g.generateEncoder(name, s.Fields)
}

func (g *generator) generateParamsStruct(p ast.Procedure) {
	name := g.typeName(p.Name.Name) + "Params"
	g.printf("// %s holds the parameters of the %q procedure, serialized exactly\n", name, p.Name.Name)
	g.printf("// like a struct whose fields are the parameter list in source order.\n")
	g.printf("type %s struct {\n", name)
	for _, param := range p.Params {
		g.printf("\t%s %s\n", g.fieldName(param.Name.Name), g.goType(param.Type))
	}
	g.printf("}\n\n")

	fields := make([]ast.StructField, len(p.Params))
	for i, param := range p.Params {
		fields[i] = ast.StructField{Name: param.Name, Type: param.Type}
	}
	g.generateDecoder(name, fields)
	g.generateEncoder(name, fields)
}

func (g *generator) generateDecoder(typeName string, fields []ast.StructField) {
	g.printf("func decode%s(d *wire.Decoder) (%s, error) {\n", typeName, typeName)
	g.printf("\tvar out %s\n", typeName)
	for _, f := range fields {
		g.buf.WriteString(g.genDecodeField("out."+g.fieldName(f.Name.Name), f.Type, 1, "\t"))
	}
	g.printf("\treturn out, nil\n")
	g.printf("}\n\n")
}

func (g *generator) generateEncoder(typeName string, fields []ast.StructField) {
	g.printf("func encode%s(e *wire.Encoder, v %s) {\n", typeName, typeName)
	for _, f := range fields {
		g.buf.WriteString(g.genEncodeField("v."+g.fieldName(f.Name.Name), f.Type, 1, "\t"))
	}
	g.printf("}\n\n")
}

// genDecodeField renders the decode statements for one field/element,
// assigning into dst, indented by indent. depth disambiguates temp
// variable names when array/option nesting requires intermediate
// locals. It returns the rendered lines rather than writing to g.buf
// directly, so callers can nest it inside generated loop/if bodies at
// an arbitrary indent level.
func (g *generator) genDecodeField(dst string, t ast.TypeRef, depth int, indent string) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, indent+format+"\n", args...)
	}

	switch t.Kind {
	case ast.KindNothing:
		line("if err := d.GetNothing(); err != nil {")
		line("\treturn out, err")
		line("}")

	case ast.KindFixedInt:
		getter := fixedIntGetter(t.Bits, t.Signed)
		line("{")
		line("\tval, err := d.%s()", getter)
		line("\tif err != nil {")
		line("\t\treturn out, err")
		line("\t}")
		line("\t%s = %s(val)", dst, goIntType(t.Bits, t.Signed))
		line("}")

	case ast.KindVarInt:
		line("{")
		if t.Signed {
			line("\tval, err := wire.GetVarInt(d, %d)", t.Bits)
		} else {
			line("\tval, err := d.GetVarUint()")
		}
		line("\tif err != nil {")
		line("\t\treturn out, err")
		line("\t}")
		line("\t%s = %s(val)", dst, goIntType(t.Bits, t.Signed))
		line("}")

	case ast.KindString:
		line("{")
		line("\tval, err := d.GetString()")
		line("\tif err != nil {")
		line("\t\treturn out, err")
		line("\t}")
		line("\t%s = val", dst)
		line("}")

	case ast.KindArray:
		elemVar := fmt.Sprintf("elem%d", depth)
		countVar := fmt.Sprintf("count%d", depth)
		line("{")
		line("\t%s, err := d.GetArrayHeader()", countVar)
		line("\tif err != nil {")
		line("\t\treturn out, err")
		line("\t}")
		line("\t%s = make(%s, %s)", dst, g.goType(t), countVar)
		line("\tfor i := 0; i < %s; i++ {", countVar)
		line("\t\tvar %s %s", elemVar, g.goType(*t.Elem))
		b.WriteString(g.genDecodeField(elemVar, *t.Elem, depth+1, indent+"\t\t"))
		line("\t\t%s[i] = %s", dst, elemVar)
		line("\t}")
		line("}")

	case ast.KindOption:
		elemVar := fmt.Sprintf("opt%d", depth)
		line("{")
		line("\tpresent, err := d.GetOptionPresent()")
		line("\tif err != nil {")
		line("\t\treturn out, err")
		line("\t}")
		line("\tif present {")
		line("\t\tvar %s %s", elemVar, g.goType(*t.Elem))
		b.WriteString(g.genDecodeField(elemVar, *t.Elem, depth+1, indent+"\t\t"))
		line("\t\t%s = &%s", dst, elemVar)
		line("\t}")
		line("}")

	case ast.KindExternal:
		typeName := g.typeName(t.External.Name)
		line("{")
		line("\tval, err := decode%s(d)", typeName)
		line("\tif err != nil {")
		line("\t\treturn out, err")
		line("\t}")
		line("\t%s = val", dst)
		line("}")
	}

	return b.String()
}

func (g *generator) genEncodeField(src string, t ast.TypeRef, depth int, indent string) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, indent+format+"\n", args...)
	}

	switch t.Kind {
	case ast.KindNothing:
		line("e.PutNothing()")

	case ast.KindFixedInt:
		setter := fixedIntPutter(t.Bits, t.Signed)
		line("e.%s(%s(%s))", setter, goWireType(t.Bits, t.Signed), src)

	case ast.KindVarInt:
		if t.Signed {
			line("wire.PutVarInt(e, int64(%s), %d)", src, t.Bits)
		} else {
			line("e.PutVarUint(uint64(%s))", src)
		}

	case ast.KindString:
		line("e.PutString(%s)", src)

	case ast.KindArray:
		line("e.PutArrayHeader(len(%s))", src)
		line("for _, elem := range %s {", src)
		b.WriteString(g.genEncodeField("elem", *t.Elem, depth+1, indent+"\t"))
		line("}")

	case ast.KindOption:
		line("if %s != nil {", src)
		line("\te.PutOptionSome()")
		b.WriteString(g.genEncodeField("(*"+src+")", *t.Elem, depth+1, indent+"\t"))
		line("} else {")
		line("\te.PutOptionNone()")
		line("}")

	case ast.KindExternal:
		typeName := g.typeName(t.External.Name)
		line("encode%s(e, %s)", typeName, src)
	}

	return b.String()
}

// wrapReturnErr adapts genDecodeField's output, which always early-returns
// as "return out, err" for the (T, error) decoder functions it is normally
// inlined into, to the plain "return err" shape the client response
// handler closure needs instead.
func wrapReturnErr(decodeLines string) string {
	return strings.ReplaceAll(decodeLines, "return out, err", "return err")
}

func (g *generator) goType(t ast.TypeRef) string {
	switch t.Kind {
	case ast.KindNothing:
		return "struct{}"
	case ast.KindFixedInt, ast.KindVarInt:
		return goIntType(t.Bits, t.Signed)
	case ast.KindString:
		return "string"
	case ast.KindArray:
		return "[]" + g.goType(*t.Elem)
	case ast.KindOption:
		return "*" + g.goType(*t.Elem)
	case ast.KindExternal:
		return g.typeName(t.External.Name)
	default:
		return "any"
	}
}

func goIntType(bits int, signed bool) string {
	if signed {
		return fmt.Sprintf("int%d", bits)
	}
	return fmt.Sprintf("uint%d", bits)
}

// goWireType is the width wire.Encoder's Put* methods are declared at;
// varints use the declared bit width directly but fixed ints always
// route through the matching fixed-width setter.
func goWireType(bits int, signed bool) string {
	return goIntType(bits, signed)
}

func fixedIntGetter(bits int, signed bool) string {
	if signed {
		return fmt.Sprintf("GetInt%d", bits)
	}
	return fmt.Sprintf("GetUint%d", bits)
}

func fixedIntPutter(bits int, signed bool) string {
	if signed {
		return fmt.Sprintf("PutInt%d", bits)
	}
	return fmt.Sprintf("PutUint%d", bits)
}

func (g *generator) generateServerInterface() {
	g.printf("// Server is the abstract dispatch surface for this RPC container;\n")
	g.printf("// one method per declared procedure.\n")
	g.printf("type Server interface {\n")
	for _, p := range g.file.Procedures {
		g.printf("\t%s(ctx rpc.Context%s) (%s, error)\n", g.procName(p.Name.Name), g.paramArg(p), g.goType(p.Return))
	}
	g.printf("}\n\n")
}

func (g *generator) paramArg(p ast.Procedure) string {
	if len(p.Params) == 0 {
		return ""
	}
	return ", params " + g.typeName(p.Name.Name) + "Params"
}

func (g *generator) generateRegistration() {
	g.printf("// Register binds every procedure in this RPC container to srv,\n")
	g.printf("// keyed by its verbatim IDL-source name.\n")
	g.printf("func Register(registry *rpc.HandlerRegistry, srv Server) {\n")
	for _, p := range g.file.Procedures {
		g.generateRegistrationEntry(p)
	}
	g.printf("}\n")
}

func (g *generator) generateRegistrationEntry(p ast.Procedure) {
	procName := g.procName(p.Name.Name)
	g.printf("\tregistry.Register(%q, func(ctx rpc.Context, body []byte) ([]byte, error) {\n", p.Name.Name)

	if len(p.Params) > 0 {
		paramsType := g.typeName(p.Name.Name) + "Params"
		g.printf("\t\td := wire.NewDecoder(body)\n")
		g.printf("\t\tparams, err := decode%s(d)\n", paramsType)
		g.printf("\t\tif err != nil {\n\t\t\treturn nil, err\n\t\t}\n")
		g.printf("\t\tresult, err := srv.%s(ctx, params)\n", procName)
	} else {
		g.printf("\t\tresult, err := srv.%s(ctx)\n", procName)
	}
	g.printf("\t\tif err != nil {\n\t\t\treturn nil, err\n\t\t}\n")

	if p.Return.Kind == ast.KindNothing {
		g.printf("\t\t_ = result\n\t\treturn nil, nil\n")
	} else {
		g.printf("\t\te := wire.NewEncoder(0)\n")
		g.buf.WriteString(g.genEncodeField("result", p.Return, 1, "\t\t"))
		g.printf("\t\treturn e.Bytes(), nil\n")
	}
	g.printf("\t})\n")
}

// generateClientSend emits the client-side request helper for p: it
// serializes the typed input (if any) via the generated Params
// encoder and enqueues it on c under the procedure's verbatim
// IDL-source name, matching the rpc.Client.Send(name, body) contract.
func (g *generator) generateClientSend(p ast.Procedure) {
	procName := g.procName(p.Name.Name)
	if len(p.Params) == 0 {
		g.printf("// Send%s enqueues a %q call carrying no parameters.\n", procName, p.Name.Name)
		g.printf("func Send%s(c *rpc.Client) error {\n", procName)
		g.printf("\treturn c.Send(%q, nil)\n", p.Name.Name)
		g.printf("}\n\n")
		return
	}

	paramsType := g.typeName(p.Name.Name) + "Params"
	g.printf("// Send%s serializes params and enqueues a %q call.\n", procName, p.Name.Name)
	g.printf("func Send%s(c *rpc.Client, params %s) error {\n", procName, paramsType)
	g.printf("\te := wire.NewEncoder(0)\n")
	g.printf("\tencode%s(e, params)\n", paramsType)
	g.printf("\treturn c.Send(%q, e.Bytes())\n", p.Name.Name)
	g.printf("}\n\n")
}

// generateClientResponseHandler emits a typed response-registration
// helper: it wraps a user function of the generated return type into the
// uniform rpc.ResponseHandler surface and binds it to the same
// fingerprint the server replies under. A procedure whose return type is
// "nothing" produces no response frame, so no handler is generated for
// it.
func (g *generator) generateClientResponseHandler(p ast.Procedure) {
	if p.Return.Kind == ast.KindNothing {
		return
	}

	procName := g.procName(p.Name.Name)
	retType := g.goType(p.Return)
	g.printf("// On%sResponse registers fn to run whenever a %q response frame\n", procName, p.Name.Name)
	g.printf("// arrives on c.\n")
	g.printf("func On%sResponse(c *rpc.Client, fn func(*rpc.Client, %s) error) {\n", procName, retType)
	g.printf("\tc.RegisterResponseHandler(%q, func(c *rpc.Client, body []byte) error {\n", p.Name.Name)
	g.printf("\t\td := wire.NewDecoder(body)\n")
	g.printf("\t\tvar out %s\n", retType)
	g.buf.WriteString(wrapReturnErr(g.genDecodeField("out", p.Return, 1, "\t\t")))
	g.printf("\t\treturn fn(c, out)\n")
	g.printf("\t})\n")
	g.printf("}\n\n")
}
