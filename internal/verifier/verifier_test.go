package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olympusrpc/olympus/internal/diag"
	"github.com/olympusrpc/olympus/internal/parser"
)

func mustParse(t *testing.T, name, src string) FileSet {
	t.Helper()
	file, d := parser.Parse(name, src)
	require.Nil(t, d, "unexpected parse error")
	return FileSet{name: {File: file, Source: &diag.Source{Name: name, Text: src}}}
}

func TestVerifyValidFileSucceeds(t *testing.T) {
	fs := mustParse(t, "t", `
enum Action {
  Delete -> 1;
  Encrypt -> 2;
}

struct File {
  path -> @string;
  action -> Action;
}

rpc {
  proc getFile(path -> @string) -> File;
}
`)
	assert.Nil(t, Verify(fs))
}

func TestVerifyDuplicateTopLevelName(t *testing.T) {
	fs := mustParse(t, "t", `
enum Foo { A -> 1; }
struct Foo { x -> @string; }
`)
	d := Verify(fs)
	require.NotNil(t, d)
	require.Len(t, d.Labels, 2)
	assert.Equal(t, diag.Yellow, d.Labels[0].Color)
	assert.Equal(t, diag.Red, d.Labels[1].Color)
}

func TestVerifyDuplicateEnumVariantName(t *testing.T) {
	fs := mustParse(t, "t", `enum Foo { A -> 1; A -> 2; }`)
	d := Verify(fs)
	require.NotNil(t, d)
}

func TestVerifyDuplicateEnumTag(t *testing.T) {
	fs := mustParse(t, "t", `enum Foo { A -> 1; B -> 1; }`)
	d := Verify(fs)
	require.NotNil(t, d)
}

func TestVerifyDuplicateStructField(t *testing.T) {
	fs := mustParse(t, "t", `struct Foo { x -> @string; x -> @uint8; }`)
	d := Verify(fs)
	require.NotNil(t, d)
}

func TestVerifyDuplicateProcedureAcrossRPCBlocks(t *testing.T) {
	fs := mustParse(t, "t", `
rpc { proc a(); }
rpc { proc a(); }
`)
	d := Verify(fs)
	require.NotNil(t, d)
}

func TestVerifyDuplicateParamName(t *testing.T) {
	fs := mustParse(t, "t", `rpc { proc a(x -> @uint8, x -> @uint8); }`)
	d := Verify(fs)
	require.NotNil(t, d)
}

func TestVerifyUnresolvedExternalType(t *testing.T) {
	fs := mustParse(t, "t", `struct Foo { f -> Bar; }`)
	d := Verify(fs)
	require.NotNil(t, d)
	require.Len(t, d.Labels, 1)
}

func TestVerifyUnresolvedExternalTypeInsideArray(t *testing.T) {
	fs := mustParse(t, "t", `struct Foo { f -> @array[Bar]; }`)
	d := Verify(fs)
	require.NotNil(t, d)
}

func TestVerifyImportResolvesExternalType(t *testing.T) {
	common, d := parser.Parse("common", `enum Action { Delete -> 1; }`)
	require.Nil(t, d)
	main, d := parser.Parse("main", `
import common;
struct File { action -> Action; }
`)
	require.Nil(t, d)

	fs := FileSet{
		"common": {File: common, Source: &diag.Source{Name: "common", Text: ""}},
		"main":   {File: main, Source: &diag.Source{Name: "main", Text: ""}},
	}
	assert.Nil(t, Verify(fs))
}

func TestVerifyUnresolvedImport(t *testing.T) {
	main, d := parser.Parse("main", `import missing;`)
	require.Nil(t, d)
	fs := FileSet{"main": {File: main, Source: &diag.Source{Name: "main", Text: ""}}}
	got := Verify(fs)
	require.NotNil(t, got)
}
