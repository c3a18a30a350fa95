package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olympusrpc/olympus/internal/naming"
	"github.com/olympusrpc/olympus/internal/parser"
)

func generate(t *testing.T, src string, cfg Config) string {
	t.Helper()
	file, d := parser.Parse("t", src)
	require.Nil(t, d)
	out, err := Generate(file, cfg)
	require.NoError(t, err)
	return out
}

func TestGeneratePackageHeader(t *testing.T) {
	out := generate(t, `struct S { f -> @string; }`, Config{PackageName: "olympusgen"})
	assert.Contains(t, out, "package olympusgen")
	assert.Contains(t, out, "DO NOT EDIT")
}

func TestGenerateEnum(t *testing.T) {
	out := generate(t, `enum Action { Delete -> 1; SecureDelete -> 2; }`, Config{PackageName: "p", Naming: naming.Uniform(naming.Pascal)})
	assert.Contains(t, out, "type Action uint16")
	assert.Contains(t, out, "ActionDelete Action = 1")
	assert.Contains(t, out, "ActionSecureDelete Action = 2")
	assert.Contains(t, out, "func decodeAction(d *wire.Decoder) (Action, error)")
	assert.Contains(t, out, "func encodeAction(e *wire.Encoder, v Action)")
	assert.Contains(t, out, "d.GetEnumTag(map[uint16]bool{")
}

func TestGenerateStruct(t *testing.T) {
	out := generate(t, `struct File { path -> @string; size -> @varuint64; }`, Config{PackageName: "p", Naming: naming.Uniform(naming.Pascal)})
	assert.Contains(t, out, "type File struct {")
	assert.Contains(t, out, "Path string")
	assert.Contains(t, out, "Size uint64")
	assert.Contains(t, out, "func decodeFile(d *wire.Decoder) (File, error)")
	assert.Contains(t, out, "func encodeFile(e *wire.Encoder, v File)")
	assert.Contains(t, out, "e.PutString(v.Path)")
}

func TestGenerateParamsStructAndNoParamsProc(t *testing.T) {
	out := generate(t, `
rpc {
  proc getServerVersion() -> @int8;
  proc deleteFile(path -> @string);
}
`, Config{PackageName: "p", Naming: naming.Uniform(naming.Pascal)})

	assert.Contains(t, out, "type DeleteFileParams struct {")
	assert.Contains(t, out, "Path string")
	assert.NotContains(t, out, "GetServerVersionParams")
}

func TestGenerateServerInterfaceAndRegistration(t *testing.T) {
	out := generate(t, `
rpc {
  proc getServerVersion() -> @int8;
  proc deleteFile(path -> @string);
}
`, Config{PackageName: "p", Naming: naming.Uniform(naming.Pascal)})

	assert.Contains(t, out, "type Server interface {")
	assert.Contains(t, out, "GetServerVersion(ctx rpc.Context) (int8, error)")
	assert.Contains(t, out, "DeleteFile(ctx rpc.Context, params DeleteFileParams) (struct{}, error)")
	assert.Contains(t, out, "func Register(registry *rpc.HandlerRegistry, srv Server) {")
	// The fingerprint literal must be the IDL-source name, never the
	// naming-convention-transformed identifier.
	assert.Contains(t, out, `registry.Register("getServerVersion",`)
	assert.Contains(t, out, `registry.Register("deleteFile",`)
}

func TestGenerateNothingReturnSuppressesResponse(t *testing.T) {
	out := generate(t, `rpc { proc deleteFile(path -> @string); }`, Config{PackageName: "p"})
	assert.Contains(t, out, "return nil, nil")
}

func TestGenerateClientSendHelpers(t *testing.T) {
	out := generate(t, `
rpc {
  proc getServerVersion() -> @int8;
  proc deleteFile(path -> @string);
}
`, Config{PackageName: "p", Naming: naming.Uniform(naming.Pascal)})

	assert.Contains(t, out, "func SendGetServerVersion(c *rpc.Client) error {")
	assert.Contains(t, out, `return c.Send("getServerVersion", nil)`)
	assert.Contains(t, out, "func SendDeleteFile(c *rpc.Client, params DeleteFileParams) error {")
	assert.Contains(t, out, `return c.Send("deleteFile", e.Bytes())`)
}

func TestGenerateClientResponseHandlerSkipsNothingReturn(t *testing.T) {
	out := generate(t, `rpc { proc deleteFile(path -> @string); }`, Config{PackageName: "p", Naming: naming.Uniform(naming.Pascal)})
	assert.NotContains(t, out, "OnDeleteFileResponse")
}

func TestGenerateClientResponseHandlerForTypedReturn(t *testing.T) {
	out := generate(t, `rpc { proc getServerVersion() -> @int8; }`, Config{PackageName: "p", Naming: naming.Uniform(naming.Pascal)})
	assert.Contains(t, out, "func OnGetServerVersionResponse(c *rpc.Client, fn func(*rpc.Client, int8) error) {")
	assert.Contains(t, out, `c.RegisterResponseHandler("getServerVersion",`)
	assert.Contains(t, out, "return fn(c, out)")
	assert.NotContains(t, out, "return out, err")
}

func TestGenerateArrayAndOptionFields(t *testing.T) {
	out := generate(t, `
enum Action { Delete -> 1; }
struct File {
  content -> @array[@uint8];
  tag -> @option[Action];
}
`, Config{PackageName: "p", Naming: naming.Uniform(naming.Pascal)})

	assert.Contains(t, out, "Content []uint8")
	assert.Contains(t, out, "Tag *Action")
	assert.Contains(t, out, "d.GetArrayHeader()")
	assert.Contains(t, out, "d.GetOptionPresent()")
	assert.Contains(t, out, "decodeAction(d)")
}

func TestGenerateNamingConventionAppliedToIdentifiersNotFingerprint(t *testing.T) {
	out := generate(t, `rpc { proc get_file(my_path -> @string) -> @int8; }`, Config{
		PackageName: "p",
		Naming:      naming.Uniform(naming.Pascal),
	})
	assert.Contains(t, out, "GetFile(ctx rpc.Context, params GetFileParams)")
	assert.Contains(t, out, "MyPath string")
	assert.Contains(t, out, `"get_file"`)
}
