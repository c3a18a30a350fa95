package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertAllCases(t *testing.T) {
	tests := []struct {
		c    Case
		want string
	}{
		{Pascal, "AfterAction"},
		{LowerCamel, "afterAction"},
		{Snake, "after_action"},
		{ShoutySnake, "AFTER_ACTION"},
		{Kebab, "after-action"},
		{ShoutyKebab, "AFTER-ACTION"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Convert("after_action", tt.c), "case=%v", tt.c)
	}
}

func TestConvertFromCamelInput(t *testing.T) {
	assert.Equal(t, "secure_delete", Convert("SecureDelete", Snake))
	assert.Equal(t, "SECURE_DELETE", Convert("secureDelete", ShoutySnake))
}

func TestConvertEmptyIdentUnchanged(t *testing.T) {
	assert.Equal(t, "", Convert("", Pascal))
}

func TestUniformAppliesToAllCategories(t *testing.T) {
	cfg := Uniform(Snake)
	assert.Equal(t, "get_file", Apply("GetFile", CategoryProcedures, cfg))
	assert.Equal(t, "get_file", Apply("GetFile", CategoryTypes, cfg))
	assert.Equal(t, "get_file", Apply("GetFile", CategoryEnumVariants, cfg))
	assert.Equal(t, "get_file", Apply("GetFile", CategoryStructFields, cfg))
}

func TestApplyPerCategoryIndependence(t *testing.T) {
	cfg := Config{
		Types:        Pascal,
		EnumVariants: ShoutySnake,
		StructFields: Snake,
		Procedures:   LowerCamel,
	}
	assert.Equal(t, "GetFile", Apply("get_file", CategoryTypes, cfg))
	assert.Equal(t, "GET_FILE", Apply("get_file", CategoryEnumVariants, cfg))
	assert.Equal(t, "get_file", Apply("get_file", CategoryStructFields, cfg))
	assert.Equal(t, "getFile", Apply("get_file", CategoryProcedures, cfg))
}
