package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBool(t *testing.T) {
	str := func(s string) *string { return &s }
	tests := []struct {
		name string
		raw  interface{}
		def  bool
		want bool
	}{
		{name: "lower true", raw: "true", def: false, want: true},
		{name: "upper true", raw: "TRUE", def: false, want: true},
		{name: "padded true", raw: " true ", def: false, want: true},
		{name: "false", raw: "false", def: true, want: false},
		{name: "mixed case false", raw: "False", def: true, want: false},
		{name: "empty uses default", raw: "", def: true, want: true},
		{name: "empty uses false default", raw: "", def: false, want: false},
		{name: "nil uses default", raw: nil, def: true, want: true},
		{name: "nil string pointer uses default", raw: (*string)(nil), def: true, want: true},
		{name: "string pointer", raw: str("false"), def: true, want: false},
		{name: "native true", raw: true, def: false, want: true},
		{name: "native false", raw: false, def: true, want: false},
		{name: "json one", raw: "1", def: false, want: true},
		{name: "json zero", raw: "0", def: true, want: false},
		{name: "json null", raw: "null", def: true, want: false},
		{name: "json string", raw: `"yes"`, def: false, want: true},
		{name: "json empty string", raw: `""`, def: true, want: false},
		{name: "json object", raw: `{}`, def: false, want: true},
		{name: "json array", raw: `[]`, def: false, want: true},
		{name: "unparseable uses default", raw: "abc", def: true, want: true},
		{name: "unparseable uses false default", raw: "yes", def: false, want: false},
		{name: "blank uses default", raw: "   ", def: true, want: true},
		{name: "number", raw: float64(2), def: false, want: true},
		{name: "zero number", raw: float64(0), def: true, want: false},
		{name: "int", raw: 1, def: false, want: true},
		{name: "other type uses default", raw: []string{"true"}, def: false, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseBool(tt.raw, tt.def))
		})
	}
}

func TestValues(t *testing.T) {
	assert := assert.New(t)
	v := Values{
		SetupNamespace + ".flag":  "FALSE",
		SetupNamespace + ".name":  "  CONNECT_MANAGED ",
		SetupNamespace + ".blank": " ",
		SetupNamespace + ".hours": float64(24),
		SetupNamespace + ".half":  float64(1.5),
		SetupNamespace + ".text":  "48",
		"other.flag":              true,
	}

	assert.False(v.Bool(SetupNamespace, "flag", true))
	assert.True(v.Bool(SetupNamespace, "absent", true))
	assert.Equal("CONNECT_MANAGED", v.String(SetupNamespace, "name", "SAML"))
	assert.Equal("SAML", v.String(SetupNamespace, "blank", "SAML"))
	assert.Equal("SAML", v.String(SetupNamespace, "absent", "SAML"))
	assert.Equal(24, v.Int(SetupNamespace, "hours", 72))
	assert.Equal(72, v.Int(SetupNamespace, "half", 72))
	assert.Equal(48, v.Int(SetupNamespace, "text", 72))
	assert.Equal(72, v.Int(SetupNamespace, "absent", 72))

	keys := v.Keys()
	assert.Len(keys, 7)
	assert.Equal("amazon-connect-foundation.setup.blank", keys[0])
	assert.Equal("other.flag", keys[6])
}

func TestValues_nil(t *testing.T) {
	var v Values
	assert.True(t, v.Bool(SetupNamespace, "x", true))
	assert.Equal(t, "d", v.String(SetupNamespace, "x", "d"))
	assert.Empty(t, v.Keys())
}
