package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/spyable/internal/models"
)

const description = `kind: protocol
name: Downloader
imports: [Combine]
attributes:
  - name: Spyable
members:
  - kind: function
    name: download
    line: 3
    parameters:
      - label: from
        name: url
        type: URL
      - label: completion
        type: "@escaping (Result<Data,Error>) -> Void"
  - kind: property
    name: progress
    type: Double
    accessors: [get]
  - kind: other
    keyword: subscript
`

func TestLoadSingleDescription(t *testing.T) {
	decls, diags, err := LoadDescriptions("downloader.yaml", strings.NewReader(description))
	require.NoError(t, err)
	assert.Equal(t, 0, diags.Len())
	require.Len(t, decls, 1)

	decl := decls[0]
	assert.Equal(t, models.DeclarationProtocol, decl.Kind)
	assert.Equal(t, "Downloader", decl.Name)
	assert.Equal(t, []string{"import Combine"}, decl.Imports)
	_, ok := decl.Attribute("Spyable")
	assert.True(t, ok)

	require.Len(t, decl.Members, 3)
	fn := decl.Members[0].Function
	require.NotNil(t, fn)
	assert.Equal(t, "@escaping (Result<Data, Error>) -> Void", fn.Parameters[1].Type, "types are canonicalized")
	assert.Equal(t, 3, decl.Members[0].Location.Line)

	prop := decl.Members[1].Property
	assert.True(t, prop.HasAccessorBlock)
	assert.False(t, prop.HasSetter())

	assert.Equal(t, models.MemberOther, decl.Members[2].Kind)
	assert.Equal(t, "subscript", decl.Members[2].Description)
}

func TestLoadJSONList(t *testing.T) {
	input := `{"declarations": [{"kind": "struct", "name": "Point", "members": [{"kind": "let", "name": "x", "type": "Double"}]}]}`
	decls, _, err := LoadDescriptions("points.json", strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, models.DeclarationStruct, decls[0].Kind)
	assert.True(t, decls[0].Members[0].Property.IsConstant)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, _, err := LoadDescriptions("bad.yaml", strings.NewReader("kind: protocol\nname: A\nmembrs: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse declaration description")
}

func TestDescribeRoundTrip(t *testing.T) {
	file, _, err := NewParser().ParseSource("Service.swift", serviceSource)
	require.NoError(t, err)

	out, err := MarshalDescriptions(file.Declarations)
	require.NoError(t, err)

	decls, _, err := LoadDescriptions("Service.yaml", bytes.NewReader(out))
	require.NoError(t, err)
	require.Len(t, decls, 1)

	original := file.Declarations[0]
	loaded := decls[0]
	assert.Equal(t, original.Name, loaded.Name)
	assert.Equal(t, original.Imports, loaded.Imports)
	require.Len(t, loaded.Members, len(original.Members))
	for i := range original.Members {
		assert.Equal(t, original.Members[i].Kind, loaded.Members[i].Kind)
		assert.Equal(t, original.Members[i].Name(), loaded.Members[i].Name())
	}
}
