package declfile_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/flatjson"
	"github.com/reoring/flatjson/declfile"
)

const orderDecl = `
target: Order
naming: lower_case_with_underscores
validation: validate_explicit_non_null
substitutions:
  - original: root
    replacement: data
fields:
  - name: ID
    type: string
    path: "{root}.order.id"
    mandatory: true
  - name: totalAmount
    type: float64
  - name: Note
    type: "*string"
    path: "{root}.meta."
    optional: true
  - name: Raw
    type: raw
    path: "{root}.extra"
`

func TestParse_Resolve(t *testing.T) {
	t.Parallel()

	f, err := declfile.Parse([]byte(orderDecl))
	require.NoError(t, err)
	assert.Equal(t, ".", f.Delimiter)

	fields, opt, err := f.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "Order", opt.Target)
	assert.Equal(t, flatjson.LowerCaseWithUnderscores, opt.Naming)
	assert.Equal(t, flatjson.ValidateExplicitNonNull, opt.Validation)
	assert.Equal(t, '.', opt.Delimiter)
	assert.Equal(t, []flatjson.Substitution{{Original: "root", Replacement: "data"}}, opt.Substitutions)
	require.Len(t, fields, 4)
	assert.Equal(t, reflect.TypeFor[*string](), fields[2].Type)
	assert.True(t, fields[0].Mandatory)
	assert.True(t, fields[2].Optional)

	tree, err := flatjson.Build(fields, opt)
	require.NoError(t, err)
	paths := make([]string, len(tree.Fields))
	for i, leaf := range tree.Fields {
		paths[i] = leaf.Path
	}
	assert.Equal(t, []string{"data.order.id", "total_amount", "data.meta.Note", "data.extra"}, paths)
}

func TestLoadFile_ReadsIntoRecord(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "order.yaml")
	require.NoError(t, os.WriteFile(path, []byte(orderDecl), 0o644))
	f, err := declfile.LoadFile(path)
	require.NoError(t, err)
	tree, err := f.Build(nil)
	require.NoError(t, err)

	r, err := flatjson.NewReader(tree, flatjson.Construct(func(args []any) ([]any, error) { return args, nil }))
	require.NoError(t, err)
	got, err := r.ReadBytes(context.Background(), []byte(`{"data":{"order":{"id":"o-1"},"extra":{"x":[1]}},"total_amount":9.5}`))
	require.NoError(t, err)
	assert.Equal(t, "o-1", (*got)[0])
	assert.Equal(t, 9.5, (*got)[1])
	assert.Nil(t, (*got)[2])
	assert.Equal(t, flatjson.RawJSON(`{"x":[1]}`), (*got)[3])
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"unknown type":   "fields:\n  - name: A\n    type: uint8\n",
		"missing name":   "fields:\n  - type: string\n",
		"bad naming":     "naming: kebab\nfields: []\n",
		"bad validation": "validation: strict\nfields: []\n",
		"long delimiter": "delimiter: '::'\nfields: []\n",
	}
	for name, doc := range cases {
		f, err := declfile.Parse([]byte(doc))
		require.NoError(t, err, name)
		_, _, err = f.Resolve(nil)
		assert.Error(t, err, name)
	}

	_, err := declfile.Parse([]byte("fields: {"))
	assert.Error(t, err)

	_, err = declfile.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuild_RejectsAny(t *testing.T) {
	t.Parallel()

	f, err := declfile.Parse([]byte("fields:\n  - name: X\n    type: any\n"))
	require.NoError(t, err)
	_, err = f.Build(nil)
	assert.ErrorIs(t, err, flatjson.ErrUnconstrainedType)
}

func TestMarshal_RoundTrips(t *testing.T) {
	t.Parallel()

	f, err := declfile.Parse([]byte(orderDecl))
	require.NoError(t, err)
	b, err := declfile.Marshal(f)
	require.NoError(t, err)
	again, err := declfile.Parse(b)
	require.NoError(t, err)
	assert.Equal(t, f, again)
}
