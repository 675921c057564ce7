package flatjson_test

import (
	"context"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/flatjson"
)

type base struct {
	ID string `flatjson:"meta.id,mandatory"`
}

type tagged struct {
	base
	Name    string  `json:"display_name,omitempty"`
	Count   int     `flatjson:"stats.count"`
	Note    *string `flatjson:",optional"`
	Skipped string  `flatjson:"-"`
	Hidden  string  `json:"-"`
	private string
}

func TestFieldsOf_ResolvesTags(t *testing.T) {
	t.Parallel()

	fields, err := flatjson.FieldsOf[tagged]()
	require.NoError(t, err)
	want := []flatjson.Field{
		{Name: "ID", Type: reflect.TypeFor[string](), Path: "meta.id", Mandatory: true},
		{Name: "Name", Type: reflect.TypeFor[string](), Path: "display_name"},
		{Name: "Count", Type: reflect.TypeFor[int](), Path: "stats.count"},
		{Name: "Note", Type: reflect.TypeFor[*string](), Optional: true},
	}
	assert.Equal(t, want, fields)
}

func TestFieldsOf_Errors(t *testing.T) {
	t.Parallel()

	_, err := flatjson.FieldsOf[int]()
	assert.Error(t, err)

	type bad struct {
		X string `flatjson:"x,required"`
	}
	_, err = flatjson.FieldsOf[bad]()
	assert.ErrorContains(t, err, "unknown tag option")
}

func TestCompile_PromotedFieldsAndNaming(t *testing.T) {
	t.Parallel()

	r, err := flatjson.Compile[tagged](flatjson.BuildOpt{Naming: flatjson.LowerCaseWithUnderscores})
	require.NoError(t, err)
	assert.Equal(t, "tagged", r.Tree().Target)

	got, err := r.ReadBytes(context.Background(), []byte(`{"meta":{"id":"i"},"display_name":"d","stats":{"count":2},"note":"n","Skipped":"s"}`))
	require.NoError(t, err)
	assert.Equal(t, "i", got.ID)
	assert.Equal(t, "d", got.Name)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, "n", *got.Note)
	assert.Empty(t, got.Skipped)
}

func TestCompile_BuildErrorSurfaces(t *testing.T) {
	t.Parallel()

	type clash struct {
		A string `flatjson:"x.y"`
		B string `flatjson:"x.y"`
	}
	_, err := flatjson.Compile[clash](flatjson.BuildOpt{})
	require.ErrorIs(t, err, flatjson.ErrDuplicatePath)
	assert.Panics(t, func() { flatjson.MustCompile[clash](flatjson.BuildOpt{}) })
}

func TestRead_ManyMandatoryFields(t *testing.T) {
	t.Parallel()

	const n = 70
	fields := make([]flatjson.Field, n)
	for i := range fields {
		fields[i] = flatjson.Field{Name: "f" + strconv.Itoa(i), Type: reflect.TypeFor[*string](), Mandatory: true}
	}
	tree, err := flatjson.Build(fields, flatjson.BuildOpt{Target: "Wide"})
	require.NoError(t, err)
	require.Len(t, tree.Mandatory, n)

	r, err := flatjson.NewReader(tree, flatjson.Construct(func(args []any) ([]any, error) { return args, nil }))
	require.NoError(t, err)

	var sb strings.Builder
	sb.WriteByte('{')
	for i := 0; i < n-1; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(`"f` + strconv.Itoa(i) + `":"v"`)
	}
	sb.WriteByte('}')

	_, err = r.ReadBytes(context.Background(), []byte(sb.String()))
	re := requireReadError(t, err, flatjson.CodeRequired)
	assert.Equal(t, "f69", re.Path)
}
