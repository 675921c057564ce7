package flatjson_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/flatjson"
)

func TestApplyNaming(t *testing.T) {
	t.Parallel()

	tests := []struct {
		policy flatjson.NamingPolicy
		in     string
		want   string
	}{
		{flatjson.Identity, "someFieldName", "someFieldName"},
		{flatjson.UpperCamelCase, "someFieldName", "SomeFieldName"},
		{flatjson.UpperCamelCase, "_someField", "_SomeField"},
		{flatjson.UpperCamelCase, "Already", "Already"},
		{flatjson.UpperCamelCaseWithSpaces, "someFieldName", "Some Field Name"},
		{flatjson.UpperCaseWithUnderscores, "someFieldName", "SOME_FIELD_NAME"},
		{flatjson.LowerCaseWithUnderscores, "someFieldName", "some_field_name"},
		{flatjson.LowerCaseWithUnderscores, "URL", "u_r_l"},
		{flatjson.LowerCaseWithDashes, "someFieldName", "some-field-name"},
		{flatjson.LowerCaseWithDots, "someFieldName", "some.field.name"},
		{flatjson.LowerCaseWithDots, "SomeField", "some.field"},
	}
	for _, tc := range tests {
		t.Run(tc.policy.String()+"/"+tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, flatjson.ApplyNaming(tc.policy, tc.in))
		})
	}
}

func TestApplyNaming_SameInputSameOutput(t *testing.T) {
	t.Parallel()

	for p := flatjson.Identity; p <= flatjson.LowerCaseWithDots; p++ {
		first := flatjson.ApplyNaming(p, "someFieldName")
		second := flatjson.ApplyNaming(p, "someFieldName")
		assert.Equal(t, first, second, p.String())
	}
}

func TestParsePolicies(t *testing.T) {
	t.Parallel()

	p, err := flatjson.ParseNamingPolicy("lower_case_with_dashes")
	require.NoError(t, err)
	assert.Equal(t, flatjson.LowerCaseWithDashes, p)

	p, err = flatjson.ParseNamingPolicy("")
	require.NoError(t, err)
	assert.Equal(t, flatjson.Identity, p)

	_, err = flatjson.ParseNamingPolicy("kebab")
	assert.Error(t, err)

	v, err := flatjson.ParseValidationPolicy("validate_all")
	require.NoError(t, err)
	assert.Equal(t, flatjson.ValidateAll, v)

	_, err = flatjson.ParseValidationPolicy("strict")
	assert.Error(t, err)
}
