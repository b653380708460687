package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Registry_builtinsRegistered(t *testing.T) {
	assert := assert.New(t)

	r := NewRegistry()

	names := []string{
		"none", "nochange", "empty", "single", "inner",
		"collect", "collect_right", "collect_sep", "collect_sep_right",
		"collect_optional", "collect_optional_right",
		"collect_sep_optional", "collect_sep_optional_right",
		"optional", "obj",
	}

	for _, n := range names {
		_, ok := r.Get(n)
		assert.Truef(ok, "missing built-in action %q", n)
	}
}

func Test_Collect_buildsList(t *testing.T) {
	require := require.New(t)
	ctx := NewContext("a b c")

	base, err := Collect(ctx, []any{"a"}, nil)
	require.NoError(err)

	step, err := Collect(ctx, []any{base, "b"}, nil)
	require.NoError(err)

	got, err := Collect(ctx, []any{step, "c"}, nil)
	require.NoError(err)

	assert.Equal(t, []any{"a", "b", "c"}, got)
}

func Test_CollectRight_buildsList(t *testing.T) {
	require := require.New(t)
	ctx := NewContext("")

	inner, err := CollectRight(ctx, []any{"c"}, nil)
	require.NoError(err)

	mid, err := CollectRight(ctx, []any{"b", inner}, nil)
	require.NoError(err)

	got, err := CollectRight(ctx, []any{"a", mid}, nil)
	require.NoError(err)

	assert.Equal(t, []any{"a", "b", "c"}, got)
}

func Test_CollectOptional_emptyBase(t *testing.T) {
	ctx := NewContext("")

	got, err := CollectOptional(ctx, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []any{}, got)
}

func Test_Inner_stripsBrackets(t *testing.T) {
	ctx := NewContext("(x)")

	got, err := Inner(ctx, []any{"(", "x", ")"}, nil)

	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func Test_Optional_presentAndAbsent(t *testing.T) {
	ctx := NewContext("")

	present, err := Optional(ctx, []any{"x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "x", present)

	absent, err := Optional(ctx, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func Test_Obj_buildsMapFromNamed(t *testing.T) {
	ctx := NewContext("")

	got, err := Obj(ctx, nil, map[string]any{"x": 1, "y": 2})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1, "y": 2}, got)
}

func Test_NoChange_requiresOneChild(t *testing.T) {
	ctx := NewContext("")

	_, err := NoChange(ctx, []any{"a", "b"}, nil)

	assert.Error(t, err)
}
