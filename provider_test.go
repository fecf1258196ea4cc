package rig

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xraph/go-utils/errs"
)

func TestConstructor_ArgumentsInOrder(t *testing.T) {
	join := func(a, b, c string) string { return strings.Join([]string{a, b, c}, ",") }

	p, err := Constructor(join, Value("first"), InjectNamed("second"), Literal(func(*Configuration) any { return "third" }))
	require.NoError(t, err)

	value, err := p.Provide(mapResolver{Named("second"): "second"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "first,second,third", value)
}

func TestConstructor_Validation(t *testing.T) {
	tests := []struct {
		name string
		fn   any
		args []Arg
	}{
		{"nil", nil, nil},
		{"not a function", "NewHouse", nil},
		{"variadic", func(...string) string { return "" }, nil},
		{"too few args", NewHouse, []Arg{Inject[*Door]()}},
		{"too many args", NewDoor, []Arg{Value(1)}},
		{"no results", func() {}, nil},
		{"second result not error", func() (int, int) { return 0, 0 }, nil},
		{"three results", func() (int, int, error) { return 0, 0, nil }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Constructor(tt.fn, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestConstructor_ErrorReturn(t *testing.T) {
	p, err := Constructor(func() (*Door, error) { return nil, errBoom })
	require.NoError(t, err)

	_, err = p.Provide(mapResolver{}, nil)
	assert.Equal(t, errBoom, err)

	ok, err := Constructor(func() (*Door, error) { return NewDoor(), nil })
	require.NoError(t, err)

	value, err := ok.Provide(mapResolver{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Door{}, value)
}

func TestConstructor_NestedFailureIsNotWrapped(t *testing.T) {
	nested := errors.New("nested failure")

	p, err := Constructor(NewHouse, Inject[*Door](), Inject[*Window]())
	require.NoError(t, err)

	_, err = p.Provide(mapResolver{KeyOf[*Door](): NewDoor(), KeyOf[*Window](): nested}, nil)
	assert.Equal(t, nested, err)
}

func TestConstructor_NilArgumentBecomesZero(t *testing.T) {
	p, err := Constructor(NewHouse, Value(nil), Inject[*Window]())
	require.NoError(t, err)

	value, err := p.Provide(mapResolver{KeyOf[*Window](): NewWindow()}, nil)
	require.NoError(t, err)

	house := value.(*House)
	assert.Nil(t, house.Door)
	assert.NotNil(t, house.Window)
}

func TestConstructor_ArgumentTypeMismatch(t *testing.T) {
	p, err := Constructor(NewDatabase, Value(27017))
	require.NoError(t, err)

	_, err = p.Provide(mapResolver{}, nil)
	assert.ErrorIs(t, err, ErrTypeMismatchSentinel)

	var mismatch *errs.Error
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 0, mismatch.GetContext()["position"])
	assert.Equal(t, "<literal>", mismatch.GetContext()["argument"])
	assert.Equal(t, "int", mismatch.GetContext()["actual_type"])

	keyed, err := Constructor(NewHouse, Inject[*Door](), Inject[*Window]())
	require.NoError(t, err)

	_, err = keyed.Provide(mapResolver{KeyOf[*Door](): NewDoor(), KeyOf[*Window](): NewDoor()}, nil)
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 1, mismatch.GetContext()["position"])
	assert.Equal(t, "*rig.Window", mismatch.GetContext()["argument"])
}

func TestConstructor_Dependencies(t *testing.T) {
	p, err := Constructor(NewMultiDbApplication, InjectNamed("foo_db"), Value(NewDatabase("x")))
	require.NoError(t, err)

	assert.Equal(t, []Key{Named("foo_db")}, p.Dependencies())
	assert.Len(t, p.Args(), 2)
	assert.Equal(t, []Key{Named("foo_db")}, dependenciesOf(p))
}

func TestInstance(t *testing.T) {
	door := NewDoor()
	p := Instance(door)

	first, err := p.Provide(nil, nil)
	require.NoError(t, err)
	second, err := p.Provide(nil, nil)
	require.NoError(t, err)

	assert.Same(t, door, first)
	assert.Same(t, door, second)
	assert.Nil(t, dependenciesOf(p))
}

func TestProviderFunc(t *testing.T) {
	r := mapResolver{Named("name"): "rig"}

	p := ProviderFunc(func(r Resolver, _ *Configuration) (any, error) {
		name, err := r.Resolve(Named("name"))
		if err != nil {
			return nil, err
		}

		return "hello " + name.(string), nil
	})

	value, err := p.Provide(r, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello rig", value)
}
