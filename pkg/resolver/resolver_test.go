package resolver_test

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandrolain/bindexpr/pkg/resolver"
	"github.com/sandrolain/bindexpr/pkg/types"
)

type Base struct {
	ID int64
}

type Item struct {
	Base
	Name  string
	price float64
}

func (i Item) Label() string { return i.Name }

func (i *Item) Rename(name string) { i.Name = name }

func (i *Item) Format(format string, args ...any) string { return fmt.Sprintf(format, args...) }

type Labeler interface {
	Label() string
}

var itemType = reflect.TypeFor[Item]()

func TestResolveFields(t *testing.T) {
	r := resolver.New()

	info, ok := r.ResolveMember(itemType, "Name", types.MemberDefault)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[string](), info.Type)
	assert.Equal(t, []int{1}, info.FieldIndex)
	assert.True(t, info.Flags.Has(types.MemberInstance|types.MemberPublic))

	info, ok = r.ResolveMember(reflect.PointerTo(itemType), "ID", types.MemberDefault)
	require.True(t, ok, "promoted fields resolve through pointers")
	assert.Equal(t, []int{0, 0}, info.FieldIndex)

	_, ok = r.ResolveMember(itemType, "price", types.MemberDefault)
	assert.False(t, ok, "unexported fields need MemberNonPublic")

	info, ok = r.ResolveMember(itemType, "price", types.MemberAll)
	require.True(t, ok)
	assert.True(t, info.Flags.Has(types.MemberNonPublic))

	_, ok = r.ResolveMember(itemType, "Missing", types.MemberAll)
	assert.False(t, ok)

	_, ok = r.ResolveMember(itemType, "Name", types.MemberStatic|types.MemberPublic)
	assert.False(t, ok, "instance members are excluded from static lookups")
}

func TestResolvePropertyMethods(t *testing.T) {
	r := resolver.New()

	info, ok := r.ResolveMember(itemType, "Label", types.MemberDefault)
	require.True(t, ok)
	assert.Nil(t, info.FieldIndex)
	assert.Equal(t, reflect.TypeFor[string](), info.Type)

	info, ok = r.ResolveMember(reflect.TypeFor[Labeler](), "Label", types.MemberDefault)
	require.True(t, ok, "interface methods have no receiver parameter")
	assert.Equal(t, reflect.TypeFor[string](), info.Type)

	_, ok = r.ResolveMember(itemType, "Rename", types.MemberDefault)
	assert.False(t, ok, "methods with parameters are not properties")
}

func TestResolveMethods(t *testing.T) {
	r := resolver.New()

	info, ok := r.ResolveMethod(itemType, "Rename", nil, 1, types.MemberDefault)
	require.True(t, ok, "pointer methods resolve on value owners")
	assert.Equal(t, []reflect.Type{reflect.TypeFor[string]()}, info.In)
	assert.Nil(t, info.ReturnType())

	_, ok = r.ResolveMethod(itemType, "Rename", nil, 2, types.MemberDefault)
	assert.False(t, ok, "arity must match")

	info, ok = r.ResolveMethod(itemType, "Format", nil, 4, types.MemberDefault)
	require.True(t, ok)
	assert.True(t, info.Variadic)
	assert.Equal(t, 2, info.Arity())

	_, ok = r.ResolveMethod(itemType, "Format", nil, 0, types.MemberDefault)
	assert.False(t, ok)

	_, ok = r.ResolveMethod(itemType, "Label", []reflect.Type{itemType}, 0, types.MemberDefault)
	assert.False(t, ok, "Go methods take no type arguments")

	info, ok = r.ResolveMethod(reflect.TypeFor[Labeler](), "Label", nil, 0, types.MemberDefault)
	require.True(t, ok)
	assert.Equal(t, 0, info.Arity())
}

func TestResolveStatics(t *testing.T) {
	r := resolver.New()
	mathType := reflect.TypeFor[struct{}]()

	r.RegisterStatic(mathType, "Pi", reflect.TypeFor[float64]())
	require.NoError(t, r.RegisterFunc(mathType, "Max", func(a, b float64) float64 { return max(a, b) }))
	require.NoError(t, r.RegisterFunc(mathType, "Max", func(a, b, c float64) float64 { return max(a, b, c) }))
	assert.Error(t, r.RegisterFunc(mathType, "Bad", 42))

	info, ok := r.ResolveMember(mathType, "Pi", types.MemberDefault)
	require.True(t, ok)
	assert.True(t, info.Flags.Has(types.MemberStatic))

	m2, ok := r.ResolveMethod(mathType, "Max", nil, 2, types.MemberStatic|types.MemberPublic)
	require.True(t, ok)
	assert.Equal(t, 2, m2.Arity())

	m3, ok := r.ResolveMethod(mathType, "Max", nil, 3, types.MemberStatic|types.MemberPublic)
	require.True(t, ok)
	assert.Equal(t, 3, m3.Arity())

	_, ok = r.ResolveMethod(mathType, "Max", nil, 3, types.MemberInstance|types.MemberPublic)
	assert.False(t, ok)
}

func TestResolveNegativeResultsAreCached(t *testing.T) {
	r := resolver.New()
	owner := reflect.TypeFor[struct{}]()

	_, ok := r.ResolveMember(owner, "Late", types.MemberDefault)
	require.False(t, ok)

	// Registration invalidates the cache.
	r.RegisterStatic(owner, "Late", reflect.TypeFor[int]())
	_, ok = r.ResolveMember(owner, "Late", types.MemberDefault)
	assert.True(t, ok)
}

func TestResolverConcurrent(t *testing.T) {
	r := resolver.New()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_, ok := r.ResolveMember(itemType, "Name", types.MemberDefault)
				assert.True(t, ok)
				_, ok = r.ResolveMethod(itemType, "Rename", nil, 1, types.MemberDefault)
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()
}
