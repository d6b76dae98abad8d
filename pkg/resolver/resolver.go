// Package resolver provides the default reflection-based
// types.MemberResolver.
//
// Instance members resolve to struct fields (through embedded structs and
// pointers) and to methods in the method set of the owner or its pointer
// type. A method with no parameters and one result also resolves as a
// property-like member. Go has no static members, so static members and
// functions are registered explicitly with RegisterStatic and
// RegisterFunc.
package resolver

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/sandrolain/bindexpr/pkg/types"
)

type memberKey struct {
	owner reflect.Type
	name  string
	flags types.MemberFlags
}

type methodKey struct {
	owner    reflect.Type
	name     string
	typeArgs string
	arity    int
	flags    types.MemberFlags
}

type staticKey struct {
	owner reflect.Type
	name  string
}

// Resolver resolves members by reflection. It is safe for concurrent use.
type Resolver struct {
	mu        sync.RWMutex
	members   map[memberKey]*types.MemberInfo
	methods   map[methodKey]*types.MethodInfo
	statics   map[staticKey]*types.MemberInfo
	functions map[staticKey][]*types.MethodInfo
}

// New creates an empty resolver.
func New() *Resolver {
	return &Resolver{
		members:   make(map[memberKey]*types.MemberInfo),
		methods:   make(map[methodKey]*types.MethodInfo),
		statics:   make(map[staticKey]*types.MemberInfo),
		functions: make(map[staticKey][]*types.MethodInfo),
	}
}

// RegisterStatic declares a static member name of type typ on owner.
func (r *Resolver) RegisterStatic(owner reflect.Type, name string, typ reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statics[staticKey{owner, name}] = &types.MemberInfo{
		Owner: owner,
		Name:  name,
		Type:  typ,
		Flags: types.MemberStatic | types.MemberPublic,
	}
	clear(r.members)
}

// RegisterFunc declares fn as a static method name of owner. Several
// functions may share a name with different arities. It returns an error
// if fn is not a function.
func (r *Resolver) RegisterFunc(owner reflect.Type, name string, fn any) error {
	ft := reflect.TypeOf(fn)
	if ft == nil || ft.Kind() != reflect.Func {
		return fmt.Errorf("resolver: %s.%s: %T is not a function", owner, name, fn)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	key := staticKey{owner, name}
	r.functions[key] = append(r.functions[key], methodInfo(owner, name, ft, 0, types.MemberStatic|types.MemberPublic))
	clear(r.methods)
	return nil
}

// ResolveMember implements types.MemberResolver.
func (r *Resolver) ResolveMember(owner reflect.Type, name string, flags types.MemberFlags) (*types.MemberInfo, bool) {
	if owner == nil || name == "" {
		return nil, false
	}
	key := memberKey{owner, name, flags}

	r.mu.RLock()
	info, ok := r.members[key]
	r.mu.RUnlock()
	if ok {
		return info, info != nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	info = r.findMember(owner, name, flags)
	r.members[key] = info
	return info, info != nil
}

// ResolveMethod implements types.MemberResolver.
func (r *Resolver) ResolveMethod(owner reflect.Type, name string, typeArgs []reflect.Type, arity int, flags types.MemberFlags) (*types.MethodInfo, bool) {
	if owner == nil || name == "" {
		return nil, false
	}
	key := methodKey{owner, name, typeArgsKey(typeArgs), arity, flags}

	r.mu.RLock()
	info, ok := r.methods[key]
	r.mu.RUnlock()
	if ok {
		return info, info != nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	info = r.findMethod(owner, name, len(typeArgs) > 0, arity, flags)
	r.methods[key] = info
	return info, info != nil
}

func (r *Resolver) findMember(owner reflect.Type, name string, flags types.MemberFlags) *types.MemberInfo {
	if flags.Has(types.MemberStatic) {
		if info, ok := r.statics[staticKey{owner, name}]; ok {
			return info
		}
	}
	if !flags.Has(types.MemberInstance) {
		return nil
	}

	if st := indirect(owner); st.Kind() == reflect.Struct {
		if sf, ok := st.FieldByName(name); ok {
			access := types.MemberPublic
			if !sf.IsExported() {
				access = types.MemberNonPublic
			}
			if flags.Has(access) {
				return &types.MemberInfo{
					Owner:      owner,
					Name:       name,
					Type:       sf.Type,
					Flags:      types.MemberInstance | access,
					FieldIndex: sf.Index,
				}
			}
		}
	}

	if flags.Has(types.MemberPublic) {
		if m, ok := lookupMethod(owner, name); ok && m.Type.NumIn() == receivers(owner) && m.Type.NumOut() == 1 {
			return &types.MemberInfo{
				Owner: owner,
				Name:  name,
				Type:  m.Type.Out(0),
				Flags: types.MemberInstance | types.MemberPublic,
			}
		}
	}
	return nil
}

func (r *Resolver) findMethod(owner reflect.Type, name string, generic bool, arity int, flags types.MemberFlags) *types.MethodInfo {
	if flags.Has(types.MemberStatic) && flags.Has(types.MemberPublic) {
		for _, info := range r.functions[staticKey{owner, name}] {
			if acceptsArity(info.Arity(), info.Variadic, arity) {
				return info
			}
		}
	}
	// Go methods have no type parameters of their own.
	if generic || !flags.Has(types.MemberInstance|types.MemberPublic) {
		return nil
	}

	m, ok := lookupMethod(owner, name)
	if !ok {
		return nil
	}
	info := methodInfo(owner, name, m.Type, receivers(owner), types.MemberInstance|types.MemberPublic)
	if !acceptsArity(info.Arity(), info.Variadic, arity) {
		return nil
	}
	return info
}

func methodInfo(owner reflect.Type, name string, ft reflect.Type, skip int, flags types.MemberFlags) *types.MethodInfo {
	info := &types.MethodInfo{
		Owner:    owner,
		Name:     name,
		Variadic: ft.IsVariadic(),
		Flags:    flags,
	}
	for i := skip; i < ft.NumIn(); i++ {
		info.In = append(info.In, ft.In(i))
	}
	for i := range ft.NumOut() {
		info.Out = append(info.Out, ft.Out(i))
	}
	return info
}

func acceptsArity(declared int, variadic bool, arity int) bool {
	if arity < 0 {
		return true
	}
	if variadic {
		return arity >= declared-1
	}
	return arity == declared
}

func lookupMethod(owner reflect.Type, name string) (reflect.Method, bool) {
	if m, ok := owner.MethodByName(name); ok {
		return m, true
	}
	if owner.Kind() != reflect.Pointer && owner.Kind() != reflect.Interface {
		return reflect.PointerTo(owner).MethodByName(name)
	}
	return reflect.Method{}, false
}

// receivers returns the number of leading receiver parameters in the method
// types reflect reports for owner: one for concrete types, none for
// interfaces.
func receivers(owner reflect.Type) int {
	if owner.Kind() == reflect.Interface {
		return 0
	}
	return 1
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func typeArgsKey(typeArgs []reflect.Type) string {
	if len(typeArgs) == 0 {
		return ""
	}
	names := make([]string, len(typeArgs))
	for i, t := range typeArgs {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
