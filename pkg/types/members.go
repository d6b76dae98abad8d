package types

import "reflect"

// MemberFlags selects which members a resolver may return.
type MemberFlags uint8

const (
	MemberInstance MemberFlags = 1 << iota
	MemberStatic
	MemberPublic
	MemberNonPublic

	// MemberDefault selects public instance and static members.
	MemberDefault = MemberInstance | MemberStatic | MemberPublic
	MemberAll     = MemberInstance | MemberStatic | MemberPublic | MemberNonPublic
)

// Has reports whether all bits of f2 are set in f.
func (f MemberFlags) Has(f2 MemberFlags) bool {
	return f&f2 == f2
}

// MemberInfo describes a resolved field or property-like member.
type MemberInfo struct {
	Owner reflect.Type
	Name  string
	Type  reflect.Type
	Flags MemberFlags
	// FieldIndex is the reflect index path for struct fields, nil for
	// zero-argument methods exposed as properties.
	FieldIndex []int
}

// MethodInfo describes a resolved method.
type MethodInfo struct {
	Owner    reflect.Type
	Name     string
	In       []reflect.Type
	Out      []reflect.Type
	Variadic bool
	Flags    MemberFlags
}

// Arity returns the number of declared parameters.
func (m *MethodInfo) Arity() int {
	return len(m.In)
}

// ReturnType returns the first result type or nil.
func (m *MethodInfo) ReturnType() reflect.Type {
	if len(m.Out) == 0 {
		return nil
	}
	return m.Out[0]
}

// MemberResolver resolves members and methods of a host type. A false
// result is not an error: callers degrade to a by-name node.
type MemberResolver interface {
	ResolveMember(owner reflect.Type, name string, flags MemberFlags) (*MemberInfo, bool)
	ResolveMethod(owner reflect.Type, name string, typeArgs []reflect.Type, arity int, flags MemberFlags) (*MethodInfo, bool)
}

// BindingDeclaration is one "target source, params" entry of the legacy
// binding mini-grammar.
type BindingDeclaration struct {
	Target     Node   `json:"target"`
	Source     Node   `json:"source,omitempty"`
	Parameters []Node `json:"parameters,omitempty"`
}
