package types

import (
	"encoding/json"
)

type jsonNode struct {
	Kind          NodeKind `json:"kind"`
	Name          string   `json:"name,omitempty"`
	Op            string   `json:"op,omitempty"`
	Value         any      `json:"value,omitempty"`
	Literal       string   `json:"literal,omitempty"`
	Type          string   `json:"type,omitempty"`
	Index         *int     `json:"index,omitempty"`
	Target        Node     `json:"target,omitempty"`
	Left          Node     `json:"left,omitempty"`
	Right         Node     `json:"right,omitempty"`
	Operand       Node     `json:"operand,omitempty"`
	Test          Node     `json:"test,omitempty"`
	IfTrue        Node     `json:"ifTrue,omitempty"`
	IfFalse       Node     `json:"ifFalse,omitempty"`
	Body          Node     `json:"body,omitempty"`
	Arguments     []Node   `json:"arguments,omitempty"`
	TypeArguments []string `json:"typeArguments,omitempty"`
	Parameters    []Node   `json:"parameters,omitempty"`
	Resolved      string   `json:"resolved,omitempty"`
}

func marshalNode(n Node) ([]byte, error) {
	out := jsonNode{Kind: n.Kind()}

	switch x := n.(type) {
	case *Constant:
		out.Literal = FormatConstant(x)
		if x.Type != nil {
			out.Type = x.Type.String()
		}
		switch x.Value.(type) {
		case bool, string, int32, int64, uint32, uint64, float32, float64:
			out.Value = x.Value
		}
	case *Member:
		out.Target = x.Target
		out.Name = x.Name
		if x.Resolved != nil {
			out.Resolved = x.Resolved.Owner.String() + "." + x.Resolved.Name
		}
	case *Index:
		out.Target = x.Target
		out.Arguments = x.Arguments
	case *MethodCall:
		out.Target = x.Target
		out.Name = x.Name
		out.Arguments = x.Arguments
		out.TypeArguments = x.TypeArguments
		if x.Resolved != nil {
			out.Resolved = x.Resolved.Owner.String() + "." + x.Resolved.Name
		}
	case *Binary:
		out.Op = x.Op.Value
		out.Left = x.Left
		out.Right = x.Right
	case *Unary:
		out.Op = x.Op.Value
		out.Operand = x.Operand
	case *Condition:
		out.Test = x.Test
		out.IfTrue = x.IfTrue
		out.IfFalse = x.IfFalse
	case *Lambda:
		out.Body = x.Body
		for _, p := range x.Parameters {
			out.Parameters = append(out.Parameters, p)
		}
	case *Parameter:
		out.Name = x.Name
		idx := x.Index
		out.Index = &idx
	case *NullConditionalMember:
		out.Target = x.Target
	}

	return json.Marshal(out)
}

// MarshalJSON implements json.Marshaler.
func (c *Constant) MarshalJSON() ([]byte, error) { return marshalNode(c) }

// MarshalJSON implements json.Marshaler.
func (m *Member) MarshalJSON() ([]byte, error) { return marshalNode(m) }

// MarshalJSON implements json.Marshaler.
func (i *Index) MarshalJSON() ([]byte, error) { return marshalNode(i) }

// MarshalJSON implements json.Marshaler.
func (m *MethodCall) MarshalJSON() ([]byte, error) { return marshalNode(m) }

// MarshalJSON implements json.Marshaler.
func (b *Binary) MarshalJSON() ([]byte, error) { return marshalNode(b) }

// MarshalJSON implements json.Marshaler.
func (u *Unary) MarshalJSON() ([]byte, error) { return marshalNode(u) }

// MarshalJSON implements json.Marshaler.
func (c *Condition) MarshalJSON() ([]byte, error) { return marshalNode(c) }

// MarshalJSON implements json.Marshaler.
func (l *Lambda) MarshalJSON() ([]byte, error) { return marshalNode(l) }

// MarshalJSON implements json.Marshaler.
func (p *Parameter) MarshalJSON() ([]byte, error) { return marshalNode(p) }

// MarshalJSON implements json.Marshaler.
func (n *NullConditionalMember) MarshalJSON() ([]byte, error) { return marshalNode(n) }
