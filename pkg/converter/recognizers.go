package converter

import (
	"fmt"
	"reflect"

	"github.com/sandrolain/bindexpr/pkg/hostexpr"
	"github.com/sandrolain/bindexpr/pkg/types"
)

// binaryOps maps host binary kinds onto the shared operator table.
var binaryOps = map[hostexpr.Kind]*types.BinaryTokenType{
	hostexpr.KindAdd:                types.Addition,
	hostexpr.KindSubtract:           types.Subtraction,
	hostexpr.KindMultiply:           types.Multiplication,
	hostexpr.KindDivide:             types.Division,
	hostexpr.KindModulo:             types.Remainder,
	hostexpr.KindLeftShift:          types.LeftShift,
	hostexpr.KindRightShift:         types.RightShift,
	hostexpr.KindLessThan:           types.LessThan,
	hostexpr.KindGreaterThan:        types.GreaterThan,
	hostexpr.KindLessThanOrEqual:    types.LessThanOrEqual,
	hostexpr.KindGreaterThanOrEqual: types.GreaterThanOrEqual,
	hostexpr.KindEqual:              types.Equality,
	hostexpr.KindNotEqual:           types.NotEqual,
	hostexpr.KindAnd:                types.BitwiseAnd,
	hostexpr.KindExclusiveOr:        types.ExclusiveOr,
	hostexpr.KindOr:                 types.BitwiseOr,
	hostexpr.KindAndAlso:            types.ConditionalAnd,
	hostexpr.KindOrElse:             types.ConditionalOr,
	hostexpr.KindCoalesce:           types.NullCoalescing,
	hostexpr.KindAssign:             types.Assignment,
}

// unaryOps maps host unary kinds onto the shared operator table. Not is
// resolved by operand type.
var unaryOps = map[hostexpr.Kind]*types.UnaryTokenType{
	hostexpr.KindNegate:         types.Minus,
	hostexpr.KindUnaryPlus:      types.Plus,
	hostexpr.KindOnesComplement: types.BitwiseNegation,
}

func defaultRecognizers() map[hostexpr.Kind]Recognizer {
	m := map[hostexpr.Kind]Recognizer{
		hostexpr.KindConstant:       RecognizerFunc(convertConstant),
		hostexpr.KindDefault:        RecognizerFunc(convertDefault),
		hostexpr.KindParameter:      RecognizerFunc(convertParameter),
		hostexpr.KindLambda:         RecognizerFunc(convertLambda),
		hostexpr.KindMemberAccess:   RecognizerFunc(convertMember),
		hostexpr.KindCall:           RecognizerFunc(convertCall),
		hostexpr.KindIndex:          RecognizerFunc(convertIndex),
		hostexpr.KindArrayIndex:     RecognizerFunc(convertArrayIndex),
		hostexpr.KindNewArrayInit:   RecognizerFunc(convertNewArray),
		hostexpr.KindConvert:        RecognizerFunc(convertTransparent),
		hostexpr.KindConvertChecked: RecognizerFunc(convertTransparent),
		hostexpr.KindConditional:    RecognizerFunc(convertConditional),
		hostexpr.KindNot:            RecognizerFunc(convertNot),
	}
	for kind := range binaryOps {
		m[kind] = RecognizerFunc(convertBinary)
	}
	for kind := range unaryOps {
		m[kind] = RecognizerFunc(convertUnary)
	}
	return m
}

func convertConstant(_ *Context, expr hostexpr.Expr) (types.Node, error) {
	c, ok := expr.(*hostexpr.ConstantExpr)
	if !ok {
		return nil, nil
	}
	v, err := coerce(c.Value, c.Type())
	if err != nil {
		return nil, err
	}
	if b, ok := v.(bool); ok && c.Type() == types.BoolType {
		return types.BoolConstant(b), nil
	}
	if v == nil && (c.Type() == nil || c.Type() == types.AnyType) {
		return types.NullConstant, nil
	}
	return types.NewConstant(v, c.Type()), nil
}

func convertDefault(_ *Context, expr hostexpr.Expr) (types.Node, error) {
	d, ok := expr.(*hostexpr.DefaultExpr)
	if !ok {
		return nil, nil
	}
	typ := d.Type()
	if typ == nil {
		return types.NullConstant, nil
	}
	if nillable(typ) {
		return types.NewConstant(nil, typ), nil
	}
	return types.NewConstant(reflect.Zero(typ).Interface(), typ), nil
}

func convertParameter(ctx *Context, expr hostexpr.Expr) (types.Node, error) {
	p, ok := expr.(*hostexpr.ParameterExpr)
	if !ok {
		return nil, nil
	}
	if ctx.implicit != nil && p == ctx.implicit {
		return nil, unsupported(expr, "binding context %s used as a value", p.Name)
	}
	if param, ok := ctx.Scope().Lookup(p); ok {
		return param, nil
	}
	return nil, types.Errorf(types.ErrCodeUnboundParameter, -1, "parameter %s is not bound by an enclosing lambda", p.Name).
		WithCause(ErrUnboundParameter)
}

func convertLambda(ctx *Context, expr hostexpr.Expr) (types.Node, error) {
	l, ok := expr.(*hostexpr.LambdaExpr)
	if !ok {
		return nil, nil
	}
	release, err := ctx.bind(l.Parameters)
	if err != nil {
		return nil, err
	}
	defer release()

	params := make([]*types.Parameter, len(l.Parameters))
	for i, p := range l.Parameters {
		params[i], _ = ctx.Scope().Lookup(p)
	}
	body, err := ctx.Convert(l.Body)
	if err != nil {
		return nil, err
	}
	return types.NewLambda(body, params), nil
}

func convertMember(ctx *Context, expr hostexpr.Expr) (types.Node, error) {
	m, ok := expr.(*hostexpr.MemberExpr)
	if !ok {
		return nil, nil
	}
	target, owner, flags, err := receiver(ctx, m.Target, m.Owner)
	if err != nil {
		return nil, err
	}
	if info, ok := ctx.Resolver().ResolveMember(owner, m.Name, flags); ok {
		return types.NewResolvedMember(target, info), nil
	}
	return types.NewMember(target, m.Name), nil
}

func convertCall(ctx *Context, expr hostexpr.Expr) (types.Node, error) {
	c, ok := expr.(*hostexpr.CallExpr)
	if !ok {
		return nil, nil
	}
	target, owner, flags, err := receiver(ctx, c.Target, c.Owner)
	if err != nil {
		return nil, err
	}
	args, err := ctx.ConvertAll(c.Arguments)
	if err != nil {
		return nil, err
	}

	var typeArgs []string
	for _, t := range c.TypeArguments {
		typeArgs = append(typeArgs, t.String())
	}
	if info, ok := ctx.Resolver().ResolveMethod(owner, c.Method, c.TypeArguments, len(args), flags); ok {
		return types.NewResolvedMethodCall(target, info, args, typeArgs), nil
	}
	return types.NewMethodCall(target, c.Method, args, typeArgs), nil
}

// receiver converts the target of a member or call. A nil target denotes a
// static member of owner.
func receiver(ctx *Context, target hostexpr.Expr, owner reflect.Type) (types.Node, reflect.Type, types.MemberFlags, error) {
	flags := ctx.Flags()
	if target == nil {
		if owner == nil {
			return nil, nil, 0, unsupported(nil, "static access without an owner type")
		}
		return types.TypeConstant(owner), owner, flags &^ types.MemberInstance, nil
	}
	node, err := ctx.ConvertTarget(target)
	if err != nil {
		return nil, nil, 0, err
	}
	if t := target.Type(); t != nil {
		owner = t
	}
	return node, owner, flags &^ types.MemberStatic, nil
}

func convertIndex(ctx *Context, expr hostexpr.Expr) (types.Node, error) {
	i, ok := expr.(*hostexpr.IndexExpr)
	if !ok {
		return nil, nil
	}
	target, err := ctx.ConvertTarget(i.Target)
	if err != nil {
		return nil, err
	}
	args, err := ctx.ConvertAll(i.Arguments)
	if err != nil {
		return nil, err
	}
	return types.NewIndex(target, args), nil
}

func convertArrayIndex(ctx *Context, expr hostexpr.Expr) (types.Node, error) {
	b, ok := expr.(*hostexpr.BinaryExpr)
	if !ok {
		return nil, nil
	}
	target, err := ctx.ConvertTarget(b.Left)
	if err != nil {
		return nil, err
	}
	index, err := ctx.Convert(b.Right)
	if err != nil {
		return nil, err
	}
	return types.NewIndex(target, []types.Node{index}), nil
}

// convertNewArray represents array construction as a call so the AST needs
// no array literal node.
func convertNewArray(ctx *Context, expr hostexpr.Expr) (types.Node, error) {
	a, ok := expr.(*hostexpr.NewArrayExpr)
	if !ok {
		return nil, nil
	}
	elems, err := ctx.ConvertAll(a.Elements)
	if err != nil {
		return nil, err
	}
	return types.NewMethodCall(nil, "NewArray", elems, []string{a.ElementType.String()}), nil
}

func convertTransparent(ctx *Context, expr hostexpr.Expr) (types.Node, error) {
	u, ok := expr.(*hostexpr.UnaryExpr)
	if !ok {
		return nil, nil
	}
	return ctx.Convert(u.Operand)
}

func convertConditional(ctx *Context, expr hostexpr.Expr) (types.Node, error) {
	c, ok := expr.(*hostexpr.ConditionalExpr)
	if !ok {
		return nil, nil
	}
	test, err := ctx.Convert(c.Test)
	if err != nil {
		return nil, err
	}
	ifTrue, err := ctx.Convert(c.IfTrue)
	if err != nil {
		return nil, err
	}
	ifFalse, err := ctx.Convert(c.IfFalse)
	if err != nil {
		return nil, err
	}
	return types.NewCondition(test, ifTrue, ifFalse), nil
}

func convertBinary(ctx *Context, expr hostexpr.Expr) (types.Node, error) {
	b, ok := expr.(*hostexpr.BinaryExpr)
	if !ok {
		return nil, nil
	}
	op, ok := binaryOps[b.Op]
	if !ok {
		return nil, nil
	}
	left, err := ctx.Convert(b.Left)
	if err != nil {
		return nil, err
	}
	right, err := ctx.Convert(b.Right)
	if err != nil {
		return nil, err
	}
	return types.NewBinary(op, left, right), nil
}

func convertUnary(ctx *Context, expr hostexpr.Expr) (types.Node, error) {
	u, ok := expr.(*hostexpr.UnaryExpr)
	if !ok {
		return nil, nil
	}
	op, ok := unaryOps[u.Op]
	if !ok {
		return nil, nil
	}
	operand, err := ctx.Convert(u.Operand)
	if err != nil {
		return nil, err
	}
	return types.NewUnary(op, operand), nil
}

func convertNot(ctx *Context, expr hostexpr.Expr) (types.Node, error) {
	u, ok := expr.(*hostexpr.UnaryExpr)
	if !ok {
		return nil, nil
	}
	operand, err := ctx.Convert(u.Operand)
	if err != nil {
		return nil, err
	}
	op := types.BitwiseNegation
	if t := u.Operand.Type(); t != nil && t.Kind() == reflect.Bool {
		op = types.LogicalNegation
	}
	return types.NewUnary(op, operand), nil
}

// coerce converts v to typ. Numeric values convert between numeric kinds
// only when the value survives the round trip; other values must be
// assignable to typ.
func coerce(v any, typ reflect.Type) (any, error) {
	if typ == nil {
		return v, nil
	}
	if v == nil {
		if typ == types.AnyType || nillable(typ) {
			return nil, nil
		}
		return nil, coercionError(v, typ)
	}

	rv := reflect.ValueOf(v)
	switch {
	case rv.Type() == typ:
		return v, nil
	case isNumeric(rv.Kind()) && isNumeric(typ.Kind()):
		converted := rv.Convert(typ)
		if !converted.Convert(rv.Type()).Equal(rv) {
			return nil, coercionError(v, typ)
		}
		return converted.Interface(), nil
	case rv.Type().AssignableTo(typ):
		return v, nil
	}
	return nil, coercionError(v, typ)
}

func coercionError(v any, typ reflect.Type) error {
	return types.Errorf(types.ErrCodeCoercion, -1, "cannot coerce %v (%T) to %s", v, v, typ).
		WithCause(ErrConstantCoercion)
}

func unsupported(expr hostexpr.Expr, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if expr != nil {
		msg = fmt.Sprintf("%s: %s", expr.Kind(), msg)
	}
	return types.NewError(types.ErrCodeUnsupportedNode, msg, -1).WithCause(ErrUnsupportedExpression)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
