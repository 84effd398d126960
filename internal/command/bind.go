package command

import (
	"fmt"
	"reflect"

	"fortio.org/safecast"

	"meta/internal/rtti"
	"meta/internal/types"
)

// Bind looks up the introspected function name and registers fn, which must
// be a Go func whose parameters and result match it:
//
//	intN/uintN  integer of the same width and signedness
//	float32/64  float of the same width
//	string      char*
func (r *Registry) Bind(name string, fn any) error {
	ft, ok := r.table.Lookup(name)
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownCommand)
	}
	if ft.Kind != types.KindFunction {
		return fmt.Errorf("%s is a %s: %w", name, ft.Kind, ErrNotAFunction)
	}
	call, err := trampoline(ft, reflect.ValueOf(fn))
	if err != nil {
		return err
	}
	return r.Register(ft, call)
}

func trampoline(ft *rtti.Type, fv reflect.Value) (Trampoline, error) {
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s: binding is %s, not a func: %w", ft.Name, fv.Kind(), ErrSignature)
	}
	gt := fv.Type()
	if gt.IsVariadic() || gt.NumIn() != len(ft.Args) {
		return nil, fmt.Errorf("%s: %d parameter(s), want %d: %w", ft.Name, gt.NumIn(), len(ft.Args), ErrSignature)
	}
	for i, a := range ft.Args {
		if !matches(a.Type, gt.In(i)) {
			return nil, fmt.Errorf("%s: parameter %d is %s, want %s: %w", ft.Name, i+1, gt.In(i), a.Type.Name, ErrSignature)
		}
	}
	void := isVoid(ft.Return)
	switch {
	case void && gt.NumOut() != 0:
		return nil, fmt.Errorf("%s returns void: %w", ft.Name, ErrSignature)
	case !void && (gt.NumOut() != 1 || !matches(ft.Return, gt.Out(0))):
		return nil, fmt.Errorf("%s: result must be a single %s: %w", ft.Name, ft.Return.Name, ErrSignature)
	}

	return func(args []rtti.Any) {
		in := make([]reflect.Value, len(ft.Args))
		for i := range in {
			v, err := unpack(args[i], gt.In(i))
			if err != nil {
				panic(fmt.Sprintf("command %s: argument %d: %v", ft.Name, i+1, err))
			}
			in[i] = v
		}
		out := fv.Call(in)
		if void {
			return
		}
		res, err := pack(ft.Return, out[0])
		if err != nil {
			panic(fmt.Sprintf("command %s: result: %v", ft.Name, err))
		}
		args[0] = res
	}, nil
}

func matches(t *rtti.Type, gt reflect.Type) bool {
	if t.IsString() {
		return gt.Kind() == reflect.String
	}
	u := t.Underlying()
	switch u.Kind {
	case types.KindInteger:
		switch gt.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return u.Signed && gt.Bits() == u.Bits
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return !u.Signed && gt.Bits() == u.Bits
		}
	case types.KindFloat:
		return (gt.Kind() == reflect.Float32 || gt.Kind() == reflect.Float64) && gt.Bits() == u.Bits
	}
	return false
}

func unpack(a rtti.Any, gt reflect.Type) (reflect.Value, error) {
	if gt.Kind() == reflect.String {
		return reflect.ValueOf(a.Str()).Convert(gt), nil
	}
	switch a.Type.Underlying().Kind {
	case types.KindInteger:
		v, err := a.Int()
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v).Convert(gt), nil
	case types.KindFloat:
		v, err := a.Float()
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v).Convert(gt), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot unpack %s", a.Type)
}

func pack(t *rtti.Type, v reflect.Value) (rtti.Any, error) {
	switch v.Kind() {
	case reflect.String:
		return rtti.MakeString(t, v.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rtti.MakeInt(t, v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := safecast.Conv[int64](v.Uint())
		if err != nil {
			return rtti.Any{}, fmt.Errorf("%d does not fit %s: %w", v.Uint(), t, rtti.ErrRange)
		}
		return rtti.MakeInt(t, n)
	case reflect.Float32, reflect.Float64:
		return rtti.MakeFloat(t, v.Float())
	}
	return rtti.Any{}, fmt.Errorf("cannot pack %s", v.Type())
}
