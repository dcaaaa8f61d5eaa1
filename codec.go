package blueprint

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/dop251/goja"
)

// Codec converts between script-engine values and native Values on a
// single goja runtime. Both directions are total over the finite kind
// set; anything outside it is a broken invariant and panics.
type Codec struct {
	rt *goja.Runtime
}

// NewCodec creates a codec bound to the given runtime.
func NewCodec(rt *goja.Runtime) *Codec {
	return &Codec{rt: rt}
}

// Encode converts a native Value into a script value.
func (c *Codec) Encode(v Value) goja.Value {
	switch v.Kind() {
	case NullKind:
		return goja.Null()
	case UndefinedKind:
		return goja.Undefined()
	case BoolKind:
		return c.rt.ToValue(v.AsBool())
	case NumberKind:
		return c.rt.ToValue(v.AsNumber())
	case StringKind:
		return c.rt.ToValue(v.AsString())
	case ListKind:
		arr := c.rt.NewArray()
		for i := 0; i < v.Len(); i++ {
			arr.Set(strconv.Itoa(i), c.Encode(v.Index(i)))
		}
		return arr
	case MapKind:
		obj := c.rt.NewObject()
		for _, f := range v.Fields() {
			obj.Set(f.Key, c.Encode(f.Val))
		}
		return obj
	}
	panic(fmt.Sprintf("blueprint: cannot encode value of kind %s", v.Kind()))
}

// Decode converts a script value into a native Value.
//
// Script arrays become lists. Any other object is decoded by enumerating
// its own properties into a map; every key is a string on the script side
// already (numeric indices arrive in decimal string form) and stays one.
// null becomes the absent value, undefined the explicit marker.
func (c *Codec) Decode(v goja.Value) Value {
	if v == nil || goja.IsNull(v) {
		return Null()
	}
	if goja.IsUndefined(v) {
		return Undefined()
	}

	switch t := v.ExportType(); t.Kind() {
	case reflect.Bool:
		return Bool(v.ToBoolean())
	case reflect.Int64, reflect.Float64:
		return Number(v.ToFloat())
	case reflect.String:
		return String(v.String())
	case reflect.Slice, reflect.Map, reflect.Struct, reflect.Ptr:
		// Object-like; handled below.
	default:
		panic(fmt.Sprintf("blueprint: cannot decode script value of type %v", t))
	}

	obj := v.ToObject(c.rt)
	if obj.ClassName() == "Array" {
		n := int(obj.Get("length").ToInteger())
		els := make([]Value, 0, n)
		for i := 0; i < n; i++ {
			els = append(els, c.Decode(obj.Get(strconv.Itoa(i))))
		}
		return List(els...)
	}

	keys := obj.Keys() // own enumerable properties only
	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, F(k, c.Decode(obj.Get(k))))
	}
	return Map(fields...)
}

// DecodeScalar converts a script value that must be a string, number or
// boolean. The native-method wrapper path deliberately accepts a narrower
// set than Decode; anything else is a broken invariant and panics.
func (c *Codec) DecodeScalar(v goja.Value) Value {
	if v == nil {
		panic("blueprint: nil script value on native-method argument path")
	}
	if t := v.ExportType(); t != nil {
		switch t.Kind() {
		case reflect.Bool:
			return Bool(v.ToBoolean())
		case reflect.Int64, reflect.Float64:
			return Number(v.ToFloat())
		case reflect.String:
			return String(v.String())
		}
	}
	panic(fmt.Sprintf("blueprint: native-method argument must be string, number or boolean, got %s", v))
}
