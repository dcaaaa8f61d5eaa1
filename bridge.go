package blueprint

import (
	"errors"
	"reflect"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"
)

// NativeMethod is a host closure invokable from script through the
// method registry. No return value is propagated back to script.
type NativeMethod func(args []Value)

// Bridge owns the evaluation context. It installs the native mutation
// API on the script side, maintains the method registry, and dispatches
// events in both directions.
//
// Script-supplied arguments are validated here: a bad id or type becomes
// a TypeError thrown back into the script, keeping the tree manager's
// fatal assertions reserved for native misuse. Script-originated errors
// (evaluation, dispatch, interrupt) are logged and never fatal.
type Bridge struct {
	rt     *goja.Runtime
	codec  *Codec
	tree   *Tree
	logger *log.Logger

	// Append-only method registry. Wrappers installed on the script side
	// carry their registry index; entries live until the context is torn
	// down with the bridge.
	methods []NativeMethod

	native *goja.Object // the __BlueprintNative__ namespace
}

// NewBridge creates a fresh evaluation context bound to tree and
// installs the native API.
func NewBridge(tree *Tree, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.Default()
	}
	rt := goja.New()
	b := &Bridge{
		rt:     rt,
		codec:  NewCodec(rt),
		tree:   tree,
		logger: logger,
	}
	b.installNativeAPI()
	return b
}

// Runtime exposes the underlying evaluation context.
func (b *Bridge) Runtime() *goja.Runtime { return b.rt }

// Codec returns the bridge's value codec.
func (b *Bridge) Codec() *Codec { return b.codec }

// EvalScript evaluates a script body in the context. Failures are
// logged and returned; a misbehaving script must not crash the host.
func (b *Bridge) EvalScript(src string) error {
	if _, err := b.rt.RunString(src); err != nil {
		b.logScriptError("script evaluation failed", err)
		return err
	}
	return nil
}

// Interrupt invokes the script's __schedulerInterrupt__ function, when
// defined. Failures are logged; the caller's cadence is unaffected.
func (b *Bridge) Interrupt() {
	fn, ok := goja.AssertFunction(b.rt.Get("__schedulerInterrupt__"))
	if !ok {
		return
	}
	if _, err := fn(goja.Undefined()); err != nil {
		b.logScriptError("scheduler interrupt failed", err)
	}
}

// RegisterNativeMethod appends fn to the method registry and installs a
// wrapper of the same name on __BlueprintNative__. The wrapper carries
// only its registry index and resolves it back through the bridge when
// invoked; arguments are decoded on the narrow scalar path.
func (b *Bridge) RegisterNativeMethod(name string, fn NativeMethod) {
	idx := len(b.methods)
	b.methods = append(b.methods, fn)

	b.native.Set(name, func(call goja.FunctionCall) goja.Value {
		args := make([]Value, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = b.codec.DecodeScalar(a)
		}
		b.methods[idx](args)
		return goja.Undefined()
	})
}

// DispatchViewEvent calls the script-side dispatchViewEvent function
// with the view id, event type and encoded arguments.
func (b *Bridge) DispatchViewEvent(id ViewID, eventType string, args ...Value) {
	gargs := make([]goja.Value, 0, len(args)+2)
	gargs = append(gargs, b.rt.ToValue(int64(id)), b.rt.ToValue(eventType))
	for _, a := range args {
		gargs = append(gargs, b.codec.Encode(a))
	}
	b.invokeDispatch("dispatchViewEvent", gargs)
}

// DispatchEvent calls the script-side dispatchEvent function with the
// event type and encoded arguments.
func (b *Bridge) DispatchEvent(eventType string, args ...Value) {
	gargs := make([]goja.Value, 0, len(args)+1)
	gargs = append(gargs, b.rt.ToValue(eventType))
	for _, a := range args {
		gargs = append(gargs, b.codec.Encode(a))
	}
	b.invokeDispatch("dispatchEvent", gargs)
}

// invokeDispatch locates a dispatch function on __BlueprintNative__ and
// calls it. Dispatch failures originate from script logic the host does
// not control, so they are logged, never raised.
func (b *Bridge) invokeDispatch(name string, args []goja.Value) {
	fn, ok := goja.AssertFunction(b.native.Get(name))
	if !ok {
		b.logger.Error("script dispatch function missing", "fn", name)
		return
	}
	if _, err := fn(b.native, args...); err != nil {
		b.logScriptError("event dispatch failed", err)
	}
}

// logScriptError logs a script-originated failure, preferring the
// exception's descriptive trace when one is available.
func (b *Bridge) logScriptError(msg string, err error) {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		b.logger.Error(msg, "stack", ex.String())
		return
	}
	b.logger.Error(msg, "err", err.Error())
}

// installNativeAPI builds the __BlueprintNative__ namespace and assigns
// it to the global object.
func (b *Bridge) installNativeAPI() {
	native := b.rt.NewObject()
	native.Set("createViewInstance", b.jsCreateViewInstance)
	native.Set("createTextViewInstance", b.jsCreateTextViewInstance)
	native.Set("setViewProperty", b.jsSetViewProperty)
	native.Set("setRawTextValue", b.jsSetRawTextValue)
	native.Set("addChild", b.jsAddChild)
	native.Set("removeChild", b.jsRemoveChild)
	native.Set("getRootInstanceId", b.jsGetRootInstanceID)
	b.native = native
	b.rt.Set("__BlueprintNative__", native)
}

// stringArg extracts a required string argument.
func (b *Bridge) stringArg(call goja.FunctionCall, i int) string {
	v := call.Argument(i)
	if goja.IsUndefined(v) || goja.IsNull(v) {
		panic(b.rt.NewTypeError("argument %d must be a string", i))
	}
	return v.String()
}

// viewIDArg extracts and validates a view id argument.
func (b *Bridge) viewIDArg(call goja.FunctionCall, i int) ViewID {
	v := call.Argument(i)
	t := v.ExportType()
	if t == nil || (t.Kind() != reflect.Int64 && t.Kind() != reflect.Float64) {
		panic(b.rt.NewTypeError("argument %d must be a view id", i))
	}
	id := ViewID(v.ToInteger())
	if !b.tree.Valid(id) {
		panic(b.rt.NewTypeError("no view with id %d", int64(id)))
	}
	return id
}

func (b *Bridge) jsCreateViewInstance(call goja.FunctionCall) goja.Value {
	typeID := b.stringArg(call, 0)
	if !b.tree.Registry().Registered(typeID) {
		panic(b.rt.NewTypeError("view type %q not registered", typeID))
	}
	return b.rt.ToValue(int64(b.tree.CreateViewInstance(typeID)))
}

func (b *Bridge) jsCreateTextViewInstance(call goja.FunctionCall) goja.Value {
	return b.rt.ToValue(int64(b.tree.CreateTextInstance(b.stringArg(call, 0))))
}

func (b *Bridge) jsSetViewProperty(call goja.FunctionCall) goja.Value {
	id := b.viewIDArg(call, 0)
	key := b.stringArg(call, 1)
	b.tree.SetProperty(id, key, b.codec.Decode(call.Argument(2)))
	return goja.Undefined()
}

func (b *Bridge) jsSetRawTextValue(call goja.FunctionCall) goja.Value {
	id := b.viewIDArg(call, 0)
	b.tree.SetRawText(id, b.stringArg(call, 1))
	return goja.Undefined()
}

func (b *Bridge) jsAddChild(call goja.FunctionCall) goja.Value {
	parentID := b.viewIDArg(call, 0)
	childID := b.viewIDArg(call, 1)

	index := -1
	if v := call.Argument(2); !goja.IsUndefined(v) && !goja.IsNull(v) {
		index = int(v.ToInteger())
	}

	// Attachment invariants are assertions inside the tree manager; from
	// script they must surface as catchable errors.
	parentView, _ := b.tree.Lookup(parentID)
	childView, _ := b.tree.Lookup(childID)
	if parentView.Kind() == TextView && childView.Kind() != RawTextView {
		panic(b.rt.NewTypeError("Text views accept raw text children only"))
	}
	if childView.Parent() != nil {
		panic(b.rt.NewTypeError("view %d is already attached", int64(childID)))
	}
	for v := parentView; v != nil; v = v.Parent() {
		if v == childView {
			panic(b.rt.NewTypeError("attaching view %d under %d would create a cycle", int64(childID), int64(parentID)))
		}
	}

	b.tree.AddChild(parentID, childID, index)
	return goja.Undefined()
}

func (b *Bridge) jsRemoveChild(call goja.FunctionCall) goja.Value {
	parentID := b.viewIDArg(call, 0)
	childID := b.viewIDArg(call, 1)
	if childID == b.tree.RootID() {
		panic(b.rt.NewTypeError("the root view cannot be removed"))
	}
	childView, _ := b.tree.Lookup(childID)
	parentView, _ := b.tree.Lookup(parentID)
	if childView.Parent() != parentView {
		panic(b.rt.NewTypeError("view %d is not a child of %d", int64(childID), int64(parentID)))
	}
	b.tree.RemoveChild(parentID, childID)
	return goja.Undefined()
}

func (b *Bridge) jsGetRootInstanceID(call goja.FunctionCall) goja.Value {
	return b.rt.ToValue(int64(b.tree.RootID()))
}
