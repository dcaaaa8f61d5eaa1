package blueprint

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
)

func newTestBridge() (*Tree, *Bridge) {
	tr := newTestTree()
	return tr, NewBridge(tr, log.New(io.Discard))
}

func TestBridgeScriptBuildsTree(t *testing.T) {
	tr, b := newTestBridge()
	err := b.EvalScript(`
		var N = __BlueprintNative__;
		var root = N.getRootInstanceId();
		var box = N.createViewInstance("View");
		N.setViewProperty(box, "height", 3);
		var label = N.createViewInstance("Text");
		var raw = N.createTextViewInstance("hi there");
		N.addChild(label, raw);
		N.addChild(box, label);
		N.addChild(root, box);
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}

	rootView, _ := tr.Lookup(tr.RootID())
	if len(rootView.Children()) != 1 {
		t.Fatalf("root should have one child, got %d", len(rootView.Children()))
	}
	box := rootView.Children()[0]
	if v, ok := box.Prop("height"); !ok || v.AsNumber() != 3 {
		t.Error("property set from script should land in the bag")
	}
	if len(box.Children()) != 1 || box.Children()[0].Kind() != TextView {
		t.Fatal("box should hold the Text child")
	}
	if got := box.Children()[0].combinedText(); got != "hi there" {
		t.Errorf("combined text should be %q, got %q", "hi there", got)
	}
}

func TestBridgeGetRootInstanceID(t *testing.T) {
	tr, b := newTestBridge()
	v, err := b.Runtime().RunString(`__BlueprintNative__.getRootInstanceId()`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if ViewID(v.ToInteger()) != tr.RootID() {
		t.Errorf("script root id should be %d, got %d", tr.RootID(), v.ToInteger())
	}
}

func TestBridgeInvalidIDThrowsCatchable(t *testing.T) {
	_, b := newTestBridge()
	v, err := b.Runtime().RunString(`
		var caught = false;
		try {
			__BlueprintNative__.setViewProperty(999999, "width", 1);
		} catch (e) {
			caught = e instanceof TypeError;
		}
		caught
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !v.ToBoolean() {
		t.Error("a bad id from script should surface as a catchable TypeError")
	}
}

func TestBridgeUnregisteredTypeThrowsCatchable(t *testing.T) {
	_, b := newTestBridge()
	v, err := b.Runtime().RunString(`
		var caught = false;
		try {
			__BlueprintNative__.createViewInstance("NoSuchType");
		} catch (e) {
			caught = e instanceof TypeError;
		}
		caught
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !v.ToBoolean() {
		t.Error("an unregistered type from script should surface as a catchable TypeError")
	}
}

func TestBridgeTextParentInvariantThrowsCatchable(t *testing.T) {
	_, b := newTestBridge()
	v, err := b.Runtime().RunString(`
		var N = __BlueprintNative__;
		var label = N.createViewInstance("Text");
		var box = N.createViewInstance("View");
		var caught = false;
		try {
			N.addChild(label, box);
		} catch (e) {
			caught = e instanceof TypeError;
		}
		caught
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !v.ToBoolean() {
		t.Error("adding a non raw-text child to Text should throw into script")
	}
}

func TestBridgeRemoveRootThrowsCatchable(t *testing.T) {
	tr, b := newTestBridge()
	v, err := b.Runtime().RunString(`
		var N = __BlueprintNative__;
		var root = N.getRootInstanceId();
		var caught = false;
		try {
			N.removeChild(root, root);
		} catch (e) {
			caught = e instanceof TypeError;
		}
		caught
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !v.ToBoolean() {
		t.Error("removing the root from script should throw a catchable TypeError")
	}
	if !tr.Valid(tr.RootID()) {
		t.Fatal("the root must survive the attempt")
	}
}

func TestBridgeRemoveNonChildThrowsCatchable(t *testing.T) {
	tr, b := newTestBridge()
	v, err := b.Runtime().RunString(`
		var N = __BlueprintNative__;
		var root = N.getRootInstanceId();
		var a = N.createViewInstance("View");
		var b = N.createViewInstance("View");
		N.addChild(root, a);
		N.addChild(a, b);
		var caught = false;
		try {
			N.removeChild(root, b);
		} catch (e) {
			caught = e instanceof TypeError;
		}
		[caught, b]
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	res := b.Codec().Decode(v)
	if !res.Index(0).AsBool() {
		t.Error("removing a non-child from script should throw a catchable TypeError")
	}
	id := ViewID(res.Index(1).AsNumber())
	if !tr.Valid(id) {
		t.Error("the still-attached subtree must keep its slots")
	}
}

func TestBridgeAddChildCycleThrowsCatchable(t *testing.T) {
	_, b := newTestBridge()
	v, err := b.Runtime().RunString(`
		var N = __BlueprintNative__;
		var root = N.getRootInstanceId();
		var outer = N.createViewInstance("View");
		var inner = N.createViewInstance("View");
		N.addChild(outer, inner);
		var results = [];
		var check = function (fn) {
			try { fn(); results.push(false); }
			catch (e) { results.push(e instanceof TypeError); }
		};
		check(function () { N.addChild(outer, outer); });
		check(function () { N.addChild(inner, outer); });
		N.addChild(root, outer);
		check(function () { N.addChild(root, inner); });
		results
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	res := b.Codec().Decode(v)
	for i, name := range []string{"self-attachment", "ancestor cycle", "double attachment"} {
		if !res.Index(i).AsBool() {
			t.Errorf("%s from script should throw a catchable TypeError", name)
		}
	}
}

func TestRegisterNativeMethod(t *testing.T) {
	_, b := newTestBridge()
	var got []Value
	b.RegisterNativeMethod("report", func(args []Value) { got = args })

	if err := b.EvalScript(`__BlueprintNative__.report(true, 3.5, "x")`); err != nil {
		t.Fatalf("eval: %v", err)
	}
	want := []Value{Bool(true), Number(3.5), String("x")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("native method args mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchEventReachesScript(t *testing.T) {
	_, b := newTestBridge()
	err := b.EvalScript(`
		var seen = null;
		__BlueprintNative__.dispatchEvent = function (type, arg) {
			seen = { type: type, arg: arg };
		};
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	b.DispatchEvent("keyDown", String("q"))

	got := b.Codec().Decode(b.Runtime().Get("seen"))
	want := Map(F("type", String("keyDown")), F("arg", String("q")))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dispatched event mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchViewEventReachesScript(t *testing.T) {
	tr, b := newTestBridge()
	id := tr.CreateViewInstance("View")
	err := b.EvalScript(`
		var seen = null;
		__BlueprintNative__.dispatchViewEvent = function (id, type, arg) {
			seen = { id: id, type: type, arg: arg };
		};
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	b.DispatchViewEvent(id, "measure", Map(F("width", Number(12))))

	got := b.Codec().Decode(b.Runtime().Get("seen"))
	want := Map(
		F("id", Number(float64(id))),
		F("type", String("measure")),
		F("arg", Map(F("width", Number(12)))),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dispatched view event mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchErrorIsLoggedNotFatal(t *testing.T) {
	tr := newTestTree()
	var buf bytes.Buffer
	b := NewBridge(tr, log.New(&buf))

	err := b.EvalScript(`
		__BlueprintNative__.dispatchEvent = function () {
			throw new Error("boom");
		};
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	b.DispatchEvent("keyDown", String("q"))

	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("thrown message should be logged, got %q", buf.String())
	}
	// The context stays usable after a failed dispatch.
	if _, err := b.Runtime().RunString(`1 + 1`); err != nil {
		t.Errorf("context should survive a dispatch failure: %v", err)
	}
}

func TestDispatchMissingFunctionIsLogged(t *testing.T) {
	tr := newTestTree()
	var buf bytes.Buffer
	b := NewBridge(tr, log.New(&buf))

	b.DispatchEvent("keyDown", String("q"))
	if !strings.Contains(buf.String(), "dispatchEvent") {
		t.Errorf("missing dispatch function should be logged, got %q", buf.String())
	}
}

func TestEvalErrorIsLoggedAndReturned(t *testing.T) {
	tr := newTestTree()
	var buf bytes.Buffer
	b := NewBridge(tr, log.New(&buf))

	if err := b.EvalScript(`throw new Error("setup failed")`); err == nil {
		t.Fatal("a throwing script should return an error")
	}
	if !strings.Contains(buf.String(), "setup failed") {
		t.Errorf("evaluation failure should be logged, got %q", buf.String())
	}
}

func TestInterruptCallsScheduler(t *testing.T) {
	_, b := newTestBridge()
	err := b.EvalScript(`
		var ticks = 0;
		function __schedulerInterrupt__() { ticks++; }
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	b.Interrupt()
	b.Interrupt()

	v, err := b.Runtime().RunString(`ticks`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v.ToInteger() != 2 {
		t.Errorf("scheduler should have seen 2 interrupts, got %d", v.ToInteger())
	}
}

func TestInterruptWithoutSchedulerIsNoop(t *testing.T) {
	_, b := newTestBridge()
	b.Interrupt() // no __schedulerInterrupt__ defined; must not panic
}

func TestInterruptErrorKeepsCadence(t *testing.T) {
	tr := newTestTree()
	var buf bytes.Buffer
	b := NewBridge(tr, log.New(&buf))

	err := b.EvalScript(`
		var calls = 0;
		function __schedulerInterrupt__() {
			calls++;
			if (calls === 1) throw new Error("first tick bad");
		}
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	b.Interrupt()
	b.Interrupt()

	v, _ := b.Runtime().RunString(`calls`)
	if v.ToInteger() != 2 {
		t.Errorf("a failed interrupt should not stop later ones, got %d calls", v.ToInteger())
	}
	if !strings.Contains(buf.String(), "first tick bad") {
		t.Errorf("interrupt failure should be logged, got %q", buf.String())
	}
}
