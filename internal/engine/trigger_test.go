package engine

import (
	"errors"
	"testing"
)

func TestTriggerFiresOnce(t *testing.T) {
	var got []error
	tr := NewTrigger(ReporterFunc(func(err error, ctx Context) {
		got = append(got, err)
	}))

	if tr.Fired() {
		t.Fatal("trigger fired before Fire")
	}
	first := errors.New("first failure")
	if !tr.Fire(first, Context{Pass: "line", Line: 3}) {
		t.Error("first Fire did not deliver")
	}
	if !tr.Fired() {
		t.Error("Fired() false after Fire")
	}

	for i := 0; i < 5; i++ {
		if tr.Fire(errors.New("later failure"), Context{Pass: "line"}) {
			t.Fatal("later Fire delivered")
		}
	}
	if len(got) != 1 || got[0] != first {
		t.Errorf("reporter saw %v, want only the first error", got)
	}
}

func TestTriggerContextPassthrough(t *testing.T) {
	var got Context
	tr := NewTrigger(ReporterFunc(func(err error, ctx Context) { got = ctx }))

	want := Context{Pass: "viewport", Buffer: 7, Window: 3, Line: -1, Stack: []byte("stack")}
	tr.Fire(errors.New("boom"), want)
	if got.Pass != want.Pass || got.Buffer != want.Buffer || got.Window != want.Window || got.Line != want.Line {
		t.Errorf("reporter context = %+v, want %+v", got, want)
	}
	if string(got.Stack) != "stack" {
		t.Errorf("stack = %q", got.Stack)
	}
}

func TestTriggerNilReporterDefaults(t *testing.T) {
	tr := NewTrigger(nil)
	if tr == nil {
		t.Fatal("NewTrigger(nil) returned nil")
	}
	// Delivery goes to stderr; only the one-shot bookkeeping is
	// observable here.
	if !tr.Fire(errors.New("boom"), Context{Pass: "buffer", Line: -1}) {
		t.Error("first Fire did not deliver")
	}
	if tr.Fire(errors.New("boom"), Context{}) {
		t.Error("second Fire delivered")
	}
}
