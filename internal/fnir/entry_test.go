package fnir

import (
	"testing"
)

func TestEntryPoint_Text(t *testing.T) {
	for _, e := range EntryPoints() {
		t.Run(e.String(), func(t *testing.T) {
			text, err := e.MarshalText()
			if err != nil {
				t.Fatalf("marshal %d: %s", e, err)
			}

			var got EntryPoint
			if err := got.UnmarshalText(text); err != nil {
				t.Fatalf("unmarshal %q: %s", text, err)
			}
			if got != e {
				t.Errorf("got %v, want %v", got, e)
			}
		})
	}
}

func TestEntryPoint_Invalid(t *testing.T) {
	var e EntryPoint
	if err := e.UnmarshalText([]byte("sync-fine")); err == nil {
		t.Fatal("error expected for unknown entry point")
	}
	if e.Valid() {
		t.Errorf("zero entry point must be invalid")
	}
	if got := e.String(); got != "invalid(0)" {
		t.Errorf("unexpected string for invalid entry point: %q", got)
	}
	if _, err := e.MarshalText(); err == nil {
		t.Errorf("invalid entry point must not marshal")
	}
}

func TestEntryPoint_Directive(t *testing.T) {
	if got := EntryAsyncFine.Directive(); got != "//spanwrap:async-fine" {
		t.Errorf("unexpected directive %q", got)
	}
}

func TestFunction_BodyInner(t *testing.T) {
	f := Function{Body: Fragment{Text: "{ return a + b }"}}
	if got := f.BodyInner(); got != " return a + b " {
		t.Errorf("unexpected inner body %q", got)
	}

	f = Function{}
	if got := f.BodyInner(); got != "" {
		t.Errorf("empty body expected, got %q", got)
	}
}
