package types

import (
	"encoding/json"
	"testing"
)

func TestOptionalDistinguishesAbsentNullAndValue(t *testing.T) {
	type payload struct {
		Name Optional[string] `json:"name"`
	}

	var absent payload
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatalf("unmarshal absent: %v", err)
	}
	if absent.Name.Present() {
		t.Fatal("expected absent field to not be present")
	}

	var null payload
	if err := json.Unmarshal([]byte(`{"name": null}`), &null); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !null.Name.Present() || !null.Name.Null() {
		t.Fatal("expected explicit null to be present and null")
	}
	if _, ok := null.Name.Value(); ok {
		t.Fatal("explicit null should not carry a value")
	}

	var set payload
	if err := json.Unmarshal([]byte(`{"name": "depot-7"}`), &set); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	got, ok := set.Name.Value()
	if !ok || got != "depot-7" {
		t.Fatalf("expected value depot-7, got %q (ok=%v)", got, ok)
	}
	if set.Name.Null() {
		t.Fatal("value field must not report null")
	}
}

func TestOptionalConstructorsAndMarshal(t *testing.T) {
	v := NewOptional(true)
	if got, ok := v.Value(); !ok || !got {
		t.Fatal("NewOptional should carry the value")
	}

	n := NullOptional[bool]()
	if !n.Null() {
		t.Fatal("NullOptional should report null")
	}

	out, err := json.Marshal(map[string]any{"flag": v})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"flag":true}` {
		t.Fatalf("unexpected marshal output %s", out)
	}
}
