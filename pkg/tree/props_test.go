package tree

import (
	"testing"

	"github.com/vango-dev/widgetkit/internal/errors"
)

func TestDiffPropsUnchanged(t *testing.T) {
	prev := Props{"class": "a", "n": 1, "b": true, "list": []string{"x"}}
	next := Props{"class": "a", "n": 1, "b": true, "list": []string{"x"}}
	if cs := DiffProps(prev, next); len(cs) != 0 {
		t.Errorf("DiffProps = %+v, want empty", cs)
	}
}

func TestDiffProps(t *testing.T) {
	prev := Props{"class": "a", "title": "t", "gone": 1, "onclick": 1, "key": "k"}
	next := Props{"class": "b", "title": "t", "added": "x", "onclick": 2, "key": "j"}

	cs := DiffProps(prev, next)
	want := ChangeSet{
		{Key: "added", Value: "x"},
		{Key: "class", Value: "b"},
		{Key: "gone", Removed: true},
	}
	if len(cs) != len(want) {
		t.Fatalf("DiffProps = %+v, want %+v", cs, want)
	}
	for i := range want {
		if cs[i] != want[i] {
			t.Errorf("cs[%d] = %+v, want %+v", i, cs[i], want[i])
		}
	}
}

func TestDiffPropsTypeChange(t *testing.T) {
	cs := DiffProps(Props{"n": 1}, Props{"n": "1"})
	if len(cs) != 1 || cs[0].Value != "1" {
		t.Errorf("DiffProps = %+v", cs)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b any
		want bool
	}{
		{"a", "a", true},
		{"a", "b", false},
		{1, 1, true},
		{1, int64(1), false},
		{1.5, 1.5, true},
		{true, false, false},
		{nil, nil, true},
		{nil, "", false},
		{[]int{1}, []int{1}, true},
	}
	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

type stringer struct{}

func (stringer) String() string { return "S" }

func TestAttrValue(t *testing.T) {
	tests := []struct {
		in      any
		value   string
		present bool
	}{
		{nil, "", false},
		{"x", "x", true},
		{true, "", true},
		{false, "", false},
		{42, "42", true},
		{int64(-3), "-3", true},
		{1.25, "1.25", true},
		{[]string{"a", "b"}, "a b", true},
		{stringer{}, "S", true},
	}
	for _, tt := range tests {
		v, present, err := AttrValue(tt.in)
		if err != nil {
			t.Errorf("AttrValue(%v) error: %v", tt.in, err)
			continue
		}
		if v != tt.value || present != tt.present {
			t.Errorf("AttrValue(%v) = %q, %v; want %q, %v", tt.in, v, present, tt.value, tt.present)
		}
	}
}

func TestAttrValueRejects(t *testing.T) {
	for _, v := range []any{func() {}, make(chan int), map[string]int{}, struct{}{}} {
		if _, _, err := AttrValue(v); errors.Code(err) != "W002" {
			t.Errorf("AttrValue(%T) = %v, want W002", v, err)
		}
	}
}
