package chart

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/matzehuels/barchart/pkg/errors"
)

func TestValueFloat(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want float64
		ok   bool
	}{
		{"number", Number(2.5), 2.5, true},
		{"numeric text", Text(" 3.5 "), 3.5, true},
		{"empty text", Text(""), 0, true},
		{"word", Text("abc"), 0, false},
		{"infinite", Number(math.Inf(1)), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.Float()
			if ok != tt.ok {
				t.Fatalf("Float() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("Float() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Number(10), "10"},
		{Number(2.5), "2.5"},
		{Number(0.1), "0.1"},
		{Text("Starbucks"), "Starbucks"},
		{Value{}, ""},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestRecordAccessors(t *testing.T) {
	r := Record{"name": Text("A"), "n": Number(3), "note": Text("n/a")}

	if got, err := r.Category("name"); err != nil || got != "A" {
		t.Errorf("Category(name) = %q, %v", got, err)
	}
	if _, err := r.Category("id"); !errors.Is(err, errors.ErrCodeMissingKey) {
		t.Errorf("Category(id) error = %v, want MISSING_KEY", err)
	}
	if got, err := r.Measure("n"); err != nil || got != 3 {
		t.Errorf("Measure(n) = %v, %v", got, err)
	}
	if _, err := r.Measure("x"); !errors.Is(err, errors.ErrCodeMissingKey) {
		t.Errorf("Measure(x) error = %v, want MISSING_KEY", err)
	}
	if _, err := r.Measure("note"); !errors.Is(err, errors.ErrCodeInvalidDomain) {
		t.Errorf("Measure(note) error = %v, want INVALID_DOMAIN", err)
	}
}

func TestEqualRecords(t *testing.T) {
	a := []Record{{"k": Text("a"), "v": Number(1)}}
	b := cloneRecords(a)
	if !EqualRecords(a, b) {
		t.Error("clone should equal original")
	}
	b[0]["v"] = Number(2)
	if EqualRecords(a, b) {
		t.Error("changed clone should differ")
	}
	if a[0]["v"] != Number(1) {
		t.Error("cloneRecords aliased the original record")
	}
	if EqualRecords(a, nil) {
		t.Error("different lengths should differ")
	}
}

func TestValueJSON(t *testing.T) {
	in := Record{"name": Text("7"), "n": Number(2.5)}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got, want := string(data), `{"n":2.5,"name":"7"}`; got != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}

	var out Record
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !EqualRecords([]Record{in}, []Record{out}) {
		t.Errorf("round trip = %v, want %v", out, in)
	}

	var v Value
	if err := json.Unmarshal([]byte(`true`), &v); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Unmarshal(true) error = %v, want INVALID_FORMAT", err)
	}
}
