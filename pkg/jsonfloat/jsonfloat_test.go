package jsonfloat

import (
	"encoding/json"
	"math"
	"testing"
)

func TestFloatMarshal(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.25, "0.25"},
		{-3, "-3"},
		{1e-7, "1e-7"},
		{math.NaN(), "null"},
		{math.Inf(1), "null"},
		{math.Inf(-1), "null"},
	}
	for _, tt := range tests {
		b, err := json.Marshal(Float(tt.in))
		if err != nil {
			t.Fatalf("%g: %v", tt.in, err)
		}
		if string(b) != tt.want {
			t.Errorf("%g: got %s, want %s", tt.in, b, tt.want)
		}
	}
}

func TestFloatUnmarshalNull(t *testing.T) {
	var v struct {
		A Float `json:"a"`
		B Float `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":null,"b":1.5}`), &v); err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(float64(v.A)) || v.B != 1.5 {
		t.Errorf("got %v", v)
	}
}

func TestSliceMarshal(t *testing.T) {
	b, err := json.Marshal(Slice{1, math.NaN(), 2.5, math.Inf(-1)})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); got != "[1,null,2.5,null]" {
		t.Errorf("got %s", got)
	}
	if b, _ := json.Marshal(Slice(nil)); string(b) != "null" {
		t.Errorf("nil slice: got %s", b)
	}
	if b, _ := json.Marshal(Slice{}); string(b) != "[]" {
		t.Errorf("empty slice: got %s", b)
	}
}
