// Package jsonfloat encodes float64 values that encoding/json rejects.
// NaN and ±Inf are written as null; every finite value is encoded exactly
// as encoding/json would encode a plain float64.
package jsonfloat

import (
	"encoding/json"
	"math"
)

// Float is a float64 that encodes non-finite values as null.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON reads null back as NaN.
func (f *Float) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Slice is a []float64 that encodes non-finite elements as null.
type Slice []float64

func (s Slice) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	out := make([]Float, len(s))
	for i, v := range s {
		out[i] = Float(v)
	}
	return json.Marshal(out)
}
