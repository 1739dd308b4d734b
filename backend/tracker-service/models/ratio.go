package models

import (
	"encoding/json"
	"math"
)

// Ratio is a percentage or rate derived by division. Division by zero is not
// guarded: the value becomes NaN or an infinity and is encoded as null.
type Ratio float64

// Percent returns num/den*100 as a Ratio without guarding den == 0.
func Percent(num, den float64) Ratio {
	return Ratio(num / den * 100)
}

// Defined reports whether the ratio is a finite number.
func (r Ratio) Defined() bool {
	f := float64(r)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(r))
}

// UnmarshalJSON maps null back to NaN.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}

// Amount is a money or hours figure carried in views and reports. Sums and
// products of large inputs may overflow to an infinity, so non-finite
// amounts encode as null like a Ratio.
type Amount float64

func (a Amount) Defined() bool {
	return Ratio(a).Defined()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return Ratio(a).MarshalJSON()
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var r Ratio
	if err := r.UnmarshalJSON(data); err != nil {
		return err
	}
	*a = Amount(r)
	return nil
}
