package domain

import "encoding/json"

// Ratio is a computed metric that may be undefined: a zero or missing
// denominator yields "no value", which is not the same as a true zero. It
// marshals to JSON null when undefined so the frontend can render a dash
// instead of a misleading 0.
type Ratio struct {
	Value   float64
	Defined bool
}

func DefinedRatio(v float64) Ratio { return Ratio{Value: v, Defined: true} }

func UndefinedRatio() Ratio { return Ratio{} }

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = DefinedRatio(v)
	return nil
}
