// Package varimp turns the per feature scores reported by the backend into
// a named importance vector.
package varimp

import "sort"

// Score is the importance of one feature as reported by the backend, e.g.
// the number of splits using it.
type Score struct {
	Name  string
	Value int
}

// VarImp holds parallel feature names and importance values.
type VarImp struct {
	Names  []string
	Values []float64
}

// Compute builds the importance vector from sco in input order. An empty
// input carries no information and returns prev unchanged.
func Compute(prev *VarImp, sco []Score) *VarImp {
	if len(sco) == 0 {
		return prev
	}

	v := &VarImp{
		Names:  make([]string, len(sco)),
		Values: make([]float64, len(sco)),
	}

	for i, s := range sco {
		v.Names[i] = s.Name
		v.Values[i] = float64(s.Value)
	}

	return v
}

func (v *VarImp) Len() int {
	return len(v.Names)
}

// Sorted returns a copy ordered by descending importance. Equal values keep
// their input order.
func (v *VarImp) Sorted() *VarImp {
	idx := make([]int, v.Len())
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(i, j int) bool { return v.Values[idx[i]] > v.Values[idx[j]] })

	return v.pick(idx)
}

// Relative returns a copy scaled so that the largest value is 1.
func (v *VarImp) Relative() *VarImp {
	var max float64
	for _, x := range v.Values {
		if x > max {
			max = x
		}
	}

	return v.scale(max)
}

// Percentage returns a copy scaled so that all values sum up to 1.
func (v *VarImp) Percentage() *VarImp {
	var sum float64
	for _, x := range v.Values {
		sum += x
	}

	return v.scale(sum)
}

func (v *VarImp) scale(div float64) *VarImp {
	out := &VarImp{
		Names:  append([]string(nil), v.Names...),
		Values: make([]float64, v.Len()),
	}

	if div == 0 {
		return out
	}

	for i, x := range v.Values {
		out.Values[i] = x / div
	}

	return out
}

func (v *VarImp) pick(idx []int) *VarImp {
	out := &VarImp{
		Names:  make([]string, len(idx)),
		Values: make([]float64, len(idx)),
	}

	for i, j := range idx {
		out.Names[i] = v.Names[j]
		out.Values[i] = v.Values[j]
	}

	return out
}
