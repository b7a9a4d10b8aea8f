package core

import "math"

// ONB is an orthonormal basis whose W axis is aligned with a given normal
type ONB struct {
	U, V, W Vec3
}

// NewONB builds a basis around w, which is normalized first
func NewONB(w Vec3) ONB {
	w = w.Normalize()

	// Pick the helper axis least aligned with w so the cross product is stable
	var helper Vec3
	if math.Abs(w.X) > 0.9 {
		helper = NewVec3(0, 1, 0)
	} else {
		helper = NewVec3(1, 0, 0)
	}

	v := w.Cross(helper).Normalize()
	u := v.Cross(w)
	return ONB{U: u, V: v, W: w}
}

// Local maps a vector expressed in basis coordinates to world space
func (b ONB) Local(a Vec3) Vec3 {
	return b.U.Multiply(a.X).Add(b.V.Multiply(a.Y)).Add(b.W.Multiply(a.Z))
}
