package light

// Attenuation is the distance attenuation model of a light. The set of models
// is closed: Constant, Quadratic and Spherical.
//
// Coefficients returns the four values the shader evaluates as
// 1 / (c0 + c1*d + c2*d*d), with c3 unused.
type Attenuation interface {
	Coefficients() [4]float32
	attenuation()
}

// Constant is attenuation that does not vary with distance.
type Constant struct {
	Intensity float32
}

// Quadratic is the classic constant/linear/quadratic attenuation.
type Quadratic struct {
	K0, K1, K2 float32
}

// Spherical is attenuation of a light with a soft radius Distance.
type Spherical struct {
	Intensity float32
	Distance  float32
}

// Coefficients returns (1/intensity, 0, 0, 0).
func (c Constant) Coefficients() [4]float32 {
	return [4]float32{1 / c.Intensity, 0, 0, 0}
}

// Coefficients returns (k0, k1, k2, 0).
func (q Quadratic) Coefficients() [4]float32 {
	return [4]float32{q.K0, q.K1, q.K2, 0}
}

// Coefficients returns (1/intensity, 2/distance, 1/distance², 0).
func (s Spherical) Coefficients() [4]float32 {
	return [4]float32{
		1 / s.Intensity,
		2 / s.Distance,
		1 / (s.Distance * s.Distance),
		0,
	}
}

func (Constant) attenuation()  {}
func (Quadratic) attenuation() {}
func (Spherical) attenuation() {}
