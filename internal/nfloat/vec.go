package nfloat

// Vector helpers apply an operation elementwise and OR the statuses. The
// destination may be one of the sources. They panic on length mismatch.

func checkLen(op string, n int, others ...int) {
	for _, m := range others {
		if m != n {
			panic("nfloat: " + op + " of vectors with different lengths")
		}
	}
}

// VecSet copies x into z.
func (c *Context) VecSet(z, x []Float) {
	checkLen("VecSet", len(z), len(x))
	for i := range z {
		c.Set(&z[i], &x[i])
	}
}

// VecAdd sets z[i] = x[i] + y[i].
func (c *Context) VecAdd(z, x, y []Float) Status {
	checkLen("VecAdd", len(z), len(x), len(y))
	var st Status
	for i := range z {
		st |= c.Add(&z[i], &x[i], &y[i])
	}
	return st
}

// VecSub sets z[i] = x[i] - y[i].
func (c *Context) VecSub(z, x, y []Float) Status {
	checkLen("VecSub", len(z), len(x), len(y))
	var st Status
	for i := range z {
		st |= c.Sub(&z[i], &x[i], &y[i])
	}
	return st
}

// VecMulScalar sets z[i] = x[i] × s.
func (c *Context) VecMulScalar(z, x []Float, s *Float) Status {
	checkLen("VecMulScalar", len(z), len(x))
	t := *s // s may be an element of z
	var st Status
	for i := range z {
		st |= c.Mul(&z[i], &x[i], &t)
	}
	return st
}

// VecAddMulScalar sets z[i] = z[i] + x[i] × s, each with a single rounding.
func (c *Context) VecAddMulScalar(z, x []Float, s *Float) Status {
	checkLen("VecAddMulScalar", len(z), len(x))
	t := *s
	var st Status
	for i := range z {
		st |= c.AddMul(&z[i], &x[i], &t)
	}
	return st
}

// VecSum sets z to the sum of x, rounded once.
func (c *Context) VecSum(z *Float, x []Float) Status {
	var one Float
	c.One(&one)
	return dispatch(c, z, nil, scaledTerms{x: x, s: &one})
}

// scaledTerms is the sequence x[i] × s.
type scaledTerms struct {
	x []Float
	s *Float
}

func (t scaledTerms) len() int { return len(t.x) }

func (t scaledTerms) term(i int) (*Float, *Float, bool) { return &t.x[i], t.s, false }
