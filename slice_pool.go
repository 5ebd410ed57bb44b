package cfr

// floatSlicePool recycles the per-visit scratch vectors of a walk.
// It is not safe for concurrent use.
type floatSlicePool struct {
	pool [][]float64
}

// alloc returns a zeroed slice of length n.
func (p *floatSlicePool) alloc(n int) []float64 {
	if m := len(p.pool); m > 0 {
		next := p.pool[m-1]
		p.pool = p.pool[:m-1]
		if cap(next) >= n {
			next = next[:n]
			for i := range next {
				next[i] = 0
			}
			return next
		}
	}

	return make([]float64, n)
}

func (p *floatSlicePool) free(s []float64) {
	if cap(s) > 0 {
		p.pool = append(p.pool, s[:0])
	}
}
