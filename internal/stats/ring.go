package stats

// window is the number of one-second samples a Collector keeps.
const window = 60

// ring is a fixed window of per-second deltas, newest last.
type ring struct {
	buf  [window]int64
	next int
	n    int
}

func (r *ring) push(v int64) {
	r.buf[r.next] = v
	r.next = (r.next + 1) % window
	r.n = min(r.n+1, window)
}

// at returns the i-th newest sample, 0 being the latest.
func (r *ring) at(i int) int64 {
	return r.buf[(r.next-1-i+window)%window]
}

// mean averages the newest k samples, or all of them when fewer exist.
func (r *ring) mean(k int) float64 {
	k = min(k, r.n)
	if k <= 0 {
		return 0
	}
	var sum int64
	for i := range k {
		sum += r.at(i)
	}
	return float64(sum) / float64(k)
}

// tail returns the newest k samples, oldest first.
func (r *ring) tail(k int) []float64 {
	k = min(k, r.n)
	if k <= 0 {
		return nil
	}
	out := make([]float64, k)
	for i := range k {
		out[k-1-i] = float64(r.at(i))
	}
	return out
}
