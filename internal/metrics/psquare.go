package metrics

import "math"

// quantile implements the P² algorithm for streaming quantile estimation
// in O(1) time and space per observation, used here to track scheduler
// task execution latency.
//
// Reference: Jain & Chlamtac (1985), "The P² Algorithm for Dynamic
// Calculation of Quantiles and Histograms Without Storing Observations".
//
// Not safe for concurrent use; callers serialize access (see Counters).
type quantile struct {
	p          float64
	q          [5]float64
	n          [5]int
	np         [5]float64
	dn         [5]float64
	count      int
	initBuffer [5]float64
}

func newQuantile(p float64) *quantile {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return &quantile{
		p:  p,
		dn: [5]float64{0, p / 2, p, (1 + p) / 2, 1},
	}
}

func (q *quantile) update(x float64) {
	q.count++
	if q.count <= 5 {
		q.initBuffer[q.count-1] = x
		if q.count == 5 {
			q.initializeMarkers()
		}
		return
	}

	var k int
	switch {
	case x < q.q[0]:
		q.q[0] = x
		k = 0
	case x >= q.q[4]:
		q.q[4] = x
		k = 3
	default:
		k = 3
		for i := 1; i < 4; i++ {
			if x < q.q[i] {
				k = i - 1
				break
			}
		}
	}

	for i := k + 1; i < 5; i++ {
		q.n[i]++
	}
	for i := 0; i < 5; i++ {
		q.np[i] += q.dn[i]
	}

	for i := 1; i < 4; i++ {
		d := q.np[i] - float64(q.n[i])
		if (d >= 1 && q.n[i+1]-q.n[i] > 1) || (d <= -1 && q.n[i-1]-q.n[i] < -1) {
			sign := 1
			if d < 0 {
				sign = -1
			}
			qNew := q.parabolic(i, sign)
			if q.q[i-1] < qNew && qNew < q.q[i+1] {
				q.q[i] = qNew
			} else {
				q.q[i] = q.linear(i, sign)
			}
			q.n[i] += sign
		}
	}
}

func (q *quantile) initializeMarkers() {
	sorted := q.initBuffer
	for i := 1; i < 5; i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	for i := 0; i < 5; i++ {
		q.q[i] = sorted[i]
		q.n[i] = i + 1
	}
	for i := 0; i < 5; i++ {
		q.np[i] = 1 + 4*q.dn[i]
	}
}

func (q *quantile) parabolic(i, sign int) float64 {
	d := float64(sign)
	return q.q[i] + d/float64(q.n[i+1]-q.n[i-1])*
		((float64(q.n[i]-q.n[i-1])+d)*(q.q[i+1]-q.q[i])/float64(q.n[i+1]-q.n[i])+
			(float64(q.n[i+1]-q.n[i])-d)*(q.q[i]-q.q[i-1])/float64(q.n[i]-q.n[i-1]))
}

func (q *quantile) linear(i, sign int) float64 {
	d := float64(sign)
	return q.q[i] + d*(q.q[i+int(d)]-q.q[i])/float64(q.n[i+int(d)]-q.n[i])
}

func (q *quantile) value() float64 {
	if q.count == 0 {
		return 0
	}
	if q.count <= 5 {
		sorted := q.initBuffer
		n := q.count
		for i := 1; i < n; i++ {
			for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
				sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
			}
		}
		idx := int(math.Round(q.p * float64(n-1)))
		return sorted[idx]
	}
	return q.q[2]
}
