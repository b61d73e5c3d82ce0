package metrics

import "testing"

func TestQuantile_Median(t *testing.T) {
	q := newQuantile(0.5)
	for i := 1; i <= 1000; i++ {
		q.update(float64(i))
	}
	got := q.value()
	if got < 450 || got > 550 {
		t.Errorf("p50 of 1..1000 = %f, want roughly 500", got)
	}
}

func TestQuantile_FewerThanFiveSamples(t *testing.T) {
	q := newQuantile(0.5)
	q.update(10)
	q.update(30)
	q.update(20)
	got := q.value()
	if got != 20 {
		t.Errorf("p50 of {10,30,20} before the marker buffer fills = %f, want 20", got)
	}
}

func TestQuantile_EmptyIsZero(t *testing.T) {
	q := newQuantile(0.9)
	if got := q.value(); got != 0 {
		t.Errorf("value() on an empty quantile = %f, want 0", got)
	}
}
