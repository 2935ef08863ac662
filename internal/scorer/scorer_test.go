package scorer

import "testing"

func TestScoreWeighting(t *testing.T) {
	s := New(DefaultWeights(), 4, 0)

	idle := Sample{LoadNormalized: 0, IowaitPercent: 0, NetUtilPercent: 0, MemPercent: 0}
	busy := Sample{LoadNormalized: 90, IowaitPercent: 40, NetUtilPercent: 60, MemPercent: 80}

	idleScore := s.Score(idle)
	busyScore := s.Score(busy)

	if idleScore != 0 {
		t.Errorf("expected idle score 0, got %f", idleScore)
	}
	if busyScore <= idleScore {
		t.Errorf("expected busy score > idle score, got busy=%f idle=%f", busyScore, idleScore)
	}
}

func TestScoreMatchesWeightedSum(t *testing.T) {
	weights := Weights{Load: 0.4, Iowait: 0.2, Net: 0.2, Mem: 0.2}
	s := New(weights, 4, 0)

	sample := Sample{LoadNormalized: 50, IowaitPercent: 10, NetUtilPercent: 20, MemPercent: 30}
	got := s.Score(sample)
	want := 0.4*50 + 0.2*10 + 0.2*20 + 0.2*30
	if got != want {
		t.Errorf("expected score %f, got %f", want, got)
	}
}

func TestClampPercent(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{-10, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{1000, 100},
	}
	for _, c := range cases {
		if got := clampPercent(c.in); got != c.want {
			t.Errorf("clampPercent(%f) = %f, want %f", c.in, got, c.want)
		}
	}
}
