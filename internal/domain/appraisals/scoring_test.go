package appraisals

import "testing"

func ptr(v float64) *float64 { return &v }

func TestOverallScore(t *testing.T) {
	criteria := []Criterion{
		{ID: "a", Weight: 2, MaxScore: 5},
		{ID: "b", Weight: 1, MaxScore: 5},
		{ID: "c", Weight: 0, MaxScore: 5},
	}
	cases := []struct {
		name      string
		responses []Response
		want      float64
	}{
		{"no responses", nil, 0},
		{"final wins over manager", []Response{{CriteriaID: "a", ManagerScore: ptr(1), FinalScore: ptr(4)}}, 4},
		{"weighted", []Response{{CriteriaID: "a", ManagerScore: ptr(5)}, {CriteriaID: "b", SelfScore: ptr(2)}}, 4},
		{"zero weight counts once", []Response{{CriteriaID: "b", FinalScore: ptr(3)}, {CriteriaID: "c", FinalScore: ptr(4)}}, 3.5},
		{"unknown criteria ignored", []Response{{CriteriaID: "zzz", FinalScore: ptr(5)}}, 0},
	}
	for _, tc := range cases {
		if got := OverallScore(criteria, tc.responses); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestStatusRankIsForwardOrder(t *testing.T) {
	for i := 1; i < len(statusOrder); i++ {
		if statusRank(statusOrder[i]) <= statusRank(statusOrder[i-1]) {
			t.Fatalf("%s should rank after %s", statusOrder[i], statusOrder[i-1])
		}
	}
	if statusRank("bogus") != -1 {
		t.Fatal("unknown status should rank -1")
	}
}
