package observability

import "testing"

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" x-api-key = abc ,broken, empty=, k=v")
	if len(got) != 2 || got["x-api-key"] != "abc" || got["k"] != "v" {
		t.Fatalf("parseHeaders: unexpected %v", got)
	}
	if parseHeaders("") != nil {
		t.Fatalf("parseHeaders: empty input should yield nil")
	}
}

func TestClampRatio(t *testing.T) {
	cases := map[float64]float64{-1: 0, 0.25: 0.25, 3: 1}
	for in, want := range cases {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v): want=%v got=%v", in, want, got)
		}
	}
}
