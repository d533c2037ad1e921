package common

import "testing"

func TestEqualsAny(t *testing.T) {
	cases := []struct {
		s          string
		candidates []string
		want       bool
	}{
		{"高风险", []string{"高风险", "High"}, true},
		{"High", []string{"高风险", "High"}, true},
		{"中高风险", []string{"高风险", "High"}, false},
		{"HIGH", []string{"高风险", "High"}, false},
		{"低风险", []string{"高风险", "High"}, false},
		{"", nil, false},
	}
	for _, tc := range cases {
		if got := EqualsAny(tc.s, tc.candidates...); got != tc.want {
			t.Errorf("EqualsAny(%q, %v) = %v, want %v", tc.s, tc.candidates, got, tc.want)
		}
	}
}
