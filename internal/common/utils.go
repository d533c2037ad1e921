package common

// EqualsAny returns true if s is exactly one of the candidates.
func EqualsAny(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
