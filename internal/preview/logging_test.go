package preview

import "testing"

func TestParseLogPolicy(t *testing.T) {
	for _, valid := range []string{"none", "errors", "all"} {
		if _, ok := ParseLogPolicy(valid); !ok {
			t.Errorf("ParseLogPolicy(%q) rejected a valid policy", valid)
		}
	}
	for _, invalid := range []string{"", "verbose", "NONE", "error"} {
		if _, ok := ParseLogPolicy(invalid); ok {
			t.Errorf("ParseLogPolicy(%q) accepted an invalid policy", invalid)
		}
	}
}

func TestShouldLogRequest(t *testing.T) {
	tests := []struct {
		policy LogPolicy
		status int
		want   bool
	}{
		{LogNone, 200, false},
		{LogNone, 500, false},
		{LogNone, 0, false},
		{LogErrors, 200, false},
		{LogErrors, 304, false},
		{LogErrors, 404, true},
		{LogErrors, 500, true},
		{LogErrors, 0, true},
		{LogAll, 200, true},
		{LogAll, 404, true},
		{LogAll, 0, true},
	}
	for _, tt := range tests {
		if got := shouldLogRequest(tt.policy, tt.status); got != tt.want {
			t.Errorf("shouldLogRequest(%q, %d) = %v, want %v", tt.policy, tt.status, got, tt.want)
		}
	}
}
