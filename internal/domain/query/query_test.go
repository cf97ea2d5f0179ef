package query

import "testing"

func TestModalityMatches(t *testing.T) {
	tests := []struct {
		record, queried string
		want            bool
	}{
		{"CT", "CT", true},
		{"ct", "CT", true},
		{"PET/CT", "PET", true},
		{"PET/CT", "pet ct", true},
		{"PET CT", "PET/CT", true},
		{"CT", "MRI", false},
		{"", "CT", false},
		{"CT", "", false},
	}
	for _, tc := range tests {
		if got := ModalityMatches(tc.record, tc.queried); got != tc.want {
			t.Errorf("ModalityMatches(%q, %q) = %v, want %v", tc.record, tc.queried, got, tc.want)
		}
	}
}
