package cmd

import "testing"

func TestParseClueRange(t *testing.T) {
	tests := []struct {
		in       string
		min, max int
		wantErr  bool
	}{
		{"32", 32, 32, false},
		{" 28 ", 28, 28, false},
		{"28:32", 28, 32, false},
		{"30:30", 30, 30, false},
		{"32:28", 0, 0, true},
		{"abc", 0, 0, true},
		{"28:xyz", 0, 0, true},
		{"28:32:40", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			minVal, maxVal, err := parseClueRange(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseClueRange(%q) = (%d, %d), want error", tt.in, minVal, maxVal)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseClueRange(%q) failed: %v", tt.in, err)
			}
			if minVal != tt.min || maxVal != tt.max {
				t.Errorf("parseClueRange(%q) = (%d, %d), want (%d, %d)", tt.in, minVal, maxVal, tt.min, tt.max)
			}
		})
	}
}
