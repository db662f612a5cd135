package cmd

import "testing"

func TestValidCadence(t *testing.T) {
	tests := []struct {
		seconds int
		err     bool
	}{
		{10, false},
		{30, false},
		{60, false},
		{0, true},
		{15, true},
		{-10, true},
		{3600, true},
	}

	for _, tt := range tests {
		err := validCadence(tt.seconds)
		if tt.err && err == nil {
			t.Errorf("validCadence(%d): expected error, got nil", tt.seconds)
		}
		if !tt.err && err != nil {
			t.Errorf("validCadence(%d): unexpected error: %v", tt.seconds, err)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
