package handlers

import "testing"

func TestLowerCamel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Email", "email"},
		{"ProductID", "productID"},
		{"name", "name"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := lowerCamel(tt.in); got != tt.want {
			t.Errorf("lowerCamel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
