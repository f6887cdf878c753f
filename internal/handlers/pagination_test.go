package handlers

import "testing"

func TestParsePaginationParams(t *testing.T) {
	tests := []struct {
		name      string
		pageStr   string
		limitStr  string
		wantPage  int64
		wantLimit int64
		wantErr   bool
	}{
		{name: "defaults", wantPage: 1, wantLimit: 12},
		{name: "explicit", pageStr: "3", limitStr: "24", wantPage: 3, wantLimit: 24},
		{name: "limit at max", pageStr: "1", limitStr: "100", wantPage: 1, wantLimit: 100},
		{name: "limit over max", limitStr: "101", wantErr: true},
		{name: "zero page", pageStr: "0", wantErr: true},
		{name: "negative page", pageStr: "-1", wantErr: true},
		{name: "garbage page", pageStr: "abc", wantErr: true},
		{name: "zero limit", limitStr: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit, err := parsePaginationParams(tt.pageStr, tt.limitStr)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if page != tt.wantPage || limit != tt.wantLimit {
				t.Errorf("got page=%d limit=%d, want page=%d limit=%d", page, limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}
