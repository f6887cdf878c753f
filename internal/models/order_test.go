package models

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{StatusProcessing, StatusConfirmed, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusShipped, false},
		{StatusConfirmed, StatusShipped, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusReturnRequested, true},
		{StatusDelivered, StatusProcessing, false},
		{StatusReturnRequested, StatusReturned, true},
		{StatusCancelled, StatusProcessing, false},
		{StatusReturned, StatusDelivered, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{
		StatusProcessing, StatusConfirmed, StatusShipped,
		StatusDelivered, StatusCancelled, StatusReturned, StatusReturnRequested,
	} {
		if !ValidStatus(status) {
			t.Errorf("ValidStatus(%q) = false", status)
		}
	}

	for _, status := range []string{"", "PROCESSING", "unknown", "refunded"} {
		if ValidStatus(status) {
			t.Errorf("ValidStatus(%q) = true", status)
		}
	}
}

func TestTerminalStatusesHaveNoEdges(t *testing.T) {
	for _, terminal := range []string{StatusCancelled, StatusReturned} {
		for status := range statusTransitions {
			if CanTransition(terminal, status) {
				t.Errorf("terminal status %q can transition to %q", terminal, status)
			}
		}
	}
}
