package domain

import "testing"

func TestLookupStateTerminal(t *testing.T) {
	tests := []struct {
		state LookupState
		want  bool
	}{
		{StateIdle, false},
		{StateResolving, false},
		{StateFetching, false},
		{StatePresented, true},
		{StateFailed, true},
	}

	for _, tt := range tests {
		if got := tt.state.Terminal(); got != tt.want {
			t.Errorf("%s.Terminal() = %v, want %v", tt.state, got, tt.want)
		}
	}
}
