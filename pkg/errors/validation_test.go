package errors

import (
	"strings"
	"testing"
)

func TestValidateKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "tree", false},
		{"with digit", "fern2", false},
		{"with dash", "levy-c", false},

		{"empty", "", true},
		{"uppercase", "Tree", true},
		{"leading digit", "2tree", true},
		{"path traversal", "../tree", true},
		{"space", "my tree", true},
		{"too long", strings.Repeat("a", 40), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidKind) {
				t.Errorf("ValidateKind(%q) code = %q, want %q", tt.input, GetCode(err), ErrCodeInvalidKind)
			}
		})
	}
}

func TestValidateIntRange(t *testing.T) {
	tests := []struct {
		v       int
		wantErr string
	}{
		{2500, ""},
		{6400, ""},
		{4000, ""},
		{2499, "below the minimum 2500"},
		{6401, "above the maximum 6400"},
	}

	for _, tt := range tests {
		err := ValidateIntRange("count", tt.v, 2500, 6400)
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("ValidateIntRange(%d) unexpected error: %v", tt.v, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("ValidateIntRange(%d) expected error", tt.v)
			continue
		}
		if !Is(err, ErrCodeInvalidArgument) {
			t.Errorf("ValidateIntRange(%d) code = %q", tt.v, GetCode(err))
		}
		if !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("ValidateIntRange(%d) = %q, want substring %q", tt.v, err.Error(), tt.wantErr)
		}
	}
}
