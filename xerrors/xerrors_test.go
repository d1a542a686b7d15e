package xerrors

import (
	"errors"
	"testing"
)

func TestWrapf(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		if Wrapf(nil, "context %d", 1) != nil {
			t.Error("Expected nil for nil error")
		}
	})

	t.Run("preserves chain", func(t *testing.T) {
		err := Wrapf(ErrNotFound, "schema %s", "s1")
		if !errors.Is(err, ErrNotFound) {
			t.Error("Expected errors.Is to match sentinel")
		}
		if err.Error() != "schema s1: not found" {
			t.Errorf("Unexpected message: %s", err.Error())
		}
	})
}

func TestWithCode(t *testing.T) {
	err := WithCode(ErrInvalidInput, "worker_id_out_of_range")
	if GetCode(err) != "worker_id_out_of_range" {
		t.Errorf("GetCode = %q", GetCode(err))
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("Expected errors.Is to traverse CodedError")
	}
	if GetCode(ErrNotFound) != "" {
		t.Error("Expected empty code for plain error")
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name    string
		errs    []error
		wantNil bool
		wantOne bool
	}{
		{name: "all nil", errs: []error{nil, nil}, wantNil: true},
		{name: "single error", errs: []error{nil, ErrNotFound}, wantOne: true},
		{name: "multiple errors", errs: []error{ErrNotFound, ErrInternal}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Combine(tt.errs...)
			if tt.wantNil {
				if err != nil {
					t.Errorf("Expected nil, got %v", err)
				}
				return
			}
			if tt.wantOne {
				if err != ErrNotFound {
					t.Errorf("Expected the single error, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrNotFound) || !errors.Is(err, ErrInternal) {
				t.Error("Expected MultiError to match both members")
			}
		})
	}
}
