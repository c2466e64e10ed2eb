package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title    string `validate:"required,notblank,min=3,max=10"`
	Severity string `validate:"omitempty,oneof=LOW HIGH"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name   string
		in     sample
		reason string
		param  string
	}{
		{name: "valid", in: sample{Title: "hello"}},
		{name: "missing", in: sample{}, reason: "required"},
		{name: "blank", in: sample{Title: "     "}, reason: "notblank"},
		{name: "short", in: sample{Title: "ab"}, reason: "min", param: "3"},
		{name: "long", in: sample{Title: "far too long"}, reason: "max", param: "10"},
		{name: "enum", in: sample{Title: "hello", Severity: "MEDIUM"}, reason: "oneof", param: "LOW HIGH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}

			require.True(t, IsValidationError(err))
			var ve *Error
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.reason, ve.Reason)
			assert.Equal(t, tt.param, ve.Param)
			if tt.reason == "oneof" {
				assert.Equal(t, "severity", ve.Field)
			} else {
				assert.Equal(t, "title", ve.Field)
			}
		})
	}
}

func TestIsValidationError(t *testing.T) {
	assert.False(t, IsValidationError(errors.New("boom")))
	assert.False(t, IsValidationError(nil))
}
