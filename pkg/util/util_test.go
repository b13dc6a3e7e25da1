package util

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want string
	}{
		{"string", "abc", "abc"},
		{"string with padding", "  n42\t", "n42"},
		{"int", 42, "42"},
		{"int64", int64(9007199254740993), "9007199254740993"},
		{"uint64", uint64(18446744073709551615), "18446744073709551615"},
		{"integral float keeps no fraction", 25.0, "25"},
		{"negative integral float", -3.0, "-3"},
		{"fractional float", 2.5, "2.5"},
		{"zero", 0.0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeID(tt.raw))
		})
	}
}

func TestNormalizeIDNumericTextEquivalence(t *testing.T) {
	// "25", 25 and 25.0 must all canonicalize to one id
	assert.Equal(t, NormalizeID("25"), NormalizeID(25))
	assert.Equal(t, NormalizeID(25), NormalizeID(25.0))
}

func TestReverseG(t *testing.T) {
	original := []string{"a", "b", "c"}
	got := ReverseG(original)

	assert.Equal(t, []string{"c", "b", "a"}, got)
	assert.Equal(t, []string{"a", "b", "c"}, original, "input must not be mutated")

	assert.Empty(t, ReverseG([]int{}))
	assert.Equal(t, []int{7}, ReverseG([]int{7}))
}

func TestWrapErrorfCode(t *testing.T) {
	orig := errors.New("disk read failed")
	err := WrapErrorf(orig, ErrDataUnavailable, "loading snapshot %s", "x.graph")

	var domainErr *Error
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, ErrDataUnavailable, domainErr.Code())
	assert.Equal(t, "loading snapshot x.graph", err.Error())
	assert.Equal(t, orig, errors.Unwrap(err))
}

func TestStopConcurrentOperation(t *testing.T) {
	assert.False(t, StopConcurrentOperation(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, StopConcurrentOperation(ctx))
}
