package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"main,master", []string{"main", "master"}},
		{" main , master ", []string{"main", "master"}},
		{"svcA,,svcB,", []string{"svcA", "svcB"}},
		{"single", []string{"single"}},
		{"", nil},
		{" , ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.input))
		})
	}
}
