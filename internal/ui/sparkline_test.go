package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparkline(t *testing.T) {
	tests := []struct {
		name  string
		data  []float64
		width int
		want  string
	}{
		{"no samples", nil, 4, "▁▁▁▁"},
		{"idle", []float64{0, 0, 0}, 3, "▁▁▁"},
		{"single sample padded", []float64{250}, 4, "▁▁▁█"},
		{"ramp", []float64{0, 1, 2, 3, 4, 5, 6, 7}, 8, "▁▂▃▄▅▆▇█"},
		{"flat", []float64{9, 9, 9}, 3, "███"},
		{"keeps newest", []float64{100, 0, 7}, 2, "▁█"},
		{"no width", []float64{1, 2}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sparkline(tt.data, tt.width)
			assert.Equal(t, tt.want, got)
			assert.Len(t, []rune(got), tt.width)
		})
	}
}

func TestTermWidthNonTerminal(t *testing.T) {
	assert.Zero(t, TermWidth(&bytes.Buffer{}))
}
