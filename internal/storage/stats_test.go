package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestBlendAverage(t *testing.T) {
	tests := []struct {
		name         string
		prior        *uint
		priorAnswers uint
		gameAvg      uint
		gameAnswers  uint
		want         uint
	}{
		{"no prior takes the game average", nil, 0, 7, 3, 7},
		{"equal weights take the midpoint", uintPtr(4), 10, 8, 10, 6},
		{"heavier prior dominates", uintPtr(4), 30, 8, 10, 5},
		{"rounds half up", uintPtr(4), 10, 5, 10, 5},
		{"zero totals keep the prior", uintPtr(6), 0, 0, 0, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, blendAverage(tt.prior, tt.priorAnswers, tt.gameAvg, tt.gameAnswers))
		})
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, uint(150), clampScore(100, 50))
	assert.Equal(t, uint(50), clampScore(100, -50))
	assert.Equal(t, uint(0), clampScore(100, -100))
	assert.Equal(t, uint(0), clampScore(30, -50))
	assert.Equal(t, uint(0), clampScore(0, -20))
}
