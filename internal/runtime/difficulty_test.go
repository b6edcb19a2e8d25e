package runtime_test

import (
	"testing"

	"github.com/aretw0/interviewer/internal/runtime"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestAdjustDifficulty(t *testing.T) {
	tests := []struct {
		current int
		quality domain.Quality
		want    int
	}{
		{1, domain.QualityStrong, 2},
		{2, domain.QualityStrong, 3},
		{3, domain.QualityStrong, 3},
		{3, domain.QualityWeak, 2},
		{1, domain.QualityWeak, 1},
		{2, domain.QualityOK, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, runtime.AdjustDifficulty(tt.current, tt.quality, 1, 3), "%d/%s", tt.current, tt.quality)
	}
}

func TestAdjustDifficulty_StaysInBounds(t *testing.T) {
	qualities := []domain.Quality{domain.QualityWeak, domain.QualityOK, domain.QualityStrong}

	// Every sequence of six labels.
	const length = 6
	total := 1
	for i := 0; i < length; i++ {
		total *= len(qualities)
	}
	for n := 0; n < total; n++ {
		d := 1
		code := n
		for i := 0; i < length; i++ {
			d = runtime.AdjustDifficulty(d, qualities[code%3], 1, 3)
			code /= 3
			if d < 1 || d > 3 {
				t.Fatalf("sequence %d left bounds: %d", n, d)
			}
		}
	}
}
