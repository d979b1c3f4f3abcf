package vec_test

import (
	"math"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ideabank/ideabank/pkg/utils/vec"
)

func TestEncodeDecode(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		original := []float32{1.5, -2.25, 0, 3.125}

		blob, err := vec.Encode(original)
		gt.NoError(t, err).Required()
		gt.Number(t, len(blob)).Equal(4 + 4*len(original))

		decoded, err := vec.Decode(blob)
		gt.NoError(t, err).Required()
		gt.Value(t, decoded).Equal(original)
	})

	t.Run("empty vector roundtrip", func(t *testing.T) {
		blob, err := vec.Encode([]float32{})
		gt.NoError(t, err).Required()

		decoded, err := vec.Decode(blob)
		gt.NoError(t, err).Required()
		gt.Array(t, decoded).Length(0)
	})

	t.Run("rejects nil vector", func(t *testing.T) {
		_, err := vec.Encode(nil)
		gt.Error(t, err)
	})

	t.Run("rejects short blob", func(t *testing.T) {
		_, err := vec.Decode([]byte{1, 2})
		gt.Error(t, err)
	})

	t.Run("rejects truncated blob", func(t *testing.T) {
		blob, err := vec.Encode([]float32{1, 2, 3})
		gt.NoError(t, err).Required()

		_, err = vec.Decode(blob[:len(blob)-2])
		gt.Error(t, err)
	})
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"orthogonal", []float32{1, 0, 0}, []float32{0, 1, 0}, 0},
		{"opposite", []float32{1, 0, 0}, []float32{-1, 0, 0}, -1},
		{"diagonal", []float32{1, 0, 0}, []float32{1, 1, 0}, 1 / math.Sqrt2},
		{"scale invariant", []float32{2, 4, 6}, []float32{1, 2, 3}, 1},
		{"dimension mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"zero vector", []float32{0, 0, 0}, []float32{1, 0, 0}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := vec.CosineSimilarity(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-6 {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
