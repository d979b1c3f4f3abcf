// Package vec provides the float32 vector blob codec and similarity math
// shared by the storage backends.
package vec

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/m-mizutani/goerr/v2"
)

// Encode converts a float32 vector to a little-endian byte blob,
// prefixed with the element count as int32.
func Encode(vector []float32) ([]byte, error) {
	if vector == nil {
		return nil, goerr.New("vector must not be nil")
	}

	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, int32(len(vector))); err != nil {
		return nil, goerr.Wrap(err, "failed to encode vector length")
	}
	for _, v := range vector {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return nil, goerr.Wrap(err, "failed to encode vector value")
		}
	}

	return buf.Bytes(), nil
}

// Decode converts an encoded blob back to a float32 vector.
func Decode(data []byte) ([]float32, error) {
	if len(data) < 4 {
		return nil, goerr.New("vector blob is too short", goerr.V("size", len(data)))
	}

	buf := bytes.NewReader(data)
	var length int32
	if err := binary.Read(buf, binary.LittleEndian, &length); err != nil {
		return nil, goerr.Wrap(err, "failed to decode vector length")
	}
	if length < 0 {
		return nil, goerr.New("invalid vector length", goerr.V("length", length))
	}
	if buf.Len() < int(length)*4 {
		return nil, goerr.New("vector blob is truncated",
			goerr.V("length", length), goerr.V("remaining", buf.Len()))
	}

	vector := make([]float32, length)
	for i := int32(0); i < length; i++ {
		if err := binary.Read(buf, binary.LittleEndian, &vector[i]); err != nil {
			return nil, goerr.Wrap(err, "failed to decode vector value", goerr.V("index", i))
		}
	}

	return vector, nil
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Mismatched dimensions or zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}
