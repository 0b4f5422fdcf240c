// Package preview turns raw semantic cache fields into short human-readable
// previews. The field layouts are owned by the gateway policy that writes
// them, so decoding is best effort and never fails.
package preview

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
)

const (
	// VectorPlaceholder is shown when no float can be read from a vector field.
	VectorPlaceholder = "[binary vector data]"

	vectorPreviewLen = 5
	float32Size      = 4
)

// Vector formats the first few little-endian float32 values of a vector field
// as "[v1, v2, ..., ...]".
func Vector(field []byte) string {
	n := min(vectorPreviewLen, len(field)/float32Size)
	if n == 0 {
		return VectorPlaceholder
	}

	parts := make([]string, 0, n+1)
	for i := range n {
		bits := binary.LittleEndian.Uint32(field[i*float32Size:])
		f := math.Float32frombits(bits)
		parts = append(parts, strconv.FormatFloat(float64(f), 'f', 6, 64))
	}
	parts = append(parts, "...")
	return "[" + strings.Join(parts, ", ") + "]"
}

// VectorDimensions returns the number of whole float32 values in field and
// whether the length is an exact multiple of four bytes.
func VectorDimensions(field []byte) (int, bool) {
	return len(field) / float32Size, len(field)%float32Size == 0
}
