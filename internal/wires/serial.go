package wires

import "math"

const (
	serialLength    = 9
	serialSeparator = '-'

	// alternateSerialChance is the probability of drawing serial letters
	// from alternateSerialLetters instead of A-Z.
	alternateSerialChance = 0.01
)

var alternateSerialLetters = []rune("БГДЖЗИЙЛПФЦЧШЩЭЮ")

// GenerateSerialNumber returns a serial of the form "ABCD-1234".
// One in a hundred serials uses Cyrillic letters instead of A-Z.
func GenerateSerialNumber(r Rand) string {
	data := make([]rune, serialLength)
	data[4] = serialSeparator

	alternate := r.Float64() < alternateSerialChance
	for i := 0; i < 4; i++ {
		if alternate {
			data[i] = alternateSerialLetters[r.IntN(len(alternateSerialLetters))]
		} else {
			data[i] = rune('A' + r.IntN(26))
		}
	}
	for i := 5; i < serialLength; i++ {
		data[i] = rune('0' + r.IntN(10))
	}
	return string(data)
}

// generateSeed returns a non-zero seed in [1, MaxInt32).
func generateSeed(r Rand) uint64 {
	return uint64(r.IntN(math.MaxInt32-1)) + 1
}
