package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("Whole Milk 1L", "SKU-1", "012345678905", "0401", "ref-9")
	b := Fingerprint("Whole Milk 1L", "SKU-1", "012345678905", "0401", "ref-9")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprintFieldSensitivity(t *testing.T) {
	base := Fingerprint("milk", "s", "u", "h", "r")

	assert.NotEqual(t, base, Fingerprint("milk!", "s", "u", "h", "r"))
	assert.NotEqual(t, base, Fingerprint("milk", "s2", "u", "h", "r"))
	assert.NotEqual(t, base, Fingerprint("milk", "s", "u2", "h", "r"))
	assert.NotEqual(t, base, Fingerprint("milk", "s", "u", "h2", "r"))
	assert.NotEqual(t, base, Fingerprint("milk", "s", "u", "h", "r2"))
}

func TestFingerprintFieldBoundaries(t *testing.T) {
	// Without length prefixes ("ab", "") and ("a", "b") would concatenate
	// to the same bytes.
	a := Fingerprint("ab", "", "", "", "")
	b := Fingerprint("a", "b", "", "", "")
	assert.NotEqual(t, a, b)

	c := Fingerprint("", "ab", "", "", "")
	assert.NotEqual(t, a, c)
}

func TestFingerprintEmptyFields(t *testing.T) {
	a := Fingerprint("milk", "", "", "", "")
	b := Fingerprint("milk", "", "", "", "")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Fingerprint("", "", "", "", ""))
}
