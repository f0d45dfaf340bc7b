package security

// SlowEquals reports whether two byte slices are equal without short-circuiting
// on the first mismatch. The accumulator is seeded with the length difference,
// so unequal lengths fail after scanning the shorter input in full.
func SlowEquals(a, b []byte) bool {
	diff := uint32(len(a)) ^ uint32(len(b))
	for i := 0; i < len(a) && i < len(b); i++ {
		diff |= uint32(a[i]) ^ uint32(b[i])
	}
	return diff == 0
}
