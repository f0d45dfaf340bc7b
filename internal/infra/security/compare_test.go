package security

import (
	"bytes"
	"testing"
)

func TestSlowEqualsEqualInputs(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		[]byte("a"),
		[]byte("the quick brown fox"),
		bytes.Repeat([]byte{0xff}, 64),
	}

	for _, c := range cases {
		if !SlowEquals(c, append([]byte(nil), c...)) {
			t.Fatalf("SlowEquals returned false for equal inputs %q", c)
		}
	}
}

func TestSlowEqualsSingleByteDifference(t *testing.T) {
	base := []byte("0123456789abcdef0123456789abcdef")

	for i := range base {
		altered := append([]byte(nil), base...)
		altered[i] ^= 0x01

		if SlowEquals(base, altered) {
			t.Fatalf("SlowEquals returned true for inputs differing at offset %d", i)
		}
	}
}

func TestSlowEqualsLengthMismatch(t *testing.T) {
	if SlowEquals([]byte("abc"), []byte("abcd")) {
		t.Fatal("SlowEquals returned true for prefix of longer input")
	}
	if SlowEquals([]byte("abcd"), []byte("abc")) {
		t.Fatal("SlowEquals returned true for longer input against prefix")
	}
	if SlowEquals([]byte("abc"), nil) {
		t.Fatal("SlowEquals returned true comparing against nil")
	}
}
