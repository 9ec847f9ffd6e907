package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// InputFingerprint hashes the raw inputs of a comparison in their given order.
// Values are written with the shortest round-trip formatting so the same
// inputs always yield the same fingerprint. Options are non-numeric settings
// that change the results, written in the order given.
func InputFingerprint(groups [][]float64, counts [][2]int, params []float64, options ...string) Hash {
	var data strings.Builder
	for _, g := range groups {
		data.WriteString("g:")
		for _, v := range g {
			data.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			data.WriteByte(',')
		}
		data.WriteByte(';')
	}
	for _, c := range counts {
		data.WriteString("c:")
		data.WriteString(strconv.Itoa(c[0]))
		data.WriteByte('/')
		data.WriteString(strconv.Itoa(c[1]))
		data.WriteByte(';')
	}
	data.WriteString("p:")
	for _, p := range params {
		data.WriteString(strconv.FormatFloat(p, 'g', -1, 64))
		data.WriteByte(',')
	}
	for _, o := range options {
		data.WriteString(";o:")
		data.WriteString(strconv.Quote(o))
	}
	return NewHash([]byte(data.String()))
}
