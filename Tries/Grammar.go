package Tries

import (
	"errors"
	"fmt"
)

// Case selects whether a Grammar folds letters before lookup.
type Case byte

const (
	Sensitive Case = iota
	Insensitive
)

// ErrSymbol is wrapped by the errors an Alphabet returns for symbols outside
// its configured set.
var ErrSymbol = errors.New("Tries: symbol not in alphabet")

// Alphabet maps symbols to dense branch indices for a Trie. Index must be
// deterministic and return values in [0, Arity()); for symbols outside the
// alphabet it returns an error wrapping ErrSymbol instead.
type Alphabet interface {
	Index(r rune) (int, error)
	Arity() int
}

// Grammar is the map-backed Alphabet over an explicit symbol set, optionally
// folding ASCII letter case.
type Grammar struct {
	index map[rune]int
	syms  []rune
	sense Case
}

// From builds a Grammar over the distinct symbols of syms; symbols that
// collide after case folding share an index.
func From(syms string, sense Case) Grammar {
	u := Grammar{index: make(map[rune]int), sense: sense}
	for _, r := range syms {
		r = u.fold(r)
		if _, in := u.index[r]; !in {
			u.index[r] = len(u.syms)
			u.syms = append(u.syms, r)
		}
	}
	return u
}

// Lowercase returns the default Grammar: a-z, case folded.
func Lowercase() Grammar {
	return From("abcdefghijklmnopqrstuvwxyz", Insensitive)
}

func (u Grammar) fold(r rune) rune {
	if u.sense == Insensitive && 'A' <= r && r <= 'Z' {
		return r + 'a' - 'A'
	}
	return r
}

func (u Grammar) Index(r rune) (int, error) {
	i, in := u.index[u.fold(r)]
	if !in {
		return 0, fmt.Errorf("%w: %q", ErrSymbol, r)
	}
	return i, nil
}

func (u Grammar) Arity() int {
	return len(u.syms)
}

// Symbols returns the alphabet in index order.
func (u Grammar) Symbols() []rune {
	return append([]rune(nil), u.syms...)
}

func (u Grammar) String() string {
	return string(u.syms)
}
