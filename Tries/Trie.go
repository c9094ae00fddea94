// Package Tries implements a concurrent prefix tree over an Arenas node
// table, keyed by sequences encoded through a pluggable Alphabet.
package Tries

import (
	"errors"
	"sync/atomic"

	"github.com/g-m-twostay/go-arbor/Arenas"
)

var (
	ErrExists   = errors.New("Tries: sequence already present")
	ErrNotFound = errors.New("Tries: sequence not present")

	// errDetached reports that a concurrent Delete pruned the node a writer
	// was about to mutate; the writer restarts from the root.
	errDetached = errors.New("Tries: node pruned mid walk")
)

// branch is one trie node: an optional payload plus one child slot per
// alphabet index. terminal marks the payload present; 0 marks an absent
// child, since Arenas never issues Id 0.
type branch[V any] struct {
	payload  V
	terminal bool
	kids     []Arenas.Id
}

// prunable nodes carry no payload and no children; Delete removes them on
// its way back up so no empty chains outlive a key.
func (u *branch[V]) prunable() bool {
	if u.terminal {
		return false
	}
	for _, kid := range u.kids {
		if kid != 0 {
			return false
		}
	}
	return true
}

// Trie is a prefix tree storing one V per distinct sequence, safe for
// concurrent use. Unlike Quads.PointQuad it releases each node's lock before
// descending, so operations contend only on the nodes of their shared
// prefix. No operation spans several node locks atomically; the one
// cross-node hazard this opens, a writer landing in a subtree a Delete just
// pruned, is closed by re-checking the node is still in the arena under its
// write lock and restarting the walk when it isn't. Pruned nodes are never
// mutated again, so they stay empty and ids are never revived.
type Trie[V any] struct {
	arena *Arenas.Arena[branch[V]]
	abc   Alphabet
	root  Arenas.Id
	size  atomic.Uintptr
}

// Make returns an empty Trie branching over abc's alphabet.
func Make[V any](abc Alphabet) *Trie[V] {
	u := &Trie[V]{arena: Arenas.Make[branch[V]](), abc: abc}
	u.root = u.arena.NewId()
	if err := u.arena.Add(u.root, branch[V]{kids: make([]Arenas.Id, abc.Arity())}); err != nil {
		panic(err)
	}
	return u
}

// Size returns the number of sequences stored.
func (u *Trie[V]) Size() uint {
	return uint(u.size.Load())
}

func (u *Trie[V]) Empty() bool {
	return u.Size() == 0
}

// Insert stores v under seq. It returns ErrExists if seq already holds a
// value, or the Alphabet's error if seq contains a foreign symbol.
func (u *Trie[V]) Insert(seq string, v V) error {
	code, err := u.encode(seq)
	if err != nil {
		return err
	}
	_, _, err = u.putRoot(code, v, nil)
	return err
}

// Update stores v under seq, replacing and returning any value already
// there.
func (u *Trie[V]) Update(seq string, v V) (V, bool, error) {
	return u.Apply(seq, v, func(V) V { return v })
}

// Apply stores v under a fresh seq; when seq is already present it stores
// f(prior) instead and returns the prior value. f runs under the terminal
// node's write lock, so concurrent Applys to one sequence never lose
// updates.
func (u *Trie[V]) Apply(seq string, v V, f func(V) V) (V, bool, error) {
	code, err := u.encode(seq)
	if err != nil {
		var none V
		return none, false, err
	}
	return u.putRoot(code, v, f)
}

// Find returns the value stored under seq. Sequences outside the alphabet
// are simply absent.
func (u *Trie[V]) Find(seq string) (V, bool) {
	var none V
	if u.Empty() {
		return none, false
	}
	code, err := u.encode(seq)
	if err != nil {
		return none, false
	}
	for id := u.root; ; code = code[1:] {
		c, in := u.arena.Get(id)
		if !in { //pruned mid walk; nothing is stored down here anymore
			return none, false
		}
		c.RLock()
		if len(code) == 0 {
			v, in := c.Node.payload, c.Node.terminal
			c.RUnlock()
			return v, in
		}
		id = c.Node.kids[code[0]]
		c.RUnlock()
		if id == 0 {
			return none, false
		}
	}
}

func (u *Trie[V]) Contains(seq string) bool {
	_, in := u.Find(seq)
	return in
}

// Delete removes and returns the value under seq, pruning every branch node
// the removal left empty, from the terminal back toward (never including)
// the root. It returns ErrNotFound when the trie is empty or nothing is
// stored under seq.
func (u *Trie[V]) Delete(seq string) (V, error) {
	var none V
	if u.Empty() {
		return none, ErrNotFound
	}
	code, err := u.encode(seq)
	if err != nil {
		return none, err
	}
	v, _, err := u.remove(u.root, code)
	return v, err
}

func (u *Trie[V]) encode(seq string) ([]int, error) {
	code := make([]int, 0, len(seq))
	for _, r := range seq {
		i, err := u.abc.Index(r)
		if err != nil {
			return nil, err
		}
		code = append(code, i)
	}
	return code, nil
}

func (u *Trie[V]) putRoot(code []int, v V, f func(V) V) (V, bool, error) {
	for {
		prev, replaced, err := u.put(u.root, code, v, f)
		if !errors.Is(err, errDetached) {
			return prev, replaced, err
		}
	}
}

// put walks code from the node id, creating missing children, and applies
// the collision policy at the end: f==nil rejects with ErrExists, otherwise
// the stored value becomes f(prior).
func (u *Trie[V]) put(id Arenas.Id, code []int, v V, f func(V) V) (V, bool, error) {
	var none V
	c, in := u.arena.Get(id)
	if !in {
		return none, false, errDetached
	}
	if len(code) == 0 {
		c.Lock()
		defer c.Unlock()
		if _, in = u.arena.Get(id); !in { //pruned before we got the lock
			return none, false, errDetached
		}
		b := &c.Node
		if b.terminal {
			if f == nil {
				return none, false, ErrExists
			}
			prev := b.payload
			b.payload = f(prev)
			return prev, true, nil
		}
		b.payload, b.terminal = v, true
		u.size.Add(1)
		return none, false, nil
	}
	next, err := u.step(id, c, code[0])
	if err != nil {
		return none, false, err
	}
	return u.put(next, code[1:], v, f)
}

// step resolves the child of id at branch index i, creating it when absent.
// The re-check under the write lock covers both a concurrent insert creating
// the same child first (the loser's id is discarded, never reused) and a
// concurrent delete pruning id itself.
func (u *Trie[V]) step(id Arenas.Id, c *Arenas.Cell[branch[V]], i int) (Arenas.Id, error) {
	c.RLock()
	next := c.Node.kids[i]
	c.RUnlock()
	if next != 0 {
		return next, nil
	}
	kid := u.arena.NewId()
	if err := u.arena.Add(kid, branch[V]{kids: make([]Arenas.Id, u.abc.Arity())}); err != nil {
		panic(err)
	}
	c.Lock()
	defer c.Unlock()
	discard := func() {
		if err := u.arena.Delete(kid); err != nil { //nothing else can see kid yet
			panic(err)
		}
	}
	if _, in := u.arena.Get(id); !in {
		discard()
		return 0, errDetached
	}
	if next = c.Node.kids[i]; next != 0 {
		discard()
		return next, nil
	}
	c.Node.kids[i] = kid
	return kid, nil
}

// remove reports upward whether it deleted the node it visited, so each
// ancestor can clear its branch slot and then judge its own prunability.
// Prune attempts tolerate losing to a concurrent deleter: whoever clears a
// node's last slot under its lock is the one that removes it.
func (u *Trie[V]) remove(id Arenas.Id, code []int) (V, bool, error) {
	var none V
	c, in := u.arena.Get(id)
	if !in { //pruned mid walk, so the sequence is not stored
		return none, false, ErrNotFound
	}
	if len(code) == 0 {
		c.Lock()
		defer c.Unlock()
		b := &c.Node
		if !b.terminal {
			return none, false, ErrNotFound
		}
		v := b.payload
		b.payload, b.terminal = none, false
		u.size.Add(^uintptr(0))
		if id != u.root && b.prunable() && u.arena.Delete(id) == nil {
			return v, true, nil
		}
		return v, false, nil
	}
	c.RLock()
	next := c.Node.kids[code[0]]
	c.RUnlock()
	if next == 0 {
		return none, false, ErrNotFound
	}
	v, pruned, err := u.remove(next, code[1:])
	if err != nil || !pruned {
		return v, false, err
	}
	c.Lock()
	defer c.Unlock()
	b := &c.Node
	b.kids[code[0]] = 0
	if id != u.root && b.prunable() && u.arena.Delete(id) == nil {
		return v, true, nil
	}
	return v, false, nil
}
