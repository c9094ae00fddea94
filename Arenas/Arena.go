// Package Arenas provides the identity-keyed node storage shared by the tree
// packages in this module. An Arena issues monotonically increasing Ids and
// maps each Id to an independently lockable cell; trees link nodes by Id
// instead of by pointer, so the node graph has no raw cross-node references
// and a subtree can be dropped by deleting table entries.
package Arenas

import (
	"errors"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/cornelk/hashmap"
)

// Id names one arena entry. Ids are issued in strictly increasing order and
// never reused, even after the entry they name is deleted. 0 is never issued,
// so trees can use it as the absent-child sentinel in their link arrays.
type Id uint

var (
	ErrIdTaken   = errors.New("Arenas: id already present")
	ErrIdUnknown = errors.New("Arenas: id not present")
)

// Cell owns one node's contents together with the lock guarding them. The
// embedded RWMutex guards Node only; the arena table is synchronized on its
// own, so holding a cell lock never blocks an unrelated lookup and a lookup
// never blocks on a cell lock.
type Cell[N any] struct {
	sync.RWMutex
	Node N
}

// Arena is a concurrent table from Id to shared node cells, plus the id
// source. It knows nothing about tree topology: callers decide what the ids
// stored inside their nodes mean and when an entry may be deleted.
type Arena[N any] struct {
	cells *hashmap.Map[uint, *Cell[N]]
	last  atomic.Uintptr
}

func Make[N any]() *Arena[N] {
	return &Arena[N]{cells: hashmap.New[uint, *Cell[N]]()}
}

// NewId issues the next Id. The first Id issued is 1.
func (u *Arena[N]) NewId() Id {
	return Id(u.last.Add(1))
}

// Add installs node in a fresh unlocked cell under id.
func (u *Arena[N]) Add(id Id, node N) error {
	if !u.cells.Insert(uint(id), &Cell[N]{Node: node}) {
		return ErrIdTaken
	}
	return nil
}

// Get returns the shared handle for id. The handle stays usable after a
// Delete of id; only the table entry goes away.
func (u *Arena[N]) Get(id Id) (*Cell[N], bool) {
	return u.cells.Get(uint(id))
}

// GetWeak returns a non-owning handle for id. Its Value turns nil once the
// entry was deleted and every strong handle is gone.
func (u *Arena[N]) GetWeak(id Id) (weak.Pointer[Cell[N]], bool) {
	c, ok := u.cells.Get(uint(id))
	if !ok {
		return weak.Pointer[Cell[N]]{}, false
	}
	return weak.Make(c), true
}

// Delete removes id from the table, making it unresolvable for later calls.
func (u *Arena[N]) Delete(id Id) error {
	if !u.cells.Del(uint(id)) {
		return ErrIdUnknown
	}
	return nil
}

// Size returns the number of live entries.
func (u *Arena[N]) Size() uint {
	return uint(u.cells.Len())
}
