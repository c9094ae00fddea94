package Arenas

import (
	"testing"

	"github.com/alphadose/haxmap"
)

const benchItems = 1 << 10

func setupArena(b *testing.B) (*Arena[uint], []Id) {
	b.Helper()
	a := Make[uint]()
	ids := make([]Id, benchItems)
	for i := range ids {
		ids[i] = a.NewId()
		if err := a.Add(ids[i], uint(i)); err != nil {
			b.Fatal(err)
		}
	}
	return a, ids
}

func setupHaxMap(b *testing.B) *haxmap.Map[uint, uint] {
	b.Helper()
	m := haxmap.New[uint, uint]()
	for i := uint(0); i < benchItems; i++ {
		m.Set(i, i)
	}
	return m
}

func BenchmarkArenaGet(b *testing.B) {
	a, ids := setupArena(b)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for i, id := range ids {
				c, in := a.Get(id)
				if !in || c.Node != uint(i) {
					b.Fail()
				}
			}
		}
	})
}

func BenchmarkHaxMapGet(b *testing.B) {
	m := setupHaxMap(b)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for i := uint(0); i < benchItems; i++ {
				if j, _ := m.Get(i); j != i {
					b.Fail()
				}
			}
		}
	})
}

func BenchmarkArenaAdd(b *testing.B) {
	a := Make[uint]()
	b.ResetTimer()
	for i := range b.N {
		if err := a.Add(a.NewId(), uint(i)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHaxMapSet(b *testing.B) {
	m := haxmap.New[uint, uint]()
	b.ResetTimer()
	for i := range b.N {
		m.Set(uint(i), uint(i))
	}
}
