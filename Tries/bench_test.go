package Tries

import (
	"math/rand"
	"testing"

	"github.com/emirpasic/gods/maps/hashmap"
)

const benchWords = 1 << 14

func benchKeys() []string {
	rg := rand.New(rand.NewSource(9))
	keys := make([]string, benchWords)
	buf := make([]byte, 0, 10)
	for i := range keys {
		buf = buf[:0]
		for n := 3 + rg.Intn(8); n > 0; n-- {
			buf = append(buf, byte('a'+rg.Intn(26)))
		}
		keys[i] = string(buf)
	}
	return keys
}

func BenchmarkInsert(b *testing.B) {
	keys := benchKeys()
	b.ResetTimer()
	for range b.N {
		trie := Make[int](Lowercase())
		for i, k := range keys {
			trie.Update(k, i)
		}
	}
}

func BenchmarkPutGodsMap(b *testing.B) {
	keys := benchKeys()
	b.ResetTimer()
	for range b.N {
		m := hashmap.New()
		for i, k := range keys {
			m.Put(k, i)
		}
	}
}

func BenchmarkFind(b *testing.B) {
	keys := benchKeys()
	trie := Make[int](Lowercase())
	for i, k := range keys {
		trie.Update(k, i)
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for i := 0; pb.Next(); i++ {
			if _, in := trie.Find(keys[i&(benchWords-1)]); !in {
				b.Fail()
			}
		}
	})
}

func BenchmarkGetGodsMap(b *testing.B) {
	keys := benchKeys()
	m := hashmap.New()
	for i, k := range keys {
		m.Put(k, i)
	}
	b.ResetTimer()
	for i := range b.N {
		if _, in := m.Get(keys[i&(benchWords-1)]); !in {
			b.Fail()
		}
	}
}
