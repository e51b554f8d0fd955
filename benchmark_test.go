package memo

import (
	"strconv"
	"testing"
	"time"
)

func BenchmarkMemoizer_Hit(b *testing.B) {
	m := New(square, WithMaxSize[int, int](1000))
	for i := range 100 {
		m.Call(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Call(i % 100)
	}
}

func BenchmarkMemoizer_MissWithEviction(b *testing.B) {
	m := New(square, WithMaxSize[int, int](100))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Call(i)
	}
}

func BenchmarkMemoizer_StringArgs(b *testing.B) {
	m := New(func(s string) int { return len(s) }, WithMaxSize[string, int](1000))

	keys := make([]string, 200)
	for i := range keys {
		keys[i] = "key:" + strconv.Itoa(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Call(keys[i%200])
	}
}

func BenchmarkMemoizer_Parallel(b *testing.B) {
	for _, mode := range []Mode{Global, PerKey} {
		b.Run(mode.String(), func(b *testing.B) {
			m := New(square,
				WithMaxSize[int, int](1000),
				WithMode[int, int](mode),
			)

			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					m.Call(i % 2000)
					i++
				}
			})
		})
	}
}

func BenchmarkMemoizer_Policies(b *testing.B) {
	policies := []struct {
		name   string
		policy Policy
	}{
		{"LRU", LRU},
		{"LFU", LFU},
		{"TimeBased", TimeBased(time.Millisecond)},
		{"Custom", Custom(EvictorFunc(func(s Store) {
			for e := range s.Entries() {
				s.Remove(e.Fingerprint)
				return
			}
		}))},
	}

	for _, tc := range policies {
		b.Run(tc.name, func(b *testing.B) {
			m := New(square,
				WithMaxSize[int, int](100),
				WithPolicy[int, int](tc.policy),
			)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m.Call(i % 200)
			}
		})
	}
}
