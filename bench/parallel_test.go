package lptable_test

import (
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/theflywheel/lptable"
)

func BenchmarkParallelPut(b *testing.B) {
	tbl, err := lptable.New(16, 0.75)
	if err != nil {
		b.Fatal(err)
	}
	var seq atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			n := seq.Add(1)
			tbl.Put("k"+strconv.FormatInt(n, 10), lptable.Int32(int32(n)))
		}
	})
}

func BenchmarkParallelGet(b *testing.B) {
	const numKeys = 100_000
	tbl, err := lptable.New(numKeys*2, 0.75)
	if err != nil {
		b.Fatal(err)
	}
	keys := make([]string, numKeys)
	for i := range keys {
		keys[i] = "k" + strconv.Itoa(i)
		tbl.Put(keys[i], lptable.Float(float64(i)))
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if _, ok := tbl.Get(keys[i%numKeys]); !ok {
				b.Errorf("missing %s", keys[i%numKeys])
				return
			}
			i++
		}
	})
}

func BenchmarkMixedReadWrite(b *testing.B) {
	tbl, err := lptable.New(1024, 0.75)
	if err != nil {
		b.Fatal(err)
	}
	var seq atomic.Int64
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			n := seq.Add(1)
			k := "k" + strconv.FormatInt(n%4096, 10)
			switch n % 10 {
			case 0:
				tbl.Put(k, lptable.Int32(int32(n)))
			case 1:
				tbl.Remove(k)
			default:
				tbl.Get(k)
			}
		}
	})
}
