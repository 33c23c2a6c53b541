// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package main provides benchmarking tools for the semistable vector.
//
// This command-line tool measures the cost of iterator stability against a
// plain Go slice baseline under the workloads where the epoch chain
// matters: end pushes, front inserts, mixed insert/erase churn, and the
// catch-up a long-parked iterator pays on first use.
//
// # Benchmark Categories
//
//   - Push-back throughput with and without a live iterator
//   - Front insert (the epoch chain's bread-and-butter shift)
//   - Sequential traversal via iterator, raw window and plain slice
//   - Catch-up cost of an iterator parked across many mutations
//   - Descriptor recycling efficiency in hot loops (chain statistics)
//
// # Usage
//
// Run all benchmarks:
//
//	go run ./cmd/bench
//
// # Interpreting Results
//
//   - Push and insert should track the slice baseline closely; the epoch
//     publish is a constant-time append-side cost
//   - Traversal through Raw should match the plain slice; per-element
//     iterator calls pay the catch-up check on every step
//   - Catch-up is linear in the number of epochs published since the
//     iterator last observed, and is paid once
//   - The recycling report shows how many descriptors were freshly
//     allocated versus reused or fused; hot loops with no iterators should
//     allocate a bounded handful
package main

import (
	"fmt"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sys/cpu"

	"github.com/kianostad/semistable"
)

const n = 500_000

func measure(name string, f func()) {
	start := time.Now()
	f()
	fmt.Printf("  %-44s %12v\n", name, time.Since(start))
}

func main() {
	fmt.Println("semistable vector benchmarks")
	fmt.Printf("go: %s, arch: %s, cpus: %d\n", runtime.Version(), runtime.GOARCH, runtime.NumCPU())
	fmt.Printf("cpu features: avx2=%v sse42=%v neon(arm64)=%v\n\n",
		cpu.X86.HasAVX2, cpu.X86.HasSSE42, cpu.ARM64.HasASIMD)

	fmt.Printf("push_back of %d elements:\n", n)
	measure("plain slice append", func() {
		var s []int
		for i := 0; i < n; i++ {
			s = append(s, i)
		}
	})
	measure("semistable, no live iterators", func() {
		v := semistable.New[int]()
		for i := 0; i < n; i++ {
			v.PushBack(i)
		}
	})
	measure("semistable, one parked iterator", func() {
		v := semistable.Of(0)
		it := v.Begin()
		for i := 0; i < n; i++ {
			v.PushBack(i)
		}
		_ = it.Value()
	})

	const frontN = 50_000
	fmt.Printf("\nfront insert of %d elements:\n", frontN)
	measure("plain slice slices.Insert", func() {
		var s []int
		for i := 0; i < frontN; i++ {
			s = slices.Insert(s, 0, i)
		}
	})
	measure("semistable Insert at Begin", func() {
		v := semistable.New[int]()
		for i := 0; i < frontN; i++ {
			v.Insert(v.Begin(), i).Release()
		}
	})

	fmt.Printf("\ntraversal of %d elements:\n", n)
	v := semistable.New[int]()
	for i := 0; i < n; i++ {
		v.PushBack(i)
	}
	var sink int
	measure("plain slice range over Data", func() {
		for _, x := range v.Data() {
			sink += x
		}
	})
	measure("iterator Next/Value", func() {
		it, end := v.Begin(), v.End()
		for !it.Equal(end) {
			sink += it.Value()
			it.Next()
		}
		it.Release()
		end.Release()
	})
	measure("raw window from Begin", func() {
		b := v.Begin()
		for _, x := range b.Raw() {
			sink += x
		}
		b.Release()
	})

	fmt.Printf("\ncatch-up after %d parked mutations:\n", 2*frontN)
	w := semistable.Of(0, 1, 2, 3)
	parked := w.Begin().Plus(2)
	_ = parked.Value()
	for i := 0; i < frontN; i++ {
		w.Erase(w.Begin()).Release()
		w.Insert(w.Begin(), i).Release()
	}
	measure("first Value after churn", func() { sink += parked.Value() })
	measure("second Value (already caught up)", func() { sink += parked.Value() })

	fmt.Printf("\ndescriptor recycling over %d pushes: %s\n", n, v.Stats())
	fmt.Printf("descriptor accounting under churn:     %s\n", w.Stats())

	_ = sink
}
