// Package benchmarks provides reset and restart benchmarks.
package benchmarks

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/comalice/fsmx"
)

func BenchmarkResetList(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			l := GenResetList(GenRing(n))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := l.Reset(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRestart(b *testing.B) {
	m := GenRing(10)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.Start(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMemoryRing(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			numMachines := 100
			var before runtime.MemStats
			runtime.ReadMemStats(&before)
			machines := make([]*fsmx.Machine, numMachines)
			for i := 0; i < numMachines; i++ {
				machines[i] = GenRing(n)
			}
			runtime.GC()
			var after runtime.MemStats
			runtime.ReadMemStats(&after)
			bytesPerMachine := (after.TotalAlloc - before.TotalAlloc) / uint64(numMachines)
			b.ReportMetric(float64(bytesPerMachine)/1024, "KB/machine")
			runtime.KeepAlive(machines)
		})
	}
}

func BenchmarkDescriptionYAML(b *testing.B) {
	for _, n := range []int{10, 100} {
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			data := GenDescriptionYAML(n)
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				var d fsmx.Description
				if err := yaml.Unmarshal(data, &d); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
