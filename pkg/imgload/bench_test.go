package imgload

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/eunmann/tifbench/pkg/benchutil"
)

func sortedStrategies() []Loader {
	m := Strategies(true)
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Loader, len(names))
	for i, name := range names {
		out[i] = m[name]
	}
	return out
}

func benchmarkLoaders(b *testing.B, decoyCounts []int, slices int) {
	ctx := context.Background()
	for _, decoys := range decoyCounts {
		path := benchutil.SliceDir(b, decoys, benchutil.FixtureOptions())
		filenames := benchutil.Repeat(path, slices)

		for _, loader := range sortedStrategies() {
			b.Run(fmt.Sprintf("%s/decoys=%d/slices=%d", loader.Name(), decoys, slices), func(b *testing.B) {
				b.ReportAllocs()
				for range b.N {
					if _, err := loader.Load(ctx, filenames); err != nil {
						b.Fatalf("Load error: %v", err)
					}
				}
				b.ReportMetric(float64(b.Elapsed().Nanoseconds())/float64(b.N*slices), "ns/slice")
			})
		}
	}
}

func BenchmarkLoaders(b *testing.B) {
	benchmarkLoaders(b, benchutil.DecoyCounts, 10)
}

func BenchmarkLoadersSliceCount(b *testing.B) {
	for _, slices := range benchutil.SliceCounts {
		benchmarkLoaders(b, []int{1000}, slices)
	}
}

func BenchmarkLoadersDecoyScaling(b *testing.B) {
	benchutil.SkipIfNoLongBench(b)
	benchmarkLoaders(b, benchutil.ScalingDecoyCounts, 50)
}

func BenchmarkGroupFiles(b *testing.B) {
	for _, decoys := range benchutil.DecoyCounts {
		path := benchutil.SliceDir(b, decoys, benchutil.FixtureOptions())
		b.Run(fmt.Sprintf("decoys=%d", decoys), func(b *testing.B) {
			for range b.N {
				if _, err := groupFiles(path); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
