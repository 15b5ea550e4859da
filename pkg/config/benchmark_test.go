package config

import (
	"os"
	"path/filepath"
	"testing"
)

func BenchmarkLoadConfig(b *testing.B) {
	path := filepath.Join(b.TempDir(), "prometools.yaml")
	content := `
metrics:
  namespace: shop
  duration_buckets: [0.01, 0.1, 1]
fixtures:
  - path: /checkout
    count: 3
    durations: [250ms]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := LoadConfig(path); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkValidate(b *testing.B) {
	cfg := NewDefaultConfig()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Validate(cfg)
	}
}

func BenchmarkGetConfig(b *testing.B) {
	SetConfig(NewDefaultConfig())
	b.Cleanup(reset)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = GetConfig()
		}
	})
}
