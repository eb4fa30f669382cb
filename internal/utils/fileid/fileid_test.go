package fileid

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"png", "out.png", ".png"},
		{"upper case", "OUT.JPG", ".jpg"},
		{"no extension", "out", DefaultExtension},
		{"empty", "", DefaultExtension},
		{"trailing dot", "out.", DefaultExtension},
		{"nested path", "dir/sub/image.webp", ".webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extension(tt.in))
		})
	}
}

func TestStoredNameIsUniqueAndValid(t *testing.T) {
	const workers = 8
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				name := StoredName("result.PNG")
				mu.Lock()
				seen[name] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker)
	for name := range seen {
		assert.True(t, strings.HasSuffix(name, ".png"))
		assert.True(t, IsValid(name), name)
	}
}
