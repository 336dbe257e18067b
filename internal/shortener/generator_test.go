package shortener_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/arjunstein/url-shortener/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeGenerator(t *testing.T) {
	t.Run("generates alphanumeric codes of the requested length", func(t *testing.T) {
		gen, err := shortener.NewCodeGenerator(shortener.DefaultCodeLength)
		require.NoError(t, err)

		for range 200 {
			code := gen()

			assert.Len(t, code, 8)

			for _, c := range code {
				assert.True(t, strings.ContainsRune(shortener.Alphabet, c), "unexpected character %q", c)
			}
		}
	})

	t.Run("codes differ between calls", func(t *testing.T) {
		gen, err := shortener.NewCodeGenerator(shortener.DefaultCodeLength)
		require.NoError(t, err)

		seen := make(map[string]struct{})
		for range 1000 {
			seen[gen()] = struct{}{}
		}

		assert.Len(t, seen, 1000)
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		gen, err := shortener.NewCodeGenerator(shortener.DefaultCodeLength)
		require.NoError(t, err)

		var wg sync.WaitGroup

		for range 8 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				for range 100 {
					assert.Len(t, gen(), 8)
				}
			}()
		}

		wg.Wait()
	})

	t.Run("rejects invalid length", func(t *testing.T) {
		_, err := shortener.NewCodeGenerator(0)

		assert.Error(t, err)
	})
}
