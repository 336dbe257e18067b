package shortener_test

import (
	"testing"

	"github.com/arjunstein/url-shortener/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTarget(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare domain gets https scheme and root path",
			input:    "github.com",
			expected: "https://github.com/",
		},
		{
			name:     "keeps path",
			input:    "https://github.com/path",
			expected: "https://github.com/path",
		},
		{
			name:     "bare domain with path",
			input:    "example.com/docs?page=2",
			expected: "https://example.com/docs?page=2",
		},
		{
			name:     "lowercases scheme and host",
			input:    "HTTPS://EXAMPLE.COM/Path",
			expected: "https://example.com/Path",
		},
		{
			name:     "internationalized host becomes punycode",
			input:    "https://例え.jp/",
			expected: "https://xn--r8jz45g.jp/",
		},
		{
			name:     "internationalized host keeps explicit port",
			input:    "http://例え.jp:8080/a",
			expected: "http://xn--r8jz45g.jp:8080/a",
		},
		{
			name:     "removes default https port",
			input:    "https://example.com:443/path",
			expected: "https://example.com/path",
		},
		{
			name:     "removes default http port",
			input:    "http://example.com:80",
			expected: "http://example.com/",
		},
		{
			name:     "keeps non-default port",
			input:    "https://example.com:8080/path",
			expected: "https://example.com:8080/path",
		},
		{
			name:     "accepts ipv4 host",
			input:    "http://192.168.1.10/admin",
			expected: "http://192.168.1.10/admin",
		},
		{
			name:     "keeps fragment and trailing slash",
			input:    "https://example.com/path/#section",
			expected: "https://example.com/path/#section",
		},
		{
			name:     "trims whitespace",
			input:    "  example.com  ",
			expected: "https://example.com/",
		},
		{
			name:     "hyphenated labels",
			input:    "my-site.example-host.org",
			expected: "https://my-site.example-host.org/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shortener.NormalizeTarget(tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeTarget_Rejects(t *testing.T) {
	inputs := []string{
		"",
		"http://256.256.256.256",
		"http://.bad.",
		"http://localhost",
		"localhost",
		"http://exa_mple.com",
		"http://example..com",
		"http://[::1]/",
		"mailto:someone@example.com",
		"javascript:alert(1)",
		"http://1.2.3",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := shortener.NormalizeTarget(input)

			var validationErr *shortener.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, "target_url", validationErr.Field)
		})
	}
}

func TestValidHost(t *testing.T) {
	assert.True(t, shortener.ValidHost("github.com"))
	assert.True(t, shortener.ValidHost("8.8.8.8"))
	assert.True(t, shortener.ValidHost("a.b.c.example"))
	assert.True(t, shortener.ValidHost("123.example.com"))

	assert.False(t, shortener.ValidHost(""))
	assert.False(t, shortener.ValidHost("github"))
	assert.False(t, shortener.ValidHost(".github.com"))
	assert.False(t, shortener.ValidHost("github.com."))
	assert.False(t, shortener.ValidHost("256.256.256.256"))
	assert.False(t, shortener.ValidHost("exa mple.com"))
}
