package domainkey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	n := New()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare domain", "example.com", "example.com"},
		{"uppercase", "EXAMPLE.com", "example.com"},
		{"scheme www path query", "https://www.example.com/path?q=1", "example.com"},
		{"http scheme", "http://example.com", "example.com"},
		{"subdomain", "api.example.com", "example.com"},
		{"two-part suffix", "http://api.example.co.uk", "example.co.uk"},
		{"www two-part suffix", "www.example.co.uk", "example.co.uk"},
		{"deep subdomain", "a.b.c.example.com", "example.com"},
		{"port stripped", "example.com:8080", "example.com"},
		{"trailing slash", "example.com/", "example.com"},
		{"whitespace", "  example.com  ", "example.com"},
		{"empty", "", ""},
		{"trailing dot", "example.com.", "example.com"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	n := New()
	inputs := []string{
		"https://www.example.com/path?q=1",
		"EXAMPLE.com",
		"api.example.co.uk",
		"localhost",
		"not a domain",
		"",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input %q", in)
	}
}

func TestNormalize_Equivalence(t *testing.T) {
	t.Parallel()

	n := New()
	assert.Equal(t, n.Normalize("https://www.example.com/path?q=1"), n.Normalize("EXAMPLE.com"))
	assert.Equal(t, "example.com", n.Normalize("EXAMPLE.com"))
}

func TestNormalize_FallbackToHost(t *testing.T) {
	t.Parallel()

	// A host equal to its own suffix has no registrable domain; the bare
	// authority host is returned instead.
	n := New()
	assert.Equal(t, "localhost", n.Normalize("http://localhost:3000/admin"))
}

func TestNormalize_UnparseableInput(t *testing.T) {
	t.Parallel()

	n := New()
	assert.Equal(t, "not a domain", n.Normalize("Not A Domain"))
}

// staticSuffixes is a fixed suffix lookup for injection tests.
type staticSuffixes map[string]string

func (s staticSuffixes) PublicSuffix(domain string) string {
	if suffix, ok := s[domain]; ok {
		return suffix
	}
	if i := strings.LastIndexByte(domain, '.'); i >= 0 {
		return domain[i+1:]
	}
	return domain
}

func TestNormalize_InjectedSuffixList(t *testing.T) {
	t.Parallel()

	n := New(WithSuffixList(staticSuffixes{
		"deep.sub.widgets.example": "example",
	}))
	assert.Equal(t, "widgets.example", n.Normalize("deep.sub.widgets.example"))
}

func TestSLD(t *testing.T) {
	t.Parallel()

	n := New()

	tests := []struct {
		in   string
		want string
	}{
		{"covertcameravehicles.com", "covertcameravehicles"},
		{"www.marketingguru.io", "marketingguru"},
		{"subdomain.example.co.uk", "example"},
		{"https://www.example.com/path", "example"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, n.SLD(tt.in), "input %q", tt.in)
	}
}
