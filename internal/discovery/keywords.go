// Package discovery turns seed keywords into a filtered list of candidate
// domains using the DotDB bulk lookup service.
package discovery

import "strings"

// maxKeywords bounds a single bulk discovery batch.
const maxKeywords = 80

// ExpandKeywords lower-cases and dedupes the seed phrases, expanding each
// multi-word phrase into a hyphenated and a compact variant. The spaced form
// itself is excluded because domain labels cannot contain spaces.
func ExpandKeywords(seeds []string) []string {
	variants := []string{}
	seen := map[string]struct{}{}

	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}

	for _, seed := range seeds {
		base := strings.ToLower(strings.TrimSpace(seed))
		if base == "" {
			continue
		}
		if !strings.Contains(base, " ") {
			add(base)
		} else {
			add(strings.ReplaceAll(base, " ", "-"))
		}
		compact := strings.NewReplacer(" ", "", "-", "").Replace(base)
		add(compact)
	}

	if len(variants) > maxKeywords {
		variants = variants[:maxKeywords]
	}
	return variants
}
