package discovery

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"

	"github.com/namekart/lead-gen-deep-research/internal/domainkey"
	"github.com/namekart/lead-gen-deep-research/pkg/dotdb"
)

type fakeDotDB struct {
	result map[string][]string
	err    error
	calls  int
}

func (f *fakeDotDB) GetActiveDomains(ctx context.Context, keywords []string, opts ...dotdb.QueryOption) (map[string][]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestFetchCandidates_SingleBulkCall(t *testing.T) {
	t.Parallel()

	client := &fakeDotDB{result: map[string][]string{
		"acmewidgets": {"acmewidgets.com", "acmewidgets.io"},
	}}
	f := NewFetcher(client, domainkey.New())

	got := f.FetchCandidates(context.Background(), []string{"acmewidgets"})

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, []string{"acmewidgets.com", "acmewidgets.io"}, got["acmewidgets"])
}

func TestFetchCandidates_ErrorDegradesToEmpty(t *testing.T) {
	t.Parallel()

	client := &fakeDotDB{err: eris.New("upstream down")}
	f := NewFetcher(client, domainkey.New())

	got := f.FetchCandidates(context.Background(), []string{"kw"})
	assert.Empty(t, got)
}

func TestFetchCandidates_NoKeywordsSkipsCall(t *testing.T) {
	t.Parallel()

	client := &fakeDotDB{}
	f := NewFetcher(client, domainkey.New())

	got := f.FetchCandidates(context.Background(), nil)
	assert.Empty(t, got)
	assert.Zero(t, client.calls)
}

func TestFilterExact_KeepsExactSLDOnly(t *testing.T) {
	t.Parallel()

	f := NewFetcher(&fakeDotDB{}, domainkey.New())

	byKeyword := map[string][]string{
		"widgetpro": {"widgetpro.com", "widgetprofactory.com", "widgetpro.io"},
	}
	got := f.FilterExact(byKeyword, []string{"widgetpro"})

	assert.Equal(t, []string{"widgetpro.com", "widgetpro.io"}, got)
}

func TestFilterExact_DedupesPreservingFirstSeen(t *testing.T) {
	t.Parallel()

	f := NewFetcher(&fakeDotDB{}, domainkey.New())

	byKeyword := map[string][]string{
		"alpha": {"alpha.com", "shared.com"},
		"beta":  {"beta.com", "alpha.com"},
	}
	got := f.FilterExact(byKeyword, []string{"alpha", "beta"})

	// "shared.com" has SLD "shared", not a keyword; "alpha.com" appears once.
	assert.Equal(t, []string{"alpha.com", "beta.com"}, got)
}

func TestFilterExact_EmptyInput(t *testing.T) {
	t.Parallel()

	f := NewFetcher(&fakeDotDB{}, domainkey.New())
	assert.Empty(t, f.FilterExact(map[string][]string{}, []string{"kw"}))
	assert.Empty(t, f.FilterExact(nil, nil))
}
