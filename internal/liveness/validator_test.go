package liveness

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProber scripts per-host probe outcomes and records which probes ran.
type fakeProber struct {
	mu    sync.Mutex
	dns   map[string]bool
	http  map[string]bool
	https map[string]bool
	tls   map[string]bool

	httpCalls  map[string]int
	httpsCalls map[string]int

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	block       chan struct{}
}

func newFakeProber() *fakeProber {
	return &fakeProber{
		dns:        map[string]bool{},
		http:       map[string]bool{},
		https:      map[string]bool{},
		tls:        map[string]bool{},
		httpCalls:  map[string]int{},
		httpsCalls: map[string]int{},
	}
}

func (f *fakeProber) CheckDNS(ctx context.Context, host string) bool {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.maxInFlight.Load()
		if cur <= peak || f.maxInFlight.CompareAndSwap(peak, cur) {
			break
		}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dns[host]
}

func (f *fakeProber) CheckHTTP(ctx context.Context, host string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.httpCalls[host]++
	return f.http[host]
}

func (f *fakeProber) CheckHTTPS(ctx context.Context, host string) (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.httpsCalls[host]++
	return f.https[host], f.tls[host]
}

func TestValidateAll_DNSFailureShortCircuits(t *testing.T) {
	t.Parallel()

	fake := newFakeProber()
	// dead.example never resolves.
	v := NewValidator(fake, 4)

	verdicts := v.ValidateAll(context.Background(), []string{"dead.example"})

	require.Len(t, verdicts, 1)
	vd := verdicts["dead.example"]
	assert.False(t, vd.IsActive)
	assert.False(t, vd.DNSResolves)
	assert.False(t, vd.HTTPReachable)
	assert.False(t, vd.HTTPSReachable)
	assert.Zero(t, fake.httpCalls["dead.example"], "HTTP must not be attempted")
	assert.Zero(t, fake.httpsCalls["dead.example"], "HTTPS must not be attempted")
}

func TestValidateAll_HTTPSAloneIsActive(t *testing.T) {
	t.Parallel()

	fake := newFakeProber()
	fake.dns["secure.example"] = true
	fake.https["secure.example"] = true
	fake.tls["secure.example"] = true

	v := NewValidator(fake, 4)
	verdicts := v.ValidateAll(context.Background(), []string{"secure.example"})

	vd := verdicts["secure.example"]
	assert.True(t, vd.IsActive)
	assert.False(t, vd.HTTPReachable)
	assert.True(t, vd.HTTPSReachable)
	assert.True(t, vd.TLSValid)
}

func TestValidateAll_HTTPWithDNSIsActive(t *testing.T) {
	t.Parallel()

	fake := newFakeProber()
	fake.dns["plain.example"] = true
	fake.http["plain.example"] = true

	v := NewValidator(fake, 4)
	verdicts := v.ValidateAll(context.Background(), []string{"plain.example"})

	vd := verdicts["plain.example"]
	assert.True(t, vd.IsActive)
	assert.False(t, vd.HTTPSReachable)
	assert.False(t, vd.TLSValid)
}

func TestValidateAll_OneEntryPerDomain(t *testing.T) {
	t.Parallel()

	fake := newFakeProber()
	domains := []string{
		"a.example", "b.example", "c.example", "d.example",
		"e.example", "f.example", "g.example",
	}
	// Mixed outcomes.
	fake.dns["a.example"] = true
	fake.http["a.example"] = true
	fake.dns["c.example"] = true
	fake.dns["e.example"] = true
	fake.https["e.example"] = true

	v := NewValidator(fake, 3)
	verdicts := v.ValidateAll(context.Background(), domains)

	require.Len(t, verdicts, len(domains))
	for _, d := range domains {
		_, ok := verdicts[d]
		assert.True(t, ok, "missing verdict for %s", d)
	}
	assert.True(t, verdicts["a.example"].IsActive)
	assert.False(t, verdicts["b.example"].IsActive)
	assert.False(t, verdicts["c.example"].IsActive, "DNS alone is not active")
	assert.True(t, verdicts["e.example"].IsActive)
}

func TestValidateAll_RespectsConcurrencyBound(t *testing.T) {
	t.Parallel()

	fake := newFakeProber()
	fake.block = make(chan struct{})

	domains := make([]string, 12)
	for i := range domains {
		domains[i] = string(rune('a'+i)) + ".example"
	}

	v := NewValidator(fake, 3)
	done := make(chan int)
	go func() {
		verdicts := v.ValidateAll(context.Background(), domains)
		done <- len(verdicts)
	}()

	close(fake.block)
	got := <-done
	assert.Equal(t, len(domains), got)
	assert.LessOrEqual(t, fake.maxInFlight.Load(), int32(3))
}

func TestValidateAll_StripsSchemeBeforeProbing(t *testing.T) {
	t.Parallel()

	fake := newFakeProber()
	fake.dns["scheme.example"] = true
	fake.http["scheme.example"] = true

	v := NewValidator(fake, 2)
	verdicts := v.ValidateAll(context.Background(), []string{"https://scheme.example/path"})

	require.Len(t, verdicts, 1)
	assert.True(t, verdicts["https://scheme.example/path"].IsActive)
}

func TestValidateAll_CancelledContext(t *testing.T) {
	t.Parallel()

	fake := newFakeProber()
	fake.dns["x.example"] = true
	fake.http["x.example"] = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := NewValidator(fake, 2)
	verdicts := v.ValidateAll(ctx, []string{"x.example"})

	require.Len(t, verdicts, 1)
	vd := verdicts["x.example"]
	assert.False(t, vd.IsActive)
	assert.NotEmpty(t, vd.Error)
}

// panicProber panics on HTTP to exercise the per-domain boundary.
type panicProber struct{}

func (panicProber) CheckDNS(context.Context, string) bool { return true }
func (panicProber) CheckHTTP(context.Context, string) bool {
	panic("transport blew up")
}
func (panicProber) CheckHTTPS(context.Context, string) (bool, bool) { return false, false }

func TestValidateAll_PanicIsolatedPerDomain(t *testing.T) {
	t.Parallel()

	v := NewValidator(panicProber{}, 2)
	verdicts := v.ValidateAll(context.Background(), []string{"boom.example", "also.example"})

	require.Len(t, verdicts, 2)
	for _, d := range []string{"boom.example", "also.example"} {
		vd := verdicts[d]
		assert.False(t, vd.IsActive)
		assert.Contains(t, vd.Error, "probe panic")
	}
}

func TestFilterActive_PreservesOrder(t *testing.T) {
	t.Parallel()

	fake := newFakeProber()
	for _, d := range []string{"one.example", "three.example"} {
		fake.dns[d] = true
		fake.https[d] = true
	}

	domains := []string{"one.example", "two.example", "three.example"}
	v := NewValidator(fake, 2)
	verdicts := v.ValidateAll(context.Background(), domains)

	assert.Equal(t, []string{"one.example", "three.example"}, FilterActive(domains, verdicts))
}
