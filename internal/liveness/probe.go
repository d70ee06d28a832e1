// Package liveness decides whether candidate domains host an actively
// responding site, using DNS, HTTP, and HTTPS strategies under a bounded
// concurrency budget.
package liveness

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Prober performs one network-level check against a single host. Every
// method fails closed: transport and parsing errors yield a negative
// result, never an error value, so the validator cannot forget to handle
// them.
type Prober interface {
	// CheckDNS reports whether the host resolves to at least one address.
	CheckDNS(ctx context.Context, host string) bool
	// CheckHTTP reports whether a plaintext request gets any response with
	// status < 500. A 4xx still means the server responded.
	CheckHTTP(ctx context.Context, host string) bool
	// CheckHTTPS reports encrypted reachability and certificate validity.
	// A failed handshake falls back to CheckHTTP for reachability with
	// tlsValid false.
	CheckHTTPS(ctx context.Context, host string) (reachable, tlsValid bool)
}

// NetProber is the production Prober backed by the system resolver and a
// pair of HTTP clients (strict and insecure-TLS).
type NetProber struct {
	resolver *net.Resolver
	plain    *http.Client
	insecure *http.Client
	timeout  time.Duration
}

// NewProber creates a NetProber with the given per-check timeout.
// A zero timeout defaults to 5 seconds.
func NewProber(timeout time.Duration) *NetProber {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	dialer := &net.Dialer{Timeout: timeout}
	return &NetProber{
		resolver: net.DefaultResolver,
		plain: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				TLSHandshakeTimeout: timeout,
			},
		},
		insecure: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				TLSHandshakeTimeout: timeout,
				// Reachability only; the certificate is validated separately.
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		timeout: timeout,
	}
}

func (p *NetProber) CheckDNS(ctx context.Context, host string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	addrs, err := p.resolver.LookupHost(ctx, host)
	if err != nil {
		return false
	}
	return len(addrs) > 0
}

func (p *NetProber) CheckHTTP(ctx context.Context, host string) bool {
	return p.get(ctx, p.plain, "http://"+host)
}

func (p *NetProber) CheckHTTPS(ctx context.Context, host string) (bool, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://"+host, nil)
	if err != nil {
		return false, false
	}

	resp, err := p.insecure.Do(req)
	if err != nil {
		if isHandshakeError(err) {
			// The host speaks, just not TLS we can complete. Plaintext
			// reachability still counts.
			return p.CheckHTTP(ctx, host), false
		}
		return false, false
	}
	drainClose(resp)

	reachable := resp.StatusCode < 500
	if !reachable {
		return false, false
	}
	return true, p.checkCertificate(ctx, host)
}

// checkCertificate dials with full verification and requires the leaf
// certificate to be unexpired. Any error means invalid, never failure of
// the overall check.
func (p *NetProber) checkCertificate(ctx context.Context, host string) bool {
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: p.timeout},
		Config:    &tls.Config{ServerName: host},
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, "443"))
	if err != nil {
		return false
	}
	defer conn.Close() //nolint:errcheck

	state := conn.(*tls.Conn).ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return true
	}
	return time.Now().Before(state.PeerCertificates[0].NotAfter)
}

func (p *NetProber) get(ctx context.Context, client *http.Client, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	drainClose(resp)
	return resp.StatusCode < 500
}

// isHandshakeError reports whether an HTTP client error stems from the TLS
// handshake rather than the transport underneath it.
func isHandshakeError(err error) bool {
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var alertErr tls.AlertError
	if errors.As(err, &alertErr) {
		return true
	}
	return strings.Contains(err.Error(), "tls:") ||
		strings.Contains(err.Error(), "handshake failure")
}

func drainClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 32*1024))
	_ = resp.Body.Close()
}
