package infrastructure

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"code-command-generator/domain"
)

// providerFailure wraps err into a domain.GeneratorError whose code is derived
// from the HTTP status, provider detail text and the transport error.
func providerFailure(provider string, status int, detail string, err error) *domain.GeneratorError {
	return domain.NewProviderFailure(failureCode(status, detail, err), provider, err)
}

func failureCode(status int, detail string, err error) domain.ErrorCode {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return domain.ErrTimeout
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.ErrUnauthorized
	case status == http.StatusPaymentRequired:
		return domain.ErrQuotaExhausted
	case status == http.StatusTooManyRequests:
		if mentionsQuota(detail) {
			return domain.ErrQuotaExhausted
		}
		return domain.ErrRateLimited
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return domain.ErrTimeout
	case status == 0 && isNetworkError(err):
		return domain.ErrNetworkUnreachable
	}
	return domain.ErrUnknown
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	var urlErr *url.Error
	return errors.As(err, &opErr) ||
		errors.As(err, &dnsErr) ||
		errors.As(err, &urlErr) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH)
}

func mentionsQuota(detail string) bool {
	d := strings.ToLower(detail)
	return strings.Contains(d, "quota") ||
		strings.Contains(d, "insufficient_quota") ||
		strings.Contains(d, "billing") ||
		strings.Contains(d, "credit")
}
