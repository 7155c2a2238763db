package request

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/ratelimit"
	"golang.org/x/net/proxy"

	"github.com/halfmoonpt/trackarr/internal/logger"
	"github.com/halfmoonpt/trackarr/pkg/version"
)

func JoinURL(base string, paths ...string) (string, error) {
	// Split the last path component to separate query parameters
	lastPath := paths[len(paths)-1]
	parts := strings.Split(lastPath, "?")
	paths[len(paths)-1] = parts[0]

	joined, err := url.JoinPath(base, paths...)
	if err != nil {
		return "", err
	}

	// Add back query parameters if they exist
	if len(parts) > 1 {
		return joined + "?" + parts[1], nil
	}

	return joined, nil
}

var (
	once     sync.Once
	instance *Client
)

type ClientOption func(*Client)

// Client represents an HTTP client with additional capabilities.
// Every call is a single attempt; a failure is terminal for that call.
type Client struct {
	client        *http.Client
	rateLimiter   ratelimit.Limiter
	headers       map[string]string
	headersMu     sync.RWMutex
	timeout       time.Duration
	skipTLSVerify bool
	logger        zerolog.Logger
	proxy         string
}

// WithTimeout sets the request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
		c.client.Timeout = timeout
	}
}

// WithRateLimiter sets a rate limiter
func WithRateLimiter(rl ratelimit.Limiter) ClientOption {
	return func(c *Client) {
		c.rateLimiter = rl
	}
}

// WithHeaders merges default headers on top of the built-in ones.
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		c.headersMu.Lock()
		for key, value := range headers {
			c.headers[key] = value
		}
		c.headersMu.Unlock()
	}
}

// WithCookieJar attaches a cookie jar, used by cookie-authenticated sites
func WithCookieJar(jar http.CookieJar) ClientOption {
	return func(c *Client) {
		c.client.Jar = jar
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxy = proxyURL
	}
}

// Do performs a single HTTP request with the default headers and rate
// limiting applied. There is no retry: the first failure is returned.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.headersMu.RLock()
	for key, value := range c.headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
	c.headersMu.RUnlock()

	if c.rateLimiter != nil {
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		default:
			c.rateLimiter.Take()
		}
	}

	return c.client.Do(req)
}

// MakeRequest performs an HTTP request and returns the response body as bytes.
// Transport failures and non-2xx statuses come back as *Error.
func (c *Client) MakeRequest(req *http.Request) ([]byte, error) {
	res, err := c.Do(req)
	if err != nil {
		return nil, NewTransportError(req.URL.String(), err)
	}

	defer func() {
		if err := res.Body.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("failed to close response body")
		}
	}()

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, NewTransportError(req.URL.String(), fmt.Errorf("reading response body: %w", err))
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, NewStatusError(req.URL.String(), res.StatusCode, bodyBytes)
	}

	return bodyBytes, nil
}

// New creates a new HTTP client with the specified options
func New(options ...ClientOption) *Client {
	client := &Client{
		skipTLSVerify: true,
		logger:        logger.New("request"),
		timeout:       60 * time.Second,
		proxy:         "",
		headers: map[string]string{
			"User-Agent": "trackarr/" + version.GetInfo().String(),
		},
	}

	// default http client
	client.client = &http.Client{
		Timeout: client.timeout,
	}

	// Apply options before configuring transport
	for _, option := range options {
		option(client)
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: client.skipTLSVerify,
		},
		DisableKeepAlives: false,
	}

	// Configure proxy if needed
	if client.proxy != "" {
		if strings.HasPrefix(client.proxy, "socks5://") {
			// Handle SOCKS5 proxy
			socksURL, err := url.Parse(client.proxy)
			if err != nil {
				client.logger.Error().Msgf("Failed to parse SOCKS5 proxy URL: %v", err)
			} else {
				auth := &proxy.Auth{}
				if socksURL.User != nil {
					auth.User = socksURL.User.Username()
					password, _ := socksURL.User.Password()
					auth.Password = password
				}

				dialer, err := proxy.SOCKS5("tcp", socksURL.Host, auth, proxy.Direct)
				if err != nil {
					client.logger.Error().Msgf("Failed to create SOCKS5 dialer: %v", err)
				} else {
					transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
						return dialer.Dial(network, addr)
					}
				}
			}
		} else {
			proxyURL, err := url.Parse(client.proxy)
			if err != nil {
				client.logger.Error().Msgf("Failed to parse proxy URL: %v", err)
			} else {
				transport.Proxy = http.ProxyURL(proxyURL)
			}
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	client.client.Transport = transport

	return client
}

func ParseRateLimit(rateStr string) ratelimit.Limiter {
	if rateStr == "" {
		return nil
	}
	parts := strings.SplitN(rateStr, "/", 2)
	if len(parts) != 2 {
		return nil
	}

	// parse count
	count, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || count <= 0 {
		return nil
	}

	// Set slack size to 10%
	slackSize := count / 10

	// normalize unit
	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	unit = strings.TrimSuffix(unit, "s")
	switch unit {
	case "minute", "min":
		return ratelimit.New(count, ratelimit.Per(time.Minute), ratelimit.WithSlack(slackSize))
	case "second", "sec":
		return ratelimit.New(count, ratelimit.Per(time.Second), ratelimit.WithSlack(slackSize))
	case "hour", "hr":
		return ratelimit.New(count, ratelimit.Per(time.Hour), ratelimit.WithSlack(slackSize))
	case "day", "d":
		return ratelimit.New(count, ratelimit.Per(24*time.Hour), ratelimit.WithSlack(slackSize))
	default:
		return nil
	}
}

func Default() *Client {
	once.Do(func() {
		instance = New()
	})
	return instance
}
