package http

import "time"

// Option configures the underlying http.Client of a Connector.
type Option func(*clientConfig)

func WithConnTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.connTimeout = timeout
	}
}

func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.requestTimeout = timeout
	}
}

func WithKeepAlive(keepAlive time.Duration) Option {
	return func(c *clientConfig) {
		c.keepAlive = keepAlive
	}
}

func WithTLSHandshakeTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.tlsHandshakeTimeout = timeout
	}
}

func WithResponseHeaderTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.responseHeaderTimeout = timeout
	}
}

func WithIdleConnTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.idleConnTimeout = timeout
	}
}

func WithMaxIdleConns(maxConns int) Option {
	return func(c *clientConfig) {
		c.maxIdleConns = maxConns
	}
}

func WithMaxIdleConnsPerHost(maxConns int) Option {
	return func(c *clientConfig) {
		c.maxIdleConnsPerHost = maxConns
	}
}

func WithTransport(transport TransportFunc) Option {
	return func(c *clientConfig) {
		c.transports = append(c.transports, transport)
	}
}

func WithInsecureSkipVerify(skip bool) Option {
	return func(c *clientConfig) {
		c.insecureSkipVerify = skip
	}
}
