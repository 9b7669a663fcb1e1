package http

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

type TransportFunc func(http.RoundTripper) http.RoundTripper

type clientConfig struct {
	connTimeout           time.Duration
	requestTimeout        time.Duration
	keepAlive             time.Duration
	tlsHandshakeTimeout   time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	maxIdleConns          int
	maxIdleConnsPerHost   int
	transports            []TransportFunc
	insecureSkipVerify    bool
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		connTimeout:           30 * time.Second,
		requestTimeout:        30 * time.Second,
		keepAlive:             90 * time.Second,
		tlsHandshakeTimeout:   10 * time.Second,
		responseHeaderTimeout: 10 * time.Second,
		idleConnTimeout:       90 * time.Second,
		maxIdleConns:          100,
		maxIdleConnsPerHost:   10,
		transports:            []TransportFunc{},
		insecureSkipVerify:    false,
	}
}

func newClient(opts ...Option) *http.Client {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	dialer := net.Dialer{
		Timeout:   cfg.connTimeout,
		KeepAlive: cfg.keepAlive,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          cfg.maxIdleConns,
		MaxIdleConnsPerHost:   cfg.maxIdleConnsPerHost,
		TLSHandshakeTimeout:   cfg.tlsHandshakeTimeout,
		ResponseHeaderTimeout: cfg.responseHeaderTimeout,
		IdleConnTimeout:       cfg.idleConnTimeout,
	}

	if cfg.insecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	client := &http.Client{
		Timeout:   cfg.requestTimeout,
		Transport: transport,
	}

	if len(cfg.transports) != 0 {
		client = applyTransports(client, cfg.transports...)
	}

	return client
}

func applyTransports(client *http.Client, transports ...TransportFunc) *http.Client {
	transport := client.Transport

	if transport == nil {
		transport = http.DefaultTransport
	}

	for _, transportFunc := range transports {
		transport = transportFunc(transport)
	}

	clone := *client
	clone.Transport = transport

	return &clone
}
