/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/acronis/go-crptapi/testutil"
)

func TestMetricsRoundTripper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()
	serverURL, err := url.Parse(server.URL)
	require.NoError(t, err)

	collector := NewPrometheusMetricsCollector("")
	rt := NewMetricsRoundTripperWithOpts(http.DefaultTransport, MetricsRoundTripperOpts{
		RequestType: "create-document",
		Collector:   collector,
	})
	client := &http.Client{Transport: rt}

	for i := 0; i < 2; i++ {
		req, reqErr := http.NewRequestWithContext(context.Background(), http.MethodPost, server.URL, nil)
		require.NoError(t, reqErr)
		resp, doErr := client.Do(req)
		require.NoError(t, doErr)
		require.NoError(t, resp.Body.Close())
	}

	testutil.RequireSamplesCountInHistogramVec(t, collector.Durations, prometheus.Labels{
		"type": "create-document", "host": serverURL.Host, "method": http.MethodPost, "status": "418",
	}, 2)
}

func TestMetricsRoundTripper_DefaultRequestTypeAndTransportError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	collector := NewPrometheusMetricsCollector("crpt")
	rt := NewMetricsRoundTripperWithOpts(http.DefaultTransport, MetricsRoundTripperOpts{Collector: collector})
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://"+addr, nil)
	require.NoError(t, err)
	_, err = (&http.Client{Transport: rt}).Do(req)
	require.Error(t, err)

	testutil.RequireSamplesCountInHistogramVec(t, collector.Durations, prometheus.Labels{
		"type": DefaultRequestType, "host": addr, "method": http.MethodGet, "status": "0",
	}, 1)
}

func TestPrometheusMetricsCollector_Register(t *testing.T) {
	collector := NewPrometheusMetricsCollector("crpt_test")
	collector.MustRegister()
	require.Panics(t, collector.MustRegister)
	collector.Unregister()
}
