/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/atomic"

	"github.com/acronis/go-crptapi/crptapi"
	"github.com/acronis/go-crptapi/httpclient"
	"github.com/acronis/go-crptapi/internal/fakeapi"
	"github.com/acronis/go-crptapi/internal/libinfo"
	"github.com/acronis/go-crptapi/log"
	"github.com/acronis/go-crptapi/netutil"
	"github.com/acronis/go-crptapi/ratelimit"
)

const serverStartTimeout = 5 * time.Second

type runStats struct {
	Sent      int64
	Failed    int64
	Cancelled int64
}

// runDemo submits cfg.Demo.Documents documents using cfg.Demo.Workers goroutines that share one rate limiter.
// It returns when all documents are processed or ctx is cancelled.
func runDemo(ctx context.Context, cfg *appConfig, logger log.FieldLogger, registry prometheus.Registerer) (runStats, error) {
	limiter, err := ratelimit.New(cfg.RateLimit)
	if err != nil {
		return runStats{}, fmt.Errorf("new rate limiter: %w", err)
	}
	defer func() { _ = limiter.Close() }()

	var acquirer ratelimit.Acquirer = limiter
	var httpCollector httpclient.MetricsCollector
	if registry != nil {
		limiterMetrics := ratelimit.NewPrometheusMetricsWithOpts(ratelimit.PrometheusMetricsOpts{
			Namespace: "crptdemo", ConstLabels: libinfo.AddPrometheusLibVersionLabel(nil),
		})
		registry.MustRegister(limiterMetrics.GrantedTotal, limiterMetrics.CancelledTotal, limiterMetrics.WaitDurations)
		acquirer = ratelimit.NewInstrumentedAcquirer(limiter, limiterMetrics)

		promCollector := httpclient.NewPrometheusMetricsCollector("crptdemo")
		registry.MustRegister(promCollector.Durations)
		httpCollector = promCollector
		cfg.API.HTTPClient.Metrics.Enabled = true
	}

	if cfg.Demo.FakeServerEnabled {
		stopServer, startErr := startFakeServer(ctx, cfg.FakeServer, logger.With(log.String("component", "fakeapi")))
		if startErr != nil {
			return runStats{}, startErr
		}
		defer stopServer()
		cfg.API.URL = "http://" + cfg.FakeServer.Address + fakeapi.CreateDocumentPath
	}

	client, err := crptapi.NewClient(cfg.API, acquirer, crptapi.ClientOpts{
		LoggerProvider:   func(ctx context.Context) log.FieldLogger { return logger },
		MetricsCollector: httpCollector,
	})
	if err != nil {
		return runStats{}, fmt.Errorf("new registration API client: %w", err)
	}

	logger.Info("submitting documents",
		log.Int("workers", cfg.Demo.Workers),
		log.Int("documents", cfg.Demo.Documents),
		log.String("rate", cfg.RateLimit.Rate().String()),
		log.String("algorithm", cfg.RateLimit.Algorithm),
		log.String("url", cfg.API.URL),
	)

	jobs := make(chan int)
	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Demo.Documents; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var sent, failed, cancelled atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < cfg.Demo.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				submitErr := submitDocument(ctx, client, i, logger)
				switch {
				case submitErr == nil:
					sent.Inc()
				case errors.Is(submitErr, ratelimit.ErrCancelled) || errors.Is(submitErr, context.Canceled):
					cancelled.Inc()
				default:
					failed.Inc()
				}
			}
		}()
	}
	wg.Wait()

	stats := runStats{Sent: sent.Load(), Failed: failed.Load(), Cancelled: cancelled.Load()}
	logger.Info("documents submission finished",
		log.Int64("sent", stats.Sent), log.Int64("failed", stats.Failed), log.Int64("cancelled", stats.Cancelled))
	return stats, nil
}

func submitDocument(ctx context.Context, client *crptapi.Client, i int, logger log.FieldLogger) error {
	signature := "Signature#" + strconv.Itoa(i)
	logger = logger.With(log.String("signature", signature))
	result, err := client.CreateDocument(ctx, newDemoDocument(strconv.Itoa(i)), signature)
	if err != nil {
		var apiErr *crptapi.APIError
		if errors.As(err, &apiErr) {
			logger.Warn("document rejected",
				log.Int("status", apiErr.StatusCode), log.Bytes("body", apiErr.Body), log.Bool("rate_limited", apiErr.IsRateLimited()))
			return err
		}
		logger.Error("document sending failed", log.Error(err))
		return err
	}
	logger.Info("document sent", log.Int("status", result.StatusCode), log.Bytes("body", result.Body))
	return nil
}

func newDemoDocument(id string) *crptapi.Document {
	today := crptapi.DateOf(time.Now())
	return &crptapi.Document{
		Description:    &crptapi.Description{ParticipantInn: "string"},
		DocID:          id,
		DocStatus:      "string",
		DocType:        "string",
		ImportRequest:  true,
		OwnerInn:       "string",
		ParticipantInn: "string",
		ProducerInn:    "string",
		ProductionDate: today,
		ProductionType: "string",
		Products: []crptapi.Product{{
			CertificateDocument:       "string",
			CertificateDocumentDate:   today,
			CertificateDocumentNumber: "string",
			OwnerInn:                  "string",
			ProducerInn:               "string",
			ProductionDate:            today,
			TnvedCode:                 "string",
			UitCode:                   "string",
			UituCode:                  "string",
		}},
		RegDate:   today,
		RegNumber: "string",
	}
}

func startFakeServer(ctx context.Context, cfg *fakeapi.Config, logger log.FieldLogger) (stop func(), err error) {
	srv, err := fakeapi.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("new fake registration API server: %w", err)
	}
	fatalErr := make(chan error, 1)
	go srv.Start(fatalErr)

	waitCtx, cancel := context.WithTimeout(ctx, serverStartTimeout)
	defer cancel()
	if err = netutil.WaitListeningServer(waitCtx, cfg.Address); err != nil {
		select {
		case startErr := <-fatalErr:
			return nil, fmt.Errorf("start fake registration API server: %w", startErr)
		default:
		}
		return nil, err
	}

	return func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), serverStartTimeout)
		defer stopCancel()
		_ = srv.Stop(stopCtx)
		stats := srv.Stats()
		logger.Info("fake registration API server stats",
			log.Int64("accepted", stats.Accepted), log.Int64("rejected", stats.Rejected), log.Int64("invalid", stats.Invalid))
	}, nil
}

func startMetricsServer(addr string, gatherer prometheus.Gatherer, logger log.FieldLogger) *http.Server {
	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Info("starting metrics server...", log.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", log.Error(err))
		}
	}()
	return srv
}
