package service

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/nakamauwu/hireloop/cockroach"
	"github.com/nakamauwu/hireloop/mailing"
	"github.com/nakamauwu/hireloop/metrics"
	"github.com/nakamauwu/hireloop/pubsub"
	"github.com/prometheus/client_golang/prometheus"
)

const defaultBackgroundTimeout = time.Minute

type Config struct {
	Cockroach *cockroach.Cockroach
	// Users defaults to Cockroach.
	Users UserDirectory
	// Jobs defaults to Cockroach.
	Jobs    JobDirectory
	Storage FileStorage
	// PubSub defaults to an in-process bus.
	PubSub pubsub.PubSub
	Sender mailing.Sender
	Logger log.Logger
	// Metrics defaults to collectors on a private registry.
	Metrics *metrics.Metrics
	// Origin is the public web app URL used in mail links.
	Origin            *url.URL
	MaxUploadSize     int64
	BaseCtx           context.Context
	BackgroundTimeout time.Duration
}

type Service struct {
	Cockroach     *cockroach.Cockroach
	Users         UserDirectory
	Jobs          JobDirectory
	Storage       FileStorage
	PubSub        pubsub.PubSub
	Sender        mailing.Sender
	Logger        log.Logger
	Metrics       *metrics.Metrics
	Origin        *url.URL
	MaxUploadSize int64

	baseCtx           context.Context
	backgroundTimeout time.Duration
	wg                sync.WaitGroup
	errs              chan error

	mu     sync.Mutex
	closed bool
}

func New(cfg *Config) *Service {
	svc := &Service{
		Cockroach:     cfg.Cockroach,
		Users:         cfg.Users,
		Jobs:          cfg.Jobs,
		Storage:       cfg.Storage,
		PubSub:        cfg.PubSub,
		Sender:        cfg.Sender,
		Logger:        cfg.Logger,
		Metrics:       cfg.Metrics,
		Origin:        cfg.Origin,
		MaxUploadSize: cfg.MaxUploadSize,

		baseCtx:           cfg.BaseCtx,
		backgroundTimeout: cfg.BackgroundTimeout,
		errs:              make(chan error, 1),
	}

	if svc.Users == nil {
		svc.Users = cfg.Cockroach
	}
	if svc.Jobs == nil {
		svc.Jobs = cfg.Cockroach
	}
	if svc.PubSub == nil {
		svc.PubSub = &pubsub.Inmem{}
	}
	if svc.Sender == nil {
		svc.Sender = mailing.Noop{}
	}
	if svc.Logger == nil {
		svc.Logger = log.NewNopLogger()
	}
	if svc.Metrics == nil {
		svc.Metrics = metrics.New(prometheus.NewRegistry())
	}
	if svc.Origin == nil {
		svc.Origin = &url.URL{}
	}
	if svc.baseCtx == nil {
		svc.baseCtx = context.Background()
	}
	if svc.backgroundTimeout == 0 {
		svc.backgroundTimeout = defaultBackgroundTimeout
	}

	return svc
}

func (svc *Service) Errs() <-chan error {
	return svc.errs
}

// Close waits for background work and closes [Service.Errs].
// Work scheduled afterwards is dropped.
func (svc *Service) Close() error {
	svc.mu.Lock()
	if svc.closed {
		svc.mu.Unlock()
		return nil
	}
	svc.closed = true
	svc.mu.Unlock()

	svc.wg.Wait()
	close(svc.errs)
	return nil
}

func (svc *Service) background(fn func(ctx context.Context) error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.closed {
		_ = level.Debug(svc.Logger).Log("msg", "service closed; dropping background work")
		return
	}

	svc.wg.Go(func() {
		defer func() {
			if rcv := recover(); rcv != nil {
				select {
				case svc.errs <- fmt.Errorf("service background panic: %v", rcv):
				default:
				}
			}
		}()

		ctx, cancel := context.WithTimeout(svc.baseCtx, svc.backgroundTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			select {
			case svc.errs <- fmt.Errorf("service background error: %w", err):
			default:
			}
		}
	})
}
