package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "charm.land/log/v2"
	kitlog "github.com/go-kit/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nakamauwu/hireloop/auth"
	"github.com/nakamauwu/hireloop/cockroach"
	"github.com/nakamauwu/hireloop/cockroach/migrator"
	"github.com/nakamauwu/hireloop/config"
	"github.com/nakamauwu/hireloop/mailing"
	"github.com/nakamauwu/hireloop/metrics"
	hireloopminio "github.com/nakamauwu/hireloop/minio"
	"github.com/nakamauwu/hireloop/pubsub"
	"github.com/nakamauwu/hireloop/service"
	httptransport "github.com/nakamauwu/hireloop/transport/http"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	errLogger := slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
	}))
	infoLogger := slog.New(charmlog.NewWithOptions(os.Stdout, charmlog.Options{
		ReportTimestamp: true,
	}))

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	origin, err := url.Parse(cfg.Origin)
	if err != nil {
		return fmt.Errorf("parse origin: %w", err)
	}

	tokens, err := auth.NewCodec(cfg.TokenKey, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("create token codec: %w", err)
	}

	dbPool, err := pgxpool.New(context.Background(), cfg.CockroachURL)
	if err != nil {
		return fmt.Errorf("open cockroach connection pool: %w", err)
	}

	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		return fmt.Errorf("ping cockroach: %w", err)
	}

	migrationStart := time.Now()
	infoLogger.Info("starting cockroach migrations")

	applied, err := migrator.Migrate(ctx, dbPool, cockroach.MigrationsFS)
	if err != nil {
		return fmt.Errorf("migrate cockroach schema: %w", err)
	}

	infoLogger.Info("finished cockroach migrations", "applied", len(applied), "took", time.Since(migrationStart))

	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return fmt.Errorf("create minio client: %w", err)
	}

	publicURL, err := url.Parse(cfg.MinioPublicURL)
	if err != nil {
		return fmt.Errorf("parse minio public url: %w", err)
	}

	storage := hireloopminio.New(context.Background(), minioClient, cfg.MinioBucket, publicURL.JoinPath(cfg.MinioBucket), cfg.CleanupTimeout)
	go func() {
		for err := range storage.Errs() {
			errLogger.Error("minio error", "error", err)
		}
	}()

	bucketsStart := time.Now()
	infoLogger.Info("creating minio bucket", "bucket", cfg.MinioBucket)

	if err := storage.CreateReadOnlyBucket(ctx); err != nil {
		return fmt.Errorf("create minio bucket: %w", err)
	}

	infoLogger.Info("finished creating minio bucket", "took", time.Since(bucketsStart))

	var ps pubsub.PubSub = &pubsub.Inmem{}
	if cfg.NATSURL != "" {
		natsConn, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("connect to nats: %w", err)
		}

		defer natsConn.Close()

		ps = &pubsub.NATS{Conn: natsConn}
	}

	sender, err := newSender(cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	svc := service.New(&service.Config{
		Cockroach:         cockroach.New(dbPool),
		Storage:           storage,
		PubSub:            ps,
		Sender:            sender,
		Logger:            kitlog.With(logger, "component", "service"),
		Metrics:           metrics.New(reg),
		Origin:            origin,
		MaxUploadSize:     cfg.MaxUploadBytes,
		BaseCtx:           context.Background(),
		BackgroundTimeout: cfg.BackgroundTimeout,
	})

	svcErrsDone := make(chan struct{})
	go func() {
		defer close(svcErrsDone)
		for err := range svc.Errs() {
			errLogger.Error("service error", "error", err)
		}
	}()

	notifierDone := make(chan struct{})
	go func() {
		defer close(notifierDone)
		if err := svc.RunNotifier(ctx); err != nil {
			errLogger.Error("interview notifier", "error", err)
		}
	}()

	handler := &httptransport.Handler{
		Service: svc,
		Tokens:  tokens,
		Logger:  kitlog.With(logger, "component", "http"),
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			errLogger.Error("shutdown http server", "error", err)
		}
	}()

	infoLogger.Info("starting hireloop server", "url", fmt.Sprintf("http://localhost:%d", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start hireloop server: %w", err)
	}

	stop()
	<-notifierDone

	_ = svc.Close()
	<-svcErrsDone

	return nil
}

func newSender(cfg config.Config) (mailing.Sender, error) {
	switch cfg.MailProvider {
	case "resend":
		return mailing.NewResend(cfg.MailFrom, cfg.ResendAPIKey), nil
	case "smtp":
		return mailing.NewSMTP(cfg.MailFrom, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword), nil
	case "", "none":
		return mailing.Noop{}, nil
	}
	return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
}
