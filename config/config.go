package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

type Config struct {
	CockroachURL      string        `ff:"long: cockroach-url, default: postgresql://root@127.0.0.1:26257/defaultdb?sslmode=disable, usage: URL for the CockroachDB database"`
	Port              uint32        `ff:"long: port, short: p, default: 4444, usage: Port for the HTTP server"`
	Origin            string        `ff:"long: origin, default: http://localhost:4444, usage: Public URL of the web app used in mail links"`
	TokenKey          string        `ff:"long: token-key, default: supersecretkeyyoushouldnotcommit, usage: 32 bytes key to verify bearer tokens"`
	TokenTTL          time.Duration `ff:"long: token-ttl, default: 0s, usage: Max bearer token age; zero disables expiration"`
	MinioEndpoint     string        `ff:"long: minio-endpoint, default: localhost:9000, usage: MinIO endpoint"`
	MinioAccessKey    string        `ff:"long: minio-access-key, default: minioadmin, usage: MinIO access key"`
	MinioSecretKey    string        `ff:"long: minio-secret-key, default: minioadmin, usage: MinIO secret key"`
	MinioSecure       bool          `ff:"long: minio-secure, default: false, usage: Use secure connection to MinIO"`
	MinioBucket       string        `ff:"long: minio-bucket, default: chat-files, usage: MinIO bucket for shared chat files"`
	MinioPublicURL    string        `ff:"long: minio-public-url, default: http://localhost:9000, usage: Public URL files are served from"`
	NATSURL           string        `ff:"long: nats-url, usage: NATS server URL; empty uses an in-process bus"`
	MailProvider      string        `ff:"long: mail-provider, default: none, usage: Mail provider (resend or smtp or none)"`
	MailFrom          string        `ff:"long: mail-from, default: hireloop <noreply@localhost>, usage: Sender address of outgoing mail"`
	ResendAPIKey      string        `ff:"long: resend-api-key, usage: Resend API key"`
	SMTPHost          string        `ff:"long: smtp-host, default: localhost, usage: SMTP host"`
	SMTPPort          int           `ff:"long: smtp-port, default: 587, usage: SMTP port"`
	SMTPUsername      string        `ff:"long: smtp-username, usage: SMTP username"`
	SMTPPassword      string        `ff:"long: smtp-password, usage: SMTP password"`
	BackgroundTimeout time.Duration `ff:"long: background-timeout, default: 1m, usage: Timeout for background jobs like mailing"`
	CleanupTimeout    time.Duration `ff:"long: cleanup-timeout, default: 5s, usage: Timeout for background cleanup operations"`
	MaxUploadBytes    int64         `ff:"long: max-upload-bytes, default: 10485760, usage: Max size of a shared file"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	fs := ff.NewFlagSetFrom("hireloop", &cfg)
	err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("HIRELOOP"))
	if errors.Is(err, ff.ErrHelp) {
		fmt.Println(ffhelp.Flags(fs))
		os.Exit(0)
	}

	return cfg, err
}
