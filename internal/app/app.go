// Package app wires configuration, AWS clients, stores and services for
// the cmd binaries.
package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	"github.com/kylejryan/image-groups/internal/awsutil"
	"github.com/kylejryan/image-groups/internal/config"
	"github.com/kylejryan/image-groups/internal/ddb"
	"github.com/kylejryan/image-groups/internal/gateway"
	"github.com/kylejryan/image-groups/internal/logging"
	"github.com/kylejryan/image-groups/internal/memstore"
	"github.com/kylejryan/image-groups/internal/notify"
	"github.com/kylejryan/image-groups/internal/s3io"
	"github.com/kylejryan/image-groups/internal/service"
	"github.com/kylejryan/image-groups/internal/snsio"
)

// App holds the application state shared by every function.
type App struct {
	Env    config.Env
	Log    *zap.Logger
	Groups *service.Groups
	Images *service.Images

	awsCfg aws.Config
	ledger notify.Ledger
}

// New loads configuration and builds the AWS-backed application.
func New(ctx context.Context) (*App, error) {
	env, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(env.LogLevel)
	if err != nil {
		return nil, err
	}

	cfg, endpoint, err := awsutil.Load(ctx, env.Region, env.MaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s3c := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.UsePathStyle = true // localstack/dev friendliness
		}
	})
	db := dynamodb.NewFromConfig(cfg)

	groups := &ddb.GroupRepo{DB: db, Table: env.GroupsTable}
	images := &ddb.ImageRepo{DB: db, Table: env.ImagesTable, Index: env.ImageIDIndex}
	issuer := &s3io.Issuer{P: s3.NewPresignClient(s3c), Bucket: env.Bucket, TTL: env.PresignTTL}

	a := &App{
		Env:    env,
		Log:    log,
		Groups: service.NewGroups(groups, log),
		Images: service.NewImages(groups, images, issuer, env.Bucket, log),
		awsCfg: cfg,
	}
	if env.NotificationsTable != "" {
		a.ledger = &ddb.Ledger{DB: db, Table: env.NotificationsTable}
	}
	return a, nil
}

// NewInMemory builds the application on in-memory stores. Upload URLs are
// signed with placeholder credentials and are not accepted by S3.
func NewInMemory(env config.Env, log *zap.Logger) *App {
	log = logging.OrNop(log)
	groups := memstore.NewGroups()
	presigner := s3.NewPresignClient(s3.New(s3.Options{
		Region:      env.Region,
		Credentials: credentials.NewStaticCredentialsProvider("local", "local", ""),
	}))
	issuer := &s3io.Issuer{P: presigner, Bucket: env.Bucket, TTL: env.PresignTTL}
	return &App{
		Env:    env,
		Log:    log,
		Groups: service.NewGroups(groups, log),
		Images: service.NewImages(groups, memstore.NewImages(), issuer, env.Bucket, log),
		ledger: memstore.NewLedger(),
	}
}

// Gateway returns the HTTP route handlers.
func (a *App) Gateway() *gateway.Handlers {
	return gateway.New(a.Groups, a.Images, a.Log)
}

// Notifier returns the upload notification handler. It needs a ledger, so
// NOTIFICATIONS_TABLE must be set for the AWS-backed application.
func (a *App) Notifier() (*notify.Handler, error) {
	if a.ledger == nil {
		return nil, fmt.Errorf("missing env NOTIFICATIONS_TABLE")
	}
	var pub notify.Publisher = snsio.LogPublisher{Log: a.Log}
	if a.Env.TopicARN != "" {
		pub = &snsio.Publisher{API: sns.NewFromConfig(a.awsCfg), TopicARN: a.Env.TopicARN}
	}
	return notify.New(a.Images, a.ledger, pub, a.Env.Bucket, a.Env.DedupTTL, a.Log), nil
}
