// container.go
package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/config"
	"github.com/Abraxas-365/recruitflow/pkg/database"
	"github.com/Abraxas-365/recruitflow/pkg/fsx"
	"github.com/Abraxas-365/recruitflow/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/recruitflow/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/recruitflow/pkg/iam/auth"
	"github.com/Abraxas-365/recruitflow/pkg/iam/profile/profileapi"
	"github.com/Abraxas-365/recruitflow/pkg/iam/profile/profileinfra"
	"github.com/Abraxas-365/recruitflow/pkg/iam/profile/profilesrv"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/logx"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/authz"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/candidate/candidateapi"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/candidate/candidateinfra"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/candidate/candidatesrv"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job/jobapi"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job/jobinfra"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job/jobsrv"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/workflow"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/workflow/workflowinfra"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Config *config.Config
	Clock  kernel.Clock

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client
	RabbitMQ   *workflowinfra.RabbitMQDispatcher

	// Workflow plumbing
	Bus         *workflow.Bus
	Emitter     *workflow.Emitter
	Idempotency *workflow.Idempotency
	Gate        *authz.Gate

	// Domain services
	ProfileService   *profilesrv.ProfileService
	JobService       *jobsrv.JobService
	CandidateService *candidatesrv.CandidateService
	TokenService     auth.TokenService

	// API Handlers
	AuthHandlers      *auth.AuthHandlers
	ProfileHandlers   *profileapi.ProfileHandlers
	JobHandlers       *jobapi.JobHandlers
	CandidateHandlers *candidateapi.CandidateHandlers

	// Middleware
	AuthMiddleware *auth.Middleware

	// Background Services
	PurgeSweeper *jobsrv.PurgeSweeper
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing dependency container...")

	c := &Container{
		Config: cfg,
		Clock:  kernel.SystemClock(),
	}

	c.initInfrastructure()
	c.initWorkflow()
	c.initServices()

	logx.Info("✅ Container initialized successfully")
	return c
}

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Database Connection
	db, err := database.Connect(c.Config.Database)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	c.DB = db
	logx.Info("✅ Database connected")

	if c.Config.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := database.Migrate(ctx, db); err != nil {
			logx.Fatalf("Failed to apply schema: %v", err)
		}
		logx.Info("✅ Schema applied")
	}

	// 2. Redis Connection (idempotency claims)
	if c.Config.Workflow.IdempotencyStore == "redis" {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Address(),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
			logx.Fatalf("Failed to connect to Redis: %v", err)
		}
		logx.Info("✅ Redis connected")
	}

	// 3. File Storage Configuration (Local or S3)
	c.initFileStorage()

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initFileStorage() {
	storage := c.Config.Storage

	switch storage.Mode {
	case config.StorageModeS3:
		awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO(), awsConfig.WithRegion(storage.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		c.S3Client = s3.NewFromConfig(awsCfg)
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, storage.AWSBucket, storage.S3Prefix)
		logx.Infof("✅ S3 file system configured (bucket: %s, region: %s)", storage.AWSBucket, storage.AWSRegion)

	default:
		localFS, err := fsxlocal.NewLocalFileSystem(storage.UploadDir)
		if err != nil {
			logx.Fatalf("Failed to initialize local file system: %v", err)
		}
		c.FileSystem = localFS
		logx.Infof("✅ Local file system configured (path: %s)", localFS.GetBasePath())
	}
}

func (c *Container) initWorkflow() {
	wf := c.Config.Workflow

	// Idempotency store (Redis in production, memory for a single instance)
	var store workflow.IdempotencyStore
	if c.Redis != nil {
		store = workflowinfra.NewRedisIdempotencyStore(c.Redis)
		logx.Info("✅ Using Redis idempotency store")
	} else {
		store = workflow.NewMemoryIdempotencyStore(c.Clock)
		logx.Warn("⚠️  Using in-memory idempotency store (not shared between instances)")
	}
	c.Idempotency = workflow.NewIdempotency(store, wf.IdempotencyBucket, wf.IdempotencyTTL)

	// Notification transport
	var dispatcher workflow.Dispatcher
	switch c.Config.Messaging.Dispatcher {
	case config.DispatcherRabbitMQ:
		rmq, err := workflowinfra.NewRabbitMQDispatcher(c.Config.Messaging.RabbitMQURL, c.Config.Messaging.Exchange)
		if err != nil {
			logx.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		c.RabbitMQ = rmq
		dispatcher = rmq
		logx.Infof("✅ RabbitMQ dispatcher configured (exchange: %s)", c.Config.Messaging.Exchange)
	default:
		dispatcher = workflowinfra.NewLogDispatcher()
		logx.Info("✅ Log dispatcher configured")
	}

	c.Emitter = workflow.NewEmitter(dispatcher, wf.NotificationQueue, wf.NotificationWorkers)
	c.Gate = authz.NewGate()
	c.Bus = workflow.NewBus()
}

func (c *Container) initServices() {
	logx.Info("🗄️  Initializing repositories and services...")

	// --- Repositories ---
	profileRepo := profileinfra.NewPostgresProfileRepository(c.DB)
	jobRepo := jobinfra.NewPostgresJobRepository(c.DB)
	candidateRepo := candidateinfra.NewPostgresCandidateRepository(c.DB)
	historyRepo := candidateinfra.NewPostgresHistoryRepository(c.DB)

	// --- Bus subscribers ---
	c.Bus.Subscribe("notifications", c.Emitter.Handle)
	c.Bus.Subscribe("candidate-history", candidatesrv.NewHistoryRecorder(historyRepo).Handle)

	// --- Domain Services ---
	passwordSvc := profileinfra.NewBcryptPasswordService(c.Config.Auth.Password.BcryptCost)
	c.ProfileService = profilesrv.NewProfileService(
		profileRepo,
		passwordSvc,
		c.Gate,
		c.Clock,
		c.Config.Auth.Password.MinLength,
	)

	c.JobService = jobsrv.NewJobService(
		jobRepo,
		c.Gate,
		c.Bus,
		c.Idempotency,
		c.Clock,
		c.Config.Workflow,
	)

	c.CandidateService = candidatesrv.NewCandidateService(
		candidateRepo,
		historyRepo,
		jobRepo,
		c.FileSystem,
		c.Gate,
		c.Bus,
		c.Idempotency,
		c.Clock,
		c.Config.Workflow,
	)

	// --- Auth ---
	c.TokenService = auth.NewJWTServiceFromConfig(c.Config.Auth.JWT, c.Clock)
	c.AuthMiddleware = auth.NewMiddleware(c.TokenService, c.ProfileService, c.Config.Auth.Cookie.AccessTokenName)
	c.AuthHandlers = auth.NewAuthHandlers(c.ProfileService, c.TokenService, c.Config.Auth.Cookie)

	// --- API Handlers ---
	c.ProfileHandlers = profileapi.NewProfileHandlers(c.ProfileService)
	c.JobHandlers = jobapi.NewJobHandlers(c.JobService)
	c.CandidateHandlers = candidateapi.NewCandidateHandlers(c.CandidateService)

	// --- Background Services ---
	if c.Config.Workflow.PurgeSweepEnabled {
		c.PurgeSweeper = jobsrv.NewPurgeSweeper(
			c.JobService,
			c.Config.Workflow.PurgeSweepInterval,
			c.Config.Workflow.RestoreWindowDays,
		)
	}

	logx.Info("✅ All services and handlers initialized")
}

// StartBackgroundServices seeds the first admin and starts the purge sweeper
func (c *Container) StartBackgroundServices(ctx context.Context) {
	logx.Info("🔄 Starting background services...")

	bootstrap := c.Config.Auth.Bootstrap
	if err := c.ProfileService.EnsureAdmin(ctx, bootstrap.AdminEmail, bootstrap.AdminName, bootstrap.AdminPassword); err != nil {
		logx.WithError(err).Error("could not create bootstrap admin")
	}

	if c.PurgeSweeper != nil {
		go c.PurgeSweeper.Start(ctx)
		logx.Infof("✅ Purge sweeper started (every %s)", c.Config.Workflow.PurgeSweepInterval)
	}
}

// Cleanup drains notifications and closes all connections
func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.Emitter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := c.Emitter.Close(ctx); err != nil {
			logx.Errorf("Error draining notifications: %v", err)
		}
		cancel()
	}

	if c.RabbitMQ != nil {
		if err := c.RabbitMQ.Close(); err != nil {
			logx.Errorf("Error closing RabbitMQ: %v", err)
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("✅ Database connection closed")
		}
	}

	// Close Redis connection
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup completed")
}
