package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/infrastructure/queue"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"

	aboutHandler "blog-backend/internal/domains/about/handler"
	"blog-backend/internal/domains/comment"
	commentHandler "blog-backend/internal/domains/comment/handler"
	commentRepo "blog-backend/internal/domains/comment/repository"
	commentService "blog-backend/internal/domains/comment/service"
	"blog-backend/internal/domains/feed"
	feedHandler "blog-backend/internal/domains/feed/handler"
	feedService "blog-backend/internal/domains/feed/service"
	"blog-backend/internal/domains/follow"
	followHandler "blog-backend/internal/domains/follow/handler"
	followRepo "blog-backend/internal/domains/follow/repository"
	followService "blog-backend/internal/domains/follow/service"
	"blog-backend/internal/domains/group"
	groupRepo "blog-backend/internal/domains/group/repository"
	groupService "blog-backend/internal/domains/group/service"
	"blog-backend/internal/domains/post"
	postHandler "blog-backend/internal/domains/post/handler"
	postRepo "blog-backend/internal/domains/post/repository"
	postService "blog-backend/internal/domains/post/service"
	"blog-backend/internal/domains/user"
	userHandler "blog-backend/internal/domains/user/handler"
	userRepo "blog-backend/internal/domains/user/repository"
	userService "blog-backend/internal/domains/user/service"
)

// Container holds the dependency graph shared by the API, the worker and the
// admin CLI.
type Container struct {
	// ========================================
	// INFRASTRUCTURE
	// ========================================
	Config         *config.Config
	DB             *database.PostgresDB // nil when built from fakes
	Redis          *infraCache.RedisClient
	Cache          cache.Cache
	JWTManager     *jwt.Manager
	Storage        storage.ObjectStorage
	ImageProcessor *storage.ImageProcessor
	Queue          queue.Enqueuer // nil runs image jobs inline

	queueClient *asynq.Client

	// ========================================
	// REPOSITORIES
	// ========================================
	UserRepo    user.Repository
	GroupRepo   group.Repository
	PostRepo    post.Repository
	CommentRepo comment.Repository
	FollowRepo  follow.Repository

	// ========================================
	// SERVICES
	// ========================================
	UserService    user.Service
	GroupService   group.Service
	PostService    post.Service
	CommentService comment.Service
	FollowService  follow.Service
	FeedService    feed.Service

	// ========================================
	// HANDLERS
	// ========================================
	UserHandler    *userHandler.UserHandler
	PostHandler    *postHandler.PostHandler
	CommentHandler *commentHandler.CommentHandler
	FollowHandler  *followHandler.FollowHandler
	FeedHandler    *feedHandler.FeedHandler
	AboutHandler   *aboutHandler.AboutHandler
}

// Repositories is the storage layer handed to Wire.
type Repositories struct {
	Users    user.Repository
	Groups   group.Repository
	Posts    post.Repository
	Comments comment.Repository
	Follows  follow.Repository
}

// Options controls which infrastructure NewContainer brings up.
type Options struct {
	// WithQueue connects the asynq client. The admin CLI leaves it off and
	// processes images inline.
	WithQueue bool
}

// NewContainer connects PostgreSQL, the cache, MinIO and optionally the job
// queue, then wires repositories, services and handlers.
func NewContainer(opts Options) (*Container, error) {
	log.Info().Msg("Initializing container")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	c := &Container{Config: cfg}

	// ========================================
	// DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.App.AutoMigrate {
		if err := database.MigrateUp(dbConfig.DSN()); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	// ========================================
	// CACHE
	// ========================================
	if err := c.initCache(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	// ========================================
	// OBJECT STORAGE
	// ========================================
	minio, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = minio

	// ========================================
	// QUEUE
	// ========================================
	if opts.WithQueue {
		c.queueClient = queue.NewClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		c.Queue = c.queueClient
	}

	pool := db.Pool
	repos := Repositories{
		Users:    userRepo.NewPostgresRepository(pool, c.Cache),
		Groups:   groupRepo.NewPostgresRepository(pool, c.Cache, cfg.Cache.EntityTTL),
		Posts:    postRepo.NewPostgresRepository(pool),
		Comments: commentRepo.NewPostgresRepository(pool),
		Follows:  followRepo.NewPostgresRepository(pool),
	}

	c.wire(repos)

	log.Info().Str("env", cfg.App.Environment).Msg("Container initialized")
	return c, nil
}

func (c *Container) initCache(ctx context.Context) error {
	cfg := c.Config

	if cfg.Cache.Driver == "memory" {
		c.Cache = infraCache.NewMemoryCache()
		log.Info().Msg("[CACHE] Using in-memory cache")
		return nil
	}

	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Cache = infraCache.NewRedisCache(c.Redis, cfg.Cache.Prefix)
	return nil
}

// Wire builds a container from ready-made infrastructure and repositories.
// Tests use it with in-memory fakes; q may be nil.
func Wire(
	cfg *config.Config,
	store cache.Cache,
	objects storage.ObjectStorage,
	q queue.Enqueuer,
	repos Repositories,
) *Container {
	c := &Container{
		Config:  cfg,
		Cache:   store,
		Storage: objects,
		Queue:   q,
	}
	c.wire(repos)
	return c
}

func (c *Container) wire(repos Repositories) {
	cfg := c.Config

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	c.ImageProcessor = storage.NewImageProcessor(cfg.Image.MaxBytes, cfg.Image.ThumbnailSize)
	if cfg.Image.MaxPixels > 0 {
		c.ImageProcessor.MaxPixels = cfg.Image.MaxPixels
	}

	c.UserRepo = repos.Users
	c.GroupRepo = repos.Groups
	c.PostRepo = repos.Posts
	c.CommentRepo = repos.Comments
	c.FollowRepo = repos.Follows

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.GroupService = groupService.NewGroupService(c.GroupRepo)
	c.PostService = postService.NewPostService(c.PostRepo, c.GroupRepo, c.Storage, c.ImageProcessor, c.Queue)
	c.CommentService = commentService.NewCommentService(c.CommentRepo, c.PostService)
	c.FollowService = followService.NewFollowService(c.FollowRepo, c.UserRepo)
	c.FeedService = feedService.NewFeedService(c.PostRepo, c.GroupRepo, c.UserRepo, c.FollowService, c.CommentService)

	c.UserHandler = userHandler.NewUserHandler(c.UserService, cfg.Auth.CookieName, cfg.Auth.LoginURL, cfg.IsProduction())
	c.PostHandler = postHandler.NewPostHandler(c.PostService, c.GroupService)
	c.CommentHandler = commentHandler.NewCommentHandler(c.CommentService)
	c.FollowHandler = followHandler.NewFollowHandler(c.FollowService)
	c.FeedHandler = feedHandler.NewFeedHandler(c.FeedService)
	c.AboutHandler = aboutHandler.NewAboutHandler(cfg.App.Name, cfg.App.Version)
}

// Cleanup closes whatever NewContainer opened.
func (c *Container) Cleanup() {
	if c.queueClient != nil {
		if err := c.queueClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close queue client")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}

	log.Info().Msg("Container cleanup completed")
}
