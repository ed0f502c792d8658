package studyshelf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/studyshelf/studyshelf/internal/db"
	dbValkey "github.com/studyshelf/studyshelf/internal/db/valkey"
	documentrepo "github.com/studyshelf/studyshelf/internal/repository/document"
	tagsrepo "github.com/studyshelf/studyshelf/internal/repository/tags"
	userrepo "github.com/studyshelf/studyshelf/internal/repository/user"
	authuc "github.com/studyshelf/studyshelf/internal/usecase/auth"
	documentuc "github.com/studyshelf/studyshelf/internal/usecase/document"
	healthuc "github.com/studyshelf/studyshelf/internal/usecase/health"
	tagsuc "github.com/studyshelf/studyshelf/internal/usecase/tags"
	viewuc "github.com/studyshelf/studyshelf/internal/usecase/view"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "studyshelf:"
	defaultTagsTTL          = 30 * 24 * time.Hour
)

// Client is the studyshelf SDK entry point.
type Client struct {
	store     db.Store
	authSvc   *authuc.Service
	docSvc    *documentuc.Service
	tagsSvc   *tagsuc.Service
	views     *viewuc.Registry
	healthSvc *healthuc.Service
}

// New creates a studyshelf Client and connects to the database.
// The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("studyshelf: database address required (use WithValkey)")
	}
	if cfg.jwtSecret == "" {
		return nil, errors.New("studyshelf: JWT secret required (use WithJWTSecret)")
	}

	store, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("studyshelf: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("studyshelf: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := cfg.keyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	tagsTTL := cfg.tagsTTL
	if tagsTTL <= 0 {
		tagsTTL = defaultTagsTTL
	}

	docRepo := documentrepo.New(store, prefix)
	userRepo := userrepo.New(store, prefix)
	tagsRepo := tagsrepo.New(store, prefix, tagsTTL)

	docSvc := documentuc.New(docRepo)
	authSvc := authuc.New(userRepo, cfg.jwtSecret).
		WithTokenTTL(cfg.tokenTTL).
		WithBcryptCost(cfg.bcryptCost)
	tagsSvc := tagsuc.New(tagsRepo, logger)
	views := viewuc.NewRegistry(docSvc, tagsSvc, logger).
		WithDefaults(cfg.pageSize, cfg.globalDebounce, cfg.columnDebounce)

	return &Client{
		store:     store,
		authSvc:   authSvc,
		docSvc:    docSvc,
		tagsSvc:   tagsSvc,
		views:     views,
		healthSvc: healthuc.New(store),
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// SignUp registers an account and returns a live session.
func (c *Client) SignUp(ctx context.Context, email, password string) (Session, error) {
	sess, err := c.authSvc.Register(ctx, email, password)
	if err != nil {
		return Session{}, fmt.Errorf("sign up: %w", err)
	}
	return Session(sess), nil
}

// LogIn verifies credentials and returns a live session.
func (c *Client) LogIn(ctx context.Context, email, password string) (Session, error) {
	sess, err := c.authSvc.Login(ctx, email, password)
	if err != nil {
		return Session{}, fmt.Errorf("log in: %w", err)
	}
	return Session(sess), nil
}

// VerifyToken resolves a bearer token to the user it was issued to.
func (c *Client) VerifyToken(token string) (string, error) {
	return c.authSvc.Verify(token)
}

// LogOut discards the owner's table-view session.
func (c *Client) LogOut(ownerID string) {
	c.views.Drop(ownerID)
}

// Shelf returns the document shelf scoped to one owner.
func (c *Client) Shelf(ownerID string) *Shelf {
	return &Shelf{
		ownerID: ownerID,
		docSvc:  c.docSvc,
		tagsSvc: c.tagsSvc,
		views:   c.views,
	}
}
