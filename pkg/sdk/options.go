package studyshelf

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int

	keyPrefix      string
	pageSize       int
	globalDebounce time.Duration
	columnDebounce time.Duration
	tagsTTL        time.Duration

	logger *zap.Logger
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCredentials sets the database username and logical database index.
func WithCredentials(username string, db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.db = db
	})
}

// WithJWTSecret sets the token signing secret. Required for SignUp, LogIn,
// and VerifyToken.
func WithJWTSecret(secret string) Option {
	return optionFunc(func(c *clientConfig) {
		c.jwtSecret = secret
	})
}

// WithTokenTTL overrides the issued token lifetime. Default: 3 days.
func WithTokenTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.tokenTTL = ttl
	})
}

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return optionFunc(func(c *clientConfig) {
		c.bcryptCost = cost
	})
}

// WithKeyPrefix sets the storage key namespace. Default: "studyshelf:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithPageSize sets the initial table-view page size. Default: 3.
func WithPageSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = size
	})
}

// WithDebounce sets the deferred-filter delays for the table view.
// Zero delays make the debounced setters synchronous.
func WithDebounce(global, column time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.globalDebounce = global
		c.columnDebounce = column
	})
}

// WithLogger sets the client logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = logger
	})
}
