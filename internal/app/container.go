package app

import (
	"fmt"

	"github.com/ochronus/gopixeldrain/internal/config"
	"github.com/ochronus/gopixeldrain/internal/services/pixeldrain"
	"github.com/sirupsen/logrus"
)

// Container centralizes the core dependencies used across the application.
// It is intentionally small and uses interfaces so callers (and tests) can
// substitute implementations easily.
type Container struct {
	Config      *config.Config
	Credentials config.Credentials
	Logger      *logrus.Logger
	Client      pixeldrain.ClientAPI
}

// Option allows customizing the container during construction.
type Option func(*Container) error

// WithLogger overrides the default logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Container) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}

// WithClient overrides the default pixeldrain client.
func WithClient(client pixeldrain.ClientAPI) Option {
	return func(c *Container) error {
		if client == nil {
			return fmt.Errorf("pixeldrain client cannot be nil")
		}
		c.Client = client
		return nil
	}
}

// NewContainer builds a Container with sensible defaults derived from cfg.
// Options can be supplied to override specific dependencies (useful in tests).
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	container := &Container{
		Config:      cfg,
		Credentials: cfg.Credentials(),
		Logger:      buildDefaultLogger(cfg.Loglevel),
	}

	// Apply options early so tests can inject mocks before defaults are created.
	for _, opt := range opts {
		if err := opt(container); err != nil {
			return nil, err
		}
	}

	if container.Client == nil {
		container.Client = pixeldrain.NewClient(container.Credentials.APIKey)
	}

	return container, nil
}

func buildDefaultLogger(levelStr string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
