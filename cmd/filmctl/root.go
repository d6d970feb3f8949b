package main

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/jengzang/filmday-backend-go/internal/auth"
	"github.com/jengzang/filmday-backend-go/internal/config"
	"github.com/jengzang/filmday-backend-go/internal/database"
	"github.com/jengzang/filmday-backend-go/internal/logging"
	"github.com/jengzang/filmday-backend-go/internal/repository"
	"github.com/jengzang/filmday-backend-go/internal/service"
)

type commandContext struct {
	dbFlag *string

	conn  *sql.DB
	films *repository.FilmRepository
	users *repository.UserRepository
	runs  *repository.ImportRunRepository
	cache *redis.Client
}

func newCommandContext(dbFlag *string) *commandContext {
	return &commandContext{dbFlag: dbFlag}
}

func (c *commandContext) dbPath() string {
	if c.dbFlag != nil {
		if path := strings.TrimSpace(*c.dbFlag); path != "" {
			return path
		}
	}
	return config.Load().DBPath
}

// open connects to the catalog once per invocation
func (c *commandContext) open() error {
	if c.conn != nil {
		return nil
	}
	conn, err := database.Open(database.Config{Path: c.dbPath()})
	if err != nil {
		return err
	}
	c.conn = conn
	c.films = repository.NewFilmRepository(conn)
	c.users = repository.NewUserRepository(conn)
	c.runs = repository.NewImportRunRepository(conn)
	return nil
}

func (c *commandContext) close() {
	if c.cache != nil {
		c.cache.Close()
		c.cache = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// connectCache connects to the server's result cache so an import can
// drop stale entries. The import still runs when Redis is unreachable.
func (c *commandContext) connectCache(ctx context.Context) *redis.Client {
	if c.cache != nil {
		return c.cache
	}
	client, err := database.NewRedis(ctx, config.Load().Redis)
	switch {
	case errors.Is(err, database.ErrRedisDisabled):
		return nil
	case err != nil:
		logging.Warn().Err(err).Msg("Redis unavailable, cached search results expire on their own")
		return nil
	}
	c.cache = client
	return client
}

func (c *commandContext) filmService() *service.FilmService {
	return service.NewFilmService(c.films, nil, 0)
}

func (c *commandContext) importService(ctx context.Context) *service.ImportService {
	cfg := config.Load()
	invalidator := service.NewFilmService(c.films, c.connectCache(ctx), cfg.Redis.TTL)
	return service.NewImportService(c.films, c.runs, invalidator)
}

func (c *commandContext) userService() (*service.UserService, error) {
	cfg := config.Load()
	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTimeout)
	if err != nil {
		return nil, err
	}
	return service.NewUserService(c.users, jwtManager), nil
}

func newRootCommand() *cobra.Command {
	var dbFlag string
	var logLevelFlag string

	ctx := newCommandContext(&dbFlag)

	rootCmd := &cobra.Command{
		Use:           "filmctl",
		Short:         "Manage the Thursday Filmday catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(logging.Config{Level: logLevelFlag, Format: "console", Output: cmd.ErrOrStderr()})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "Path to the film database (default $DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "Log level")

	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newUserCommand(ctx))
	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newRandomCommand(ctx))
	rootCmd.AddCommand(newGenresCommand(ctx))

	return rootCmd
}
