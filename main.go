package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"linkboard/backend/api/route"
	"linkboard/backend/common"
	"linkboard/backend/common/i18n"
	"linkboard/backend/graph"
	"linkboard/backend/library/feedcache"
	"linkboard/backend/library/health"
	"linkboard/backend/model"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var (
	flagPort       int
	flagSQLitePath string
	flagSQLDSN     string
	flagRedis      string
	flagDebug      bool
	flagLocalesDir string
)

var rootCmd = &cobra.Command{
	Use:           "linkboard",
	Short:         "GraphQL link-sharing server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := common.LoadConfig(); err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("port") {
			common.Port = flagPort
		}
		if flags.Changed("sqlite-path") {
			common.SQLitePath = flagSQLitePath
		}
		if flags.Changed("sql-dsn") {
			common.SQLDSN = flagSQLDSN
		}
		if flags.Changed("redis") {
			common.RedisConnString = flagRedis
		}
		common.DebugEnabled = flagDebug || os.Getenv("GIN_MODE") == "debug"
		if err := common.SetupLogger(common.DebugEnabled); err != nil {
			return err
		}
		return common.ValidateConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		common.SyncLogger()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&common.ConfigPath, "config", "", "path to config.ini (default ~/.config/linkboard/config.ini)")
	pf.IntVarP(&flagPort, "port", "p", common.Port, "HTTP port")
	pf.StringVar(&flagSQLitePath, "sqlite-path", common.SQLitePath, "SQLite database file, used when --sql-dsn is empty")
	pf.StringVar(&flagSQLDSN, "sql-dsn", "", "MySQL or PostgreSQL DSN")
	pf.StringVar(&flagRedis, "redis", "", "Redis connection string, e.g. redis://localhost:6379/0")
	pf.BoolVar(&flagDebug, "debug", false, "enable debug logging")
	pf.StringVar(&flagLocalesDir, "locales-dir", "", "directory of <lang>.json files overriding built-in messages")

	rootCmd.AddCommand(serveCmd, migrateCmd, userCmd, tokenCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openStores connects redis and the database. The returned func releases both.
func openStores() (func(), error) {
	if flagLocalesDir != "" {
		if err := i18n.Init(flagLocalesDir); err != nil {
			return nil, err
		}
	}
	if err := common.InitRedisClient(); err != nil {
		return nil, err
	}
	if err := model.InitDB(); err != nil {
		_ = common.CloseRedisClient()
		return nil, err
	}
	return func() {
		if err := model.CloseDB(); err != nil {
			common.SysError("failed to close database: " + err.Error())
		}
		if err := common.CloseRedisClient(); err != nil {
			common.SysError("failed to close redis: " + err.Error())
		}
	}, nil
}

func runServer() error {
	common.SysLog("linkboard " + common.Version + " started")
	if !common.DebugEnabled {
		gin.SetMode(gin.ReleaseMode)
	}

	closeStores, err := openStores()
	if err != nil {
		return err
	}
	defer closeStores()

	users := model.NewUserRepository(model.DB)
	resolver := &graph.Resolver{
		Links: model.NewLinkRepository(model.DB),
		Users: users,
	}
	if common.FeedCacheTTL > 0 {
		resolver.Cache = feedcache.NewManager(common.RDB, common.FeedCacheTTL)
	}
	schema, err := graph.NewSchema(resolver)
	if err != nil {
		return fmt.Errorf("build graphql schema: %w", err)
	}

	probes := []health.Probe{health.DatabaseProbe(model.DB)}
	if common.RedisEnabled {
		probes = append(probes, health.RedisProbe(common.RDB))
	}
	checker := health.NewChecker(time.Minute, probes...)
	checker.Start()
	defer checker.Stop()

	server := gin.New()
	route.SetRouter(server, &route.Options{Schema: &schema, Users: users, Health: checker})

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(common.Port),
		Handler: server,
	}

	errCh := make(chan error, 1)
	go func() {
		common.SysLog("Server listening on port: " + strconv.Itoa(common.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-quit:
	}

	common.SysLog("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		common.SysError("Server forced to shutdown: " + err.Error())
	}
	common.SysLog("Server exited")
	return nil
}
