package cli

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boreholelog/internal/server"
	"github.com/matzehuels/boreholelog/pkg/cache"
	"github.com/matzehuels/boreholelog/pkg/ingest"
	"github.com/matzehuels/boreholelog/pkg/observability"
	"github.com/matzehuels/boreholelog/pkg/pipeline"
)

// serveOpts holds the flags of the serve command. Defaults come from
// BOREHOLELOG_* environment variables so containers need no flags.
type serveOpts struct {
	addr          string
	timeout       time.Duration
	maxBody       int64
	scopeHeader   string
	redisAddr     string
	redisPassword string
	redisDB       int
	mongoURI      string
	mongoDB       string
	mongoColl     string
	noCache       bool
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envParsed returns def when key is unset or does not parse.
func envParsed[T any](key string, def T, parse func(string) (T, error)) T {
	if v := os.Getenv(key); v != "" {
		if out, err := parse(v); err == nil {
			return out
		}
	}
	return def
}

func parseInt64(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve runs the HTTP API. Rendered pages are cached in Redis when
--redis is set, otherwise in the local file cache. With --mongo the
/v1/boreholes routes render boreholes stored in MongoDB.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", envOr("BOREHOLELOG_ADDR", ":8080"), "listen address")
	f.DurationVar(&opts.timeout, "timeout", envParsed("BOREHOLELOG_TIMEOUT", 60*time.Second, time.ParseDuration), "per-request timeout (0 disables)")
	f.Int64Var(&opts.maxBody, "max-body", envParsed("BOREHOLELOG_MAX_BODY", int64(server.DefaultMaxBody), parseInt64), "maximum request body in bytes")
	f.StringVar(&opts.scopeHeader, "scope-header", envOr("BOREHOLELOG_SCOPE_HEADER", ""), "request header that scopes cache keys per client")
	f.StringVar(&opts.redisAddr, "redis", envOr("BOREHOLELOG_REDIS_ADDR", ""), "Redis address for the shared cache")
	f.StringVar(&opts.redisPassword, "redis-password", os.Getenv("BOREHOLELOG_REDIS_PASSWORD"), "Redis password")
	f.IntVar(&opts.redisDB, "redis-db", envParsed("BOREHOLELOG_REDIS_DB", 0, strconv.Atoi), "Redis database number")
	f.StringVar(&opts.mongoURI, "mongo", envOr("BOREHOLELOG_MONGO_URI", ""), "MongoDB URI for stored boreholes")
	f.StringVar(&opts.mongoDB, "mongo-db", envOr("BOREHOLELOG_MONGO_DB", ingest.DefaultMongoDatabase), "MongoDB database")
	f.StringVar(&opts.mongoColl, "mongo-collection", envOr("BOREHOLELOG_MONGO_COLLECTION", ingest.DefaultMongoCollection), "MongoDB collection")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	hooks := observability.NewLogHooks(logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	var store cache.Cache
	switch {
	case opts.noCache:
		store = cache.NewNullCache()
	case opts.redisAddr != "":
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     opts.redisAddr,
			Password: opts.redisPassword,
			DB:       opts.redisDB,
			Prefix:   appName + ":",
		})
		if err != nil {
			return err
		}
		store = rc
		logger.Info("using redis cache", "addr", opts.redisAddr)
	default:
		fc, err := newCache(false)
		if err != nil {
			return err
		}
		store = fc
	}
	runner := pipeline.NewRunner(store, nil, logger)
	defer runner.Close()

	cfg := server.Config{
		MaxBody:     opts.maxBody,
		Timeout:     opts.timeout,
		ScopeHeader: opts.scopeHeader,
	}
	if opts.mongoURI != "" {
		ms, err := ingest.OpenMongo(ctx, opts.mongoURI, opts.mongoDB, opts.mongoColl)
		if err != nil {
			return err
		}
		defer ms.Close(context.Background())
		cfg.Store = ms
		logger.Info("serving stored boreholes", "db", opts.mongoDB, "collection", opts.mongoColl)
	}

	return server.New(runner, logger, cfg).ListenAndServe(ctx, opts.addr)
}
