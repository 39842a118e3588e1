package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	alwaysserve "github.com/always-serve/always-serve"
	"github.com/always-serve/always-serve/cache"
	cachekey "github.com/always-serve/always-serve/pkg/cache-key"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// CLI flags
	portFlag           int
	rootFlag           string
	maxAgeFlag         time.Duration
	providerFlag       string
	indexFlag          string
	noCacheFlag        bool
	configFilenameFlag string
	verbosityTraceFlag bool
	logFilenameFlag    string

	// this is set by goreleaser
	version string
)

func init() {
	flag.StringVar(&rootFlag, "root", "", "Directory to serve (overrides config)")
	flag.IntVar(&portFlag, "port", 8080, "Port to listen on")
	flag.DurationVar(&maxAgeFlag, "max-age", 0, "Max age advertised to browsers in Cache-Control")
	flag.StringVar(&providerFlag, "provider", "memory", "Caching provider to use (memory or sqlite)")
	flag.StringVar(&indexFlag, "index", "", "Comma-separated default document names")
	flag.BoolVar(&noCacheFlag, "no-cache", false, "Disable the in-process response cache")
	flag.StringVar(&configFilenameFlag, "config", "", "Path to config file")
	flag.BoolVar(&verbosityTraceFlag, "vv", false, "Verbosity: trace logging")
	flag.StringVar(&logFilenameFlag, "log-file", "", "Log file to use (in addition to stdout)")

	if version == "" {
		version = "DEV"
	}
}

func main() {
	flag.Parse()

	// set log level
	logLevel := zerolog.DebugLevel
	if verbosityTraceFlag {
		logLevel = zerolog.TraceLevel
	}

	// set up log output to stdout
	// also output to logfile if specified
	logOutputs := make([]io.Writer, 0)
	logOutputs = append(logOutputs, zerolog.ConsoleWriter{Out: os.Stdout})
	if logFilenameFlag != "" {
		if logFileOutput, err := os.OpenFile(logFilenameFlag, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644); err != nil {
			log.Fatal().Err(err).Msg("Cannot open log file")
		} else {
			logOutputs = append(logOutputs, logFileOutput)
		}
	}
	multiWriter := zerolog.MultiLevelWriter(logOutputs...)
	log.Logger = log.Level(logLevel).Output(multiWriter).
		With().Str("version", version).Logger()

	serveConfig := alwaysserve.Config{
		EnableCache: true,
		Logger:      &log.Logger,
	}
	provider := providerFlag

	if configFilenameFlag != "" {
		fileConfig, err := getConfig(configFilenameFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not read config file")
		}
		serveConfig.Root = fileConfig.Root
		serveConfig.IndexNames = fileConfig.Index
		serveConfig.EnableCache = !fileConfig.NoCache
		if fileConfig.MaxAge != "" {
			maxAge, err := time.ParseDuration(fileConfig.MaxAge)
			if err != nil {
				log.Fatal().Err(err).Msg("Could not parse maxAge in config file")
			}
			serveConfig.MaxAge = maxAge
		}
		if fileConfig.Provider != "" {
			provider = fileConfig.Provider
		}
		if fileConfig.Port > 0 {
			portFlag = fileConfig.Port
		}
	}

	// flags override config file values
	if rootFlag != "" {
		serveConfig.Root = rootFlag
	}
	if maxAgeFlag != 0 {
		serveConfig.MaxAge = maxAgeFlag
	}
	if indexFlag != "" {
		serveConfig.IndexNames = strings.Split(indexFlag, ",")
	}
	if noCacheFlag {
		serveConfig.EnableCache = false
	}

	if serveConfig.Root == "" {
		log.Fatal().Msg("Please specify root directory")
	}

	// use configured provider, both keep entries in memory only
	switch provider {
	case "memory":
		serveConfig.Cache = cache.NewMemCache()
	case "sqlite":
		serveConfig.Cache = cache.NewSQLiteCache(cache.MemoryDSN)
	default:
		log.Fatal().Msgf("Unsupported cache provider: %s", provider)
	}

	aserve, err := alwaysserve.New(serveConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not initialize server")
	}

	r := chi.NewRouter()
	r.Post("/-/purge", func(w http.ResponseWriter, r *http.Request) {
		if rawKey := r.URL.Query().Get("key"); rawKey != "" {
			key, err := cachekey.Parse(rawKey)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			aserve.EvictCache(key)
			w.WriteHeader(http.StatusAccepted)
			io.WriteString(w, "Purged "+key.String())
			return
		}
		aserve.ClearCache()
		w.WriteHeader(http.StatusAccepted)
		io.WriteString(w, "Purged all entries")
	})
	r.Handle("/*", aserve.Middleware(http.NotFoundHandler()))

	log.Info().Msgf("Serving %s on port %v (cache enabled: %v)", serveConfig.Root, portFlag, serveConfig.EnableCache)
	err = http.ListenAndServe(fmt.Sprintf(":%d", portFlag), r)

	if err != nil {
		panic(err)
	}
}
