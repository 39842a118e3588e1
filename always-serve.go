package alwaysserve

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/always-serve/always-serve/cache"
	cachekey "github.com/always-serve/always-serve/pkg/cache-key"
	"github.com/always-serve/always-serve/pkg/snapshot"

	"github.com/rs/zerolog"
)

type Config struct {
	// Root is the filesystem subtree to serve. Required.
	Root string
	// Storage for response snapshots.
	// An in-memory provider is used if nil.
	Cache cache.CacheProvider
	// EnableCache turns the in-process response cache on.
	EnableCache bool
	// MaxAge is advertised to browsers in the Cache-Control header.
	// It does not affect the in-process cache, whose entries never expire.
	MaxAge time.Duration
	// IndexNames are the default document names tried in order when a
	// request path ends with a separator. Defaults to ["index.html"].
	IndexNames []string
	// Logger to use. A console logger is used if nil.
	Logger *zerolog.Logger
}

type AlwaysServe struct {
	root       string
	cache      cache.CacheProvider
	useCache   bool
	maxAge     time.Duration
	indexNames []string
	log        zerolog.Logger
}

var errorNoRoot = errors.New("root directory is required")

// New initializes an always-serve instance for the given root directory.
func New(config Config) (*AlwaysServe, error) {
	if config.Root == "" {
		return nil, errorNoRoot
	}

	// use console logger if not specified in config
	var logger zerolog.Logger
	if config.Logger == nil {
		logger = zerolog.New(zerolog.NewConsoleWriter())
	} else {
		logger = *config.Logger
	}

	// create a child logger and add defaults
	logger = logger.With().
		Str("root", config.Root).
		Logger()

	store := config.Cache
	if store == nil {
		store = cache.NewMemCache()
	}

	indexNames := config.IndexNames
	if len(indexNames) == 0 {
		indexNames = []string{"index.html"}
	}

	return &AlwaysServe{
		root:       config.Root,
		cache:      store,
		useCache:   config.EnableCache,
		maxAge:     config.MaxAge,
		indexNames: indexNames,
		log:        logger,
	}, nil
}

// Middleware wraps next so that GET and HEAD requests for files under
// the root directory are answered by this instance. Everything it does
// not serve itself is passed on to next: other request methods, paths
// that do not name an existing file, and paths naming a directory.
func (a *AlwaysServe) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		a.handle(w, r, next)
	})
}

func (a *AlwaysServe) handle(w http.ResponseWriter, r *http.Request, next http.Handler) {
	key := cachekey.FromRequest(r)
	log := a.log.With().Str("key", key.String()).Logger()

	candidates, err := resolve(a.root, r.URL.EscapedPath(), a.indexNames)
	if err != nil {
		log.Debug().Msg("Rejecting parent directory traversal")
		a.sendForbidden(w, r)
		return
	}

	// a request carrying validators revalidates against the filesystem
	// instead of being answered from the cache
	conditional := r.Header.Get("If-None-Match") != "" ||
		r.Header.Get("If-Modified-Since") != ""

	if a.useCache && !conditional {
		if served := a.serveFromCache(w, r, key, log); served {
			return
		}
	}

	var status ServeStatus
	switch {
	case !a.useCache:
		status.Forward(ServeStatusFwdBypass)
	case conditional:
		status.Forward(ServeStatusFwdRequest)
	default:
		status.Forward(ServeStatusFwdMiss)
	}

	filename, info, ok := a.statFirst(w, candidates, log)
	if !ok {
		return
	}
	if info == nil || info.IsDir() {
		next.ServeHTTP(w, r)
		return
	}

	header := buildHeaders(filename, info, a.maxAge)

	if !isModified(r.Header, header) {
		stripContentHeaders(header)
		copyHeadersTo(w.Header(), header)
		w.Header().Set("Serve-Status", status.String())
		w.WriteHeader(http.StatusNotModified)
		a.logRequest(r, status, http.StatusNotModified)
		return
	}

	body, err := os.ReadFile(filename)
	if err != nil {
		// the file can vanish between stat and read
		if errors.Is(err, fs.ErrNotExist) {
			next.ServeHTTP(w, r)
			return
		}
		log.Error().Err(err).Str("file", filename).Msg("Could not read file")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	copyHeadersTo(w.Header(), header)
	w.Header().Set("Serve-Status", status.String())
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		if _, err := w.Write(body); err != nil {
			log.Error().Err(err).Msg("Could not write response body to client")
		}
	}
	a.logRequest(r, status, http.StatusOK)

	if a.useCache {
		a.writeCache(key, header, body, log)
	}
}

// serveFromCache sends the stored snapshot for the key, if one exists.
// It reports whether a response was written. No filesystem access
// happens here: a hit is served as stored, staleness and all, until the
// entry is overwritten or purged.
func (a *AlwaysServe) serveFromCache(w http.ResponseWriter, r *http.Request, key cachekey.Key, log zerolog.Logger) bool {
	bytes, ok, err := a.cache.Get(key.String())
	if err != nil {
		log.Warn().Err(err).Msg("Could not retrieve from cache")
		return false
	}
	if !ok {
		return false
	}
	snap, err := snapshot.FromBytes(bytes)
	if err != nil {
		log.Warn().Err(err).Msg("Dropping undecodable cache entry")
		a.cache.Purge(key.String())
		return false
	}
	var status ServeStatus
	status.Hit()
	copyHeadersTo(w.Header(), snap.Header)
	w.Header().Set("Serve-Status", status.String())
	w.WriteHeader(snap.StatusCode)
	if r.Method == http.MethodGet {
		if _, err := w.Write(snap.Body); err != nil {
			log.Error().Err(err).Msg("Could not write response body to client")
		}
	}
	a.logRequest(r, status, snap.StatusCode)
	return true
}

// statFirst stats the candidate filenames in order and returns the
// first that exists. Missing files are skipped; any other stat failure
// is fatal for the request and reported to the client directly.
// The boolean is false if a response has already been written.
func (a *AlwaysServe) statFirst(w http.ResponseWriter, candidates []string, log zerolog.Logger) (string, os.FileInfo, bool) {
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("file", candidate).Msg("Could not stat file")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return "", nil, false
		}
		return candidate, info, true
	}
	return "", nil, true
}

func (a *AlwaysServe) writeCache(key cachekey.Key, header http.Header, body []byte, log zerolog.Logger) {
	bytes, err := snapshot.ToBytes(snapshot.Snapshot{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       body,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Could not serialize snapshot")
		return
	}
	log.Trace().Msgf("Writing to cache (%d bytes)", len(bytes))
	if err := a.cache.Put(key.String(), bytes); err != nil {
		log.Warn().Err(err).Msg("Could not write to cache")
	}
}

func (a *AlwaysServe) sendForbidden(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	if r.Method != http.MethodHead {
		io.WriteString(w, "Forbidden")
	}
}

// ClearCache removes every stored snapshot, e.g. on deployment.
func (a *AlwaysServe) ClearCache() {
	a.cache.Clear()
}

// EvictCache removes the snapshot for a single request key.
func (a *AlwaysServe) EvictCache(key cachekey.Key) {
	a.cache.Purge(key.String())
}

func (a *AlwaysServe) logRequest(r *http.Request, status ServeStatus, code int) {
	isHit := 0
	if status.IsHit() {
		isHit = 1
	}
	a.log.Debug().
		Str("method", r.Method).
		Str("url", r.URL.String()).
		Str("status", string(status.status)).
		Str("fwd", string(status.fwdReason)).
		Int("code", code).
		Int("hit", isHit).
		Msg("Sending response to client")
}
