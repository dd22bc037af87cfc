package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/auth"
	"tableflip.dev/journal/pkg/geo"
	"tableflip.dev/journal/pkg/logging"
	"tableflip.dev/journal/pkg/recap"
	"tableflip.dev/journal/pkg/store"
)

// runtime is everything a command needs, built from configuration.
type runtime struct {
	Config   store.Config
	Log      *zap.SugaredLogger
	Store    store.Persistence
	App      *app.Service
	Auth     *auth.Manager
	Geocoder geo.Geocoder
	Weather  *geo.OpenMeteo
	Locator  geo.Locator
	Recap    *recap.Builder

	users   *userSync
	closers []func()
}

// userSync points the journal at whoever is signed in. The first call
// loads a record even when nobody is; later sign-outs only drop the journal
// from memory.
type userSync struct {
	App *app.Service
	Log *zap.SugaredLogger

	mu      sync.Mutex
	started bool
	err     error
}

func (s *userSync) changed(ctx context.Context, u *auth.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil && s.started {
		s.App.Clear()
		s.err = nil
		return
	}
	s.started = true
	uid, name := "", ""
	if u != nil {
		uid, name = u.UID, u.DisplayName
	}
	s.err = s.App.SwitchUser(ctx, uid, name)
	if s.err != nil {
		s.Log.Errorw("load journal", "uid", uid, "error", s.err)
	}
}

// Err is the failure of the latest switch; nil once one succeeds.
func (s *userSync) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// authDone reports err from an auth command, or failing that the journal
// load its state change triggered.
func (rt *runtime) authDone(err error) error {
	if err != nil {
		return err
	}
	if err := rt.users.Err(); err != nil {
		return fmt.Errorf("signed in but the journal did not load: %w", err)
	}
	return nil
}

func setDefaults(basePath string) {
	viper.SetDefault("log.file", filepath.Join(basePath, "logs", "journal.log"))
	viper.SetDefault("log.level", "info")
	viper.SetDefault("geocode.nominatim_url", "https://nominatim.openstreetmap.org")
	viper.SetDefault("geocode.redis_url", "")
	viper.SetDefault("geocode.fallback", "")
	viper.SetDefault("geocode.cache_ttl", 30*24*time.Hour)
	viper.SetDefault("weather.url", "https://api.open-meteo.com")
	viper.SetDefault("firebase.project_id", "")
	viper.SetDefault("firebase.credentials_file", "")
	viper.SetDefault("firebase.api_key", "")
	viper.SetDefault("location.static", "")
	viper.SetDefault("location.replay", "")
	viper.SetDefault("location.interval", 5*time.Second)
}

// setup loads .env and the config file, then opens the store, restores the
// signed-in user and loads their journal.
func setup(ctx context.Context) (*runtime, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	setDefaults(cfg.BasePath())

	rt := &runtime{Config: cfg}

	log, flush, err := logging.New(logging.Config{
		File:    viper.GetString("log.file"),
		Level:   viper.GetString("log.level"),
		Verbose: output.Verbose,
	})
	if err != nil {
		return nil, err
	}
	rt.Log = log
	rt.closers = append(rt.closers, flush)

	p, err := store.Open(ctx, cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Store = p
	rt.closers = append(rt.closers, func() {
		if err := p.Close(); err != nil {
			log.Warnw("close store", "error", err)
		}
	})
	rt.App = &app.Service{Persistence: p, Log: log}

	rt.Geocoder = rt.geocoder(ctx)
	rt.Weather = geo.NewOpenMeteo(viper.GetString("weather.url"))
	rt.Locator, err = locator()
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Recap = &recap.Builder{Geocoder: rt.Geocoder, Locator: rt.Locator}

	rt.Auth = auth.NewManager(&auth.Lazy{New: firebaseProvider}, store.NewSessionStore(cfg.BasePath()), log)
	if err := rt.Auth.Restore(); err != nil {
		log.Warnw("restore session", "error", err)
	}
	// Called at once with the restored user, which loads their record.
	rt.users = &userSync{App: rt.App, Log: log}
	unsubscribe := rt.Auth.OnAuthStateChanged(func(u *auth.User) { rt.users.changed(ctx, u) })
	rt.closers = append(rt.closers, unsubscribe)
	if err := rt.users.Err(); err != nil {
		rt.Close()
		return nil, err
	}

	log.Debugw("runtime ready", "driver", cfg.Driver(), "path", cfg.BasePath(), "key", rt.App.Key())
	return rt, nil
}

// geocoder is Nominatim, behind a Redis cache when one is configured and
// reachable, falling back to geocode.fallback when set.
func (rt *runtime) geocoder(ctx context.Context) geo.Geocoder {
	g := rt.cachedGeocoder(ctx, geo.NewNominatim(viper.GetString("geocode.nominatim_url")))
	if fallback := viper.GetString("geocode.fallback"); fallback != "" {
		return geo.Chain{g, geo.Fixed(fallback)}
	}
	return g
}

func (rt *runtime) cachedGeocoder(ctx context.Context, g geo.Geocoder) geo.Geocoder {
	url := viper.GetString("geocode.redis_url")
	if url == "" {
		return g
	}
	client, err := geo.ConnectRedis(ctx, url)
	if err != nil {
		rt.Log.Warnw("geocode cache disabled", "error", err)
		return g
	}
	rt.closers = append(rt.closers, func() { closeRedis(rt.Log, client) })
	return &geo.Cached{Geocoder: g, Client: client, TTL: viper.GetDuration("geocode.cache_ttl")}
}

func closeRedis(log *zap.SugaredLogger, c *redis.Client) {
	if err := c.Close(); err != nil {
		log.Warnw("close redis", "error", err)
	}
}

// locator replays a recorded track or reports a fixed point. Nil means the
// position is unknown.
func locator() (geo.Locator, error) {
	interval := viper.GetDuration("location.interval")
	if path := viper.GetString("location.replay"); path != "" {
		t, err := geo.OpenTrack(path)
		if err != nil {
			return nil, err
		}
		return &geo.Replay{Fixes: t.Fixes, Interval: interval}, nil
	}
	if s := viper.GetString("location.static"); s != "" {
		c, err := geo.ParseCoordinates(s)
		if err != nil {
			return nil, err
		}
		return &geo.Static{Point: c, Interval: interval}, nil
	}
	return nil, nil
}

func firebaseProvider(ctx context.Context) (auth.Provider, error) {
	return auth.NewFirebase(ctx, auth.FirebaseConfig{
		ProjectID:       viper.GetString("firebase.project_id"),
		CredentialsFile: viper.GetString("firebase.credentials_file"),
		APIKey:          viper.GetString("firebase.api_key"),
	})
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}

// withRuntime runs fn against a fresh runtime and routes its error through
// the output options.
func withRuntime(ctx context.Context, fn func(rt *runtime) error) error {
	rt, err := setup(ctx)
	if err != nil {
		return output.HandleError(err)
	}
	defer rt.Close()
	return output.HandleError(fn(rt))
}
