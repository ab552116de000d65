package config

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FOLIO"

// envBinding maps one config key to its environment variable.
type envBinding struct {
	key string
	env string
	ptr func(*Config) any
}

var envBindings = []envBinding{
	{"server.addr", "FOLIO_SERVER_ADDR", func(c *Config) any { return &c.Server.Addr }},
	{"server.readTimeout", "FOLIO_SERVER_READ_TIMEOUT", func(c *Config) any { return &c.Server.ReadTimeout }},
	{"server.writeTimeout", "FOLIO_SERVER_WRITE_TIMEOUT", func(c *Config) any { return &c.Server.WriteTimeout }},
	{"server.shutdownTimeout", "FOLIO_SERVER_SHUTDOWN_TIMEOUT", func(c *Config) any { return &c.Server.ShutdownTimeout }},
	{"server.corsOrigins", "FOLIO_SERVER_CORS_ORIGINS", func(c *Config) any { return &c.Server.CORSOrigins }},
	{"server.rateLimit", "FOLIO_SERVER_RATE_LIMIT", func(c *Config) any { return &c.Server.RateLimit }},
	{"server.rateBurst", "FOLIO_SERVER_RATE_BURST", func(c *Config) any { return &c.Server.RateBurst }},
	{"mongo.uri", "FOLIO_MONGO_URI", func(c *Config) any { return &c.Mongo.URI }},
	{"mongo.database", "FOLIO_MONGO_DATABASE", func(c *Config) any { return &c.Mongo.Database }},
	{"redis.addr", "FOLIO_REDIS_ADDR", func(c *Config) any { return &c.Redis.Addr }},
	{"redis.password", "FOLIO_REDIS_PASSWORD", func(c *Config) any { return &c.Redis.Password }},
	{"redis.db", "FOLIO_REDIS_DB", func(c *Config) any { return &c.Redis.DB }},
	{"storage.cloudinaryURL", "FOLIO_CLOUDINARY_URL", func(c *Config) any { return &c.Storage.CloudinaryURL }},
	{"storage.mediaFolder", "FOLIO_STORAGE_MEDIA_FOLDER", func(c *Config) any { return &c.Storage.MediaFolder }},
	{"storage.docsFolder", "FOLIO_STORAGE_DOCS_FOLDER", func(c *Config) any { return &c.Storage.DocsFolder }},
	{"storage.localDir", "FOLIO_STORAGE_LOCAL_DIR", func(c *Config) any { return &c.Storage.LocalDir }},
	{"storage.localBaseURL", "FOLIO_STORAGE_LOCAL_BASE_URL", func(c *Config) any { return &c.Storage.LocalBaseURL }},
	{"auth.adminEmail", "FOLIO_AUTH_ADMIN_EMAIL", func(c *Config) any { return &c.Auth.AdminEmail }},
	{"auth.passwordHash", "FOLIO_AUTH_PASSWORD_HASH", func(c *Config) any { return &c.Auth.PasswordHash }},
	{"auth.jwtSecret", "FOLIO_AUTH_JWT_SECRET", func(c *Config) any { return &c.Auth.JWTSecret }},
	{"auth.sessionTTL", "FOLIO_AUTH_SESSION_TTL", func(c *Config) any { return &c.Auth.SessionTTL }},
	{"render.workers", "FOLIO_RENDER_WORKERS", func(c *Config) any { return &c.Render.Workers }},
	{"render.timeout", "FOLIO_RENDER_TIMEOUT", func(c *Config) any { return &c.Render.Timeout }},
	{"render.pageBudget", "FOLIO_RENDER_PAGE_BUDGET", func(c *Config) any { return &c.Render.PageBudget }},
	{"render.assetsPath", "FOLIO_RENDER_ASSETS_PATH", func(c *Config) any { return &c.Render.AssetsPath }},
	{"render.generatedOn", "FOLIO_RENDER_GENERATED_ON", func(c *Config) any { return &c.Render.GeneratedOn }},
	{"render.lang", "FOLIO_RENDER_LANG", func(c *Config) any { return &c.Render.Lang }},
	{"export.retentionWindow", "FOLIO_EXPORT_RETENTION_WINDOW", func(c *Config) any { return &c.Export.RetentionWindow }},
	{"log.level", "FOLIO_LOG_LEVEL", func(c *Config) any { return &c.Log.Level }},
	{"log.development", "FOLIO_LOG_DEVELOPMENT", func(c *Config) any { return &c.Log.Development }},
}

// ApplyEnv overrides cfg with every FOLIO_* variable that is set and non-empty.
// Values are decoded by viper into the field's type: durations use
// time.ParseDuration syntax and lists are comma-separated.
func ApplyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, b := range envBindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return fmt.Errorf("binding %s: %w", b.env, err)
		}
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		envStringHook,
		mapstructure.StringToTimeDurationHookFunc(),
	))
	for _, b := range envBindings {
		if !v.IsSet(b.key) {
			continue
		}
		if err := v.UnmarshalKey(b.key, b.ptr(cfg), hook); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidValue, b.env, err)
		}
	}
	return nil
}

// envStringHook trims raw values and splits them into items when the
// target is a string list.
func envStringHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	raw, ok := data.(string)
	if !ok {
		return data, nil
	}
	raw = strings.TrimSpace(raw)
	if to.Kind() != reflect.Slice || to.Elem().Kind() != reflect.String {
		return raw, nil
	}
	items := []string{}
	for item := range strings.SplitSeq(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items, nil
}

// UnknownEnv returns the FOLIO_* names in environ that no setting reads,
// usually typos. environ has the os.Environ format.
func UnknownEnv(environ []string) []string {
	known := make(map[string]bool, len(envBindings))
	for _, b := range envBindings {
		known[b.env] = true
	}

	var unknown []string
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix+"_") && !known[name] {
			unknown = append(unknown, name)
		}
	}
	slices.Sort(unknown)
	return unknown
}
