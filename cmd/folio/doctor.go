package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	folio "github.com/alnah/go-folio"
	"github.com/alnah/go-folio/internal/config"
	"github.com/alnah/go-folio/internal/fileutil"
	"github.com/alnah/go-folio/internal/mongostore"
)

// pingTimeout bounds each backend check.
const pingTimeout = 3 * time.Second

// Overall doctor outcomes.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

type doctorResult struct {
	Status   string       `json:"status"`
	Chrome   chromeInfo   `json:"chrome"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Config   configInfo   `json:"config"`
	Backends backendsInfo `json:"backends"`
	Probe    *probeInfo   `json:"probe,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// configInfo tells whether serve could start with the loaded file.
type configInfo struct {
	Loaded      bool   `json:"loaded"`
	ServerReady bool   `json:"server_ready"`
	Storage     string `json:"storage,omitempty"`
}

// backendsInfo holds "ok", "skipped" or the ping failure per backend.
type backendsInfo struct {
	Mongo string `json:"mongo"`
	Redis string `json:"redis"`
}

// probeInfo is the outcome of --launch.
type probeInfo struct {
	Pages int `json:"pages"`
	Bytes int `json:"bytes"`
}

func (r *doctorResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// runDoctorCmd prints the diagnosis and exits 1 only when errors were found;
// warnings alone still exit 0.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	f, err := parseDoctorFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "folio doctor: %v\n", err)
		return ExitUsage
	}

	result := runDoctor(ctx, f, env)
	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor(ctx context.Context, f *doctorFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
		Backends: backendsInfo{Mongo: "skipped", Redis: "skipped"},
	}
	for _, check := range []func(*doctorResult){checkChrome, checkEnvironment, checkSystem} {
		check(result)
	}

	cfg, err := config.LoadOrDefault(f.common.config)
	switch {
	case err != nil:
		result.fail("Config: %v", err)
	default:
		checkConfig(result, cfg)
		checkBackends(ctx, result, cfg)
		if f.launch && result.Chrome.Found {
			checkProbe(ctx, result, cfg, env)
		}
	}

	finalizeStatus(result)
	return result
}

func finalizeStatus(result *doctorResult) {
	result.Status = statusReady
	if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	if len(result.Errors) > 0 {
		result.Status = statusErrors
	}
}

// checkChrome resolves the browser the renderer would launch: ROD_BROWSER_BIN
// first, then rod's lookup of installed browsers.
func checkChrome(result *doctorResult) {
	bin := result.Env.BrowserBin
	if bin == "" {
		path, ok := launcher.LookPath()
		if !ok {
			result.fail("Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
		bin = path
	}
	if _, err := os.Stat(bin); err != nil {
		result.fail("Chrome not found at %s", bin)
		return
	}

	result.Chrome = chromeInfo{
		Found:   true,
		Path:    bin,
		Sandbox: !sandboxDisabled(result.Env.NoSandbox),
	}
	out, err := exec.Command(bin, "--version").Output() // #nosec G204 -- browser path from env or launcher lookup
	if err != nil {
		result.warn("Could not get Chrome version: %v", err)
		return
	}
	result.Chrome.Version = strings.TrimSpace(string(out))
}

// sandboxDisabled accepts the same values as the renderer.
func sandboxDisabled(v string) bool {
	switch v {
	case "true", "1":
		return true
	}
	return false
}

var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = detectContainer()
	for _, key := range ciVars {
		if os.Getenv(key) != "" {
			result.Env.CI = true
			break
		}
	}

	sandboxed := !sandboxDisabled(result.Env.NoSandbox) && result.Env.BrowserBin == ""
	if sandboxed && (result.Env.Container || result.Env.CI) {
		result.warn("Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=true")
	}
}

// detectContainer returns the first container signal found.
func detectContainer() (bool, string) {
	if fileutil.FileExists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem spools a file the way the renderer does.
func checkSystem(result *doctorResult) {
	_, cleanup, err := fileutil.SpoolTemp([]byte("folio doctor"), ".html")
	if err != nil {
		result.fail("Temp directory not writable: %s", os.TempDir())
		return
	}
	cleanup()
	result.System.TempWritable = true
}

// checkConfig reports missing server settings as warnings, since render
// works without them.
func checkConfig(result *doctorResult, cfg *config.Config) {
	result.Config = configInfo{Loaded: true, Storage: "local"}
	if cfg.Storage.CloudinaryURL != "" {
		result.Config.Storage = "cloudinary"
	}
	if err := cfg.RequireServer(); err != nil {
		result.warn("serve cannot start: %v", err)
		return
	}
	result.Config.ServerReady = true
}

// checkBackends pings the configured MongoDB and Redis.
func checkBackends(ctx context.Context, result *doctorResult, cfg *config.Config) {
	ping := func(name string, status *string, fn func(context.Context) error) {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			*status = err.Error()
			result.warn("%s unreachable: %s", name, *status)
			return
		}
		*status = "ok"
	}

	if cfg.Mongo.URI != "" {
		ping("MongoDB", &result.Backends.Mongo, func(ctx context.Context) error {
			client, err := mongostore.Connect(ctx, cfg.Mongo.URI)
			if err != nil {
				return err
			}
			return client.Disconnect(ctx)
		})
	}
	if cfg.Redis.Addr != "" {
		ping("Redis", &result.Backends.Redis, func(ctx context.Context) error {
			client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
			defer client.Close()
			return client.Ping(ctx).Err()
		})
	}
}

// checkProbe renders a one-section CV through the real pipeline.
func checkProbe(ctx context.Context, result *doctorResult, cfg *config.Config, env *Environment) {
	r := env.NewRenderer(cfg, zap.NewNop())
	defer func() { _ = r.Close() }()

	res, err := r.Convert(ctx, folio.Input{
		Sections: []folio.Section{{ID: "probe", Title: "PROBE", Content: folio.LegacyText("folio doctor")}},
	})
	if err != nil {
		result.fail("Render probe failed: %v", err)
		return
	}
	result.Probe = &probeInfo{Pages: res.Pages, Bytes: len(res.PDF)}
}

// report writes tagged lines grouped under headings.
type report struct{ w io.Writer }

func (p report) heading(title string) { fmt.Fprintln(p.w, title) }
func (p report) end()                 { fmt.Fprintln(p.w) }

func (p report) line(tag, format string, args ...any) {
	fmt.Fprintf(p.w, "  [%s] %s\n", tag, fmt.Sprintf(format, args...))
}

func (p report) check(ok bool, good, bad string) {
	if ok {
		p.line("OK", "%s", good)
	} else {
		p.line("ERROR", "%s", bad)
	}
}

func printDoctorResult(w io.Writer, r *doctorResult) {
	p := report{w}
	p.heading("folio doctor")
	p.end()

	p.heading("Chrome/Chromium")
	if c := r.Chrome; c.Found {
		p.line("OK", "Found at %s", c.Path)
		if c.Version != "" {
			p.line("OK", "Version: %s", c.Version)
		}
		if c.Sandbox {
			p.line("OK", "Sandbox: enabled")
		} else {
			p.line("OK", "Sandbox: disabled (ROD_NO_SANDBOX)")
		}
	} else {
		p.line("ERROR", "Not found")
	}
	if r.Probe != nil {
		p.line("OK", "Probe: %d %s, %d bytes", r.Probe.Pages, plural(r.Probe.Pages, "page"), r.Probe.Bytes)
	}
	p.end()

	p.heading("Environment")
	p.line("OK", "Platform: %s/%s", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		p.line("OK", "Container: detected (%s)", r.Env.ContainerHint)
	}
	if r.Env.CI {
		p.line("OK", "CI: detected")
	}
	p.end()

	p.heading("System")
	p.check(r.System.TempWritable, "Temp directory: writable", "Temp directory: not writable")
	p.end()

	if r.Config.Loaded {
		p.heading("Configuration")
		p.line("OK", "Storage: %s", r.Config.Storage)
		if r.Config.ServerReady {
			p.line("OK", "Server settings: complete")
		} else {
			p.line("WARN", "Server settings: incomplete")
		}
		p.line(statusTag(r.Backends.Mongo), "MongoDB: %s", r.Backends.Mongo)
		p.line(statusTag(r.Backends.Redis), "Redis: %s", r.Backends.Redis)
		p.end()
	}

	for _, group := range []struct {
		title, tag string
		items      []string
	}{
		{"Warnings:", "WARN", r.Warnings},
		{"Errors:", "ERROR", r.Errors},
	} {
		if len(group.items) == 0 {
			continue
		}
		p.heading(group.title)
		for _, item := range group.items {
			p.line(group.tag, "%s", item)
		}
		p.end()
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func statusTag(s string) string {
	switch s {
	case "ok":
		return "OK"
	case "skipped":
		return "SKIP"
	}
	return "WARN"
}
