package main

import (
	"fmt"
	"io"
	"os"

	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/api"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/config"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/httpclient"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/render"
	"github.com/eaw-compliance/eaw-cli/cmd/cli/internal/session"
	"github.com/eaw-compliance/eaw-cli/pkg/keyring"
	"github.com/eaw-compliance/eaw-cli/pkg/logger"
	"golang.org/x/term"
)

// App holds the collaborators shared by every command of one process
type App struct {
	Config  *config.Config
	Log     *logger.Logger
	Session *session.Store
	HTTP    *httpclient.Client
	API     *api.Client
	Out     *render.Renderer
}

// app is built by the root command's pre-run hook
var app *App

// bootstrap loads the configuration and wires the keyring, session and API clients
func bootstrap() (*App, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}

	log := logger.New("eaw-cli")
	log.SetLevel(logger.ParseLevel(cfg.LogLevel))

	kv := keyring.NewKeyringManager(cfg.KeyringBackend(), cfg.KeyringPath(), keyring.GetMasterPasswordFromEnv())
	if kv.UsesFile() {
		log.Debugf("using file keyring at %s", cfg.KeyringPath())
	}

	return newApp(cfg, log, kv), nil
}

// newApp wires the session and API clients on top of kv
func newApp(cfg *config.Config, log *logger.Logger, kv keyring.Store) *App {
	sess := session.Open(kv, nil, log)
	hc := httpclient.New(cfg.BaseURL(), cfg.RequestTimeout(), sess, log)
	client := api.New(hc)
	sess.SetAuthenticator(client.Auth)

	return &App{
		Config:  cfg,
		Log:     log,
		Session: sess,
		HTTP:    hc,
		API:     client,
		Out:     render.New(os.Stdout, cfg.Output, false),
	}
}

// useOutput points the renderer at out. An empty format falls back to the config.
func (a *App) useOutput(out io.Writer, format string) error {
	if format == "" {
		format = a.Config.Output
	}
	switch format {
	case "", render.FormatTable, render.FormatJSON, render.FormatYAML:
	default:
		return fmt.Errorf("unsupported output format %q (use table, json or yaml)", format)
	}
	color := false
	if f, ok := out.(*os.File); ok && os.Getenv("NO_COLOR") == "" {
		color = term.IsTerminal(int(f.Fd()))
	}
	a.Out = render.New(out, format, color)
	return nil
}
