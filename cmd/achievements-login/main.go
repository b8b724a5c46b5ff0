package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/version"
	"github.com/swoga/achievements-login/api"
	"github.com/swoga/achievements-login/collector"
	"github.com/swoga/achievements-login/config"
	"github.com/swoga/achievements-login/controller"
	"github.com/swoga/achievements-login/model"
	"github.com/swoga/achievements-login/store"
	"github.com/swoga/achievements-login/terminal"
	"go.uber.org/zap"
)

const passwordEnv = "ACHIEVEMENTS_PASSWORD"

func main() {
	os.Exit(run())
}

func run() int {
	// parse command line args
	configFile := flag.String("config.file", "", "")
	debug := flag.Bool("debug", false, "")
	email := flag.String("email", "", "")
	password := flag.String("password", "", "falls back to $"+passwordEnv)
	remember := flag.Bool("remember", false, "")
	logout := flag.Bool("logout", false, "")
	checkOnly := flag.Bool("check-only", false, "only check the stored session")
	showVersion := flag.Bool("version", false, "")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Print("achievements-login"))
		return 0
	}

	level := zap.InfoLevel
	if *debug {
		level = zap.DebugLevel
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	log, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error building logger: %s\n", err)
		return 1
	}
	defer log.Sync()
	log.Debug("starting achievements-login", zap.String("version", version.Version), zap.String("revision", version.Revision))

	registry := prometheus.NewRegistry()

	sc := config.New(*configFile, registry)
	err = sc.LoadConfig()
	if err != nil {
		log.Error("error loading config", zap.Error(err))
		return 1
	}
	cfg := sc.Get()

	sessionStore, err := store.New(cfg.Store)
	if err != nil {
		log.Error("error opening session store", zap.Error(err))
		return 1
	}
	if closer, ok := sessionStore.(io.Closer); ok {
		defer closer.Close()
	}

	if cfg.MetricsFile != "" {
		defer func() {
			if err := prometheus.WriteToTextfile(cfg.MetricsFile, registry); err != nil {
				log.Error("error writing metrics", zap.String("file", cfg.MetricsFile), zap.Error(err))
			}
		}()
	}

	view := terminal.NewView(os.Stderr, log)
	nav := terminal.NewNavigator(os.Stdout, cfg.BaseURL)
	ctrl := controller.New(controller.Params{
		Log:          log.With(zap.String("base_url", cfg.BaseURL)),
		Auth:         api.New(log, cfg.BaseURL, nil),
		Store:        sessionStore,
		View:         view,
		Navigator:    nav,
		Metrics:      collector.NewMetrics(registry),
		LandingRoute: cfg.LandingRoute,
		Timeout:      cfg.RequestTimeout(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *logout {
		err = ctrl.Logout(ctx)
		if err != nil {
			log.Error("error clearing session", zap.Error(err))
			return 1
		}
		return 0
	}

	// nothing else is on screen yet, so wait for the probe
	<-ctrl.StartSessionCheck(ctx)
	if nav.Navigated() != "" {
		return 0
	}
	if *checkOnly {
		return 1
	}

	creds := model.Credentials{
		Email:    *email,
		Password: *password,
		Remember: *remember,
	}
	if creds.Password == "" {
		creds.Password = os.Getenv(passwordEnv)
	}
	if creds.Email == "" || creds.Password == "" {
		log.Error("email and password are required")
		flag.Usage()
		return 2
	}

	ctrl.SubmitLogin(ctx, creds)
	if nav.Navigated() == "" {
		log.Debug("login did not succeed", zap.String("error", view.LastError()))
		return 1
	}
	return 0
}
