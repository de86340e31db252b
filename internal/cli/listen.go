package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/clarionvoice/clarion/internal/config"
	"github.com/clarionvoice/clarion/internal/health"
	"github.com/clarionvoice/clarion/internal/i18n"
	"github.com/clarionvoice/clarion/internal/loop"
	"github.com/clarionvoice/clarion/internal/memory"
	"github.com/clarionvoice/clarion/internal/observe"
	"github.com/clarionvoice/clarion/internal/skill"
)

type listenOptions struct {
	once           bool
	testUtterance  string
	hotwordTimeout time.Duration
	sttTimeout     time.Duration
	metricsAddr    string
}

func newListenCmd(root *rootOptions) *cobra.Command {
	opts := &listenOptions{}

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Run the voice interaction loop",
		Long: `Run the hotword → listen → route → execute → speak loop until
interrupted. With --once the loop handles a single utterance and exits; with
--test-utterance the given text is routed and executed in mock mode and the
result printed as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListen(cmd.Context(), cmd.OutOrStdout(), root, opts)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&opts.once, "once", false, "handle one utterance, then exit")
	f.StringVar(&opts.testUtterance, "test-utterance", "", "process this text instead of listening (forces mock mode)")
	f.DurationVar(&opts.hotwordTimeout, "hotword-timeout", 0, "override the hotword wait timeout")
	f.DurationVar(&opts.sttTimeout, "stt-timeout", 0, "override the listen timeout")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "listen address for the /metrics endpoint")
	return cmd
}

func runListen(ctx context.Context, out io.Writer, root *rootOptions, opts *listenOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	setupLogger(cfg.LogLevel)
	mock := root.mockMode()

	// A test utterance never touches audio or the host system.
	if opts.testUtterance != "" {
		mock = true
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	metricsAddr := opts.metricsAddr
	if metricsAddr == "" {
		metricsAddr = cfg.Metrics.Addr
	}
	var metrics *observe.Metrics
	if metricsAddr != "" {
		shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{})
		if err != nil {
			return fmt.Errorf("init metrics provider: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				slog.Warn("metrics shutdown failed", "err", err)
			}
		}()
		if metrics, err = observe.Default(); err != nil {
			return fmt.Errorf("create metrics: %w", err)
		}
	}

	// ── Memory store ──────────────────────────────────────────────────────────
	var store memory.Store
	if !cfg.Memory.Disabled {
		path := cfg.Memory.Path
		if path == "" {
			if path, err = memory.DefaultPath(); err != nil {
				return err
			}
		}
		sqlStore, err := memory.OpenSQLite(path)
		if err != nil {
			slog.Warn("event log disabled", "err", err)
		} else {
			store = sqlStore
			defer sqlStore.Close()
		}
	}

	// ── Skills and routing ────────────────────────────────────────────────────
	skillsDir := root.resolveSkillsDir(cfg)
	asst := newAssistant(skillsDir)

	// ── Providers ─────────────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg)
	provs, err := buildProviders(cfg, reg, mock)
	if err != nil {
		return err
	}

	translator, err := i18n.Load(cfg.Language)
	if err != nil {
		return err
	}

	hotwordTimeout := opts.hotwordTimeout
	if hotwordTimeout <= 0 {
		hotwordTimeout = cfg.Timeouts.Hotword()
	}
	sttTimeout := opts.sttTimeout
	if sttTimeout <= 0 {
		sttTimeout = cfg.Timeouts.Listen()
	}

	vl, err := loop.New(loop.Options{
		Hotword:        provs.Hotword,
		STT:            provs.STT,
		TTS:            provs.TTS,
		Router:         asst.router,
		Skills:         asst.registry,
		Translator:     translator,
		Mock:           mock,
		SkillConfig:    cfg.Skills.Options,
		HotwordTimeout: hotwordTimeout,
		ListenTimeout:  sttTimeout,
		Store:          store,
		Metrics:        metrics,
	})
	if err != nil {
		return err
	}

	// ── Test utterance: one pass through routing and execution ────────────────
	if opts.testUtterance != "" {
		record := vl.ProcessUtterance(ctx, opts.testUtterance)
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Config file watcher ───────────────────────────────────────────────────
	// Provider and transport changes need a restart; log level applies live.
	if root.configPath != "" {
		cw, err := config.NewWatcher(root.configPath, func(old, new *config.Config) {
			if old.LogLevel != new.LogLevel {
				setupLogger(new.LogLevel)
			}
			if config.ProvidersChanged(old, new) {
				slog.Warn("provider configuration changed, restart to apply")
			}
		})
		if err != nil {
			slog.Warn("config watcher not started", "err", err)
		} else {
			defer cw.Stop()
		}
	}

	// ── Skills directory watcher ──────────────────────────────────────────────
	if cfg.Skills.Watch && skillsDir != "" {
		if w, err := skill.NewWatcher(skillsDir, asst.ReloadManifests); err != nil {
			slog.Warn("skills watcher not started", "dir", skillsDir, "err", err)
		} else {
			defer w.Stop()
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	// ── /metrics and probe endpoints ──────────────────────────────────────────
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		checks := []health.Check{
			{Name: "providers", Probe: func(context.Context) error {
				if provs.Hotword == nil || provs.STT == nil || provs.TTS == nil {
					return errors.New("provider missing")
				}
				return nil
			}},
		}
		if store != nil {
			checks = append(checks, health.Check{Name: "memory", Probe: func(ctx context.Context) error {
				_, err := store.Recent(ctx, memory.WithLimit(1))
				return err
			}})
		}
		probe := health.New(func() any { return vl.Status() }, checks...)
		probe.Register(mux)
		srv := &http.Server{Addr: metricsAddr, Handler: mux}
		g.Go(func() error {
			slog.Info("metrics endpoint listening", "addr", metricsAddr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	// ── The loop itself ───────────────────────────────────────────────────────
	g.Go(func() error {
		defer stop() // a finished loop ends the metrics server too
		if opts.once {
			return vl.RunOnce(gctx)
		}
		return vl.Run(gctx)
	})

	fmt.Fprintln(out, translator.T("status.ready"))
	slog.Info("clarion ready — press Ctrl+C to shut down", "mock", mock)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
