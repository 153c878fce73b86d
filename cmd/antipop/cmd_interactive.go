package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"antipop/cmd/antipop/chat"
	"antipop/internal/config"
	"antipop/internal/logging"
	"antipop/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// runInteractive runs the tick loop, the config watcher and the terminal UI
// under one errgroup. Quitting the UI cancels the others.
func runInteractive(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		logging.StoreError("Transcript store unavailable, chat will not be saved: %v", err)
		st = nil
	}
	if st != nil {
		defer st.Close()
	}

	g, gctx := errgroup.WithContext(ctx)

	model := chat.New(chat.Options{
		Context:   gctx,
		Session:   sess,
		Tutor:     newTutor(gctx, cfg),
		Store:     st,
		Config:    cfg,
		Workspace: workspace,
		ModelName: cfg.LLM.Model,
	})
	defer model.Close()

	g.Go(func() error {
		return sess.Run(gctx)
	})

	g.Go(func() error {
		watchConfig(gctx, configPath, sess)
		return nil
	})

	g.Go(func() error {
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))
		_, err := p.Run()
		stop()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	logging.Session("Interactive session %s started", sess.ID())
	return g.Wait()
}

// watchConfig feeds simulation params from reloaded config files into sess
// until ctx ends. A watcher that cannot start only disables hot reload.
func watchConfig(ctx context.Context, path string, sess *session.Session) {
	watcher, err := config.NewWatcher(path, func(next *config.Config) {
		params, err := next.Simulation.Params()
		if err != nil {
			return
		}
		if err := sess.SetParams(params); err != nil {
			logging.ConfigWarn("Reloaded simulation params rejected: %v", err)
		}
	})
	if err != nil {
		logging.ConfigWarn("Config hot reload disabled: %v", err)
		return
	}
	defer watcher.Stop()

	if err := watcher.Start(ctx); err != nil {
		logging.ConfigWarn("Config hot reload disabled: %v", err)
		return
	}
	<-ctx.Done()
}
