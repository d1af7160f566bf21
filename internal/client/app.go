package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/models"
)

// holdPollInterval is how often `unlock -hold` checks whether the vault
// was auto-locked.
const holdPollInterval = 200 * time.Millisecond

// App is the vault command-line application.
type App struct {
	engine    *service.Engine
	prompter  Prompter
	clipboard Clipboard
	out       io.Writer
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

var _ Client = (*App)(nil)

// Option configures an [App].
type Option func(*App)

// WithPrompter replaces the terminal prompter.
func WithPrompter(p Prompter) Option {
	return func(a *App) { a.prompter = p }
}

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(a *App) { a.clipboard = c }
}

// WithOutput replaces os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// NewApp returns an App driving engine.
func NewApp(engine *service.Engine, buildInfo models.AppBuildInfo, log *logger.Logger, opts ...Option) *App {
	a := &App{
		engine:    engine,
		prompter:  NewTerminalPrompter(os.Stdin, os.Stderr),
		clipboard: systemClipboard{},
		out:       os.Stdout,
		buildInfo: buildInfo,
		logger:    log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run implements [Client].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	ctx = a.logger.With().Str("command", cmd).Logger().WithContext(ctx)
	a.logger.Debug().Str("func", "*App.Run").Str("command", cmd).Msg("running command")

	var err error
	switch cmd {
	case "init":
		err = a.runInit(ctx, rest)
	case "unlock":
		err = a.runUnlock(ctx, rest)
	case "passwd":
		err = a.runPasswd(ctx, rest)
	case "export":
		err = a.runExport(ctx, rest)
	case "import":
		err = a.runImport(ctx, rest)
	case "generate":
		err = a.runGenerate(rest)
	case "strength":
		err = a.runStrength(rest)
	case "version":
		_, err = fmt.Fprintln(a.out, a.buildInfo.String())
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}

	if err != nil {
		a.logger.Err(err).Str("func", "*App.Run").Str("command", cmd).Msg("command failed")
	}
	return err
}

// readNewPassword asks for a password twice.
func (a *App) readNewPassword(prompt, confirmPrompt string) (string, error) {
	pw, err := a.prompter.ReadPassword(prompt)
	if err != nil {
		return "", err
	}
	if pw == "" {
		return "", ErrEmptyPassword
	}

	confirm, err := a.prompter.ReadPassword(confirmPrompt)
	if err != nil {
		return "", err
	}
	if pw != confirm {
		return "", ErrPasswordMismatch
	}
	return pw, nil
}
