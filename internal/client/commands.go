package client

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MKhiriev/go-pass-vault/internal/crypto"
	"github.com/MKhiriev/go-pass-vault/internal/session"
	"github.com/MKhiriev/go-pass-vault/internal/workers"
)

func (a *App) runInit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: init <identity>", ErrUsage)
	}

	s, err := a.engine.OpenSession(ctx, args[0])
	if err != nil {
		return err
	}
	if s.State() != session.EncryptionNotSetUp {
		return session.ErrAlreadySetUp
	}

	pw, err := a.readNewPassword("Master password: ", "Confirm master password: ")
	if err != nil {
		return err
	}

	st := a.engine.EvaluateStrength(pw)
	fmt.Fprintln(a.out, renderMeter(st))
	if !st.IsStrong {
		fmt.Fprintln(a.out, helpStyle.Render("warning: this master password is weak; consider `vault generate -memorable`"))
	}

	rec, err := a.engine.SetupEncryption(ctx, s, pw)
	if err != nil {
		return err
	}
	defer a.engine.LockVault(s)

	fmt.Fprintf(a.out, "encryption set up for %s (%s)\n", rec.Identity, rec.KDFType)
	return nil
}

func (a *App) runUnlock(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("unlock", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	hold := fs.Bool("hold", false, "keep the vault unlocked until it auto-locks")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return fmt.Errorf("%w: unlock [-hold] <identity>", ErrUsage)
	}

	s, err := a.engine.OpenSession(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if s.State() == session.EncryptionNotSetUp {
		return session.ErrNotSetUp
	}

	pw, err := a.prompter.ReadPassword("Master password: ")
	if err != nil {
		return err
	}
	if err := a.engine.UnlockVault(ctx, s, pw); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %s\n", s.Identity(), s.State())

	if !*hold {
		a.engine.LockVault(s)
		return nil
	}

	w := workers.NewWorkers(a.engine.AutoLocker(s))
	w.Run(ctx)
	defer w.Stop()

	t := time.NewTicker(holdPollInterval)
	defer t.Stop()
	for s.State() == session.VaultUnlocked {
		select {
		case <-ctx.Done():
			a.engine.LockVault(s)
		case <-t.C:
		}
	}
	fmt.Fprintf(a.out, "%s: %s\n", s.Identity(), s.State())
	return nil
}

func (a *App) runPasswd(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: passwd <identity>", ErrUsage)
	}

	s, err := a.engine.OpenSession(ctx, args[0])
	if err != nil {
		return err
	}

	old, err := a.prompter.ReadPassword("Current master password: ")
	if err != nil {
		return err
	}
	next, err := a.readNewPassword("New master password: ", "Confirm new master password: ")
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, renderMeter(a.engine.EvaluateStrength(next)))

	if _, err := a.engine.ChangeMasterPassword(ctx, s, old, next); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "master password changed for %s\n", s.Identity())
	return nil
}

func (a *App) runExport(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: export <plaintext-file> <export-file>", ErrUsage)
	}

	plaintext, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	defer crypto.Wipe(plaintext)

	pw, err := a.readNewPassword("Export password: ", "Confirm export password: ")
	if err != nil {
		return err
	}

	data, err := a.engine.ExportContainer(ctx, pw, plaintext)
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[1], data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", args[1], err)
	}

	fmt.Fprintf(a.out, "exported %d bytes to %s\n", len(plaintext), args[1])
	return nil
}

func (a *App) runImport(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: import <export-file> <plaintext-file>", ErrUsage)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	pw, err := a.prompter.ReadPassword("Export password: ")
	if err != nil {
		return err
	}

	plaintext, err := a.engine.ImportContainer(ctx, pw, data)
	if err != nil {
		return err
	}
	defer crypto.Wipe(plaintext)

	if err := os.WriteFile(args[1], plaintext, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", args[1], err)
	}

	fmt.Fprintf(a.out, "imported %d bytes to %s\n", len(plaintext), args[1])
	return nil
}

func (a *App) runGenerate(args []string) error {
	opts := a.engine.GeneratorOptions()
	mem := a.engine.MemorableOptions()

	var noUpper, noLower, noDigits, noSymbols, memorable, copyOut bool

	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&opts.Length, "length", opts.Length, "password length")
	fs.BoolVar(&opts.ExcludeSimilarChars, "exclude-similar", opts.ExcludeSimilarChars, "drop look-alike characters")
	fs.BoolVar(&noUpper, "no-upper", false, "no uppercase letters")
	fs.BoolVar(&noLower, "no-lower", false, "no lowercase letters")
	fs.BoolVar(&noDigits, "no-digits", false, "no digits")
	fs.BoolVar(&noSymbols, "no-symbols", false, "no symbols")
	fs.BoolVar(&memorable, "memorable", false, "word-based password")
	fs.IntVar(&mem.WordCount, "words", mem.WordCount, "memorable word count")
	fs.StringVar(&mem.Separator, "separator", mem.Separator, "memorable word separator")
	fs.BoolVar(&copyOut, "copy", false, "copy to clipboard instead of printing")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return fmt.Errorf("%w: generate [-length n | -memorable -words n] [-copy]", ErrUsage)
	}

	opts.Uppercase = !noUpper
	opts.Lowercase = !noLower
	opts.Numbers = !noDigits
	opts.Symbols = !noSymbols

	var (
		pw  string
		err error
	)
	if memorable {
		pw, err = a.engine.GenerateMemorable(mem)
	} else {
		pw, err = a.engine.GeneratePassword(opts)
	}
	if err != nil {
		return err
	}

	if copyOut {
		if err := a.clipboard.WriteAll(pw); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(a.out, "password copied to clipboard")
	} else {
		fmt.Fprintln(a.out, pw)
	}

	fmt.Fprintln(a.out, renderMeter(a.engine.EvaluateStrength(pw)))
	return nil
}

func (a *App) runStrength(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: strength", ErrUsage)
	}

	pw, err := a.prompter.ReadPassword("Password: ")
	if err != nil {
		return err
	}

	fmt.Fprint(a.out, renderStrength(a.engine.EvaluateStrength(pw)))
	return nil
}
