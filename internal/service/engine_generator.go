package service

import "github.com/MKhiriev/go-pass-vault/internal/generator"

// GeneratorOptions returns the configured character-pool defaults.
func (e *Engine) GeneratorOptions() generator.Options {
	opts := generator.DefaultOptions()
	opts.Length = e.generatorDefaults.Length
	opts.ExcludeSimilarChars = e.generatorDefaults.ExcludeSimilar
	return opts
}

// MemorableOptions returns the configured memorable-mode defaults.
func (e *Engine) MemorableOptions() generator.MemorableOptions {
	opts := generator.DefaultMemorableOptions()
	opts.WordCount = e.generatorDefaults.Words
	opts.Separator = e.generatorDefaults.Separator
	return opts
}

// GeneratePassword returns a random password drawn from the pools in opts.
func (e *Engine) GeneratePassword(opts generator.Options) (string, error) {
	return e.generator.Generate(opts)
}

// GenerateMemorable returns a word-based password.
func (e *Engine) GenerateMemorable(opts generator.MemorableOptions) (string, error) {
	return e.generator.GenerateMemorable(opts)
}

// EvaluateStrength scores password. It never fails.
func (e *Engine) EvaluateStrength(password string) generator.Strength {
	return generator.Evaluate(password)
}
