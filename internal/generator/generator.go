// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package generator produces candidate passwords and scores arbitrary ones.
// It has no dependency on the key hierarchy.
package generator

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/sethvargo/go-diceware/diceware"
)

const (
	MinLength = 4
	MaxLength = 128

	MinWords = 2
	MaxWords = 8
)

// Character pools.
const (
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	Digits    = "0123456789"
	Symbols   = "!@#$%^&*()-_=+[]{};:,.<>/?~|"

	// Similar lists the characters dropped by ExcludeSimilarChars.
	Similar = "0Oo1lI|"
)

// Options configures character-pool generation.
type Options struct {
	Length              int
	Uppercase           bool
	Lowercase           bool
	Numbers             bool
	Symbols             bool
	ExcludeSimilarChars bool
}

// DefaultOptions returns 20 characters drawn from all four classes.
func DefaultOptions() Options {
	return Options{
		Length:    20,
		Uppercase: true,
		Lowercase: true,
		Numbers:   true,
		Symbols:   true,
	}
}

// MemorableOptions configures word-based generation.
type MemorableOptions struct {
	WordCount  int
	Separator  string
	Numbers    bool
	Capitalize bool
}

// DefaultMemorableOptions returns four capitalized words joined by '-'
// with a two-digit suffix.
func DefaultMemorableOptions() MemorableOptions {
	return MemorableOptions{
		WordCount:  4,
		Separator:  "-",
		Numbers:    true,
		Capitalize: true,
	}
}

// Generator draws passwords from a CSPRNG.
type Generator struct {
	rand  io.Reader
	words func(n int) ([]string, error)
}

// New returns a Generator reading crypto/rand and the EFF large word list.
func New() *Generator {
	return &Generator{
		rand:  rand.Reader,
		words: diceware.Generate,
	}
}

// Generate returns exactly opts.Length characters, each drawn uniformly
// from the union of the enabled classes.
func (g *Generator) Generate(opts Options) (string, error) {
	if opts.Length < MinLength || opts.Length > MaxLength {
		return "", fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidLength, opts.Length, MinLength, MaxLength)
	}

	pool := buildPool(opts)
	if len(pool) == 0 {
		return "", ErrNoCharacterClasses
	}

	var sb strings.Builder
	sb.Grow(opts.Length)
	for range opts.Length {
		i, err := g.intn(len(pool))
		if err != nil {
			return "", err
		}
		sb.WriteByte(pool[i])
	}
	return sb.String(), nil
}

// GenerateMemorable returns opts.WordCount diceware words joined by
// opts.Separator, optionally capitalized and followed by two digits.
func (g *Generator) GenerateMemorable(opts MemorableOptions) (string, error) {
	if opts.WordCount < MinWords || opts.WordCount > MaxWords {
		return "", fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidWordCount, opts.WordCount, MinWords, MaxWords)
	}

	words, err := g.words(opts.WordCount)
	if err != nil {
		return "", fmt.Errorf("generate words: %w", err)
	}

	if opts.Capitalize {
		for i, w := range words {
			if w != "" {
				words[i] = strings.ToUpper(w[:1]) + w[1:]
			}
		}
	}

	out := strings.Join(words, opts.Separator)
	if opts.Numbers {
		n, err := g.intn(100)
		if err != nil {
			return "", err
		}
		out += fmt.Sprintf("%02d", n)
	}
	return out, nil
}

func (g *Generator) intn(n int) (int, error) {
	v, err := rand.Int(g.rand, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("read random: %w", err)
	}
	return int(v.Int64()), nil
}

func buildPool(opts Options) string {
	var sb strings.Builder
	if opts.Uppercase {
		sb.WriteString(Uppercase)
	}
	if opts.Lowercase {
		sb.WriteString(Lowercase)
	}
	if opts.Numbers {
		sb.WriteString(Digits)
	}
	if opts.Symbols {
		sb.WriteString(Symbols)
	}

	pool := sb.String()
	if opts.ExcludeSimilarChars {
		pool = strings.Map(func(r rune) rune {
			if strings.ContainsRune(Similar, r) {
				return -1
			}
			return r
		}, pool)
	}
	return pool
}
