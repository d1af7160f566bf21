// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes the command named by args[0] and returns when it is done.
	Run(ctx context.Context, args []string) error
}

// Prompter reads a secret from the user without echoing it.
type Prompter interface {
	ReadPassword(prompt string) (string, error)
}

// Clipboard receives generated passwords.
type Clipboard interface {
	WriteAll(text string) error
}
