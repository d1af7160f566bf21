// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line application on top of the
// engine.
//
// It reads passwords from the terminal, runs one command per process and
// renders results (strength meter, generated passwords) to the output.
package client
