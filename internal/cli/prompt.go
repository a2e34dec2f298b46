// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-sshpki.
//
// go-sshpki is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jeremyhahn/go-sshpki/pkg/secret"
	"golang.org/x/term"
)

// ErrPassphraseMismatch is returned when the confirmation prompt does
// not match the first entry.
var ErrPassphraseMismatch = errors.New("passphrases do not match")

// promptPassphrase reads a passphrase without echo. When stdin is not a
// terminal (pipes, CI), a single line is read instead.
func promptPassphrase(prompt string) (secret.Secret, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		defer fmt.Fprintln(os.Stderr)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return nil, fmt.Errorf("passphrase prompt: %w", err)
		}
		pass := secret.New(raw)
		zero(raw)
		return pass, nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("passphrase prompt: %w", err)
	}
	return secret.FromString(strings.TrimRight(line, "\r\n")), nil
}

// promptNewPassphrase prompts twice and requires both entries to match.
// An empty passphrase means no encryption and needs no confirmation.
func promptNewPassphrase() (secret.Secret, error) {
	first, err := promptPassphrase("Enter passphrase (empty for no passphrase): ")
	if err != nil {
		return nil, err
	}
	if first.Len() == 0 {
		return nil, nil
	}
	again, err := promptPassphrase("Enter same passphrase again: ")
	if err != nil {
		first.Zero()
		return nil, err
	}
	defer again.Zero()
	if !first.Equal(again) {
		first.Zero()
		return nil, ErrPassphraseMismatch
	}
	return first, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
