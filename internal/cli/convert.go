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
	"fmt"
	"os"

	"github.com/jeremyhahn/go-sshpki/pkg/pki"
	"github.com/jeremyhahn/go-sshpki/pkg/secret"
	"github.com/spf13/cobra"
)

var (
	convertOut        string
	convertFormat     string
	convertNoPass     bool
	convertPassphrase string
)

var convertCmd = &cobra.Command{
	Use:   "convert <private-key-file>",
	Short: "Convert a private key between containers",
	Long: `Re-encode a private key into a different container format: legacy
PEM/PKCS#8 or the OpenSSH v1 container. Prompts for the source
passphrase if the input is encrypted, and for a new passphrase for the
output unless --no-passphrase is given.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		k, err := importPrivateKey(args[0])
		if err != nil {
			handleError(err)
		}
		defer k.Destroy()

		var format pki.PrivateKeyFormat
		switch convertFormat {
		case "pem":
			format = pki.FormatPEM
		case "openssh":
			format = pki.FormatOpenSSH
		default:
			handleError(fmt.Errorf("unknown format %q (pem, openssh)", convertFormat))
		}

		passphrase, err := resolveConvertPassphrase()
		if err != nil {
			handleError(err)
		}
		defer passphrase.Zero()

		out := convertOut
		if out == "" {
			out = args[0]
		}
		if err := pki.ExportPrivateKeyFile(k, out, passphrase, format); err != nil {
			handleError(err)
		}

		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)
		_ = printer.PrintSuccess(fmt.Sprintf("Private key written to %s (%s)", out, convertFormat))
	},
}

func resolveConvertPassphrase() (secret.Secret, error) {
	if convertNoPass {
		return nil, nil
	}
	if convertPassphrase != "" {
		return secret.FromString(convertPassphrase), nil
	}
	return promptNewPassphrase()
}

func init() {
	convertCmd.Flags().StringVar(&convertOut, "out", "",
		"output path (defaults to overwriting the input)")
	convertCmd.Flags().StringVar(&convertFormat, "format", "openssh",
		"target container (pem, openssh)")
	convertCmd.Flags().BoolVar(&convertNoPass, "no-passphrase", false,
		"write the output unencrypted without prompting")
	convertCmd.Flags().StringVar(&convertPassphrase, "passphrase", "",
		"output passphrase (prompts interactively when unset)")
}
