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
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/jeremyhahn/go-sshpki/pkg/pki"
	"github.com/jeremyhahn/go-sshpki/pkg/sshwire"
	"github.com/spf13/cobra"
)

var (
	verifyKeyFile string
	verifySigFile string
	verifySession string
)

var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Verify a signature against a public key",
	Long: `Verify a base64-encoded signature blob over a file against an
authorized_keys public key. Use --session if the signature was
produced with session binding.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		k, err := pki.ImportPublicKeyFile(verifyKeyFile)
		if err != nil {
			handleError(err)
		}
		defer k.Destroy()

		message, err := os.ReadFile(args[0])
		if err != nil {
			handleError(err)
		}
		encoded, err := os.ReadFile(verifySigFile)
		if err != nil {
			handleError(err)
		}
		blob, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(encoded)))
		if err != nil {
			handleError(fmt.Errorf("signature file is not valid base64: %w", err))
		}

		sig, err := sshwire.DecodeSignatureBlob(k, blob)
		if err != nil {
			handleError(err)
		}
		defer sig.Destroy()

		if verifySession != "" {
			err = pki.VerifySessionBound(sig, k, []byte(verifySession), message)
		} else {
			err = pki.Verify(sig, k, message)
		}
		if err != nil {
			handleError(err)
		}

		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)
		_ = printer.PrintSuccess("Signature verified")
	},
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyKeyFile, "key", "k", "", "public key file")
	verifyCmd.Flags().StringVarP(&verifySigFile, "signature", "s", "", "signature file")
	verifyCmd.Flags().StringVar(&verifySession, "session", "",
		"session identifier the signature was bound to")
	_ = verifyCmd.MarkFlagRequired("key")
	_ = verifyCmd.MarkFlagRequired("signature")
}
