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
	"os"

	"github.com/jeremyhahn/go-sshpki/pkg/pki"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <key-file>",
	Short: "Show key type, fingerprint, and metadata",
	Long: `Inspect a key file in any supported container: authorized_keys
public lines, PEM private keys, or the OpenSSH v1 container. Encrypted
private keys prompt for their passphrase.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]

		// Public first: authorized_keys lines are cheap to recognize.
		k, err := pki.ImportPublicKeyFile(path)
		if err != nil {
			printVerbose("not a public key file: %v", err)
			k, err = importPrivateKey(path)
			if err != nil {
				handleError(err)
			}
		}
		defer k.Destroy()

		fingerprint, err := pki.Fingerprint(k)
		if err != nil {
			handleError(err)
		}

		info := &KeyInfo{
			Type:        k.Type.Name(),
			Fingerprint: fingerprint,
			Private:     k.IsPrivate(),
			Comment:     k.Comment,
			Application: string(k.SKApplication),
		}
		if k.Type.IsCertificate() {
			info.Certificate = k.Type.Name()
		} else if k.Certificate != nil {
			info.Certificate = k.CertType.Name()
		}

		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)
		if err := printer.PrintKeyInfo(info); err != nil {
			handleError(err)
		}
	},
}
