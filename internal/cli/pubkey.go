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
	"errors"
	"os"

	"github.com/jeremyhahn/go-sshpki/pkg/key"
	"github.com/jeremyhahn/go-sshpki/pkg/pki"
	"github.com/jeremyhahn/go-sshpki/pkg/sshwire"
	"github.com/spf13/cobra"
)

var pubkeyComment string

var pubkeyCmd = &cobra.Command{
	Use:   "pubkey <private-key-file>",
	Short: "Print the public key of a private key file",
	Long: `Derive the public key from a private key file and print it as an
authorized_keys line. Prompts for the passphrase if the file is
encrypted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		k, err := importPrivateKey(args[0])
		if err != nil {
			handleError(err)
		}
		defer k.Destroy()

		pub := k.Dup(true)
		defer pub.Destroy()

		comment := pubkeyComment
		if comment == "" {
			comment = k.Comment
		}
		line, err := sshwire.EncodeAuthorizedKey(pub, comment)
		if err != nil {
			handleError(err)
		}

		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)
		_ = printer.PrintPublicKey(string(line))
	},
}

// importPrivateKey loads a private key file, prompting for a passphrase
// when the container turns out to be encrypted.
func importPrivateKey(path string) (*key.Key, error) {
	k, err := pki.ImportPrivateKeyFile(path, nil)
	if err == nil {
		return k, nil
	}
	if !errors.Is(err, sshwire.ErrPassphraseRequired) {
		return nil, err
	}

	passphrase, err := promptPassphrase("Enter passphrase for " + path + ": ")
	if err != nil {
		return nil, err
	}
	defer passphrase.Zero()

	return pki.ImportPrivateKeyFile(path, passphrase)
}

func init() {
	pubkeyCmd.Flags().StringVarP(&pubkeyComment, "comment", "C", "",
		"comment for the authorized_keys line (defaults to the stored comment)")
}
