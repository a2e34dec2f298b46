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

	"github.com/jeremyhahn/go-sshpki/pkg/key"
	"github.com/jeremyhahn/go-sshpki/pkg/pki"
	"github.com/jeremyhahn/go-sshpki/pkg/secret"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
	"github.com/spf13/cobra"
)

var (
	generateType       string
	generateBits       int
	generateOut        string
	generateComment    string
	generateNoPass     bool
	generateFormat     string
	generatePassphrase string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new SSH key pair",
	Long: `Generate a new SSH key pair and write the private key and its
authorized_keys public line to disk.

Examples:
  sshpki generate --type ed25519 --out id_ed25519
  sshpki generate --type rsa --bits 4096 --out id_rsa
  sshpki generate --type ecdsa-sha2-nistp384 --out id_ecdsa`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		log := getLogger()

		typeName := generateType
		if typeName == "" {
			typeName = cfg.DefaultKeyType
		}
		keyType := types.KeyTypeFromName(typeName)
		if keyType == types.Unknown {
			handleError(fmt.Errorf("unknown key type %q", typeName))
		}

		parameter := 0
		switch keyType.Plain() {
		case types.RSA, types.DSS:
			parameter = generateBits
			if parameter == 0 {
				parameter = cfg.DefaultBits
			}
		}

		log.Debugf("generating %s key", keyType)
		k, err := key.Generate(keyType, parameter)
		if err != nil {
			handleError(err)
		}
		defer k.Destroy()
		k.Comment = generateComment

		passphrase, err := resolvePassphrase()
		if err != nil {
			handleError(err)
		}
		defer passphrase.Zero()

		format := pki.FormatAuto
		switch generateFormat {
		case "pem":
			format = pki.FormatPEM
		case "openssh":
			format = pki.FormatOpenSSH
		case "", "auto":
		default:
			handleError(fmt.Errorf("unknown format %q", generateFormat))
		}

		if err := pki.ExportPrivateKeyFile(k, generateOut, passphrase, format); err != nil {
			handleError(err)
		}
		if err := pki.ExportPublicKeyFile(k, generateOut+".pub", generateComment); err != nil {
			handleError(err)
		}

		fingerprint, err := pki.Fingerprint(k)
		if err != nil {
			handleError(err)
		}
		printVerbose("private key written to %s", generateOut)

		printer := NewPrinter(cfg.OutputFormat, os.Stdout)
		_ = printer.PrintKeyInfo(&KeyInfo{
			Type:        k.Type.Name(),
			Fingerprint: fingerprint,
			Private:     true,
			Comment:     generateComment,
		})
	},
}

// resolvePassphrase picks the export passphrase from flags, falling
// back to an interactive double prompt.
func resolvePassphrase() (secret.Secret, error) {
	if generateNoPass {
		return nil, nil
	}
	if generatePassphrase != "" {
		return secret.FromString(generatePassphrase), nil
	}
	return promptNewPassphrase()
}

func init() {
	generateCmd.Flags().StringVarP(&generateType, "type", "t", "",
		"key type (rsa, dsa, ecdsa-sha2-nistp256/384/521, ed25519, ...)")
	generateCmd.Flags().IntVarP(&generateBits, "bits", "b", 0,
		"bit length for rsa/dsa keys")
	generateCmd.Flags().StringVar(&generateOut, "out", "id_sshpki",
		"output path for the private key (public key gets .pub)")
	generateCmd.Flags().StringVarP(&generateComment, "comment", "C", "",
		"key comment")
	generateCmd.Flags().BoolVar(&generateNoPass, "no-passphrase", false,
		"write the private key unencrypted without prompting")
	generateCmd.Flags().StringVar(&generatePassphrase, "passphrase", "",
		"passphrase (prompts interactively when unset)")
	generateCmd.Flags().StringVar(&generateFormat, "format", "auto",
		"private key container (auto, pem, openssh)")
}
