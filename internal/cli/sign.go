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

	"github.com/jeremyhahn/go-sshpki/pkg/key"
	"github.com/jeremyhahn/go-sshpki/pkg/pki"
	"github.com/jeremyhahn/go-sshpki/pkg/sshwire"
	"github.com/jeremyhahn/go-sshpki/pkg/types"
	"github.com/spf13/cobra"
)

var (
	signKeyFile string
	signDigest  string
	signSession string
	signOut     string
)

var signCmd = &cobra.Command{
	Use:   "sign <file>",
	Short: "Sign a file with a private key",
	Long: `Sign a file and print (or write) the base64-encoded signature blob.
The digest is negotiated from the key type unless --digest overrides
it; incompatible pairings fail rather than substituting.

With --session the signature is bound to the given session identifier,
matching the framing SSH uses for user authentication.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		log := getLogger()

		k, err := importPrivateKey(signKeyFile)
		if err != nil {
			handleError(err)
		}
		defer k.Destroy()

		message, err := os.ReadFile(args[0])
		if err != nil {
			handleError(err)
		}

		digest := pki.ResolveSignatureDigest(cfg.NegotiationContext(), k.Type)
		if signDigest != "" {
			digest, err = digestFromFlag(signDigest)
			if err != nil {
				handleError(err)
			}
		}
		if err := pki.CheckHashCompatible(k.Type, digest, cfg.FIPSMode); err != nil {
			handleError(err)
		}
		log.Debugf("signing %s with %s/%s", args[0], k.Type, digest)

		var sig *key.Signature
		if signSession != "" {
			sig, err = pki.SignSessionBound([]byte(signSession), message, k, digest)
		} else {
			sig, err = pki.Sign(k, message, digest)
		}
		if err != nil {
			handleError(err)
		}
		defer sig.Destroy()

		blob, err := sshwire.EncodeSignatureBlob(sig)
		if err != nil {
			handleError(err)
		}
		encoded := base64.StdEncoding.EncodeToString(blob)

		if signOut != "" {
			if err := os.WriteFile(signOut, []byte(encoded+"\n"), 0o644); err != nil {
				handleError(err)
			}
			printVerbose("signature written to %s", signOut)
			return
		}
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)
		_ = printer.PrintSignature(encoded)
	},
}

func digestFromFlag(name string) (types.Digest, error) {
	switch name {
	case "auto":
		return types.DigestAuto, nil
	case "sha1":
		return types.DigestSHA1, nil
	case "sha256":
		return types.DigestSHA256, nil
	case "sha384":
		return types.DigestSHA384, nil
	case "sha512":
		return types.DigestSHA512, nil
	}
	return types.DigestAuto, fmt.Errorf("unknown digest %q", name)
}

func init() {
	signCmd.Flags().StringVarP(&signKeyFile, "key", "k", "", "private key file")
	signCmd.Flags().StringVar(&signDigest, "digest", "",
		"digest override (auto, sha1, sha256, sha384, sha512)")
	signCmd.Flags().StringVar(&signSession, "session", "",
		"session identifier to bind the signature to")
	signCmd.Flags().StringVar(&signOut, "out", "", "write the signature to a file")
	_ = signCmd.MarkFlagRequired("key")
}
