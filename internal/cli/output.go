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
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText  OutputFormat = "text"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// KeyInfo is the inspectable surface of a key for display purposes.
type KeyInfo struct {
	Type        string `json:"type"`
	Fingerprint string `json:"fingerprint"`
	Private     bool   `json:"private"`
	Comment     string `json:"comment,omitempty"`
	Certificate string `json:"certificate,omitempty"`
	Application string `json:"application,omitempty"`
}

// PrintKeyInfo prints detailed key information
func (p *Printer) PrintKeyInfo(info *KeyInfo) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(info)
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, "Key Information:")
		fmt.Fprintf(p.writer, "  Type:        %s\n", info.Type)
		fmt.Fprintf(p.writer, "  Fingerprint: %s\n", info.Fingerprint)
		fmt.Fprintf(p.writer, "  Private:     %t\n", info.Private)
		if info.Comment != "" {
			fmt.Fprintf(p.writer, "  Comment:     %s\n", info.Comment)
		}
		if info.Certificate != "" {
			fmt.Fprintf(p.writer, "  Certificate: %s\n", info.Certificate)
		}
		if info.Application != "" {
			fmt.Fprintf(p.writer, "  Application: %s\n", info.Application)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintKeyList prints a table of key summaries
func (p *Printer) PrintKeyList(infos []*KeyInfo) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{"keys": infos})
	case OutputFormatTable:
		if len(infos) == 0 {
			fmt.Fprintln(p.writer, "No keys found")
			return nil
		}
		fmt.Fprintf(p.writer, "%-30s %-50s %-8s\n", "TYPE", "FINGERPRINT", "PRIVATE")
		fmt.Fprintln(p.writer, strings.Repeat("-", 90))
		for _, info := range infos {
			fmt.Fprintf(p.writer, "%-30s %-50s %-8t\n", info.Type, info.Fingerprint, info.Private)
		}
		return nil
	case OutputFormatText:
		if len(infos) == 0 {
			fmt.Fprintln(p.writer, "No keys found")
			return nil
		}
		for _, info := range infos {
			fmt.Fprintf(p.writer, "  - %s (%s)\n", info.Fingerprint, info.Type)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintPublicKey prints an authorized_keys line
func (p *Printer) PrintPublicKey(line string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"public_key": strings.TrimRight(line, "\n"),
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprint(p.writer, line)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSignature prints a signature (base64 encoded)
func (p *Printer) PrintSignature(signature string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"signature": signature,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, signature)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(message string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status":  "success",
			"message": message,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, message)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// printJSON prints data as JSON
func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
