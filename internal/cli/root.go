// Package cli implements the kycextract command, which runs the document
// parsers on local files.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"kyc-backend/internal/aadhaar"
	"kyc-backend/internal/extract"
	"kyc-backend/internal/reconcile"
	"kyc-backend/internal/rtc"
	"kyc-backend/internal/shared/telemetry"
)

var Version = "dev"

type options struct {
	pdftotext  string
	timeout    time.Duration
	noFallback bool
	compact    bool
	logLevel   string
	rtcPath    string
	idPath     string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "kycextract",
		Short:         "Extract KYC fields from RTC and Aadhaar documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			telemetry.SetOutput(cmd.ErrOrStderr())
			telemetry.SetLevel(opts.logLevel)
		},
	}
	root.PersistentFlags().StringVar(&opts.pdftotext, "pdftotext", "pdftotext", "Path to the pdftotext binary")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Extraction timeout per document")
	root.PersistentFlags().BoolVar(&opts.noFallback, "no-fallback", false, "Do not fall back to the pure-Go PDF reader")
	root.PersistentFlags().BoolVar(&opts.compact, "compact", false, "Print JSON on a single line")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level for diagnostics written to stderr")

	textCmd := &cobra.Command{
		Use:   "text <file>",
		Short: "Print the cleaned text of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := opts.readText(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	rtcCmd := &cobra.Command{
		Use:   "rtc <file>",
		Short: "Parse an RTC land record (.pdf or .txt)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := opts.readText(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), rtc.Parse(extract.Lines(text)))
		},
	}

	aadhaarCmd := &cobra.Command{
		Use:     "aadhaar <file>",
		Aliases: []string{"aadhar"},
		Short:   "Parse an Aadhaar card (.pdf or .txt)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := opts.readText(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), aadhaar.Parse(text))
		},
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare an RTC with an Aadhaar card and print the profile fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.rtcPath == "" && opts.idPath == "" {
				return fmt.Errorf("at least one of --rtc or --aadhaar is required")
			}
			var land *rtc.Record
			var id *aadhaar.Identity
			if opts.rtcPath != "" {
				text, err := opts.readText(cmd.Context(), opts.rtcPath)
				if err != nil {
					return err
				}
				rec := rtc.Parse(extract.Lines(text))
				land = &rec
			}
			if opts.idPath != "" {
				text, err := opts.readText(cmd.Context(), opts.idPath)
				if err != nil {
					return err
				}
				parsed := aadhaar.Parse(text)
				id = &parsed
			}
			return opts.print(cmd.OutOrStdout(), reconcile.Reconcile(land, id))
		},
	}
	reconcileCmd.Flags().StringVar(&opts.rtcPath, "rtc", "", "RTC file (.pdf or .txt)")
	reconcileCmd.Flags().StringVar(&opts.idPath, "aadhaar", "", "Aadhaar file (.pdf or .txt)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kycextract %s\n", Version)
		},
	}

	root.AddCommand(textCmd, rtcCmd, aadhaarCmd, reconcileCmd, versionCmd)
	return root
}

// Execute runs the command line.
func Execute() error {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		return err
	}
	return nil
}

// readText returns .txt files verbatim and runs everything else through
// the extractor. An unreadable PDF yields empty text, not an error.
func (o *options) readText(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return string(data), nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ex := extract.New(extract.Options{
		Binary:   o.pdftotext,
		Timeout:  o.timeout,
		Fallback: !o.noFallback,
	})
	return ex.Text(ctx, data), nil
}

func (o *options) print(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !o.compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
