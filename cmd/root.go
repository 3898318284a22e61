// Package cmd wires the aws-butler command tree.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingalban/aws-butler/errors"
	"github.com/kingalban/aws-butler/internal/awsapi"
)

// settings is the per-invocation configuration resolved from the
// persistent flags. It is populated once by flag parsing and read-only
// afterwards.
type settings struct {
	Profile string
	Region  string
	Verbose bool
}

var opts settings

var rootCmd = &cobra.Command{
	Use:   "aws-butler",
	Short: "Browse CloudWatch Logs and sync env files with SSM Parameter Store",
	Long: `aws-butler browses CloudWatch Logs log groups and synchronizes local
.env files against SSM Parameter Store.

Credentials and region follow the default AWS resolution chain; use
--profile and --region to pin them per invocation.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if opts.Verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if code := errors.APIErrorCode(err); code != "" {
			fmt.Fprintf(os.Stderr, "aws error code: %s\n", code)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&opts.Profile, "profile", "", "AWS shared-config profile")
	rootCmd.PersistentFlags().StringVar(&opts.Region, "region", "", "AWS region override")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
}

// newSession builds the AWS session for this invocation.
func newSession(cmd *cobra.Command) (*awsapi.Session, error) {
	return awsapi.New(cmd.Context(),
		awsapi.WithProfile(opts.Profile),
		awsapi.WithRegion(opts.Region),
	)
}

// stdoutIsPipe reports whether stdout is redirected away from a
// terminal, in which case paging is pointless.
func stdoutIsPipe() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}
