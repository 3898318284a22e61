// Package awsapi constructs the per-invocation AWS session.
//
// One Session is created per CLI invocation and shared read-only by every
// traversal and fetch issued during that invocation. Credential and region
// resolution follow the default AWS chain, optionally pinned to a named
// shared-config profile.
package awsapi

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/kingalban/aws-butler/errors"
)

// Session holds the service clients for one CLI invocation.
// It is immutable after construction and safe for concurrent use.
type Session struct {
	Logs *cloudwatchlogs.Client
	SSM  *ssm.Client
}

// Config holds session construction settings. Use the functional options
// (WithProfile, WithRegion) rather than building a Config directly.
type Config struct {
	// Profile names a shared-config credential profile. Empty means the
	// default credential chain.
	Profile string

	// Region overrides the resolved AWS region.
	Region string
}

// Option configures session construction.
type Option func(*Config)

// WithProfile pins the session to a named shared-config profile.
func WithProfile(profile string) Option {
	return func(c *Config) {
		c.Profile = profile
	}
}

// WithRegion overrides the AWS region.
func WithRegion(region string) Option {
	return func(c *Config) {
		c.Region = region
	}
}

// New loads AWS configuration and builds the service clients.
func New(ctx context.Context, opts ...Option) (*Session, error) {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}

	var loadOpts []func(*config.LoadOptions) error
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.NewError("session", err)
	}

	return &Session{
		Logs: cloudwatchlogs.NewFromConfig(awsCfg),
		SSM:  ssm.NewFromConfig(awsCfg),
	}, nil
}
