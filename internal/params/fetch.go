package params

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/kingalban/aws-butler/errors"
)

// eachConcurrent runs fn once per name on a worker pool sized to the
// host's default concurrency. The first failure to complete is returned
// immediately; tasks already dispatched run to completion and their
// results are discarded rather than cancelled, so a sibling failure never
// aborts an in-flight call. Returns the number of successes observed
// before returning.
func eachConcurrent(ctx context.Context, names []string, fn func(context.Context, string) error) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}

	sem := make(chan struct{}, runtime.NumCPU())
	// Buffered to len(names) so stragglers can finish and report after
	// the collector has already returned.
	results := make(chan error, len(names))

	for _, name := range names {
		go func(name string) {
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- fn(ctx, name)
		}(name)
	}

	done := 0
	for range names {
		if err := <-results; err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

// FetchValues resolves the value of every named parameter concurrently,
// decrypted when decrypt is set. Results are collected as they complete,
// not in submission order. On the first failure no map is returned at
// all: partial results are never handed to the caller.
func FetchValues(ctx context.Context, client API, names []string, decrypt bool) (map[string]string, error) {
	values := make(map[string]string, len(names))
	var mu sync.Mutex

	_, err := eachConcurrent(ctx, names, func(ctx context.Context, name string) error {
		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(name),
			WithDecryption: aws.Bool(decrypt),
		})
		if err != nil {
			return errors.NewNameError("getParameter", name, err)
		}
		if out.Parameter == nil || out.Parameter.Value == nil {
			return errors.NewNameError("getParameter", name, errors.ErrMissingValue)
		}
		slog.Debug("params: resolved value", "name", name)

		mu.Lock()
		values[name] = *out.Parameter.Value
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// PutSecure writes every entry as an encrypted SecureString parameter
// with overwrite permitted, on the same fail-fast pool as FetchValues.
// The returned count of completed writes is valid even when err is
// non-nil, so the operator can be told how far the apply got.
func PutSecure(ctx context.Context, client API, entries map[string]string) (int, error) {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	return eachConcurrent(ctx, names, func(ctx context.Context, name string) error {
		_, err := client.PutParameter(ctx, &ssm.PutParameterInput{
			Name:      aws.String(name),
			Value:     aws.String(entries[name]),
			Type:      ssmtypes.ParameterTypeSecureString,
			Overwrite: aws.Bool(true),
		})
		if err != nil {
			return errors.NewNameError("putParameter", name, err)
		}
		slog.Debug("params: wrote parameter", "name", name)
		return nil
	})
}
