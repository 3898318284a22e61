package sync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/kingalban/aws-butler/internal/envfile"
	"github.com/kingalban/aws-butler/internal/params"
)

// Options configures one sync run.
type Options struct {
	// Path is the hierarchy the local keys are written under.
	Path string

	// DryRun reports the diff and stops before any write.
	DryRun bool

	// Confirm is consulted with the computed diff before applying.
	// A nil Confirm never applies. Rejection is a normal outcome with
	// zero side effects, not an error.
	Confirm func(Diff) (bool, error)
}

// Syncer drives the sync state machine:
// load local -> query remote -> diff -> (dry-run stop | confirm -> apply | nothing to do).
type Syncer struct {
	client params.API
	out    io.Writer
}

// New creates a Syncer reporting progress to out.
func New(client params.API, out io.Writer) *Syncer {
	return &Syncer{client: client, out: out}
}

// Run synchronizes the env-file content read from src against the store.
func (s *Syncer) Run(ctx context.Context, src io.Reader, opts Options) error {
	local, err := s.loadLocal(src, opts.Path)
	if err != nil {
		return err
	}

	remote, err := s.queryRemote(ctx, local)
	if err != nil {
		return err
	}

	diff := ComputeDiff(local, remote)
	s.report(diff)

	if opts.DryRun {
		fmt.Fprintln(s.out, "dry run: no changes made")
		return nil
	}
	if diff.Empty() {
		fmt.Fprintln(s.out, "nothing to do")
		return nil
	}

	if opts.Confirm != nil {
		ok, err := opts.Confirm(diff)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.out, "cancelled: no changes made")
			return nil
		}
	} else {
		fmt.Fprintln(s.out, "cancelled: no changes made")
		return nil
	}

	count, err := params.PutSecure(ctx, s.client, diff.applySet())
	if err != nil {
		// The operator still learns how far the apply got.
		fmt.Fprintf(s.out, "wrote %d parameter(s) before failing\n", count)
		return err
	}
	fmt.Fprintf(s.out, "wrote %d parameter(s)\n", count)
	return nil
}

// loadLocal parses the env-file and qualifies every key onto the target
// path. All names are validated before any network call; one bad key
// aborts the whole run.
func (s *Syncer) loadLocal(src io.Reader, path string) (map[string]string, error) {
	pairs, err := envfile.Parse(src)
	if err != nil {
		return nil, err
	}

	local := make(map[string]string, len(pairs))
	for key, value := range pairs {
		name := envfile.Qualify(path, key)
		if err := params.ValidateName(name); err != nil {
			return nil, err
		}
		local[name] = value
	}
	return local, nil
}

// queryRemote resolves the remote state of exactly the local keys' names,
// values included, so the diff compares real decrypted values.
func (s *Syncer) queryRemote(ctx context.Context, local map[string]string) (map[string]string, error) {
	names := make([]string, 0, len(local))
	for name := range local {
		names = append(names, name)
	}
	sort.Strings(names)

	found, err := params.Walk(s.client, params.Query{
		Paths:      names,
		WithValues: true,
	}).Collect(ctx)
	if err != nil {
		return nil, err
	}
	slog.Debug("sync: queried remote", "local", len(local), "remote", len(found))

	remote := make(map[string]string, len(found))
	for _, p := range found {
		remote[p.Name] = p.Value
	}
	return remote, nil
}

// report prints the diff grouped by category, names sorted within each.
func (s *Syncer) report(d Diff) {
	fmt.Fprintf(s.out, "%d unchanged, %d new, %d changed\n",
		len(d.Unchanged), len(d.New), len(d.Changed))

	for _, name := range sortedKeys(d.Unchanged) {
		fmt.Fprintf(s.out, "  unchanged %s\n", name)
	}
	for _, name := range sortedKeys(d.New) {
		fmt.Fprintf(s.out, "  new       %s = %s\n", name, d.New[name])
	}
	for _, name := range sortedKeys(d.Changed) {
		c := d.Changed[name]
		fmt.Fprintf(s.out, "  changed   %s = %s (was %s)\n", name, c.New, c.Old)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
