package params

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/kingalban/aws-butler/errors"
	"github.com/kingalban/aws-butler/internal/cursor"
)

// describePageSize is the DescribeParameters hard maximum.
const describePageSize = 50

// Query selects which parameters to walk.
type Query struct {
	// Paths are path expressions, each either a hierarchy prefix
	// ("/svc/db") or an exact name. Empty means one unfiltered query.
	Paths []string

	// Limit caps the total number of parameters yielded. 0 means all.
	Limit int

	// WithValues resolves values page-wise before yielding, so every
	// emitted page carries its values together.
	WithValues bool

	// NoDecrypt leaves SecureString values in their encrypted form.
	NoDecrypt bool
}

// Iterator yields parameters across all of a query's expanded remote
// queries, in declaration order, deduplicated by name (first occurrence
// wins). Valid for a single traversal; not safe for concurrent use.
type Iterator struct {
	walkers []*cursor.Walker[Parameter]
	idx     int
	limit   int
	emitted int
}

// Walk builds the iterator for a query.
//
// Each path expression expands to two remote queries: one hierarchical
// prefix filter and one exact-name filter. The service's prefix filter
// does not match a parameter whose full name equals the path itself, so
// both are needed; the shared dedup set suppresses the overlap.
func Walk(client API, q Query) *Iterator {
	var filterSets [][]ssmtypes.ParameterStringFilter

	if len(q.Paths) == 0 {
		filterSets = [][]ssmtypes.ParameterStringFilter{nil}
	} else {
		for _, path := range q.Paths {
			filterSets = append(filterSets,
				[]ssmtypes.ParameterStringFilter{{
					Key:    aws.String("Path"),
					Option: aws.String("Recursive"),
					Values: []string{path},
				}},
				[]ssmtypes.ParameterStringFilter{{
					Key:    aws.String("Name"),
					Option: aws.String("Equals"),
					Values: []string{path},
				}},
			)
		}
	}

	seen := make(map[string]struct{})
	walkers := make([]*cursor.Walker[Parameter], 0, len(filterSets))
	for _, filters := range filterSets {
		walkers = append(walkers, newQueryWalker(client, filters, seen, q))
	}

	return &Iterator{walkers: walkers, limit: q.Limit}
}

// newQueryWalker builds the cursor walker for one remote query. The seen
// set is shared across all of a traversal's queries so that a parameter
// matched by overlapping filters is emitted exactly once.
func newQueryWalker(
	client API,
	filters []ssmtypes.ParameterStringFilter,
	seen map[string]struct{},
	q Query,
) *cursor.Walker[Parameter] {
	fetch := func(ctx context.Context, token *string, pageSize int32) ([]Parameter, *string, error) {
		out, err := client.DescribeParameters(ctx, &ssm.DescribeParametersInput{
			ParameterFilters: filters,
			MaxResults:       aws.Int32(pageSize),
			NextToken:        token,
		})
		if err != nil {
			return nil, nil, errors.NewError("describeParameters", err)
		}
		slog.Debug("params: fetched page", "parameters", len(out.Parameters))

		page := make([]Parameter, 0, len(out.Parameters))
		for _, m := range out.Parameters {
			p := paramFromSDK(m)
			if _, dup := seen[p.Name]; dup {
				continue
			}
			seen[p.Name] = struct{}{}
			page = append(page, p)
		}

		if q.WithValues && len(page) > 0 {
			names := make([]string, len(page))
			for i, p := range page {
				names[i] = p.Name
			}
			values, err := FetchValues(ctx, client, names, !q.NoDecrypt)
			if err != nil {
				return nil, nil, err
			}
			for i := range page {
				page[i].Value = values[page[i].Name]
			}
		}

		return page, out.NextToken, nil
	}

	return cursor.NewWalker(fetch,
		cursor.WithPageSize(describePageSize),
		cursor.WithLimit(q.Limit),
	)
}

// Next yields the next deduplicated parameter, advancing through the
// expanded queries in declaration order.
func (it *Iterator) Next(ctx context.Context) (Parameter, bool, error) {
	var zero Parameter

	if it.limit > 0 && it.emitted >= it.limit {
		return zero, false, nil
	}

	for it.idx < len(it.walkers) {
		p, ok, err := it.walkers[it.idx].Next(ctx)
		if err != nil {
			return zero, false, err
		}
		if !ok {
			it.idx++
			continue
		}
		it.emitted++
		return p, true, nil
	}

	return zero, false, nil
}

// Collect drains the iterator into a slice.
func (it *Iterator) Collect(ctx context.Context) ([]Parameter, error) {
	var out []Parameter
	for {
		p, ok, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, p)
	}
}
