// Package logs walks CloudWatch Logs streams and events.
//
// Both walkers are lazy: the next API page is fetched only when the caller
// pulls past the buffered one, so tailing a large group never materializes
// more than a single page.
package logs

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/kingalban/aws-butler/errors"
	"github.com/kingalban/aws-butler/internal/cursor"
)

// API is the subset of the CloudWatch Logs client the walkers need.
// Declared here so tests can substitute a mock.
type API interface {
	DescribeLogStreams(
		ctx context.Context,
		params *cloudwatchlogs.DescribeLogStreamsInput,
		optFns ...func(*cloudwatchlogs.Options),
	) (*cloudwatchlogs.DescribeLogStreamsOutput, error)
	GetLogEvents(
		ctx context.Context,
		params *cloudwatchlogs.GetLogEventsInput,
		optFns ...func(*cloudwatchlogs.Options),
	) (*cloudwatchlogs.GetLogEventsOutput, error)
}

// Stream is one log stream's metadata.
type Stream struct {
	Name         string
	CreatedAt    time.Time
	FirstEventAt time.Time
	LastEventAt  time.Time
}

// Duration is the span between the stream's first and last event.
func (s Stream) Duration() time.Duration {
	if s.FirstEventAt.IsZero() || s.LastEventAt.IsZero() {
		return 0
	}
	return s.LastEventAt.Sub(s.FirstEventAt)
}

// Event is one log record.
type Event struct {
	Timestamp time.Time
	Message   string
}

// streamPageSize is the DescribeLogStreams hard maximum.
const streamPageSize = 50

// maxEventPageSize is the GetLogEvents hard maximum.
const maxEventPageSize = 10_000

// StreamQuery selects which streams of a group to walk.
type StreamQuery struct {
	// Group is the log group name.
	Group string

	// Limit caps the number of streams yielded. 0 means all.
	Limit int

	// LastDay keeps only streams created within the last 24 hours.
	// The filter is applied page-wise after each fetch; ordering is
	// still whatever the service returned.
	LastDay bool
}

// WalkStreams walks a group's streams ordered by last event time,
// descending. Ordering is delegated to the service, not recomputed.
func WalkStreams(client API, q StreamQuery) *cursor.Walker[Stream] {
	var cutoff time.Time
	if q.LastDay {
		cutoff = time.Now().Add(-24 * time.Hour)
	}

	fetch := func(ctx context.Context, token *string, pageSize int32) ([]Stream, *string, error) {
		out, err := client.DescribeLogStreams(ctx, &cloudwatchlogs.DescribeLogStreamsInput{
			LogGroupName: aws.String(q.Group),
			OrderBy:      cwtypes.OrderByLastEventTime,
			Descending:   aws.Bool(true),
			Limit:        aws.Int32(pageSize),
			NextToken:    token,
		})
		if err != nil {
			return nil, nil, errors.NewGroupError("describeLogStreams", q.Group, err)
		}

		streams := make([]Stream, 0, len(out.LogStreams))
		for _, s := range out.LogStreams {
			stream := streamFromSDK(s)
			if !cutoff.IsZero() && stream.CreatedAt.Before(cutoff) {
				continue
			}
			streams = append(streams, stream)
		}
		return streams, out.NextToken, nil
	}

	return cursor.NewWalker(fetch,
		cursor.WithPageSize(streamPageSize),
		cursor.WithLimit(q.Limit),
	)
}

// EventQuery selects which events of a stream to walk.
type EventQuery struct {
	Group  string
	Stream string

	// Limit caps the total number of events yielded. 0 means all.
	Limit int

	// PageSize overrides the per-request size. Capped at 10,000.
	PageSize int32

	// FromHead walks from the oldest event forward; otherwise the walk
	// starts at the newest events.
	FromHead bool

	// Unmask reveals content redacted by data-protection policies.
	Unmask bool
}

// WalkEvents walks a stream's events. GetLogEvents has no has-more flag:
// exhaustion is signalled by the forward token not advancing, which is
// exactly the walker's repeated-token stop rule.
func WalkEvents(client API, q EventQuery) *cursor.Walker[Event] {
	pageSize := q.PageSize
	if pageSize <= 0 {
		if q.Limit > 0 && q.Limit < maxEventPageSize {
			// A cap smaller than one page bounds the request itself.
			pageSize = int32(q.Limit)
		} else {
			pageSize = maxEventPageSize
		}
	}
	if pageSize > maxEventPageSize {
		pageSize = maxEventPageSize
	}

	fetch := func(ctx context.Context, token *string, size int32) ([]Event, *string, error) {
		out, err := client.GetLogEvents(ctx, &cloudwatchlogs.GetLogEventsInput{
			LogGroupName:  aws.String(q.Group),
			LogStreamName: aws.String(q.Stream),
			Limit:         aws.Int32(size),
			StartFromHead: aws.Bool(q.FromHead),
			Unmask:        q.Unmask,
			NextToken:     token,
		})
		if err != nil {
			return nil, nil, &errors.Error{Op: "getLogEvents", Group: q.Group, Name: q.Stream, Err: err}
		}

		events := make([]Event, 0, len(out.Events))
		for _, e := range out.Events {
			events = append(events, Event{
				Timestamp: time.UnixMilli(aws.ToInt64(e.Timestamp)),
				Message:   aws.ToString(e.Message),
			})
		}
		return events, out.NextForwardToken, nil
	}

	return cursor.NewWalker(fetch,
		cursor.WithPageSize(pageSize),
		cursor.WithLimit(q.Limit),
	)
}

func streamFromSDK(s cwtypes.LogStream) Stream {
	stream := Stream{
		Name:      aws.ToString(s.LogStreamName),
		CreatedAt: time.UnixMilli(aws.ToInt64(s.CreationTime)),
	}
	if s.FirstEventTimestamp != nil {
		stream.FirstEventAt = time.UnixMilli(*s.FirstEventTimestamp)
	}
	if s.LastEventTimestamp != nil {
		stream.LastEventAt = time.UnixMilli(*s.LastEventTimestamp)
	}
	return stream
}
