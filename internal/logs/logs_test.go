package logs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingalban/aws-butler/internal/cursor"
)

// mockLogsAPI implements API with pluggable behavior.
type mockLogsAPI struct {
	describeLogStreams func(*cloudwatchlogs.DescribeLogStreamsInput) (*cloudwatchlogs.DescribeLogStreamsOutput, error)
	getLogEvents       func(*cloudwatchlogs.GetLogEventsInput) (*cloudwatchlogs.GetLogEventsOutput, error)
}

func (m *mockLogsAPI) DescribeLogStreams(
	ctx context.Context,
	params *cloudwatchlogs.DescribeLogStreamsInput,
	optFns ...func(*cloudwatchlogs.Options),
) (*cloudwatchlogs.DescribeLogStreamsOutput, error) {
	return m.describeLogStreams(params)
}

func (m *mockLogsAPI) GetLogEvents(
	ctx context.Context,
	params *cloudwatchlogs.GetLogEventsInput,
	optFns ...func(*cloudwatchlogs.Options),
) (*cloudwatchlogs.GetLogEventsOutput, error) {
	return m.getLogEvents(params)
}

func sdkStream(name string, created time.Time) cwtypes.LogStream {
	first := created.Add(time.Minute)
	last := created.Add(time.Hour)
	return cwtypes.LogStream{
		LogStreamName:       aws.String(name),
		CreationTime:        aws.Int64(created.UnixMilli()),
		FirstEventTimestamp: aws.Int64(first.UnixMilli()),
		LastEventTimestamp:  aws.Int64(last.UnixMilli()),
	}
}

func TestWalkStreams(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("paginates and converts", func(t *testing.T) {
		var inputs []*cloudwatchlogs.DescribeLogStreamsInput
		pages := []*cloudwatchlogs.DescribeLogStreamsOutput{
			{
				LogStreams: []cwtypes.LogStream{sdkStream("web-1", now), sdkStream("web-2", now)},
				NextToken:  aws.String("t1"),
			},
			{
				LogStreams: []cwtypes.LogStream{sdkStream("web-3", now)},
			},
		}

		client := &mockLogsAPI{
			describeLogStreams: func(in *cloudwatchlogs.DescribeLogStreamsInput) (*cloudwatchlogs.DescribeLogStreamsOutput, error) {
				inputs = append(inputs, in)
				return pages[len(inputs)-1], nil
			},
		}

		streams, err := cursor.Collect(ctx, WalkStreams(client, StreamQuery{Group: "/app/web"}))
		require.NoError(t, err)
		require.Len(t, streams, 3)
		assert.Equal(t, "web-1", streams[0].Name)
		assert.Equal(t, time.Hour-time.Minute, streams[0].Duration())

		require.Len(t, inputs, 2)
		assert.Equal(t, "/app/web", aws.ToString(inputs[0].LogGroupName))
		assert.Equal(t, cwtypes.OrderByLastEventTime, inputs[0].OrderBy)
		assert.True(t, aws.ToBool(inputs[0].Descending))
		assert.Nil(t, inputs[0].NextToken)
		assert.Equal(t, "t1", aws.ToString(inputs[1].NextToken))
	})

	t.Run("last-day filter drops old streams page-wise", func(t *testing.T) {
		client := &mockLogsAPI{
			describeLogStreams: func(in *cloudwatchlogs.DescribeLogStreamsInput) (*cloudwatchlogs.DescribeLogStreamsOutput, error) {
				return &cloudwatchlogs.DescribeLogStreamsOutput{
					LogStreams: []cwtypes.LogStream{
						sdkStream("fresh", now.Add(-time.Hour)),
						sdkStream("stale", now.Add(-48*time.Hour)),
					},
				}, nil
			},
		}

		streams, err := cursor.Collect(ctx, WalkStreams(client, StreamQuery{Group: "g", LastDay: true}))
		require.NoError(t, err)
		require.Len(t, streams, 1)
		assert.Equal(t, "fresh", streams[0].Name)
	})

	t.Run("limit caps emitted streams", func(t *testing.T) {
		client := &mockLogsAPI{
			describeLogStreams: func(in *cloudwatchlogs.DescribeLogStreamsInput) (*cloudwatchlogs.DescribeLogStreamsOutput, error) {
				return &cloudwatchlogs.DescribeLogStreamsOutput{
					LogStreams: []cwtypes.LogStream{
						sdkStream("a", now), sdkStream("b", now), sdkStream("c", now),
					},
					NextToken: aws.String("more"),
				}, nil
			},
		}

		streams, err := cursor.Collect(ctx, WalkStreams(client, StreamQuery{Group: "g", Limit: 2}))
		require.NoError(t, err)
		assert.Len(t, streams, 2)
	})

	t.Run("service error propagates", func(t *testing.T) {
		boom := errors.New("AccessDeniedException")
		client := &mockLogsAPI{
			describeLogStreams: func(in *cloudwatchlogs.DescribeLogStreamsInput) (*cloudwatchlogs.DescribeLogStreamsOutput, error) {
				return nil, boom
			},
		}

		_, err := cursor.Collect(ctx, WalkStreams(client, StreamQuery{Group: "g"}))
		require.ErrorIs(t, err, boom)
	})
}

func TestWalkEvents(t *testing.T) {
	ctx := context.Background()
	base := time.Now().Truncate(time.Second)

	event := func(i int, msg string) cwtypes.OutputLogEvent {
		return cwtypes.OutputLogEvent{
			Timestamp: aws.Int64(base.Add(time.Duration(i) * time.Second).UnixMilli()),
			Message:   aws.String(msg),
		}
	}

	t.Run("repeated forward token ends the walk", func(t *testing.T) {
		var inputs []*cloudwatchlogs.GetLogEventsInput
		client := &mockLogsAPI{
			getLogEvents: func(in *cloudwatchlogs.GetLogEventsInput) (*cloudwatchlogs.GetLogEventsOutput, error) {
				inputs = append(inputs, in)
				switch len(inputs) {
				case 1:
					return &cloudwatchlogs.GetLogEventsOutput{
						Events:           []cwtypes.OutputLogEvent{event(0, "first"), event(1, "second")},
						NextForwardToken: aws.String("f/1"),
					}, nil
				default:
					// GetLogEvents signals the end of the stream by
					// echoing the same forward token forever.
					return &cloudwatchlogs.GetLogEventsOutput{
						Events:           nil,
						NextForwardToken: aws.String("f/1"),
					}, nil
				}
			},
		}

		events, err := cursor.Collect(ctx, WalkEvents(client, EventQuery{Group: "g", Stream: "s", FromHead: true}))
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "first", events[0].Message)
		assert.Equal(t, base, events[0].Timestamp)

		require.Len(t, inputs, 2)
		assert.True(t, aws.ToBool(inputs[0].StartFromHead))
		assert.Equal(t, int32(maxEventPageSize), aws.ToInt32(inputs[0].Limit))
	})

	t.Run("small cap bounds the request size", func(t *testing.T) {
		var got *cloudwatchlogs.GetLogEventsInput
		client := &mockLogsAPI{
			getLogEvents: func(in *cloudwatchlogs.GetLogEventsInput) (*cloudwatchlogs.GetLogEventsOutput, error) {
				got = in
				return &cloudwatchlogs.GetLogEventsOutput{
					Events:           []cwtypes.OutputLogEvent{event(0, "a"), event(1, "b"), event(2, "c")},
					NextForwardToken: aws.String("f/1"),
				}, nil
			},
		}

		events, err := cursor.Collect(ctx, WalkEvents(client, EventQuery{Group: "g", Stream: "s", Limit: 3}))
		require.NoError(t, err)
		assert.Len(t, events, 3)
		assert.Equal(t, int32(3), aws.ToInt32(got.Limit), "page size is min(cap, 10000)")
	})

	t.Run("tail direction and unmask are forwarded", func(t *testing.T) {
		var got *cloudwatchlogs.GetLogEventsInput
		client := &mockLogsAPI{
			getLogEvents: func(in *cloudwatchlogs.GetLogEventsInput) (*cloudwatchlogs.GetLogEventsOutput, error) {
				got = in
				return &cloudwatchlogs.GetLogEventsOutput{
					Events:           []cwtypes.OutputLogEvent{event(0, "z")},
					NextForwardToken: aws.String("f/9"),
				}, nil
			},
		}

		_, err := cursor.Collect(ctx, WalkEvents(client, EventQuery{
			Group: "g", Stream: "s", Limit: 1, Unmask: true,
		}))
		require.NoError(t, err)
		assert.False(t, aws.ToBool(got.StartFromHead))
		assert.True(t, got.Unmask)
	})

	t.Run("oversize page request is capped", func(t *testing.T) {
		var got *cloudwatchlogs.GetLogEventsInput
		client := &mockLogsAPI{
			getLogEvents: func(in *cloudwatchlogs.GetLogEventsInput) (*cloudwatchlogs.GetLogEventsOutput, error) {
				got = in
				return &cloudwatchlogs.GetLogEventsOutput{NextForwardToken: aws.String("f")}, nil
			},
		}

		_, err := cursor.Collect(ctx, WalkEvents(client, EventQuery{
			Group: "g", Stream: "s", PageSize: 50_000,
		}))
		require.NoError(t, err)
		assert.Equal(t, int32(maxEventPageSize), aws.ToInt32(got.Limit))
	})
}
