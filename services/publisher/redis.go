package publisher

import (
	"context"
	"encoding/base64"
	"math/rand"
	"strconv"

	"github.com/redis/go-redis/v9"

	"sjsage522/seafoodcrawler/pkg/errors"
)

// RedisPublisher implements Publisher using Redis streams
type RedisPublisher struct {
	client          *redis.Client
	ctx             context.Context
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(ctx context.Context, addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	if streamCount < 1 {
		streamCount = 1
	}

	return &RedisPublisher{
		client:          client,
		ctx:             ctx,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// Ping checks that the Redis server is reachable
func (p *RedisPublisher) Ping() error {
	if err := p.client.Ping(p.ctx).Err(); err != nil {
		return errors.NewPublisher(p.streamPrefix, "redis ping failed", err)
	}
	return nil
}

// Publish publishes a message to a Redis stream.
// The message is base64 encoded and stored under key.
func (p *RedisPublisher) Publish(key string, message []byte) error {
	encodedMessage := base64.StdEncoding.EncodeToString(message)

	// stream partitions are {prefix}:0 .. {prefix}:{streamCount-1}
	stream := p.StreamName(rand.Intn(p.streamCount))

	err := p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			key: encodedMessage,
		},
	}).Err()
	if err != nil {
		return errors.NewPublisher(stream, "xadd failed", err)
	}
	return nil
}

// StreamName returns the name of partition n
func (p *RedisPublisher) StreamName(n int) string {
	return p.streamPrefix + ":" + strconv.Itoa(n)
}

// TrimStreams trims all streams to the configured maximum length
func (p *RedisPublisher) TrimStreams() error {
	pattern := p.streamPrefix + ":*"
	streams, err := p.client.Keys(p.ctx, pattern).Result()
	if err != nil {
		return errors.NewPublisher(pattern, "failed to list streams", err)
	}

	for _, stream := range streams {
		err := p.client.XTrimMaxLen(p.ctx, stream, int64(p.streamMaxLength)).Err()
		if err != nil {
			return errors.NewPublisher(stream, "xtrim failed", err)
		}
	}

	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
