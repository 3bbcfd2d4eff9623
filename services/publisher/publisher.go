package publisher

// Publisher represents a sink that streams crawled price records to consumers
type Publisher interface {
	// Publish publishes one encoded record under key (the market name)
	Publish(key string, message []byte) error

	// TrimStreams caps every stream partition at the configured length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}

// Ensure RedisPublisher implements Publisher
var _ Publisher = (*RedisPublisher)(nil)
