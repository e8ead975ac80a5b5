package config

import (
	"context"
	"time"

	"github.com/redis/rueidis"
	log "github.com/sirupsen/logrus"
)

const redisClientName = "taskflow"

// NewRedisClient connects to addr and checks the server answers. It carries
// the change feed channel and the streak cache.
func NewRedisClient(addr string) rueidis.Client {
	redisClient, err := rueidis.NewClient(
		rueidis.ClientOption{
			InitAddress:      []string{addr},
			ClientName:       redisClientName,
			ConnWriteTimeout: 5 * time.Second,
		},
	)
	if err != nil {
		log.Fatalf("failed to create redis client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Do(ctx, redisClient.B().Ping().Build()).Error(); err != nil {
		redisClient.Close()
		log.Fatalf("redis at %s is not reachable: %v", addr, err)
	}

	return redisClient
}
