package redisdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

type Redis struct {
	Name   string
	Client *redis.Client
}

var redisInstances sync.Map

func GetRedis(name string) (*Redis, error) {
	value, ok := redisInstances.Load(name)
	if !ok {
		return nil, fmt.Errorf("Redis not found, name:%s", name)
	}

	redisInstance, ok := value.(*Redis)
	if !ok {
		return nil, fmt.Errorf("Redis not found, name:%s", name)
	}

	return redisInstance, nil
}

func RegisterRedis(name, address, password string, db int) error {
	if _, ok := redisInstances.Load(name); ok {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         address,
		Password:     password,
		DB:           db,
		DialTimeout:  time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("register redis error, name:%s, address:%s, err=%v", name, address, err)
	}

	redisInstances.Store(name, &Redis{Name: name, Client: client})
	return nil
}

func RemoveRedis(name string) {
	value, ok := redisInstances.LoadAndDelete(name)
	if !ok {
		return
	}
	if r, ok := value.(*Redis); ok {
		r.Client.Close()
	}
}
