package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ExamDetailKey returns the cache key for the assembled exam detail view of a title.
func (r *CacheKeyStruct) ExamDetailKey(title string) string {
	return fmt.Sprintf("exam:%s:detail", title)
}

// ProctorChannel returns the Redis PubSub channel name for proctoring heartbeats.
func (r *CacheKeyStruct) ProctorChannel(title string) string {
	return fmt.Sprintf("proctor:%s:events", title)
}

var CacheKey = NewCacheKeyStruct()
