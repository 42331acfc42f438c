package repository

import "errors"

var (
	ErrRedisConnection   = errors.New("redis connection error")
	ErrInvalidSyncRecord = errors.New("invalid sync record")
)
