package helpers

import "github.com/redis/go-redis/v9"

// NewRedisClient builds the client shared by the token store, the OTP
// codes, the session hashes and the rate limiter.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// KeyUserSession is the hash holding the live session of a user.
func KeyUserSession(userID string) string {
	return "user:session:" + userID
}
