package devbackend

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/realio-auth/pkg/helpers"
)

// maxOtpAttempts wrong guesses burn the pending code.
const maxOtpAttempts = 5

// Lua script: delete the code only if it is still the one compared, so two
// concurrent correct guesses consume it once
var consumeOtpScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], "code") == ARGV[1] then
  redis.call("DEL", KEYS[1])
  return 1
end
return 0
`)

// Lua script: count a wrong guess and burn the code at the limit. HINCRBY
// keeps the key's TTL
var failOtpScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
local n = redis.call("HINCRBY", KEYS[1], "attempts", 1)
if n >= tonumber(ARGV[1]) then
  redis.call("DEL", KEYS[1])
end
return n
`)

// OtpCodes keeps one pending code per email in a Redis hash
// {code, user_id, attempts}.
type OtpCodes struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOtpCodes(rdb *redis.Client, ttl time.Duration) *OtpCodes {
	return &OtpCodes{rdb: rdb, ttl: ttl}
}

// Issue replaces the pending code for email and returns it with its expiry.
func (o *OtpCodes) Issue(ctx context.Context, email, userID string) (string, time.Time, error) {
	code, err := helpers.GenOTPCode()
	if err != nil {
		return "", time.Time{}, err
	}
	key := helpers.KeyRegisterOTP(email)
	pipe := o.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, "code", code, "user_id", userID, "attempts", 0)
	pipe.PExpire(ctx, key, o.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", time.Time{}, err
	}
	return code, time.Now().UTC().Add(o.ttl), nil
}

// Check consumes the pending code when it matches. ok is false for a wrong,
// expired or missing code.
func (o *OtpCodes) Check(ctx context.Context, email, code string) (userID string, ok bool, err error) {
	key := helpers.KeyRegisterOTP(email)
	vals, err := o.rdb.HMGet(ctx, key, "code", "user_id").Result()
	if err != nil {
		return "", false, err
	}
	stored, _ := vals[0].(string)
	uid, _ := vals[1].(string)
	if stored == "" {
		return "", false, nil
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1 {
		n, err := consumeOtpScript.Run(ctx, o.rdb, []string{key}, stored).Int()
		if err != nil {
			return "", false, err
		}
		if n == 1 {
			return uid, true, nil
		}
		return "", false, nil
	}

	if err := failOtpScript.Run(ctx, o.rdb, []string{key}, maxOtpAttempts).Err(); err != nil {
		return "", false, err
	}
	return "", false, nil
}
