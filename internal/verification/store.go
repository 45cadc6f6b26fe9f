package verification

import (
	"context"
	"errors"
	"strconv"
	"time"

	"tecnoroute-be/internal/utils"

	"github.com/redis/go-redis/v9"
)

const (
	CodeLength   = 6
	EmailCodeTTL = 10 * time.Minute
	ResetCodeTTL = 15 * time.Minute

	// A code issued within this window is sent again instead of replaced.
	resendWindow = 30 * time.Second
)

// MaxResetAttempts wrong guesses burn the live reset code.
const MaxResetAttempts = 5

// resetScript compares ARGV[1] with the reset code in KEYS[1]. A match deletes
// the code when ARGV[4] is "1". A miss bumps the attempt counter in KEYS[2],
// which lives as long as a reset code, and burns the code at ARGV[2] misses.
var resetScript = redis.NewScript(`
local stored = redis.call("GET", KEYS[1])
if not stored then
	return 0
end
if stored == ARGV[1] then
	if ARGV[4] == "1" then
		redis.call("DEL", KEYS[1], KEYS[2])
	end
	return 1
end
local n = redis.call("INCR", KEYS[2])
if n == 1 then
	redis.call("EXPIRE", KEYS[2], ARGV[3])
end
if n >= tonumber(ARGV[2]) then
	redis.call("DEL", KEYS[1], KEYS[2])
end
return 0
`)

// Store keeps verification and password reset codes in Redis with TTLs.
type Store struct {
	rdb redis.UniversalClient
	now func() time.Time
}

func NewStore(rdb redis.UniversalClient) *Store {
	return &Store{rdb: rdb, now: time.Now}
}

func emailKey(email string) string    { return "verification:email:" + email }
func verifiedKey(email string) string { return "verification:verified:" + email }
func resetKey(email string) string    { return "verification:reset:" + email }
func attemptsKey(email string) string { return "verification:reset:attempts:" + email }

// IssueEmailCode returns the code to send. reused is true when a code issued
// moments ago is handed out again.
func (s *Store) IssueEmailCode(ctx context.Context, email string) (code string, reused bool, err error) {
	key := emailKey(email)
	now := s.now()

	current, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return "", false, err
	}
	if c, ok := current["code"]; ok {
		issued, _ := strconv.ParseInt(current["issued_at"], 10, 64)
		if now.Sub(time.UnixMilli(issued)) < resendWindow {
			return c, true, nil
		}
	}

	code = utils.GenerateNumericCode(CodeLength)
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, "code", code, "issued_at", now.UnixMilli())
		p.Expire(ctx, key, EmailCodeTTL)
		p.Del(ctx, verifiedKey(email))
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return code, false, nil
}

// CheckEmailCode marks the email verified when code matches the pending one.
func (s *Store) CheckEmailCode(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.rdb.HGet(ctx, emailKey(email), "code").Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if stored != code {
		return false, nil
	}

	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, emailKey(email))
		p.Set(ctx, verifiedKey(email), "1", EmailCodeTTL)
		return nil
	})
	return err == nil, err
}

func (s *Store) IsVerified(ctx context.Context, email string) (bool, error) {
	n, err := s.rdb.Exists(ctx, verifiedKey(email)).Result()
	return n > 0, err
}

// IssueResetCode replaces any live reset code and clears its failed attempts.
func (s *Store) IssueResetCode(ctx context.Context, email string) (string, error) {
	code := utils.GenerateNumericCode(CodeLength)
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, resetKey(email), code, ResetCodeTTL)
		p.Del(ctx, attemptsKey(email))
		return nil
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// CheckResetCode reports whether code is the live reset code without
// consuming it. Misses count toward MaxResetAttempts.
func (s *Store) CheckResetCode(ctx context.Context, email, code string) (bool, error) {
	return s.runReset(ctx, email, code, false)
}

// ConsumeResetCode atomically checks and deletes the reset code. Misses count
// toward MaxResetAttempts.
func (s *Store) ConsumeResetCode(ctx context.Context, email, code string) (bool, error) {
	return s.runReset(ctx, email, code, true)
}

func (s *Store) runReset(ctx context.Context, email, code string, consume bool) (bool, error) {
	flag := "0"
	if consume {
		flag = "1"
	}
	n, err := resetScript.Run(ctx, s.rdb,
		[]string{resetKey(email), attemptsKey(email)},
		code, MaxResetAttempts, int(ResetCodeTTL/time.Second), flag,
	).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
