package holds

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMirror keeps a best-effort copy of active holds in Redis so operational
// tooling and seat-view consumers outside this process can see which seats are
// held and by whom. The in-memory Manager stays authoritative; mirror writes
// are atomic per hold via Lua so a crash mid-write never leaves a partial
// hold visible.
type RedisMirror struct {
	client *redis.Client
}

// NewRedisMirror creates a hold mirror on the given client.
func NewRedisMirror(client *redis.Client) *RedisMirror {
	return &RedisMirror{client: client}
}

// Lua script recording a hold: one hash for the hold metadata plus one key
// per seat, all expiring with the hold's TTL.
const luaRecordHold = `
-- KEYS[1] = hold key
-- ARGV[1] = hold_id
-- ARGV[2] = showtime_id
-- ARGV[3] = session_id
-- ARGV[4] = ttl_seconds
-- ARGV[5..N] = seat_ids

local ttl = tonumber(ARGV[4])

redis.call("HSET", KEYS[1],
    "hold_id", ARGV[1],
    "showtime_id", ARGV[2],
    "session_id", ARGV[3],
    "seat_count", #ARGV - 4
)
redis.call("EXPIRE", KEYS[1], ttl)

for i = 5, #ARGV do
    local seat_key = "tickethub:seats:held:" .. ARGV[2] .. ":" .. ARGV[i]
    redis.call("SETEX", seat_key, ttl, ARGV[1])
end

return 1
`

// Lua script clearing a hold and its per-seat keys.
const luaClearHold = `
-- KEYS[1] = hold key
-- ARGV[1] = hold_id
-- ARGV[2] = showtime_id
-- ARGV[3..N] = seat_ids

for i = 3, #ARGV do
    local seat_key = "tickethub:seats:held:" .. ARGV[2] .. ":" .. ARGV[i]
    local owner = redis.call("GET", seat_key)
    if owner == ARGV[1] then
        redis.call("DEL", seat_key)
    end
end

redis.call("DEL", KEYS[1])
return 1
`

func holdKey(holdID string) string {
	return "tickethub:holds:" + holdID
}

// RecordHold mirrors a freshly created hold with the given TTL.
func (r *RedisMirror) RecordHold(ctx context.Context, hold *Hold, ttl time.Duration) error {
	args := make([]interface{}, 0, 4+len(hold.SeatIDs))
	args = append(args, hold.ID, hold.ShowtimeID, hold.SessionID, int(ttl.Seconds()))
	for _, seat := range hold.SeatIDs {
		args = append(args, seat)
	}

	if err := r.client.Eval(ctx, luaRecordHold, []string{holdKey(hold.ID)}, args...).Err(); err != nil {
		return fmt.Errorf("failed to record hold in redis: %w", err)
	}
	return nil
}

// ClearHold removes a resolved hold from the mirror. Per-seat keys are only
// deleted when still owned by this hold, so a seat re-held by someone else in
// the meantime is left alone.
func (r *RedisMirror) ClearHold(ctx context.Context, hold *Hold) error {
	args := make([]interface{}, 0, 2+len(hold.SeatIDs))
	args = append(args, hold.ID, hold.ShowtimeID)
	for _, seat := range hold.SeatIDs {
		args = append(args, seat)
	}

	if err := r.client.Eval(ctx, luaClearHold, []string{holdKey(hold.ID)}, args...).Err(); err != nil {
		return fmt.Errorf("failed to clear hold in redis: %w", err)
	}
	return nil
}

// HeldSeats returns the seats currently mirrored as held for a showtime.
func (r *RedisMirror) HeldSeats(ctx context.Context, showtimeID string) (map[string]string, error) {
	pattern := "tickethub:seats:held:" + showtimeID + ":*"
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to scan held seats: %w", err)
	}

	held := make(map[string]string, len(keys))
	prefix := "tickethub:seats:held:" + showtimeID + ":"
	for _, key := range keys {
		holdID, err := r.client.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("failed to read held seat %s: %w", key, err)
		}
		held[key[len(prefix):]] = holdID
	}
	return held, nil
}
