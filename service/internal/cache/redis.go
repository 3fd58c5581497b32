// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ActionTTL bounds how long a game's action list is kept.
const ActionTTL = 24 * time.Hour

// GameActionRecord is one entry in a game's action history.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"gameId"`
	ActionIndex   int                    `json:"actionIndex"`
	ActorUserID   uuid.UUID              `json:"actorUserId"` // uuid.Nil for game events
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload"`
	Timestamp     int64                  `json:"timestamp"` // unix millis
}

// ChannelKey is the pub/sub channel a game's actions are published on.
func ChannelKey(gameID uuid.UUID) string { return "truco:actions:" + gameID.String() }

// ListKey is the list a game's actions are appended to, in order.
func ListKey(gameID uuid.UUID) string { return "truco:history:" + gameID.String() }

// Historian records game actions in Redis. A nil *Historian, or one without
// a client, drops every record.
type Historian struct {
	rdb *redis.Client
}

// NewHistorian wraps an existing client.
func NewHistorian(rdb *redis.Client) *Historian {
	return &Historian{rdb: rdb}
}

// Connect dials addr and pings it before returning the historian.
func Connect(ctx context.Context, addr string) (*Historian, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewHistorian(rdb), nil
}

// Enabled reports whether records are actually sent.
func (h *Historian) Enabled() bool { return h != nil && h.rdb != nil }

// PublishGameAction appends rec to the game's history list and publishes it
// on the game's channel in one transaction.
func (h *Historian) PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if !h.Enabled() {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action %d: %w", rec.ActionIndex, err)
	}
	pipe := h.rdb.TxPipeline()
	pipe.RPush(ctx, ListKey(rec.GameID), data)
	pipe.Expire(ctx, ListKey(rec.GameID), ActionTTL)
	pipe.Publish(ctx, ChannelKey(rec.GameID), data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish action %d for game %s: %w", rec.ActionIndex, rec.GameID, err)
	}
	return nil
}

// GameActions returns the recorded history of a game in order.
func (h *Historian) GameActions(ctx context.Context, gameID uuid.UUID) ([]GameActionRecord, error) {
	if !h.Enabled() {
		return nil, nil
	}
	raw, err := h.rdb.LRange(ctx, ListKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history for game %s: %w", gameID, err)
	}
	out := make([]GameActionRecord, 0, len(raw))
	for i, s := range raw {
		var rec GameActionRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("decode action %d for game %s: %w", i, gameID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close releases the client.
func (h *Historian) Close() error {
	if !h.Enabled() {
		return nil
	}
	return h.rdb.Close()
}
