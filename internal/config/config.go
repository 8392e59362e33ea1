package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// BotWeights tune the bot's hand evaluation when it calls and picks trump.
type BotWeights struct {
	WAce      int `json:"w_ace"`
	WKing     int `json:"w_king"`
	WQueen    int `json:"w_queen"`
	WLongSuit int `json:"w_long_suit"`
	WVoid     int `json:"w_void"`

	// Scale is how many weight points make one expected trick.
	Scale int `json:"scale"`
}

type Config struct {
	HTTPAddr string
	LogLevel slog.Level

	SessionSecret string
	SessionTTL    time.Duration

	// RejoinGrace is how long a disconnected player keeps a waiting-room seat.
	RejoinGrace time.Duration

	MaxRounds int

	Bot BotWeights
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// DefaultBotWeights plays a cautious game: aces are near-certain tricks,
// kings usually, queens rarely.
func DefaultBotWeights() BotWeights {
	return BotWeights{
		WAce:      100,
		WKing:     70,
		WQueen:    30,
		WLongSuit: 45,
		WVoid:     40,
		Scale:     100,
	}
}

func Load() Config {
	def := DefaultBotWeights()
	return Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		LogLevel:      parseLevel(getenv("LOG_LEVEL", "info")),
		SessionSecret: getenv("SESSION_SECRET", "callbreak-dev-secret"),
		SessionTTL:    getenvDuration("SESSION_TTL", 24*time.Hour),
		RejoinGrace:   getenvDuration("REJOIN_GRACE", time.Minute),
		MaxRounds:     getenvInt("MAX_ROUNDS", 12),
		Bot: BotWeights{
			WAce:      getenvInt("BOT_W_ACE", def.WAce),
			WKing:     getenvInt("BOT_W_KING", def.WKing),
			WQueen:    getenvInt("BOT_W_QUEEN", def.WQueen),
			WLongSuit: getenvInt("BOT_W_LONG_SUIT", def.WLongSuit),
			WVoid:     getenvInt("BOT_W_VOID", def.WVoid),
			Scale:     getenvInt("BOT_SCALE", def.Scale),
		},
	}
}
