package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	SRS      SRSConfig      `yaml:"srs"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SRSConfig holds the Leitner scheduling parameters. BoxIntervals is parsed
// from BoxIntervalsRaw during validation; index i holds the interval for
// box i+1.
type SRSConfig struct {
	BoxCount            int     `yaml:"box_count"             env:"SRS_BOX_COUNT"             env-default:"7"`
	BoxIntervalsRaw     string  `yaml:"box_intervals"         env:"SRS_BOX_INTERVALS"         env-default:"0,0,3,7,14,30,60"`
	HardPenaltyFactor   float64 `yaml:"hard_penalty_factor"   env:"SRS_HARD_PENALTY_FACTOR"   env-default:"0.7"`
	ForgottenPolicy     string  `yaml:"forgotten_policy"      env:"SRS_FORGOTTEN_POLICY"      env-default:"MOVE_TO_BOX_1"`
	MoveDownBoxes       int     `yaml:"move_down_boxes"       env:"SRS_MOVE_DOWN_BOXES"       env-default:"1"`
	MaxNewCardsPerDay   int     `yaml:"max_new_cards_per_day" env:"SRS_MAX_NEW_CARDS_DAY"     env-default:"20"`
	MaxReviewsPerDay    int     `yaml:"max_reviews_per_day"   env:"SRS_MAX_REVIEWS_DAY"       env-default:"200"`
	SessionLimit        int     `yaml:"session_limit"         env:"SRS_SESSION_LIMIT"         env-default:"50"`
	LearnedBoxThreshold int     `yaml:"learned_box_threshold" env:"SRS_LEARNED_BOX_THRESHOLD" env-default:"5"`
	DefaultTimezone     string  `yaml:"default_timezone"      env:"SRS_DEFAULT_TIMEZONE"      env-default:"UTC"`

	// SessionIdleTimeout is host policy, not engine state: the engine never
	// expires sessions on its own, the host sweeps them at this age.
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout" env:"SRS_SESSION_IDLE_TIMEOUT" env-default:"2h"`

	BoxIntervals []int `yaml:"-"`
}
