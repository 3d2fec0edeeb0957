package config

import "time"

// LoginRateConfig controls the fixed-window limiter on POST /login.  The
// limiter only runs when Redis is available; without it login attempts are
// unthrottled, matching the degrade-gracefully policy of the session store.
type LoginRateConfig struct {
	Enabled bool
	Limit   int           // attempts allowed per window, per client IP
	Window  time.Duration // window length
	Prefix  string        // redis key namespace
}

// LoadLoginRateConfig reads environment variables to build a LoginRateConfig.
// Defaults allow 10 attempts per minute per client IP.
func LoadLoginRateConfig() LoginRateConfig {
	cfg := LoginRateConfig{
		Enabled: getenv("LOGIN_RATE_ENABLED", "true") == "true",
		Limit:   atoi(getenv("LOGIN_RATE_LIMIT", "10")),
		Window:  parseDur(getenv("LOGIN_RATE_WINDOW", "1m")),
		Prefix:  getenv("LOGIN_RATE_PREFIX", "rl:login"),
	}
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return cfg
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Minute
	}
	return d
}
