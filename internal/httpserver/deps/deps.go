package deps

import (
	"time"

	"github.com/sidelinehq/courtside/internal/logger"
	"github.com/sidelinehq/courtside/internal/remote"
	"github.com/sidelinehq/courtside/internal/repo"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time  // for testing, defaults to time.Now
	AllowedHosts []string          // Host headers allowed to access the server
	AllowedCIDRS []string          // IPs allowed to reach the API and probe endpoints
	TrustProxy   bool              // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CalendarName string            // Display name for the ICS feed
	StoreBackend string            // Which collection backend is wired (redis/postgres)
	Repo         *repo.Repository  // Authoritative in-memory calendar
	Collection   remote.Collection // Raw collection, for health probes only
	RateBurst    int               // Burst size for the remote-read rate limiter
	RateRefill   int               // Tokens per IP per minute
	RateMax      int               // Max tracked IPs before a sweep
}
