package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Conversly/prompt-relay/internal/utils"
)

// CORS allows the given origins; "*" or an empty list allows any.
// Entries without an http or https scheme are skipped.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch {
		case o == "*":
			cfg.AllowAllOrigins = true
		case strings.HasPrefix(o, "http://"), strings.HasPrefix(o, "https://"):
			origins = append(origins, o)
		case o != "":
			utils.Zlog.Warn("Ignoring malformed CORS origin", zap.String("origin", o))
		}
	}

	switch {
	case cfg.AllowAllOrigins || len(allowedOrigins) == 0:
		cfg.AllowAllOrigins = true
	case len(origins) == 0:
		// Every configured origin was malformed; reject cross-origin calls.
		cfg.AllowOriginFunc = func(string) bool { return false }
	default:
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}
