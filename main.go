package main

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/OhASys/sstracker-backend/api"
	"github.com/OhASys/sstracker-backend/hub"
	"github.com/OhASys/sstracker-backend/storage"
)

func main() {
	logger := log.New()
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
		logger.SetLevel(log.DebugLevel)
	}

	var store hub.Store
	var saver *hub.Saver
	if redisConn := os.Getenv("REDIS_CONNECTION_STRING"); redisConn != "" {
		redisOpts, err := redis.ParseURL(redisConn)
		if err != nil {
			parts := strings.Split(redisConn, ",")
			redisOpts = &redis.Options{Addr: parts[0]}
			for _, p := range parts[1:] {
				kv := strings.SplitN(p, "=", 2)
				if len(kv) != 2 {
					continue
				}
				switch strings.ToLower(kv[0]) {
				case "password":
					redisOpts.Password = kv[1]
				case "ssl":
					if strings.ToLower(kv[1]) == "true" {
						redisOpts.TLSConfig = &tls.Config{}
					}
				}
			}
		}
		rc := redis.NewClient(redisOpts)
		store = storage.NewRedisStore(rc, envDur("SNAPSHOT_TTL", 0))
		saver = hub.NewSaver(store, logger, envInt("SAVE_BUFFER", 1024), envDur("SAVE_TIMEOUT", 30*time.Second))
		log.Info("snapshot persistence enabled")
	} else {
		log.Warn("REDIS_CONNECTION_STRING not set, board state is in-memory only")
	}

	h := hub.New(store, saver, logger)

	jwtAudience := os.Getenv("AUTH0_AUDIENCE")
	jwtDomain := os.Getenv("AUTH0_DOMAIN")
	var auth *api.Auth
	if jwtAudience != "" && jwtDomain != "" {
		jwksURL := fmt.Sprintf("https://%s/.well-known/jwks.json", jwtDomain)
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{})
		if err != nil {
			log.Fatalf("jwks: %v", err)
		}
		auth = api.NewAuth(jwks, jwtAudience, "https://"+jwtDomain+"/")
	} else {
		log.Warn("Auth0 config not set, sockets are unauthenticated")
		auth = api.NewAuth(nil, "", "")
	}

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	api.Register(e, h, auth, logger)

	listenAddr := ":3000"
	if val, ok := os.LookupEnv("PORT"); ok {
		listenAddr = ":" + val
	}

	e.Logger.Fatal(e.Start(listenAddr))
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Fatalf("invalid %s: %q", name, v)
	}
	return n
}

func envDur(name string, def time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Fatalf("invalid %s: %q", name, v)
	}
	return d
}
