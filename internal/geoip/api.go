package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/2beens/syclar/internal/ledger"
	"github.com/2beens/syclar/internal/telemetry/tracing"
	"github.com/2beens/syclar/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/ipinfo/go/v2/ipinfo"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	cacheKeyPrefix = "ip-info::"
	cacheTTL       = 7 * 24 * time.Hour
)

var ErrNoLocation = errors.New("no location for ip")

type Location struct {
	IP      string  `json:"ip"`
	City    string  `json:"city"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

func (l *Location) GeoPoint() ledger.GeoPoint {
	return ledger.GeoPoint{Lat: l.Lat, Lng: l.Lng}
}

var devLocation = Location{
	IP:      pkg.LocalhostIP,
	City:    "Berlin",
	Region:  "Berlin",
	Country: "DE",
	Lat:     52.5200,
	Lng:     13.4050,
}

type Api struct {
	// serializes lookups so concurrent requests from one client hit ipinfo once
	mu          sync.Mutex
	client      *ipinfo.Client
	redisClient *redis.Client
}

// NewApi creates an ipinfo backed lookup. An empty baseURL uses the public API.
func NewApi(baseURL, token string, httpClient *http.Client, redisClient *redis.Client) (*Api, error) {
	client := ipinfo.NewClient(httpClient, nil, token)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse ipinfo base url: %w", err)
		}
		client.BaseURL = parsed
	}

	return &Api{
		client:      client,
		redisClient: redisClient,
	}, nil
}

func parseLoc(loc string) (float64, float64, error) {
	latStr, lngStr, ok := strings.Cut(loc, ",")
	if !ok {
		return 0, 0, ErrNoLocation
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse lat: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse lng: %w", err)
	}
	return lat, lng, nil
}

// Lookup returns the location of the given ip, from the redis cache when possible.
func (gi *Api) Lookup(ctx context.Context, ip string) (_ *Location, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geoIp.lookup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.ip", ip))

	if ip == pkg.LocalhostIP {
		log.Debugf("geo ip lookup: returning development localhost / Berlin")
		loc := devLocation
		return &loc, nil
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return nil, fmt.Errorf("invalid ip: %s", ip)
	}

	gi.mu.Lock()
	defer gi.mu.Unlock()

	key := cacheKeyPrefix + ip
	cached, err := gi.redisClient.Get(ctx, key).Result()
	switch {
	case err == nil:
		var loc Location
		if err := json.Unmarshal([]byte(cached), &loc); err == nil {
			span.SetAttributes(attribute.Bool("user.ip.from-cache", true))
			return &loc, nil
		}
		log.Errorf("unmarshal cached ip info for %s: %s", ip, err)
	case errors.Is(err, redis.Nil):
		log.Tracef("ip info for [%s] not cached", ip)
	default:
		log.Errorf("get cached ip info for [%s]: %s", ip, err)
	}
	span.SetAttributes(attribute.Bool("user.ip.from-cache", false))

	info, err := gi.client.GetIPInfo(parsedIP)
	if err != nil {
		return nil, fmt.Errorf("ipinfo lookup: %w", err)
	}
	if info.Bogon {
		return nil, ErrNoLocation
	}

	lat, lng, err := parseLoc(info.Location)
	if err != nil {
		return nil, err
	}
	loc := &Location{
		IP:      ip,
		City:    info.City,
		Region:  info.Region,
		Country: info.Country,
		Lat:     lat,
		Lng:     lng,
	}

	if locBytes, err := json.Marshal(loc); err == nil {
		if err := gi.redisClient.Set(ctx, key, locBytes, cacheTTL).Err(); err != nil {
			log.Errorf("cache ip info for %s: %s", ip, err)
		}
	}

	return loc, nil
}

// SuggestHome proposes the location of the request's IP as the user's home.
func (gi *Api) SuggestHome(ctx context.Context, ip string) (ledger.GeoPoint, error) {
	loc, err := gi.Lookup(ctx, ip)
	if err != nil {
		return ledger.GeoPoint{}, err
	}
	return loc.GeoPoint(), nil
}
