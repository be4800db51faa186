package verification

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	pepTalkKeyPrefix = "syclar-peptalk||"
	pepTalkTTL       = 36 * time.Hour
	FallbackPepTalk  = "You are capable, confident, and ready to connect. Go out there and be your best self."
)

const pepTalkPrompt = "Give me a short, powerful, 3-sentence morning pep talk to help a man overcome social anxiety " +
	"when talking to women. Focus on abundance mindset, low stakes, and the fact that he is a high-value person " +
	"who just wants to share good energy."

type textGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// PepTalks hands out one generated pep talk per day, shared by all users.
type PepTalks struct {
	generator textGenerator
	rdb       *redis.Client
}

func NewPepTalks(generator textGenerator, rdb *redis.Client) *PepTalks {
	return &PepTalks{
		generator: generator,
		rdb:       rdb,
	}
}

// Get returns the pep talk for the given day. Generation failures fall back to a
// fixed message, which is not cached.
func (p *PepTalks) Get(ctx context.Context, date string) string {
	key := pepTalkKeyPrefix + date

	cached, err := p.rdb.Get(ctx, key).Result()
	if err == nil && cached != "" {
		return cached
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Warnf("pep talk cache get [%s]: %s", date, err)
	}

	if p.generator == nil {
		return FallbackPepTalk
	}

	text, err := p.generator.GenerateText(ctx, pepTalkPrompt)
	if err != nil || text == "" {
		log.Errorf("generate pep talk [%s]: %v", date, err)
		return FallbackPepTalk
	}

	if err := p.rdb.Set(ctx, key, text, pepTalkTTL).Err(); err != nil {
		log.Warnf("pep talk cache set [%s]: %s", date, err)
	}
	return text
}
