package admission

import (
	"context"

	"github.com/redis/rueidis"
)

// RedisTokenManager stores one list element per token so that every replica
// pointed at the same key shares the limit.
type RedisTokenManager struct {
	client rueidis.Client
	key    string
}

func NewRedisTokenManager(client rueidis.Client, key string) *RedisTokenManager {
	return &RedisTokenManager{
		client: client,
		key:    key,
	}
}

func (r *RedisTokenManager) AcquireToken(ctx context.Context) error {
	cmd := r.client.B().Lpop().Key(r.key).Build()
	result := r.client.Do(ctx, cmd)

	if err := result.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return ErrNoTokenAvailable
		}
		return err
	}

	return nil
}

func (r *RedisTokenManager) ReleaseToken(ctx context.Context) error {
	cmd := r.client.B().Rpush().Key(r.key).Element("1").Build()
	return r.client.Do(ctx, cmd).Error()
}

func (r *RedisTokenManager) InitializeTokens(ctx context.Context, count int) error {
	cmds := rueidis.Commands{r.client.B().Del().Key(r.key).Build()}
	if count > 0 {
		tokens := make([]string, count)
		for i := range tokens {
			tokens[i] = "1"
		}
		cmds = append(cmds, r.client.B().Rpush().Key(r.key).Element(tokens...).Build())
	}

	for _, resp := range r.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return err
		}
	}
	return nil
}
