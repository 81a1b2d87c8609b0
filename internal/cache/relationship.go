package cache

import (
	"Petrel/internal/model"
	"Petrel/internal/pkg/redis"
	"Petrel/internal/repository"
	"context"
	"time"

	"github.com/goccy/go-json"
)

const (
	relationshipTTL = 30 * time.Minute
	wordMuteTTL     = 30 * time.Minute
	suspendedTTL    = 5 * time.Minute
)

// suspendedOwner keys the instance-wide suspended set; it has no per-user
// owner.
const suspendedOwner = "all"

// RelationshipCaches bundles every externally owned id set the filter
// pipeline consumes.
type RelationshipCaches struct {
	LocalFollowings   *SetCache
	ChannelFollowings *SetCache
	UserMutings       *SetCache
	InstanceMutings   *SetCache
	UserBlocked       *SetCache
	RenoteMutings     *SetCache
	SuspendedUsers    *SetCache

	profiles repository.ProfileRepo
}

func NewRelationshipCaches(
	follows repository.FollowingRepo,
	relations repository.RelationshipRepo,
	users repository.UserRepo,
	profiles repository.ProfileRepo,
) *RelationshipCaches {
	return &RelationshipCaches{
		LocalFollowings: NewSetCache("follow:local", relationshipTTL, func(ctx context.Context, ownerID string) ([]string, error) {
			return follows.ListFolloweeIDs(ctx, ownerID)
		}),
		ChannelFollowings: NewSetCache("follow:channel", relationshipTTL, func(ctx context.Context, ownerID string) ([]string, error) {
			return follows.ListChannelFollowIDs(ctx, ownerID)
		}),
		UserMutings: NewSetCache("mute:user", relationshipTTL, func(ctx context.Context, ownerID string) ([]string, error) {
			return relations.ListMutedUserIDs(ctx, ownerID)
		}),
		InstanceMutings: NewSetCache("mute:instance", relationshipTTL, func(ctx context.Context, ownerID string) ([]string, error) {
			profile, err := profiles.GetProfile(ctx, ownerID)
			if err != nil {
				return nil, err
			}
			if profile == nil {
				return []string{}, nil
			}
			return profile.MutedInstances, nil
		}),
		UserBlocked: NewSetCache("block", relationshipTTL, func(ctx context.Context, ownerID string) ([]string, error) {
			return relations.ListBlockingIDs(ctx, ownerID)
		}),
		RenoteMutings: NewSetCache("mute:renote", relationshipTTL, func(ctx context.Context, ownerID string) ([]string, error) {
			return relations.ListRenoteMutedIDs(ctx, ownerID)
		}),
		SuspendedUsers: NewSetCache("suspended", suspendedTTL, func(ctx context.Context, _ string) ([]string, error) {
			return users.ListSuspendedIDs(ctx)
		}),
		profiles: profiles,
	}
}

// Suspended returns the instance-wide suspended user id set.
func (c *RelationshipCaches) Suspended() *SetHandle {
	return c.SuspendedUsers.Init(suspendedOwner)
}

// RefreshSuspended repopulates the suspended set; the cron job calls this so
// filter reads rarely pay the load.
func (c *RelationshipCaches) RefreshSuspended(ctx context.Context) error {
	handle := c.Suspended()
	if err := handle.Invalidate(ctx); err != nil {
		return err
	}
	_, err := handle.GetAll(ctx)
	return err
}

// MutedWords returns the viewer's hard-mute rules, computed lazily and cached
// as a JSON value.
func (c *RelationshipCaches) MutedWords(ctx context.Context, userID string) ([][]string, error) {
	key := "mute:words:" + userID

	raw, err := redis.GetValue(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw != "" {
		var words [][]string
		if err := json.Unmarshal([]byte(raw), &words); err == nil {
			return words, nil
		}
	}

	var profile *model.UserProfile
	profile, err = c.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	words := [][]string{}
	if profile != nil && profile.MutedWords != nil {
		words = profile.MutedWords
	}

	encoded, err := json.Marshal(words)
	if err != nil {
		return nil, err
	}
	if err := redis.SetWithExpiration(ctx, key, string(encoded), wordMuteTTL); err != nil {
		return nil, err
	}

	return words, nil
}

// MutedPatterns returns the viewer's regex mute rules, cached the same way as
// MutedWords.
func (c *RelationshipCaches) MutedPatterns(ctx context.Context, userID string) ([]string, error) {
	key := "mute:patterns:" + userID

	raw, err := redis.GetValue(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw != "" {
		var patterns []string
		if err := json.Unmarshal([]byte(raw), &patterns); err == nil {
			return patterns, nil
		}
	}

	var profile *model.UserProfile
	profile, err = c.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	patterns := []string{}
	if profile != nil && profile.MutedPatterns != nil {
		patterns = profile.MutedPatterns
	}

	encoded, err := json.Marshal(patterns)
	if err != nil {
		return nil, err
	}
	if err := redis.SetWithExpiration(ctx, key, string(encoded), wordMuteTTL); err != nil {
		return nil, err
	}

	return patterns, nil
}
