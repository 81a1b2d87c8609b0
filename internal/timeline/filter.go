package timeline

import (
	"Petrel/internal/cache"
	"Petrel/internal/model"
	"Petrel/internal/store"
	"context"

	"golang.org/x/sync/errgroup"
)

// Pipeline builds per-viewer post-fetch filters. Every stage is a pure
// function over a batch of notes; relationship sets are loaded once per
// timeline read and reused across batches.
type Pipeline struct {
	caches *cache.RelationshipCaches
}

func NewPipeline(caches *cache.RelationshipCaches) *Pipeline {
	return &Pipeline{caches: caches}
}

// ViewerOptions selects which notes a timeline read keeps. An empty ViewerID
// is an anonymous read: only public and home non-channel notes survive.
type ViewerOptions struct {
	ViewerID    string
	WithReplies bool
}

type viewerSets struct {
	followees      map[string]struct{}
	channels       map[string]struct{}
	mutedUsers     map[string]struct{}
	mutedInstances map[string]struct{}
	blocked        map[string]struct{}
	renoteMuted    map[string]struct{}
	suspended      map[string]struct{}
	mutedWords     [][]string
	mutedPatterns  []string
}

// Filter returns the composed filter for one timeline read. The closure is
// not safe for concurrent use; each pagination walk gets its own.
func (p *Pipeline) Filter(opts ViewerOptions) store.FilterFunc {
	var sets *viewerSets
	return func(ctx context.Context, notes []*model.Note) ([]*model.Note, error) {
		if sets == nil {
			loaded, err := p.loadViewerSets(ctx, opts.ViewerID)
			if err != nil {
				return nil, err
			}
			sets = loaded
		}

		notes = filterVisibility(notes, opts.ViewerID, sets.followees)
		notes = filterChannel(notes, opts.ViewerID, sets.channels)
		notes = filterReply(notes, opts.ViewerID, opts.WithReplies)
		notes = filterSuspended(notes, sets.suspended)
		if opts.ViewerID == "" {
			return notes, nil
		}
		notes = filterBlocked(notes, opts.ViewerID, sets.blocked)
		notes = filterMuted(notes, sets.mutedUsers, sets.mutedInstances)
		notes = filterMutedWords(notes, opts.ViewerID, sets.mutedWords, sets.mutedPatterns)
		notes = filterMutedRenotes(notes, opts.ViewerID, sets.renoteMuted)
		return notes, nil
	}
}

func (p *Pipeline) loadViewerSets(ctx context.Context, viewerID string) (*viewerSets, error) {
	sets := &viewerSets{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := p.caches.Suspended().GetAll(gctx)
		sets.suspended = toSet(ids)
		return err
	})
	if viewerID != "" {
		g.Go(func() error {
			ids, err := p.caches.LocalFollowings.Init(viewerID).GetAll(gctx)
			sets.followees = toSet(ids)
			return err
		})
		g.Go(func() error {
			ids, err := p.caches.ChannelFollowings.Init(viewerID).GetAll(gctx)
			sets.channels = toSet(ids)
			return err
		})
		g.Go(func() error {
			ids, err := p.caches.UserMutings.Init(viewerID).GetAll(gctx)
			sets.mutedUsers = toSet(ids)
			return err
		})
		g.Go(func() error {
			hosts, err := p.caches.InstanceMutings.Init(viewerID).GetAll(gctx)
			sets.mutedInstances = toSet(hosts)
			return err
		})
		g.Go(func() error {
			ids, err := p.caches.UserBlocked.Init(viewerID).GetAll(gctx)
			sets.blocked = toSet(ids)
			return err
		})
		g.Go(func() error {
			ids, err := p.caches.RenoteMutings.Init(viewerID).GetAll(gctx)
			sets.renoteMuted = toSet(ids)
			return err
		})
		g.Go(func() error {
			words, err := p.caches.MutedWords(gctx, viewerID)
			sets.mutedWords = words
			return err
		})
		g.Go(func() error {
			patterns, err := p.caches.MutedPatterns(gctx, viewerID)
			sets.mutedPatterns = patterns
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}

// filterVisibility keeps public and home notes for everyone, and otherwise
// requires the viewer to be the author, an addressee, a mentioned user, or,
// for a followers-only note, a follower or the user it directly replies to.
func filterVisibility(notes []*model.Note, viewerID string, followees map[string]struct{}) []*model.Note {
	kept := make([]*model.Note, 0, len(notes))
	for _, n := range notes {
		if viewerID == "" {
			if n.Visibility == model.VisibilityPublic || n.Visibility == model.VisibilityHome {
				kept = append(kept, n)
			}
			continue
		}
		visible := n.Visibility == model.VisibilityPublic ||
			n.Visibility == model.VisibilityHome ||
			n.UserID == viewerID ||
			contains(n.VisibleUserIDs, viewerID) ||
			contains(n.Mentions, viewerID)
		if !visible && n.Visibility == model.VisibilityFollowers {
			_, visible = followees[n.UserID]
			visible = visible || n.ReplyUserID == viewerID
		}
		if visible {
			kept = append(kept, n)
		}
	}
	return kept
}

// filterChannel drops channel notes the viewer does not follow. Anonymous
// viewers see no channel notes at all.
func filterChannel(notes []*model.Note, viewerID string, channels map[string]struct{}) []*model.Note {
	kept := make([]*model.Note, 0, len(notes))
	for _, n := range notes {
		if n.ChannelID == "" {
			kept = append(kept, n)
			continue
		}
		if viewerID == "" {
			continue
		}
		if _, ok := channels[n.ChannelID]; ok {
			kept = append(kept, n)
		}
	}
	return kept
}

// filterReply drops replies to third parties unless the read asked for them.
// Self-replies and replies to the viewer always stay; anonymous reads only
// ever see self-replies, with_replies or not.
func filterReply(notes []*model.Note, viewerID string, withReplies bool) []*model.Note {
	if withReplies && viewerID != "" {
		return notes
	}
	kept := make([]*model.Note, 0, len(notes))
	for _, n := range notes {
		if n.ReplyID == "" ||
			n.ReplyUserID == n.UserID ||
			(viewerID != "" && (n.ReplyUserID == viewerID || n.UserID == viewerID)) {
			kept = append(kept, n)
		}
	}
	return kept
}

func filterSuspended(notes []*model.Note, suspended map[string]struct{}) []*model.Note {
	kept := make([]*model.Note, 0, len(notes))
	for _, n := range notes {
		if _, ok := suspended[n.UserID]; ok {
			continue
		}
		kept = append(kept, n)
	}
	return kept
}

// filterBlocked drops notes authored by, renoting, or replying to anyone the
// viewer has a block relationship with, in either direction.
func filterBlocked(notes []*model.Note, viewerID string, blocked map[string]struct{}) []*model.Note {
	kept := make([]*model.Note, 0, len(notes))
	for _, n := range notes {
		if n.UserID == viewerID {
			kept = append(kept, n)
			continue
		}
		if anyInSet(blocked, n.UserID, n.RenoteUserID, n.ReplyUserID) {
			continue
		}
		kept = append(kept, n)
	}
	return kept
}

// filterMuted drops notes touching a muted user or a muted instance.
func filterMuted(notes []*model.Note, mutedUsers, mutedInstances map[string]struct{}) []*model.Note {
	kept := make([]*model.Note, 0, len(notes))
	for _, n := range notes {
		if anyInSet(mutedUsers, n.UserID, n.RenoteUserID, n.ReplyUserID) {
			continue
		}
		if anyInSet(mutedInstances, n.UserHost, n.RenoteUserHost, n.ReplyUserHost) {
			continue
		}
		kept = append(kept, n)
	}
	return kept
}

func filterMutedWords(notes []*model.Note, viewerID string, rules [][]string, patterns []string) []*model.Note {
	if len(rules) == 0 && len(patterns) == 0 {
		return notes
	}
	regexps := compilePatterns(patterns)
	kept := make([]*model.Note, 0, len(notes))
	for _, n := range notes {
		// The author always sees their own note.
		if n.UserID == viewerID {
			kept = append(kept, n)
			continue
		}
		if matchesWordMute(n, rules, regexps) {
			continue
		}
		kept = append(kept, n)
	}
	return kept
}

// filterMutedRenotes drops pure renotes by muted renoters. Quote posts carry
// their own content and stay.
func filterMutedRenotes(notes []*model.Note, viewerID string, renoteMuted map[string]struct{}) []*model.Note {
	kept := make([]*model.Note, 0, len(notes))
	for _, n := range notes {
		if n.IsPureRenote() && n.UserID != viewerID {
			if _, ok := renoteMuted[n.UserID]; ok {
				continue
			}
		}
		kept = append(kept, n)
	}
	return kept
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func anyInSet(set map[string]struct{}, keys ...string) bool {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := set[k]; ok {
			return true
		}
	}
	return false
}
