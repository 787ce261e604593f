package trigger

import "github.com/tikblok/core/internal/models"

// EffectKind is what a video write event asks the indexing service to do.
type EffectKind int

const (
	EffectNoOp EffectKind = iota
	EffectUpsert
	EffectDelete
)

// Effect is the decision derived from a video document change.
type Effect struct {
	Kind  EffectKind
	Video *models.Video // set for EffectUpsert
	ID    string        // set for EffectUpsert and EffectDelete
}

// Decide maps a (before, after) document pair to an index effect. Pure
// function so the routing logic tests without any change-stream plumbing:
// a non-nil after state means create/update, a nil after state with a known
// id means delete, anything else is a no-op.
func Decide(id string, before, after *models.Video) Effect {
	if after != nil {
		return Effect{Kind: EffectUpsert, Video: after, ID: id}
	}
	if id == "" && before != nil {
		id = before.ID
	}
	if id == "" {
		return Effect{Kind: EffectNoOp}
	}
	return Effect{Kind: EffectDelete, ID: id}
}
