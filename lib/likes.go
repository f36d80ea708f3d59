package lib

import (
	"errors"
	"sync"

	"playto-cli/api"
	shared "playto-cli/shared"
)

var ErrTogglePending = errors.New("like toggle already in progress")

type LikeKind string

const (
	LikeKindPost    LikeKind = "post"
	LikeKindComment LikeKind = "comment"
)

type LikeTarget struct {
	Kind LikeKind
	Id   int
}

// LikeToggle is an optimistic like flip that has been applied locally but
// not yet sent. WasLiked is the state before the flip and picks the call.
type LikeToggle struct {
	Target   LikeTarget
	WasLiked bool
}

var (
	pendingMu sync.Mutex
	pending   = map[LikeTarget]bool{}
)

// BeginPostLikeToggle flips post in place. It returns nil while an earlier
// toggle of the same post has not settled.
func BeginPostLikeToggle(post *shared.Post) *LikeToggle {
	target := LikeTarget{Kind: LikeKindPost, Id: post.Id}
	if !claim(target) {
		return nil
	}
	return &LikeToggle{Target: target, WasLiked: flipLike(&post.IsLiked, &post.LikeCount)}
}

func BeginCommentLikeToggle(comment *shared.Comment) *LikeToggle {
	target := LikeTarget{Kind: LikeKindComment, Id: comment.Id}
	if !claim(target) {
		return nil
	}
	return &LikeToggle{Target: target, WasLiked: flipLike(&comment.IsLiked, &comment.LikeCount)}
}

// Send issues like or unlike and releases the target. The caller refetches
// afterwards whatever the outcome; the refetch is the rollback.
func (t *LikeToggle) Send() error {
	defer release(t.Target)

	var apiErr *shared.ApiError
	switch t.Target.Kind {
	case LikeKindPost:
		if t.WasLiked {
			apiErr = api.Client.UnlikePost(t.Target.Id)
		} else {
			apiErr = api.Client.LikePost(t.Target.Id)
		}
	case LikeKindComment:
		if t.WasLiked {
			apiErr = api.Client.UnlikeComment(t.Target.Id)
		} else {
			apiErr = api.Client.LikeComment(t.Target.Id)
		}
	}

	if apiErr != nil {
		return apiErr
	}
	return nil
}

// TogglePostLike flips and sends in one step.
func TogglePostLike(post *shared.Post) (bool, error) {
	toggle := BeginPostLikeToggle(post)
	if toggle == nil {
		return post.IsLiked, ErrTogglePending
	}
	return toggle.WasLiked, toggle.Send()
}

func IsTogglePending(target LikeTarget) bool {
	pendingMu.Lock()
	defer pendingMu.Unlock()
	return pending[target]
}

func flipLike(liked *bool, count *int) bool {
	was := *liked
	*liked = !was
	if was {
		*count = max(*count-1, 0)
	} else {
		*count++
	}
	return was
}

func claim(target LikeTarget) bool {
	pendingMu.Lock()
	defer pendingMu.Unlock()
	if pending[target] {
		return false
	}
	pending[target] = true
	return true
}

func release(target LikeTarget) {
	pendingMu.Lock()
	defer pendingMu.Unlock()
	delete(pending, target)
}
