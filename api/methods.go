package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	shared "playto-cli/shared"
)

func (a *Api) Login(req shared.TokenRequest) (*shared.TokenResponse, *shared.ApiError) {
	var res shared.TokenResponse
	apiErr := doJSON(unauthenticatedClient, http.MethodPost, "/token/", req, &res)
	if apiErr != nil {
		return nil, apiErr
	}
	return &res, nil
}

func (a *Api) RefreshToken(req shared.RefreshTokenRequest) (*shared.RefreshTokenResponse, *shared.ApiError) {
	var res shared.RefreshTokenResponse
	apiErr := doJSON(unauthenticatedClient, http.MethodPost, "/token/refresh/", req, &res)
	if apiErr != nil {
		return nil, apiErr
	}
	return &res, nil
}

// Register tries /users/ and falls back to /register/ when the first is not
// routed. If the fallback fails too, the original error is returned.
func (a *Api) Register(req shared.RegisterRequest) (*shared.User, *shared.ApiError) {
	var user shared.User
	apiErr := doJSON(authenticatedFastClient, http.MethodPost, "/users/", req, &user)
	if apiErr == nil {
		return &user, nil
	}

	if apiErr.Status != http.StatusNotFound {
		return nil, apiErr
	}

	fallbackErr := doJSON(authenticatedFastClient, http.MethodPost, "/register/", req, &user)
	if fallbackErr != nil {
		return nil, apiErr
	}

	return &user, nil
}

func (a *Api) ListPosts(page int) (*shared.PostPage, *shared.ApiError) {
	if page < 1 {
		page = 1
	}

	path := "/posts/"
	if page > 1 {
		path = fmt.Sprintf("/posts/?page=%d", page)
	}

	var raw json.RawMessage
	apiErr := doJSON(authenticatedFastClient, http.MethodGet, path, nil, &raw)
	if apiErr != nil {
		return nil, apiErr
	}

	posts, envelope, err := decodeList[*shared.Post](raw)
	if err != nil {
		return nil, &shared.ApiError{Type: shared.ApiErrorTypeOther, Msg: fmt.Sprintf("error decoding response: %v", err)}
	}

	res := &shared.PostPage{Results: posts, Count: len(posts), Page: page}
	if envelope != nil {
		res.Count = envelope.Count
		if envelope.Next != nil {
			res.Next = *envelope.Next
		}
		if envelope.Previous != nil {
			res.Previous = *envelope.Previous
		}
	}

	return res, nil
}

func (a *Api) GetPost(postId int) (*shared.Post, *shared.ApiError) {
	var post shared.Post
	apiErr := doJSON(authenticatedFastClient, http.MethodGet, fmt.Sprintf("/posts/%d/", postId), nil, &post)
	if apiErr != nil {
		return nil, apiErr
	}
	return &post, nil
}

func (a *Api) CreatePost(req shared.CreatePostRequest) (*shared.Post, *shared.ApiError) {
	var post shared.Post
	apiErr := doJSON(authenticatedFastClient, http.MethodPost, "/posts/", req, &post)
	if apiErr != nil {
		return nil, apiErr
	}
	return &post, nil
}

func (a *Api) LikePost(postId int) *shared.ApiError {
	return doJSON(authenticatedFastClient, http.MethodPost, fmt.Sprintf("/posts/%d/like/", postId), nil, nil)
}

func (a *Api) UnlikePost(postId int) *shared.ApiError {
	return doJSON(authenticatedFastClient, http.MethodPost, fmt.Sprintf("/posts/%d/unlike/", postId), nil, nil)
}

func (a *Api) ListComments() ([]*shared.Comment, *shared.ApiError) {
	var raw json.RawMessage
	apiErr := doJSON(authenticatedFastClient, http.MethodGet, "/comments/", nil, &raw)
	if apiErr != nil {
		return nil, apiErr
	}

	comments, _, err := decodeList[*shared.Comment](raw)
	if err != nil {
		return nil, &shared.ApiError{Type: shared.ApiErrorTypeOther, Msg: fmt.Sprintf("error decoding response: %v", err)}
	}

	return comments, nil
}

func (a *Api) CreateComment(req shared.CreateCommentRequest) (*shared.Comment, *shared.ApiError) {
	var comment shared.Comment
	apiErr := doJSON(authenticatedFastClient, http.MethodPost, "/comments/", req, &comment)
	if apiErr != nil {
		return nil, apiErr
	}
	return &comment, nil
}

func (a *Api) LikeComment(commentId int) *shared.ApiError {
	return doJSON(authenticatedFastClient, http.MethodPost, fmt.Sprintf("/comments/%d/like/", commentId), nil, nil)
}

func (a *Api) UnlikeComment(commentId int) *shared.ApiError {
	return doJSON(authenticatedFastClient, http.MethodPost, fmt.Sprintf("/comments/%d/unlike/", commentId), nil, nil)
}

func (a *Api) GetLeaderboard() ([]*shared.LeaderboardEntry, *shared.ApiError) {
	var raw json.RawMessage
	apiErr := doJSON(authenticatedFastClient, http.MethodGet, "/leaderboard/top_users/", nil, &raw)
	if apiErr != nil {
		return nil, apiErr
	}

	entries, _, err := decodeList[*shared.LeaderboardEntry](raw)
	if err != nil {
		return nil, &shared.ApiError{Type: shared.ApiErrorTypeOther, Msg: fmt.Sprintf("error decoding response: %v", err)}
	}

	return entries, nil
}
