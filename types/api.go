package types

import (
	shared "playto-cli/shared"
)

type ApiClient interface {
	Login(req shared.TokenRequest) (*shared.TokenResponse, *shared.ApiError)
	RefreshToken(req shared.RefreshTokenRequest) (*shared.RefreshTokenResponse, *shared.ApiError)
	Register(req shared.RegisterRequest) (*shared.User, *shared.ApiError)

	ListPosts(page int) (*shared.PostPage, *shared.ApiError)
	GetPost(postId int) (*shared.Post, *shared.ApiError)
	CreatePost(req shared.CreatePostRequest) (*shared.Post, *shared.ApiError)
	LikePost(postId int) *shared.ApiError
	UnlikePost(postId int) *shared.ApiError

	ListComments() ([]*shared.Comment, *shared.ApiError)
	CreateComment(req shared.CreateCommentRequest) (*shared.Comment, *shared.ApiError)
	LikeComment(commentId int) *shared.ApiError
	UnlikeComment(commentId int) *shared.ApiError

	GetLeaderboard() ([]*shared.LeaderboardEntry, *shared.ApiError)
}
