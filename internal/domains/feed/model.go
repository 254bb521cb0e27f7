package feed

import (
	"blog-backend/internal/domains/comment"
	"blog-backend/internal/domains/group"
	"blog-backend/internal/domains/post"
	"blog-backend/pkg/pagination"
)

const (
	IndexPageSize   = 10
	GroupPageSize   = 10
	ProfilePageSize = 3
	FollowPageSize  = 10
)

// PostPage is one page of posts, newest first.
type PostPage struct {
	Posts []post.Post     `json:"posts"`
	Page  pagination.Page `json:"page"`
}

type IndexView struct {
	PostPage
}

type GroupView struct {
	Group group.Group `json:"group"`
	PostPage
}

// AuthorCard is the author block shared by the profile and post pages.
type AuthorCard struct {
	Author     post.Author `json:"author"`
	PostsCount int64       `json:"posts_count"`
	Followers  int64       `json:"followers_count"`
	Followings int64       `json:"following_count"`
	IsFollowed bool        `json:"following"`
	IsSelf     bool        `json:"is_self"`
}

type ProfileView struct {
	AuthorCard
	PostPage
}

type FollowView struct {
	PostPage
}

type PostView struct {
	AuthorCard
	Post     post.Post         `json:"post"`
	Comments []comment.Comment `json:"comments"`
}
