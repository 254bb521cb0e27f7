package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"blog-backend/internal/domains/comment"
	"blog-backend/internal/domains/feed"
	"blog-backend/internal/domains/follow"
	"blog-backend/internal/domains/group"
	"blog-backend/internal/domains/post"
	"blog-backend/internal/domains/user"
	"blog-backend/pkg/pagination"
)

type feedService struct {
	posts    post.Repository
	groups   group.Repository
	users    user.Repository
	follows  follow.Service
	comments comment.Service
}

func NewFeedService(
	posts post.Repository,
	groups group.Repository,
	users user.Repository,
	follows follow.Service,
	comments comment.Service,
) feed.Service {
	return &feedService{
		posts:    posts,
		groups:   groups,
		users:    users,
		follows:  follows,
		comments: comments,
	}
}

type countFunc func(ctx context.Context) (int64, error)
type listFunc func(ctx context.Context, limit, offset int) ([]post.Post, error)

// paginate counts first so the requested page can be clamped before the
// slice is fetched.
func paginate(ctx context.Context, perPage int, requested string, count countFunc, list listFunc) (feed.PostPage, error) {
	total, err := count(ctx)
	if err != nil {
		return feed.PostPage{}, fmt.Errorf("count posts: %w", err)
	}

	page := pagination.Paginate(total, perPage, requested)
	posts, err := list(ctx, page.Limit(), page.Offset())
	if err != nil {
		return feed.PostPage{}, fmt.Errorf("list posts: %w", err)
	}

	return feed.PostPage{Posts: posts, Page: page}, nil
}

func (s *feedService) Index(ctx context.Context, page string) (*feed.IndexView, error) {
	pp, err := paginate(ctx, feed.IndexPageSize, page, s.posts.CountAll, s.posts.ListAll)
	if err != nil {
		return nil, err
	}
	return &feed.IndexView{PostPage: pp}, nil
}

func (s *feedService) Group(ctx context.Context, slug, page string) (*feed.GroupView, error) {
	g, err := s.groups.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	pp, err := paginate(ctx, feed.GroupPageSize, page,
		func(ctx context.Context) (int64, error) { return s.posts.CountByGroup(ctx, g.ID) },
		func(ctx context.Context, limit, offset int) ([]post.Post, error) {
			return s.posts.ListByGroup(ctx, g.ID, limit, offset)
		},
	)
	if err != nil {
		return nil, err
	}
	return &feed.GroupView{Group: *g, PostPage: pp}, nil
}

func (s *feedService) Profile(ctx context.Context, username, page string, viewer *uuid.UUID) (*feed.ProfileView, error) {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	pp, err := paginate(ctx, feed.ProfilePageSize, page,
		func(ctx context.Context) (int64, error) { return s.posts.CountByAuthor(ctx, author.ID) },
		func(ctx context.Context, limit, offset int) ([]post.Post, error) {
			return s.posts.ListByAuthor(ctx, author.ID, limit, offset)
		},
	)
	if err != nil {
		return nil, err
	}

	card, err := s.authorCard(ctx, post.Author{ID: author.ID, Username: author.Username}, viewer, &pp.Page.Count)
	if err != nil {
		return nil, err
	}
	return &feed.ProfileView{AuthorCard: card, PostPage: pp}, nil
}

func (s *feedService) Follow(ctx context.Context, viewer uuid.UUID, page string) (*feed.FollowView, error) {
	pp, err := paginate(ctx, feed.FollowPageSize, page,
		func(ctx context.Context) (int64, error) { return s.posts.CountByFollowedAuthors(ctx, viewer) },
		func(ctx context.Context, limit, offset int) ([]post.Post, error) {
			return s.posts.ListByFollowedAuthors(ctx, viewer, limit, offset)
		},
	)
	if err != nil {
		return nil, err
	}
	return &feed.FollowView{PostPage: pp}, nil
}

func (s *feedService) PostDetail(ctx context.Context, username string, postID int64, viewer *uuid.UUID) (*feed.PostView, error) {
	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.Author.Username != username {
		return nil, post.ErrPostNotFound
	}

	comments, err := s.comments.ListByPost(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	card, err := s.authorCard(ctx, p.Author, viewer, nil)
	if err != nil {
		return nil, err
	}
	return &feed.PostView{AuthorCard: card, Post: *p, Comments: comments}, nil
}

// authorCard gathers the counters shown next to an author. postsCount may be
// passed in when the caller already counted them.
func (s *feedService) authorCard(ctx context.Context, author post.Author, viewer *uuid.UUID, postsCount *int64) (feed.AuthorCard, error) {
	card := feed.AuthorCard{Author: author}

	if postsCount != nil {
		card.PostsCount = *postsCount
	} else {
		n, err := s.posts.CountByAuthor(ctx, author.ID)
		if err != nil {
			return card, fmt.Errorf("count author posts: %w", err)
		}
		card.PostsCount = n
	}

	stats, err := s.follows.Stats(ctx, author.ID)
	if err != nil {
		return card, fmt.Errorf("follow stats: %w", err)
	}
	card.Followers = stats.Followers
	card.Followings = stats.Following

	if viewer != nil {
		card.IsSelf = *viewer == author.ID
		following, err := s.follows.IsFollowing(ctx, *viewer, author.ID)
		if err != nil {
			return card, fmt.Errorf("follow state: %w", err)
		}
		card.IsFollowed = following
	}
	return card, nil
}
