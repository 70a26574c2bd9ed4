package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/example/blog/internal/db"
	"github.com/example/blog/internal/models"
	"github.com/example/blog/internal/repository"
)

const (
	MsgTitleAndContentRequired = "title and content required"
	MsgTitleTooLong            = "title must be at most 200 characters"
	MsgInvalidText             = "title and content must be valid text"

	maxTitleLen = 200
)

// ErrNotFound is returned for ids with no post behind them.
var ErrNotFound = repository.ErrNotFound

// Requester is the identity a request acts as. The zero value is anonymous.
type Requester struct {
	UserID   uint
	Username string
}

func (r Requester) Authenticated() bool { return r.UserID != 0 }

// Owns reports whether r wrote p. Anonymous requesters own nothing.
func (r Requester) Owns(p *models.Post) bool {
	return r.Authenticated() && r.UserID == p.AuthorID
}

// PostForm carries the submitted title and content fields.
type PostForm struct {
	Title   string
	Content string
}

// Validate returns an inline form message, or "" when the form can be saved.
func (f PostForm) Validate() string {
	if f.Title == "" || f.Content == "" {
		return MsgTitleAndContentRequired
	}
	if !utf8.ValidString(f.Title) || !utf8.ValidString(f.Content) {
		return MsgInvalidText
	}
	if utf8.RuneCountInString(f.Title) > maxTitleLen {
		return MsgTitleTooLong
	}
	return ""
}

// SaveResult is the outcome of a create or edit. Exactly one of Saved() or
// FormError != "" holds. Post is the saved post, or for a rejected edit the
// post as currently stored.
type SaveResult struct {
	Post      *models.Post
	FormError string
}

func (r SaveResult) Saved() bool { return r.FormError == "" }

// DeleteResult tells the caller whether the post is gone.
type DeleteResult struct {
	Post    *models.Post
	Deleted bool
}

type PostService struct {
	repo   *repository.PostRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewPostService(database *db.Database, logger *slog.Logger) *PostService {
	return &PostService{
		repo:   repository.NewPostRepository(database.Gorm),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used for created_at and published_at.
func (s *PostService) WithClock(now func() time.Time) *PostService {
	s.now = now
	return s
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return p, nil
}

func (s *PostService) CreatePost(ctx context.Context, requester Requester, in PostForm) (SaveResult, error) {
	if msg := in.Validate(); msg != "" {
		return SaveResult{FormError: msg}, nil
	}
	if !requester.Authenticated() {
		return SaveResult{}, errors.New("create post: anonymous requester")
	}
	post := &models.Post{
		AuthorID:  requester.UserID,
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return SaveResult{}, fmt.Errorf("create post: %w", err)
	}
	post.Author = models.User{ID: requester.UserID, Username: requester.Username}
	s.logger.Info("post created", "post_id", post.ID, "author_id", post.AuthorID)
	return SaveResult{Post: post}, nil
}

// EditPost overwrites title and content. Any requester may edit any post.
func (s *PostService) EditPost(ctx context.Context, requester Requester, id uint, in PostForm) (SaveResult, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return SaveResult{}, err
	}
	if msg := in.Validate(); msg != "" {
		return SaveResult{Post: post, FormError: msg}, nil
	}
	post.Title = in.Title
	post.Content = in.Content
	if err := s.repo.Update(ctx, post); err != nil {
		return SaveResult{}, fmt.Errorf("update post %d: %w", id, err)
	}
	s.logger.Info("post edited", "post_id", id, "editor_id", requester.UserID, "author_id", post.AuthorID)
	return SaveResult{Post: post}, nil
}

// DeletePost removes the post when requester is its author and is a silent
// no-op otherwise.
func (s *PostService) DeletePost(ctx context.Context, requester Requester, id uint) (DeleteResult, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}
	if !requester.Owns(post) {
		s.logger.Debug("delete refused", "post_id", id, "requester_id", requester.UserID)
		return DeleteResult{Post: post}, nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return DeleteResult{}, fmt.Errorf("delete post %d: %w", id, err)
	}
	s.logger.Info("post deleted", "post_id", id, "author_id", post.AuthorID)
	return DeleteResult{Post: post, Deleted: true}, nil
}

// PublishPost stamps published_at with the current time.
func (s *PostService) PublishPost(ctx context.Context, id uint) (time.Time, error) {
	at := s.now()
	if err := s.repo.SetPublishedAt(ctx, id, at); err != nil {
		return time.Time{}, fmt.Errorf("publish post %d: %w", id, err)
	}
	return at, nil
}
