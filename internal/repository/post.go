package repository

import (
	"context"
	"strings"
	"time"

	"blogapi/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows a post listing. Zero values are ignored.
type PostFilter struct {
	Status   models.PostStatus
	AuthorID uint
	Tag      string
	Search   string
}

// PostChanges is a partial update. Columns maps column names to new values;
// Tags replaces the tag set only when ReplaceTags is true.
type PostChanges struct {
	Columns     map[string]interface{}
	Tags        []string
	ReplaceTags bool
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tags []string) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ViewByID(ctx context.Context, id uint) (*models.Post, error)
	ViewBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, int64, error)
	ListPublished(ctx context.Context, now time.Time) ([]*models.Post, error)
	ListFeatured(ctx context.Context, limit int) ([]*models.Post, error)
	Update(ctx context.Context, id uint, changes PostChanges) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const postWithCommentCount = "posts.*, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

func authorSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "name", "avatar")
}

func authorProfile(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "name", "avatar", "bio")
}

func approvedOldestFirst(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", models.CommentStatusApproved).Order("created_at ASC, id ASC")
}

// listing selects posts with author summary, tags and comment count.
func listing(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Post{}).
		Select(postWithCommentCount).
		Preload("Author", authorSummary).
		Preload("Tags")
}

// detail loads a post with author profile, tags and its approved comment
// threads: top-level comments with one level of replies, oldest first.
func detail(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Post{}).
		Preload("Author", authorProfile).
		Preload("Tags").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return approvedOldestFirst(db.Where("parent_id IS NULL"))
		}).
		Preload("Comments.Author", authorSummary).
		Preload("Comments.Replies", approvedOldestFirst).
		Preload("Comments.Replies.Author", authorSummary)
}

func withCounts(posts []*models.Post) []*models.Post {
	for _, p := range posts {
		p.Count = &models.PostCounts{Comments: p.CommentCount}
	}
	return posts
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, tags []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolved, err := resolveTags(tx, tags)
		if err != nil {
			return err
		}
		post.Tags = resolved
		return translateError(tx.Omit("Tags.*").Create(post).Error)
	})
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := listing(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		return nil, err
	}
	withCounts([]*models.Post{&post})
	return &post, nil
}

func (r *postRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *postRepository) ViewByID(ctx context.Context, id uint) (*models.Post, error) {
	return r.view(ctx, "posts.id = ?", id)
}

func (r *postRepository) ViewBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return r.view(ctx, "posts.slug = ?", slug)
}

// view bumps the view counter with a single atomic UPDATE and returns the
// post detail read in the same transaction.
func (r *postRepository) view(ctx context.Context, where string, arg interface{}) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).
			Where(where, arg).
			UpdateColumn("views", gorm.Expr("views + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return detail(tx).Where(where, arg).First(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) filtered(ctx context.Context, f PostFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if f.Status != "" {
		q = q.Where("posts.status = ?", f.Status)
	}
	if f.AuthorID != 0 {
		q = q.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.Tag != "" {
		q = q.Where("EXISTS (SELECT 1 FROM post_tags JOIN tags ON tags.id = post_tags.tag_id "+
			"WHERE post_tags.post_id = posts.id AND tags.name = ?)", f.Tag)
	}
	if f.Search != "" {
		like := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		q = q.Where(`(LOWER(posts.title) LIKE ? ESCAPE '\' OR LOWER(posts.content) LIKE ? ESCAPE '\')`, like, like)
	}
	return q
}

// List returns one page of posts matching filter, newest first, plus the
// number of posts matching filter overall.
func (r *postRepository) List(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	posts := make([]*models.Post, 0, limit)
	err := listing(r.filtered(ctx, filter)).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return withCounts(posts), total, nil
}

func (r *postRepository) ListPublished(ctx context.Context, now time.Time) ([]*models.Post, error) {
	posts := make([]*models.Post, 0)
	err := listing(r.db.WithContext(ctx)).
		Where("posts.status = ? AND posts.published_at <= ?", models.PostStatusPublished, now).
		Order("posts.published_at DESC, posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return withCounts(posts), nil
}

func (r *postRepository) ListFeatured(ctx context.Context, limit int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, limit)
	err := listing(r.db.WithContext(ctx)).
		Where("posts.featured = ? AND posts.status = ?", true, models.PostStatusPublished).
		Order("posts.published_at DESC, posts.id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return withCounts(posts), nil
}

func (r *postRepository) Update(ctx context.Context, id uint, changes PostChanges) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&post, id).Error; err != nil {
			return err
		}

		if len(changes.Columns) > 0 {
			if err := tx.Model(&post).Updates(changes.Columns).Error; err != nil {
				return translateError(err)
			}
		}

		if changes.ReplaceTags {
			tags, err := resolveTags(tx, changes.Tags)
			if err != nil {
				return err
			}
			assoc := tx.Model(&post).Association("Tags")
			if len(tags) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(tags)
			}
			if err != nil {
				return err
			}
		}

		post = models.Post{}
		return listing(tx).First(&post, id).Error
	})
	if err != nil {
		return nil, err
	}
	withCounts([]*models.Post{&post})
	return &post, nil
}

// Delete removes the post together with its comments and tag links.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// resolveTags returns the Tag rows for names, creating missing ones. Order
// follows names.
func resolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	names = models.NormalizeTags(names)
	if len(names) == 0 {
		return []models.Tag{}, nil
	}

	candidates := make([]models.Tag, 0, len(names))
	for _, n := range names {
		candidates = append(candidates, models.Tag{Name: n})
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidates).Error
	if err != nil {
		return nil, err
	}

	var found []models.Tag
	if err := tx.Where("name IN ?", names).Find(&found).Error; err != nil {
		return nil, err
	}
	byName := make(map[string]models.Tag, len(found))
	for _, t := range found {
		byName[t.Name] = t
	}

	tags := make([]models.Tag, 0, len(names))
	for _, n := range names {
		if t, ok := byName[n]; ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
