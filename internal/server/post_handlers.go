package server

import (
	"strconv"
	"strings"

	"blogapi/internal/models"
	"blogapi/internal/notifications"
	"blogapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title    string   `json:"title" example:"Getting Started with Go"`
	Content  string   `json:"content"`
	AuthorID uint     `json:"authorId" example:"2"`
	Excerpt  *string  `json:"excerpt"`
	Image    *string  `json:"image"`
	Tags     []string `json:"tags"`
	Status   string   `json:"status" enums:"DRAFT,PUBLISHED"`
	Featured bool     `json:"featured"`
}

type updatePostRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Excerpt  *string   `json:"excerpt"`
	Image    *string   `json:"image"`
	Tags     *[]string `json:"tags"`
	Status   *string   `json:"status" enums:"DRAFT,PUBLISHED"`
	Featured *bool     `json:"featured"`
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Filtered, paginated posts ordered newest first
// @Tags posts
// @Produce json
// @Param status query string false "DRAFT or PUBLISHED"
// @Param author query int false "Author ID"
// @Param tags query string false "Tag name"
// @Param search query string false "Case-insensitive title or content match"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(10)
// @Success 200 {object} models.Response{data=[]models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Router /api/posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var authorID uint
	if raw := strings.TrimSpace(c.Query("author")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid author filter"))
		}
		authorID = uint(id)
	}

	page, limit := parsePage(c)
	result, err := s.postService.ListPosts(ctx, service.ListPostsInput{
		Status:   c.Query("status"),
		AuthorID: authorID,
		Tag:      c.Query("tags"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.Page(result.Posts, len(result.Posts), result.Total, result.Page, result.Limit))
}

// GetPublishedPosts handles GET /api/posts/published
// @Summary List published posts
// @Tags posts
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Post}
// @Router /api/posts/published [get]
func (s *Server) GetPublishedPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPublished(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.List(posts, len(posts)))
}

// GetFeaturedPosts handles GET /api/posts/featured
// @Summary List featured posts
// @Tags posts
// @Produce json
// @Success 200 {object} models.Response{data=[]models.Post}
// @Router /api/posts/featured [get]
func (s *Server) GetFeaturedPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListFeatured(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.List(posts, len(posts)))
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Description Returns the post with approved comments and records one view
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Response{data=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.OK(post))
}

// GetPostBySlug handles GET /api/posts/slug/:slug
// @Summary Get a post by slug
// @Tags posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.Response{data=models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/slug/{slug} [get]
func (s *Server) GetPostBySlug(c *fiber.Ctx) error {
	post, err := s.postService.GetPostBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.OK(post))
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param post body createPostRequest true "Post"
// @Success 201 {object} models.Response{data=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /api/posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req createPostRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: req.AuthorID,
		Excerpt:  req.Excerpt,
		Image:    req.Image,
		Tags:     req.Tags,
		Status:   req.Status,
		Featured: req.Featured,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishPostEvent(ctx, notifications.EventPostCreated, post)
	if post.Status == models.PostStatusPublished {
		s.publishPostEvent(ctx, notifications.EventPostPublished, post)
	}

	return c.Status(fiber.StatusCreated).JSON(models.Message("Post created successfully", post))
}

// UpdatePost handles PUT and PATCH /api/posts/:id
// @Summary Update a post
// @Description Partial update; the slug never changes
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param post body updatePostRequest true "Fields to change"
// @Success 200 {object} models.Response{data=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/{id} [put]
// @Router /api/posts/{id} [patch]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updatePostRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(ctx, id, service.UpdatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Excerpt:  req.Excerpt,
		Image:    req.Image,
		Tags:     req.Tags,
		Status:   req.Status,
		Featured: req.Featured,
	})
	if err != nil {
		return respondError(c, err)
	}

	s.publishPostEvent(ctx, notifications.EventPostUpdated, post)
	if req.Status != nil && post.Status == models.PostStatusPublished {
		s.publishPostEvent(ctx, notifications.EventPostPublished, post)
	}

	return c.JSON(models.Message("Post updated successfully", post))
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Description Removes the post together with its comments
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, id); err != nil {
		return respondError(c, err)
	}

	s.publishPostEvent(ctx, notifications.EventPostDeleted, &models.Post{ID: id})
	return c.JSON(models.Message("Post deleted successfully", nil))
}
