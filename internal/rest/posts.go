package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/suvam/portfolio/blog/application"
	"github.com/suvam/portfolio/blog/domain"
)

// PostsHandler exposes the blog post API over the post service.
type PostsHandler struct {
	service *application.PostService
}

func NewPostsHandler(service *application.PostService) *PostsHandler {
	return &PostsHandler{service: service}
}

type createPostRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Thumbnail   string        `json:"thumbnail"`
	Links       []domain.Link `json:"links"`
}

type updatePostRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Thumbnail   *string        `json:"thumbnail"`
	Links       *[]domain.Link `json:"links"`
}

func (h *PostsHandler) List(c *gin.Context) {
	posts, err := h.service.ListPosts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": posts})
}

func (h *PostsHandler) Get(c *gin.Context) {
	postID := c.Param("postId")

	var post *domain.Post
	var err error
	if c.Query("rendered") == "true" {
		post, err = h.service.GetRenderedPost(c.Request.Context(), postID)
	} else {
		post, err = h.service.GetPost(c.Request.Context(), postID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": post})
}

func (h *PostsHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), application.CreatePostInput{
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		Links:       req.Links,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": post})
}

func (h *PostsHandler) Update(c *gin.Context) {
	postID := c.Param("postId")

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), postID, application.UpdatePostInput{
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		Links:       req.Links,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": post})
}

func (h *PostsHandler) Delete(c *gin.Context) {
	postID := c.Param("postId")

	if err := h.service.DeletePost(c.Request.Context(), postID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "blog post deleted"})
}

// respondError maps the domain error taxonomy onto HTTP status codes.
// Backend failures are logged here; everything else is the client's problem.
func respondError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": vErr.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "blog post not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "post was modified concurrently"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}
