package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tidbok/internal/errors"
	"tidbok/internal/models"
	"tidbok/internal/pagination"
	"tidbok/internal/services"
)

// ArticleHandler handles article and article group requests.
type ArticleHandler struct {
	articleService services.ArticleServicer
	auditService   services.AuditServicer
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(articleService services.ArticleServicer, auditService services.AuditServicer) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, auditService: auditService}
}

// CreateArticleGroupRequest represents the request payload for creating an article group.
type CreateArticleGroupRequest struct {
	Name string                  `json:"name" binding:"required,min=1,max=100"`
	Type models.ArticleGroupType `json:"type" binding:"required,article_group_type"`
}

// CreateArticleRequest represents the request payload for creating an article.
type CreateArticleRequest struct {
	Name                 string `json:"name" binding:"required,min=1,max=200"`
	GroupID              uint   `json:"group_id" binding:"required"`
	IncludedInFixedPrice bool   `json:"included_in_fixed_price"`
}

// UpdateArticleRequest represents the request payload for updating an article.
type UpdateArticleRequest struct {
	Name                 string `json:"name" binding:"omitempty,min=1,max=200"`
	IncludedInFixedPrice *bool  `json:"included_in_fixed_price"`
	IsActive             *bool  `json:"is_active"`
}

// CreateArticleGroup handles the creation of a new article group.
// @Summary     Create an article group
// @Description Create a new article group of a given time type
// @Tags        articles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateArticleGroupRequest true "Article group details"
// @Success     201 {object} models.ArticleGroup "Article group created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /article-groups [post]
func (h *ArticleHandler) CreateArticleGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateArticleGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	group, err := h.articleService.CreateArticleGroup(req.Name, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ARTICLE_GROUP", "article_group", group.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "type": req.Type})

	c.JSON(http.StatusCreated, gin.H{"article_group": group})
}

// GetArticleGroups handles listing all article groups.
// @Summary     Get article groups
// @Description Get all article groups
// @Tags        articles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.ArticleGroup "Article groups"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /article-groups [get]
func (h *ArticleHandler) GetArticleGroups(c *gin.Context) {
	groups, err := h.articleService.GetArticleGroups()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"article_groups": groups})
}

// CreateArticle handles the creation of a new article.
// @Summary     Create an article
// @Description Create a new article in an article group
// @Tags        articles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateArticleRequest true "Article details"
// @Success     201 {object} models.Article "Article created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Article group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /articles [post]
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	article, err := h.articleService.CreateArticle(req.Name, req.GroupID, req.IncludedInFixedPrice)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ARTICLE", "article", article.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "group_id": req.GroupID})

	c.JSON(http.StatusCreated, gin.H{"article": article})
}

// GetArticles handles listing articles.
// @Summary     Get articles
// @Description Get a paginated list of articles
// @Tags        articles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       is_active query bool false "Filter by active status"
// @Param       group_id  query int  false "Filter by article group"
// @Param       page      query int  false "Page number (default 1)"
// @Param       page_size query int  false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Article] "Paginated articles"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /articles [get]
func (h *ArticleHandler) GetArticles(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	isActive, err := parseBoolQuery(c, "is_active")
	if err != nil {
		respondWithError(c, err)
		return
	}
	groupID, err := parseUintQuery(c, "group_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.articleService.GetArticles(page, isActive, groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetArticle handles retrieving a specific article.
// @Summary     Get article by ID
// @Description Get a specific article by ID
// @Tags        articles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Article ID"
// @Success     200 {object} models.Article "Article details"
// @Failure     400 {object} ErrorResponse "Invalid article ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Article not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /articles/{id} [get]
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	articleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	article, err := h.articleService.GetArticleByID(articleID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"article": article})
}

// UpdateArticle handles updating an existing article.
// @Summary     Update article
// @Description Update an existing article
// @Tags        articles
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Article ID"
// @Param       request body UpdateArticleRequest true "Updated article details"
// @Success     200 {object} models.Article "Updated article"
// @Failure     400 {object} ErrorResponse "Invalid input or article ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Article not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /articles/{id} [put]
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	articleID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	article, err := h.articleService.UpdateArticle(articleID, req.Name, req.IncludedInFixedPrice, req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_ARTICLE", "article", articleID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"article": article})
}
