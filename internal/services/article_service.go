package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "tidbok/internal/errors"
	"tidbok/internal/models"
	"tidbok/internal/pagination"
)

// articleService handles article and article group business logic.
type articleService struct {
	db *gorm.DB
}

// NewArticleService creates a new ArticleServicer.
func NewArticleService(db *gorm.DB) ArticleServicer {
	return &articleService{db: db}
}

// CreateArticleGroup creates a new article group.
func (s *articleService) CreateArticleGroup(name string, groupType models.ArticleGroupType) (*models.ArticleGroup, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "article group name is required")
	}

	group := &models.ArticleGroup{Name: name, Type: groupType}
	if err := s.db.Create(group).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return group, nil
}

// GetArticleGroups returns all article groups.
func (s *articleService) GetArticleGroups() ([]models.ArticleGroup, error) {
	var groups []models.ArticleGroup
	if err := s.db.Order("name").Find(&groups).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return groups, nil
}

// CreateArticle creates a new article in an existing group.
func (s *articleService) CreateArticle(name string, groupID uint, includedInFixedPrice bool) (*models.Article, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "article name is required")
	}

	var group models.ArticleGroup
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrArticleGroupNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	article := &models.Article{
		Name:                 name,
		GroupID:              groupID,
		IncludedInFixedPrice: includedInFixedPrice,
		IsActive:             true,
	}
	if err := s.db.Create(article).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	article.Group = group
	return article, nil
}

// GetArticles returns a paginated list of articles with their groups.
func (s *articleService) GetArticles(page pagination.PageRequest, isActive *bool, groupID *uint) (*pagination.PageResponse[models.Article], error) {
	page.Defaults()

	base := s.db.Model(&models.Article{})
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}
	if groupID != nil {
		base = base.Where("group_id = ?", *groupID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var articles []models.Article
	if err := base.Preload("Group").Order("name").Scopes(pagination.Paginate(page)).Find(&articles).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(articles, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetArticleByID returns an article with its group.
func (s *articleService) GetArticleByID(id uint) (*models.Article, error) {
	var article models.Article
	if err := s.db.Preload("Group").First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrArticleNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &article, nil
}

// UpdateArticle updates an existing article's fields.
func (s *articleService) UpdateArticle(id uint, name string, includedInFixedPrice, isActive *bool) (*models.Article, error) {
	article, err := s.GetArticleByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if includedInFixedPrice != nil {
		updates["included_in_fixed_price"] = *includedInFixedPrice
	}
	if isActive != nil {
		updates["is_active"] = *isActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(article).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return article, nil
}
