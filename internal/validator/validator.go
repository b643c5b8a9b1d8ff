// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("pricing_scope", validatePricingScope)
		_ = v.RegisterValidation("budget_status", validateBudgetStatus)
		_ = v.RegisterValidation("article_group_type", validateArticleGroupType)
		_ = v.RegisterValidation("user_role", validateUserRole)
		_ = v.RegisterValidation("month", validateMonth)
		_ = v.RegisterValidation("fraction", validateFraction)
	}
}

func validatePricingScope(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "global", "article_group", "article", "customer", "customer_article":
		return true
	}
	return false
}

func validateBudgetStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "draft", "published":
		return true
	}
	return false
}

func validateArticleGroupType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "ordinarie", "interntid", "franvaro":
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "admin", "employee":
		return true
	}
	return false
}

func validateMonth(fl validator.FieldLevel) bool {
	m := fl.Field().Int()
	return m >= 1 && m <= 12
}

// validateFraction accepts values in [0, 1], for discount rates.
func validateFraction(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return f >= 0 && f <= 1
}
