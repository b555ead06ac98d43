package provider

import (
	"strings"

	"MarketBrief/internal/domain/models"
	"MarketBrief/pkg/util"
)

const (
	// MaxArticles is how many articles each news call keeps.
	MaxArticles = 5
	// MaxDescription bounds a description in characters.
	MaxDescription = 350
)

// Article is the subset of an article both news APIs return.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NormalizeArticles keeps the first MaxArticles articles and drops those
// without a usable title.
func NormalizeArticles(articles []Article) []models.NewsItem {
	if len(articles) > MaxArticles {
		articles = articles[:MaxArticles]
	}
	items := make([]models.NewsItem, 0, len(articles))
	for _, a := range articles {
		item := models.NewsItem{
			Title:       strings.TrimSpace(a.Title),
			Description: util.CollapseSpace(util.Truncate(a.Description, MaxDescription)),
		}
		if item.Keep() {
			items = append(items, item)
		}
	}
	return items
}
