package usecase

import (
	"context"
	"time"

	"MarketBrief/internal/domain/models"
	domrepo "MarketBrief/internal/domain/repository"
	"MarketBrief/internal/service/newsapi"
	applogger "MarketBrief/pkg/logger"
)

// Supplier fetches one candidate list of headlines.
type Supplier func(ctx context.Context) ([]models.NewsItem, error)

// FirstAvailable returns the first non-empty result among suppliers, trying
// them in order. Nil suppliers are skipped. A supplier that errors or panics
// counts as empty. Exhaustion yields an empty list.
func FirstAvailable(ctx context.Context, suppliers ...Supplier) []models.NewsItem {
	for _, s := range suppliers {
		if s == nil {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		if items := try(ctx, s); len(items) > 0 {
			return items
		}
	}
	return []models.NewsItem{}
}

func try(ctx context.Context, s Supplier) (items []models.NewsItem) {
	defer func() {
		if r := recover(); r != nil {
			items = nil
		}
	}()
	items, err := s(ctx)
	if err != nil {
		return nil
	}
	return items
}

// Delayed waits d before running s. A nil s stays nil.
func Delayed(sleep SleepFunc, d time.Duration, s Supplier) Supplier {
	if s == nil {
		return nil
	}
	return func(ctx context.Context) ([]models.NewsItem, error) {
		if err := sleep(ctx, d); err != nil {
			return nil, err
		}
		return s(ctx)
	}
}

// nationalQuery is one broadened full-text search.
type nationalQuery struct {
	q           string
	anyLanguage bool
}

var nationalQueries = []nationalQuery{
	{q: "México economía Banxico BMV IPC"},
	{q: "Mexico economy BMV stock market", anyLanguage: true},
	{q: "Bolsa Mexicana valores"},
	{q: "Banxico tasa interés"},
}

const nationalSearch = "México economía finanzas"

// NewsPipeline builds the national and international headline lists.
type NewsPipeline struct {
	newsAPI          domrepo.HeadlineSearcher
	gnews            domrepo.HeadlineSource
	translator       domrepo.Translator
	queryDelay       time.Duration
	translationDelay time.Duration
	sleep            SleepFunc
	logger           *applogger.Logger
}

// NewNewsPipeline wires the pipeline. newsAPI and gnews may be nil when
// their credential is unset; translator may be nil to skip translation.
func NewNewsPipeline(
	newsAPI domrepo.HeadlineSearcher,
	gnews domrepo.HeadlineSource,
	translator domrepo.Translator,
	queryDelay, translationDelay time.Duration,
	sleep SleepFunc,
	logger *applogger.Logger,
) *NewsPipeline {
	if sleep == nil {
		sleep = Sleep
	}
	if logger == nil {
		logger = applogger.Nop()
	}
	return &NewsPipeline{
		newsAPI:          newsAPI,
		gnews:            gnews,
		translator:       translator,
		queryDelay:       queryDelay,
		translationDelay: translationDelay,
		sleep:            sleep,
		logger:           logger,
	}
}

// National walks the Mexican news fallback chain.
func (p *NewsPipeline) National(ctx context.Context) ([]models.NewsItem, error) {
	if p.newsAPI == nil && p.gnews == nil {
		return nil, models.Unconfigured(newsapi.Name, newsapi.Credential)
	}

	var suppliers []Supplier
	if p.gnews != nil {
		suppliers = append(suppliers, func(ctx context.Context) ([]models.NewsItem, error) {
			return p.gnews.TopHeadlines(ctx, "mx", "business")
		})
	}
	if p.newsAPI != nil {
		for _, category := range []string{"business", "general"} {
			suppliers = append(suppliers, func(ctx context.Context) ([]models.NewsItem, error) {
				return p.newsAPI.TopHeadlines(ctx, "mx", category)
			})
		}
		for i, nq := range nationalQueries {
			var s Supplier = func(ctx context.Context) ([]models.NewsItem, error) {
				return p.newsAPI.Everything(ctx, nq.q, nq.anyLanguage)
			}
			if i > 0 {
				s = Delayed(p.sleep, p.queryDelay, s)
			}
			suppliers = append(suppliers, s)
		}
	}
	if p.gnews != nil {
		var s Supplier = func(ctx context.Context) ([]models.NewsItem, error) {
			return p.gnews.Search(ctx, nationalSearch)
		}
		if p.newsAPI != nil {
			s = Delayed(p.sleep, p.queryDelay, s)
		}
		suppliers = append(suppliers, s)
	}

	return FirstAvailable(ctx, suppliers...), nil
}

// International fetches US business headlines and translates them.
// Title and description are translated separately, each followed by the
// translation delay.
func (p *NewsPipeline) International(ctx context.Context) ([]models.NewsItem, error) {
	if p.newsAPI == nil {
		return nil, models.Unconfigured(newsapi.Name, newsapi.Credential)
	}

	items, err := p.newsAPI.TopHeadlines(ctx, "us", "business")
	if err != nil {
		return nil, err
	}
	if p.translator == nil {
		return items, nil
	}

	if ctx.Err() != nil {
		return items, nil
	}
	out := make([]models.NewsItem, 0, len(items))
	for i, it := range items {
		title := p.translate(ctx, it.Title)
		if err := p.sleep(ctx, p.translationDelay); err != nil {
			p.logger.Warn("translation stopped", applogger.Int("translated", i), applogger.Error(err))
			out = append(out, models.NewsItem{Title: title, Description: it.Description})
			out = append(out, items[i+1:]...)
			break
		}
		out = append(out, models.NewsItem{Title: title, Description: p.translate(ctx, it.Description)})
		if err := p.sleep(ctx, p.translationDelay); err != nil {
			p.logger.Warn("translation stopped", applogger.Int("translated", i+1), applogger.Error(err))
			out = append(out, items[i+1:]...)
			break
		}
	}
	return out, nil
}

func (p *NewsPipeline) translate(ctx context.Context, text string) string {
	if text == "" {
		return ""
	}
	t, err := p.translator.Translate(ctx, text)
	if err != nil || t == "" {
		return text
	}
	return t
}
