package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

var defaultCategories = []string{"technology", "business"}

type ArticleFetchJob struct {
	cfg    config.Config
	apiURL string
	ar     repository.ArticleRepository
	sr     repository.SettingsRepository
}

func NewArticleFetchJob(cfg config.Config, ar repository.ArticleRepository, sr repository.SettingsRepository) *ArticleFetchJob {
	return &ArticleFetchJob{
		cfg:    cfg,
		apiURL: "https://newsapi.org/v2",
		ar:     ar,
		sr:     sr,
	}
}

// FetchArticles pulls top headlines for every category any user has picked
// and stores them, deduplicated by URL.
func (c *ArticleFetchJob) FetchArticles() {
	ctx := context.Background()

	categories := c.collectCategories(ctx)

	for _, category := range categories {
		articles, err := c.fetchCategory(ctx, category)
		if err != nil {
			slog.Info(err.Error())
			continue
		}

		for _, a := range articles {
			if a.URL == "" || a.Title == "" {
				continue
			}

			publishedAt := a.PublishedAt
			if publishedAt.IsZero() {
				publishedAt = time.Now()
			}

			_, err := c.ar.UpsertByURL(ctx, &models.Article{
				Title:       a.Title,
				Description: a.Description,
				URL:         a.URL,
				Source:      a.Source.Name,
				ImageURL:    a.URLToImage,
				Category:    category,
				PublishedAt: publishedAt,
			})
			if err != nil {
				slog.Info(err.Error())
			}
		}
	}
}

func (c *ArticleFetchJob) collectCategories(ctx context.Context) []string {
	stored, err := c.sr.ListCategories(ctx)
	if err != nil {
		slog.Info(err.Error())
		return defaultCategories
	}

	seen := make(map[string]struct{})
	var categories []string
	for _, s := range stored {
		for _, cat := range strings.Split(s, ",") {
			cat = strings.TrimSpace(cat)
			if cat == "" {
				continue
			}
			if _, ok := seen[cat]; ok {
				continue
			}
			seen[cat] = struct{}{}
			categories = append(categories, cat)
		}
	}

	if len(categories) == 0 {
		return defaultCategories
	}
	return categories
}

func (c *ArticleFetchJob) fetchCategory(ctx context.Context, category string) ([]transfer.NewsAPIArticle, error) {
	params := url.Values{}
	params.Add("category", category)
	params.Add("language", "en")
	params.Add("pageSize", "20")

	reqURL := fmt.Sprintf("%s/top-headlines?%s", c.apiURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.cfg.NewsAPIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result transfer.NewsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if result.Status != "ok" {
		return nil, fmt.Errorf("newsapi: %s", result.Message)
	}

	return result.Articles, nil
}
