package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/platform"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

const openAIModel = "gpt-4o-mini"

type GenerateService interface {
	Generate(ctx context.Context, userID int64, r *transfer.GenerateRequest) (*models.GeneratedPost, error)
	ListGenerated(ctx context.Context, userID int64) ([]*models.GeneratedPost, error)
	RemoveGenerated(ctx context.Context, userID, postID int64) error
}

type generateService struct {
	cfg     config.Config
	apiURL  string
	clients map[string]platform.Client
	gp      repository.GeneratedPostRepository
	ar      repository.ArticleRepository
}

func NewGenerateService(cfg config.Config, clients map[string]platform.Client, gp repository.GeneratedPostRepository, ar repository.ArticleRepository) GenerateService {
	return &generateService{
		cfg:     cfg,
		apiURL:  "https://api.openai.com/v1",
		clients: clients,
		gp:      gp,
		ar:      ar,
	}
}

func (s *generateService) Generate(ctx context.Context, userID int64, r *transfer.GenerateRequest) (*models.GeneratedPost, error) {
	client, ok := s.clients[r.Platform]
	if !ok {
		return nil, fmt.Errorf("unsupported platform: %s", r.Platform)
	}

	topic := r.Topic
	if r.ArticleID != 0 {
		article, err := s.ar.GetByID(ctx, r.ArticleID)
		if err != nil {
			return nil, err
		}
		if article == nil {
			return nil, errors.New("Article not found")
		}
		topic = fmt.Sprintf("%s\n\n%s", article.Title, article.Description)
	}

	if strings.TrimSpace(topic) == "" {
		return nil, errors.New("Topic is empty")
	}

	tone := r.Tone
	if tone == "" {
		tone = "professional"
	}

	content, err := s.complete(ctx, buildPrompt(topic, r.Platform, tone, client.CharacterLimit()))
	if err != nil {
		return nil, err
	}

	gp := &models.GeneratedPost{
		UserID:    userID,
		ArticleID: r.ArticleID,
		Platform:  r.Platform,
		Tone:      tone,
		Content:   content,
	}

	id, err := s.gp.Create(ctx, gp)
	if err != nil {
		return nil, err
	}
	gp.ID = id

	return gp, nil
}

func buildPrompt(topic, platformName, tone string, limit int) string {
	return fmt.Sprintf(
		"Write a %s social media post for %s about the following topic. Keep it under %d characters. Do not use hashtags unless they add value. Return only the post text.\n\nTopic: %s",
		tone, platformName, limit, topic)
}

func (s *generateService) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := transfer.ChatCompletionRequest{
		Model: openAIModel,
		Messages: []transfer.ChatMessage{
			{Role: "system", Content: "You are a social media copywriter."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.OpenAIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer resp.Body.Close()

	var completion transfer.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if completion.Error != nil {
		err = fmt.Errorf("openai: %s", completion.Error.Message)
		slog.Info(err.Error())
		return "", err
	}

	if len(completion.Choices) == 0 {
		err = errors.New("openai: no completion returned")
		slog.Info(err.Error())
		return "", err
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func (s *generateService) ListGenerated(ctx context.Context, userID int64) ([]*models.GeneratedPost, error) {
	return s.gp.ListByUserID(ctx, userID)
}

func (s *generateService) RemoveGenerated(ctx context.Context, userID, postID int64) error {
	isExist, err := s.gp.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !isExist {
		return errors.New("Post not found")
	}
	return s.gp.Remove(ctx, postID)
}
