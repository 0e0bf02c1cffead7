package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
)

// CardContent is the structured summary of a card.
type CardContent struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	ShortSummary string `json:"short_summary"`
}

// RankedCard is a card placed in course order.
type RankedCard struct {
	Rank           int     `json:"rank"`
	Title          string  `json:"title"`
	CardNumber     string  `json:"card_number"`
	Topic          string  `json:"topic"`
	IsDuplicate    bool    `json:"is_duplicate"`
	DuplicateGroup *int    `json:"duplicate_group,omitempty"`
	DuplicateOf    *string `json:"duplicate_of,omitempty"`
}

func (a *Assistant) generateFromTemplate(ctx context.Context, template prompt.ChatTemplate, values map[string]any) (string, error) {
	if err := a.available(); err != nil {
		return "", err
	}
	messages, err := template.Format(ctx, values)
	if err != nil {
		return "", fmt.Errorf("invalid prompt: %w", err)
	}
	return a.generate(ctx, messages)
}

// GenerateCardSummary summarizes the text of a card as bullet points.
func (a *Assistant) GenerateCardSummary(ctx context.Context, cardText string) (*CardContent, error) {
	reply, err := a.generateFromTemplate(ctx, summaryTemplate, map[string]any{"text": cardText})
	if err != nil {
		return nil, err
	}
	var content CardContent
	if err := json.Unmarshal([]byte(extractJSON(reply)), &content); err != nil {
		return nil, fmt.Errorf("unexpected summary reply: %w", err)
	}
	return &content, nil
}

// SummariseDuplicates merges the summaries of duplicated cards into one.
func (a *Assistant) SummariseDuplicates(ctx context.Context, summaries string) (string, error) {
	return a.generateFromTemplate(ctx, duplicatesTemplate, map[string]any{"text": summaries})
}

// RankCards orders card titles by course material and flags duplicates.
func (a *Assistant) RankCards(ctx context.Context, titles string) ([]RankedCard, error) {
	reply, err := a.generateFromTemplate(ctx, rankingTemplate, map[string]any{"titles": titles})
	if err != nil {
		return nil, err
	}
	var ranking struct {
		RankedList []RankedCard `json:"ranked_list"`
	}
	if err := json.Unmarshal([]byte(extractJSON(reply)), &ranking); err != nil {
		return nil, fmt.Errorf("unexpected ranking reply: %w", err)
	}
	return ranking.RankedList, nil
}
