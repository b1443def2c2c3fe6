package extract

import (
	"context"

	"kgraph/pkg/ai"
)

type strictEntityList struct {
	Entities []string `json:"entities" jsonschema_description:"Candidate entity names found in the text, exactly as they appear"`
}

// extractFromChunk sends one chunk to the entity oracle and returns the raw
// candidate strings. The caller decides what an error means; this function
// never logs.
func (e *ExtractorClient) extractFromChunk(
	ctx context.Context,
	chunk string,
	sessionID string,
	client ai.EntityAIClient,
) ([]string, error) {
	opts := []ai.GenerateOption{
		ai.WithSystemPrompts(e.systemPrompt),
		ai.WithTemperature(e.temperature),
		ai.WithMaxTokens(e.maxTokens),
		ai.WithTimeout(e.timeout),
		ai.WithSessionID(sessionID),
	}
	if e.model != "" {
		opts = append(opts, ai.WithModel(e.model))
	}

	if e.strictJSON {
		var res strictEntityList
		err := client.GenerateChatWithFormat(
			ctx,
			"extract_entities",
			"Extract candidate entity names from a provided text chunk.",
			[]ai.ChatMessage{{Message: chunk, Role: "user"}},
			&res,
			opts...,
		)
		if err != nil {
			return nil, err
		}
		return res.Entities, nil
	}

	raw, err := client.GenerateChat(ctx, []ai.ChatMessage{{Message: chunk, Role: "user"}}, opts...)
	if err != nil {
		return nil, err
	}
	return ai.ExtractStringArray(raw)
}
