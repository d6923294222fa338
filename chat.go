package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

/* ─── OpenAI prompt constants ────────────────────────────────────────── */

// coachSystemPromptTemplate frames the assistant as a nutrition coach and
// anchors it to the user's current targets. Asking for "N kcal" phrasing is
// deliberate: the reply feeds the same extractor as user-typed text, so
// estimates the assistant gives come back as loggable records.
const coachSystemPromptTemplate = `You are a friendly nutrition coach inside a calorie tracking chat app. The user's daily targets are:
- Calories: %d kcal
- Protein: %dg
- Carbs: %dg
- Fat: %dg

Answer questions about food, meals, and nutrition conversationally. When you estimate the nutrition of a food or meal, always state it inline using the exact forms "N kcal", "Ng protein", "Ng carbs", "Ng fat" so the app can log it. Keep replies short.`

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// openAIMessage is a single message in the OpenAI chat completions request.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIRequest is the request body for the OpenAI chat completions API.
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

// callOpenAI sends a chat completions request and returns the raw content string
// from the first choice. Uses raw net/http to avoid pulling in the OpenAI SDK.
func callOpenAI(ctx context.Context, messages []openAIMessage, baseURL string) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	reqBody := openAIRequest{
		Model:       "gpt-4o-mini",
		Messages:    messages,
		Temperature: 0.3,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	// Parse the response to extract choices[0].message.content
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return result.Choices[0].Message.Content, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// chat relays a user message to OpenAI with a goal-aware coach prompt and
// runs the nutrient extractor over the exchange: the user's own text first
// (what they typed wins), falling back to the assistant reply. With
// "log": true an extracted record is folded into today's log immediately.
// POST /api/chat.
func (h *Handler) chat(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		apiError(c, http.StatusBadRequest, "message is required")
		return
	}

	g := h.goalsForChat(c, userID)

	messages := []openAIMessage{
		{Role: "system", Content: fmt.Sprintf(coachSystemPromptTemplate, g.Kcal, g.ProteinG, g.CarbsG, g.FatG)},
		{Role: "user", Content: req.Message},
	}

	reply, err := callOpenAI(c.Request.Context(), messages, h.openAIBaseURL)
	if err != nil {
		log.Printf("[chat] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	record := extractNutrients(req.Message, g)
	if record == nil {
		record = extractNutrients(reply, g)
	}

	resp := chatResponse{Reply: reply, Record: record}

	if record != nil && req.Log && h.db != nil {
		today := todayKey()
		current, err := h.latestLog(c, userID, today)
		if err == nil {
			if saved, err := h.saveLog(c, userID, addToLog(current, *record, today)); err == nil {
				resp.Log = &saved
			} else {
				log.Printf("[chat] auto-log save failed for user %d: %v", userID, err)
			}
		} else {
			log.Printf("[chat] auto-log fetch failed for user %d: %v", userID, err)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// goalsForChat loads the user's effective goals, degrading to the defaults
// of an empty profile when the DB is unavailable or the row is missing.
// The chat must stay usable with an incomplete, evolving profile.
func (h *Handler) goalsForChat(c *gin.Context, userID int) goals {
	if h.db == nil {
		return estimateGoals(userProfile{})
	}
	p, err := queryOne[nutritionProfile](h.db, c,
		"SELECT * FROM nutrition_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return estimateGoals(userProfile{})
	}
	return p.effectiveGoals()
}
