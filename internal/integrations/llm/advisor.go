package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"icuflow/internal/domain"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"
const defaultOpenAIModel = "gpt-4o-mini"

const systemContext = `You are an expert ICU workflow optimization advisor.
Your role is to analyze workflow scenarios and provide actionable recommendations
for improving efficiency, reducing burnout risk, and optimizing resource allocation
in intensive care units. Provide recommendations in clear, natural language.`

// Advisor turns computed metrics into natural-language recommendations via
// an LLM. Provider is "anthropic" or "openai".
type Advisor struct {
	Provider        string
	Model           string
	AnthropicAPIKey string
	OpenAIAPIKey    string
}

// Advice is the structured advisory response. Impact figures are normalized
// to [0,1].
type Advice struct {
	Recommendations []string
	Impact          ImpactEstimate
	Confidence      float64
}

type ImpactEstimate struct {
	Efficiency    float64 `json:"efficiency"`
	CognitiveLoad float64 `json:"cognitive_load"`
	BurnoutRisk   float64 `json:"burnout_risk"`
}

type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

func (u Usage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

// adviceResponse is the raw model output shape; impact values arrive on a
// 0-100 scale.
type adviceResponse struct {
	Recommendations []string       `json:"recommendations"`
	Impact          ImpactEstimate `json:"impact"`
	Confidence      float64        `json:"confidence"`
}

// ScenarioAdvice asks for optimization recommendations given a scenario's
// configuration and its computed metrics.
func (a *Advisor) ScenarioAdvice(ctx context.Context, scenarioName string, scenarioConfig any, metrics domain.Metrics) (Advice, Usage, error) {
	configJSON, err := json.MarshalIndent(scenarioConfig, "", "  ")
	if err != nil {
		return Advice{}, Usage{}, fmt.Errorf("marshaling scenario config: %w", err)
	}

	userPrompt := fmt.Sprintf(`Analyze this ICU workflow scenario and provide optimization recommendations.
Format your response as a JSON object with the following structure:
{
    "recommendations": ["A clear, actionable recommendation in natural language", ...],
    "impact": {
        "efficiency": numeric_value_between_0_and_100,
        "cognitive_load": numeric_value_between_0_and_100,
        "burnout_risk": numeric_value_between_0_and_100
    },
    "confidence": numeric_value_between_0_and_1
}

Scenario: %s

Current Metrics:
- Efficiency: %.3f
- Cognitive Load: %.1f
- Burnout Risk: %.3f

Scenario Configuration:
%s`, scenarioName, metrics.Efficiency, metrics.CognitiveLoad, metrics.BurnoutRisk, string(configJSON))

	return a.call(ctx, userPrompt)
}

// InterventionImpact asks for an impact analysis of a proposed intervention
// set.
func (a *Advisor) InterventionImpact(ctx context.Context, interventions any) (Advice, Usage, error) {
	configJSON, err := json.MarshalIndent(interventions, "", "  ")
	if err != nil {
		return Advice{}, Usage{}, fmt.Errorf("marshaling interventions: %w", err)
	}

	userPrompt := fmt.Sprintf(`Analyze the potential impact of these ICU workflow interventions.
Format your response as a JSON object with the following structure:
{
    "recommendations": ["A clear description of expected impacts in natural language", ...],
    "impact": {
        "efficiency": numeric_value_between_0_and_100,
        "cognitive_load": numeric_value_between_0_and_100,
        "burnout_risk": numeric_value_between_0_and_100
    },
    "confidence": numeric_value_between_0_and_1
}

Intervention Configuration:
%s`, string(configJSON))

	return a.call(ctx, userPrompt)
}

func (a *Advisor) call(ctx context.Context, userPrompt string) (Advice, Usage, error) {
	var responseText string
	var usage Usage
	var err error

	switch a.Provider {
	case "openai":
		model := a.Model
		if model == "" {
			model = defaultOpenAIModel
		}
		log.Printf("llm advice provider=openai model=%s", model)
		responseText, usage, err = callOpenAI(ctx, a.OpenAIAPIKey, model, systemContext, userPrompt)
	default:
		model := a.Model
		if model == "" {
			model = defaultAnthropicModel
		}
		log.Printf("llm advice provider=anthropic model=%s", model)
		responseText, usage, err = callAnthropic(ctx, a.AnthropicAPIKey, model, systemContext, userPrompt)
	}
	if err != nil {
		return Advice{}, usage, err
	}

	advice, err := ParseAdviceResponse(responseText)
	return advice, usage, err
}

// ParseAdviceResponse parses the model's JSON, tolerating markdown fences,
// and normalizes the 0-100 impact scale to [0,1].
func ParseAdviceResponse(responseText string) (Advice, error) {
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	var raw adviceResponse
	if err := json.Unmarshal([]byte(responseText), &raw); err != nil {
		return Advice{}, fmt.Errorf("parsing LLM advice response: %w (response: %s)", err, responseText)
	}

	return Advice{
		Recommendations: raw.Recommendations,
		Impact: ImpactEstimate{
			Efficiency:    raw.Impact.Efficiency / 100,
			CognitiveLoad: raw.Impact.CognitiveLoad / 100,
			BurnoutRisk:   raw.Impact.BurnoutRisk / 100,
		},
		Confidence: raw.Confidence,
	}, nil
}

// --- Anthropic ---

func callAnthropic(ctx context.Context, apiKey, model, systemPrompt, userPrompt string) (string, Usage, error) {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		log.Printf("llm anthropic error: %v", err)
		return "", Usage{}, fmt.Errorf("Anthropic API error: %w", err)
	}
	usage := Usage{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("llm anthropic response size=%d tokens_in=%d tokens_out=%d", len(block.Text), usage.InputTokens, usage.OutputTokens)
			return block.Text, usage, nil
		}
	}
	return "", usage, fmt.Errorf("no text content in Anthropic response")
}

// --- OpenAI ---

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func callOpenAI(ctx context.Context, apiKey, model, systemPrompt, userPrompt string) (string, Usage, error) {
	reqBody := openAIRequest{
		Model: model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", Usage{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", Usage{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("llm openai error: %v", err)
		return "", Usage{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Usage{}, fmt.Errorf("reading response: %w", err)
	}

	var openAIResp openAIResponse
	if err := json.Unmarshal(respBody, &openAIResp); err != nil {
		return "", Usage{}, fmt.Errorf("parsing OpenAI response: %w", err)
	}

	if openAIResp.Error != nil {
		log.Printf("llm openai api error: %s", openAIResp.Error.Message)
		return "", Usage{}, fmt.Errorf("OpenAI API error: %s", openAIResp.Error.Message)
	}

	if len(openAIResp.Choices) == 0 {
		return "", Usage{}, fmt.Errorf("no choices in OpenAI response")
	}
	usage := Usage{}
	if openAIResp.Usage != nil {
		usage.InputTokens = openAIResp.Usage.PromptTokens
		usage.OutputTokens = openAIResp.Usage.CompletionTokens
	}

	log.Printf("llm openai response size=%d tokens_in=%d tokens_out=%d", len(openAIResp.Choices[0].Message.Content), usage.InputTokens, usage.OutputTokens)
	return openAIResp.Choices[0].Message.Content, usage, nil
}
