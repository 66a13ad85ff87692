package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/oak/sentiment-widget/internal/dataflows"
	"github.com/oak/sentiment-widget/internal/sentiment"
	"github.com/oak/sentiment-widget/internal/widget"
)

// SentimentToolName is the function name agents call
const SentimentToolName = "get_market_sentiment"

// SentimentTool exposes the widget's sentiment data path to agent graphs
type SentimentTool struct {
	fetcher       widget.Fetcher
	defaultPeriod sentiment.Period
}

var _ tool.InvokableTool = (*SentimentTool)(nil)

// NewSentimentTool creates a new sentiment tool
func NewSentimentTool(fetcher widget.Fetcher, defaultPeriod sentiment.Period) *SentimentTool {
	return &SentimentTool{
		fetcher:       fetcher,
		defaultPeriod: defaultPeriod,
	}
}

// Info returns tool information
func (t *SentimentTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	periods := make([]string, len(sentiment.Periods))
	for i, p := range sentiment.Periods {
		periods[i] = string(p)
	}

	return &schema.ToolInfo{
		Name: SentimentToolName,
		Desc: "Get the market sentiment summary for a timeframe: score (0-100), classification, " +
			"tokens launched, tokens over $100k / $1M and profitable token share. " +
			"Falls back to simulated data when the live source is unavailable.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"timeframe": {
				Type:     schema.String,
				Desc:     "Observation window (" + strings.Join(periods, ", ") + ")",
				Enum:     periods,
				Required: false,
			},
		}),
	}, nil
}

// InvokableRun executes the tool
func (t *SentimentTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	var args struct {
		Timeframe string `json:"timeframe,omitempty"`
	}

	if strings.TrimSpace(argumentsInJSON) != "" {
		if err := json.Unmarshal([]byte(argumentsInJSON), &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
	}

	// Use default timeframe if not provided
	period := t.defaultPeriod
	if args.Timeframe != "" {
		p, err := sentiment.ParsePeriod(args.Timeframe)
		if err != nil {
			return "", err
		}
		period = p
	}

	outcome := t.fetcher.Fetch(ctx, period)
	return dataflows.FormatSentimentReport(outcome), nil
}
