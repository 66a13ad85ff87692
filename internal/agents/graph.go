package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/oak/sentiment-widget/internal/sentiment"
)

// SentimentReports maps each requested timeframe to its formatted report
type SentimentReports map[sentiment.Period]string

// BuildSentimentGraph wires the sentiment tool into a compose graph:
// plan_calls emits one tool call per timeframe, sentiment_tools runs them in
// parallel, collect_reports keys the tool messages back by timeframe.
// An empty input requests every timeframe.
func BuildSentimentGraph(ctx context.Context, t *SentimentTool) (compose.Runnable[[]sentiment.Period, SentimentReports], error) {
	graph := compose.NewGraph[[]sentiment.Period, SentimentReports]()

	planCalls := compose.InvokableLambda(func(ctx context.Context, periods []sentiment.Period) (*schema.Message, error) {
		if len(periods) == 0 {
			periods = sentiment.Periods
		}

		calls := make([]schema.ToolCall, 0, len(periods))
		for _, p := range periods {
			if !p.Valid() {
				return nil, fmt.Errorf("%w: %q", sentiment.ErrUnknownPeriod, p)
			}
			args, err := json.Marshal(map[string]string{"timeframe": string(p)})
			if err != nil {
				return nil, err
			}
			calls = append(calls, schema.ToolCall{
				ID:   string(p),
				Type: "function",
				Function: schema.FunctionCall{
					Name:      SentimentToolName,
					Arguments: string(args),
				},
			})
		}
		return schema.AssistantMessage("", calls), nil
	})

	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools: []tool.BaseTool{t},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tools node: %w", err)
	}

	collectReports := compose.InvokableLambda(func(ctx context.Context, msgs []*schema.Message) (SentimentReports, error) {
		reports := make(SentimentReports, len(msgs))
		for _, m := range msgs {
			reports[sentiment.Period(m.ToolCallID)] = m.Content
		}
		return reports, nil
	})

	if err := graph.AddLambdaNode("plan_calls", planCalls); err != nil {
		return nil, err
	}
	if err := graph.AddToolsNode("sentiment_tools", toolsNode); err != nil {
		return nil, err
	}
	if err := graph.AddLambdaNode("collect_reports", collectReports); err != nil {
		return nil, err
	}

	if err := graph.AddEdge(compose.START, "plan_calls"); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("plan_calls", "sentiment_tools"); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("sentiment_tools", "collect_reports"); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("collect_reports", compose.END); err != nil {
		return nil, err
	}

	return graph.Compile(ctx)
}
