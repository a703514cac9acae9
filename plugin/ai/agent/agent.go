package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aparatus/aparatus/plugin/ai"
	"github.com/aparatus/aparatus/internal/observability"
)

// Event types emitted through the callback.
const (
	EventToken      = "token"
	EventToolUse    = "tool_call"
	EventToolResult = "tool_result"
	EventAnswer     = "answer"
)

// EventCallback receives loop events as they happen. Returning an error
// aborts the run; in-flight tool executions still complete.
type EventCallback func(eventType string, data string) error

// Config holds configuration for creating an Agent.
type Config struct {
	// Name identifies this agent in logs.
	Name string

	// SystemPrompt is the system prompt for the model.
	SystemPrompt string

	// StepBudget caps the number of reasoning steps (model calls) per run.
	StepBudget int

	// ToolTimeout bounds each tool execution.
	ToolTimeout time.Duration
}

// Agent drives the tool-calling loop: the model reasons, requests tool
// executions, receives their results, and repeats until it produces a
// plain text answer or the step budget runs out.
type Agent struct {
	llm     ai.LLMService
	config  Config
	tools   []Tool
	toolMap map[string]Tool
}

// NewAgent creates an Agent with the given configuration and tools.
func NewAgent(llm ai.LLMService, config Config, tools []Tool) *Agent {
	if config.StepBudget <= 0 {
		config.StepBudget = 10
	}
	if config.ToolTimeout <= 0 {
		config.ToolTimeout = 15 * time.Second
	}

	toolMap := make(map[string]Tool, len(tools))
	for _, tool := range tools {
		toolMap[tool.Name()] = tool
	}

	return &Agent{
		llm:     llm,
		config:  config,
		tools:   tools,
		toolMap: toolMap,
	}
}

// Run executes the loop over the given conversation history and returns the
// final answer.
func (a *Agent) Run(ctx context.Context, history []ai.Message) (string, error) {
	return a.RunWithCallback(ctx, history, nil)
}

// RunWithCallback executes the loop with streaming event support.
//
// Tool calls requested in the same reasoning step run concurrently; their
// results are appended to the conversation in invocation order so a replay
// of the log is deterministic. Tool executions are detached from the
// request's cancellation: a client disconnect never cancels an in-flight
// write mid-booking.
func (a *Agent) RunWithCallback(ctx context.Context, history []ai.Message, callback EventCallback) (string, error) {
	messages := make([]ai.Message, 0, len(history)+1)
	messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: a.config.SystemPrompt})
	messages = append(messages, history...)

	onToken := func(token string) error {
		if callback == nil {
			return nil
		}
		return callback(EventToken, token)
	}

	for step := 0; step < a.config.StepBudget; step++ {
		resp, err := a.llm.ChatStreamWithTools(ctx, messages, a.toolDescriptors(), onToken)
		if err != nil {
			return "", fmt.Errorf("model call failed (step %d): %w", step+1, err)
		}

		if len(resp.ToolCalls) == 0 {
			// No tool calls means a final answer.
			if err := a.emit(callback, EventAnswer, resp.Content); err != nil {
				return "", err
			}
			a.logStep(ctx, step, "final answer", len(resp.Content))
			return resp.Content, nil
		}

		messages = append(messages, ai.Message{
			Role:      ai.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, call := range resp.ToolCalls {
			payload, _ := json.Marshal(map[string]string{"name": call.Name, "arguments": call.Arguments})
			if err := a.emit(callback, EventToolUse, string(payload)); err != nil {
				return "", err
			}
		}

		// Execute sibling tool calls concurrently, detached from the
		// request's cancellation, collecting results by invocation index.
		results := make([]string, len(resp.ToolCalls))
		execCtx := context.WithoutCancel(ctx)
		var group errgroup.Group
		for i, call := range resp.ToolCalls {
			group.Go(func() error {
				results[i] = a.runTool(execCtx, call)
				return nil
			})
		}
		_ = group.Wait()

		for i, call := range resp.ToolCalls {
			payload, _ := json.Marshal(map[string]string{"name": call.Name, "result": results[i]})
			if err := a.emit(callback, EventToolResult, string(payload)); err != nil {
				return "", err
			}
			messages = append(messages, ai.Message{
				Role:       ai.RoleTool,
				Content:    results[i],
				ToolCallID: call.ID,
				Name:       call.Name,
			})
		}
	}

	// Budget exhausted: surface a terminal apology instead of an error so
	// the conversation always ends with a user-facing message.
	if reqCtx, ok := observability.FromContext(ctx); ok {
		reqCtx.Warn("step budget exhausted",
			slog.Int(observability.LogFieldStep, a.config.StepBudget))
	}
	if err := a.emit(callback, EventAnswer, budgetExhaustedReply); err != nil {
		return "", err
	}
	return budgetExhaustedReply, nil
}

// runTool executes a single tool call and always returns a JSON document.
func (a *Agent) runTool(ctx context.Context, call ai.ToolCall) string {
	tool, ok := a.toolMap[call.Name]
	if !ok {
		return errorJSON(fmt.Sprintf("ferramenta desconhecida: %s", call.Name))
	}

	toolCtx, cancel := context.WithTimeout(ctx, a.config.ToolTimeout)
	defer cancel()

	start := time.Now()
	output, err := tool.Run(toolCtx, call.Arguments)
	if err != nil {
		if reqCtx, ok := observability.FromContext(ctx); ok {
			reqCtx.Warn("tool execution failed",
				slog.String(observability.LogFieldTool, call.Name),
				slog.String("error", err.Error()),
				slog.Int64(observability.LogFieldDuration, time.Since(start).Milliseconds()))
		}
		if toolCtx.Err() == context.DeadlineExceeded {
			return errorJSON("a operação demorou demais, tente novamente")
		}
		return errorJSON("erro ao executar a operação, tente novamente")
	}

	if reqCtx, ok := observability.FromContext(ctx); ok {
		reqCtx.Debug("tool executed",
			slog.String(observability.LogFieldTool, call.Name),
			slog.Int64(observability.LogFieldDuration, time.Since(start).Milliseconds()))
	}
	return output
}

func (a *Agent) toolDescriptors() []ai.ToolDescriptor {
	descriptors := make([]ai.ToolDescriptor, len(a.tools))
	for i, tool := range a.tools {
		descriptors[i] = ai.ToolDescriptor{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		}
	}
	return descriptors
}

func (a *Agent) emit(callback EventCallback, eventType, data string) error {
	if callback == nil {
		return nil
	}
	return callback(eventType, data)
}

func (a *Agent) logStep(ctx context.Context, step int, msg string, messageLen int) {
	if reqCtx, ok := observability.FromContext(ctx); ok {
		reqCtx.Info(msg,
			slog.Int(observability.LogFieldStep, step+1),
			slog.Int(observability.LogFieldMessageLen, messageLen))
	}
}

// errorJSON encodes a message as the structured error document tools use.
func errorJSON(message string) string {
	payload, _ := json.Marshal(map[string]string{"error": message})
	return string(payload)
}
