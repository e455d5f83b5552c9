package ai

import (
	"context"
	"fmt"

	"devdesk/internal/models"
)

const noDescription = "No description provided"

// ReproductionSteps drafts a numbered list of steps that reproduce a bug.
func (c *Client) ReproductionSteps(ctx context.Context, title, description string) (string, error) {
	prompt := fmt.Sprintf(`Given the following bug report:
Title: %s
Description: %s

Generate clear, step-by-step reproduction steps for this bug. Format the response as a numbered list. Be concise and specific.`,
		title, orDefault(description))

	steps, err := c.complete(ctx,
		"You are a helpful assistant that generates bug reproduction steps. Always format your response as a clear numbered list.",
		prompt, 500)
	if err != nil {
		return "", err
	}
	if steps == "" {
		steps = "Unable to generate steps."
	}
	return steps, nil
}

// Subtasks breaks a task into three to five actionable subtasks.
func (c *Client) Subtasks(ctx context.Context, title, description string) (string, error) {
	prompt := fmt.Sprintf(`Given the following task:
Title: %s
Description: %s

Break down this task into 3-5 specific, actionable subtasks. Format the response as a bulleted list. Each subtask should be clear and actionable.`,
		title, orDefault(description))

	subtasks, err := c.complete(ctx,
		"You are a helpful assistant that breaks down tasks into actionable subtasks. Always format your response as a clear bulleted list.",
		prompt, 500)
	if err != nil {
		return "", err
	}
	if subtasks == "" {
		subtasks = "Unable to generate subtasks."
	}
	return subtasks, nil
}

// Suggestion proposes what to focus on next given the board statistics.
func (c *Client) Suggestion(ctx context.Context, st models.ItemStats) (string, error) {
	prompt := fmt.Sprintf(`Based on these task/bug statistics:
- Total items: %d
- Tasks: %d, Bugs: %d
- Status: %d To Do, %d In Progress, %d Done
- High Priority items: %d
- Bugs in progress: %d
- High priority tasks: %d

Provide a brief, actionable suggestion (1-2 sentences) on what to focus on next.`,
		st.Total, st.Tasks, st.Bugs, st.Todo, st.InProgress, st.Done,
		st.HighPriority, st.BugsInProgress, st.HighPriorityTasks)

	return c.complete(ctx,
		"You are a helpful productivity assistant. Provide concise, actionable suggestions.",
		prompt, 150)
}

func orDefault(description string) string {
	if description == "" {
		return noDescription
	}
	return description
}
