package feedback

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReplyAcceptsValidOutput(t *testing.T) {
	const reply = "Thank you so much for the kind words about our pasta, we hope to see you again soon!"
	client := newFakeAI(func(op string, call int) (string, error) {
		return reply, nil
	})
	svc, rec := newTestService(client, &fakeRepo{})

	got := svc.generateReply(context.Background(), Review{Rating: 5, Text: "Amazing pasta."})

	assert.Equal(t, reply, got)
	assert.Empty(t, rec.durations())

	params := client.lastParams(t, opReply)
	assert.Equal(t, float32(0.8), params.temperature)
	assert.Equal(t, 250, params.maxTokens)
}

func TestGenerateReplyRetriesShortOutput(t *testing.T) {
	client := newFakeAI(func(op string, call int) (string, error) {
		if call == 1 {
			return "Thanks!", nil
		}
		return "We are so sorry about the wait you described, and we would love a chance to make it right.", nil
	})
	svc, rec := newTestService(client, &fakeRepo{})

	got := svc.generateReply(context.Background(), Review{Rating: 1, Text: "Waited an hour."})

	assert.NotContains(t, got, "[")
	assert.Equal(t, 2, client.callCount(opReply))
	assert.Equal(t, []time.Duration{2 * time.Second}, rec.durations())
}

func TestGenerateSummaryThreshold(t *testing.T) {
	t.Run("exactly ten chars is rejected", func(t *testing.T) {
		client := newFakeAI(func(op string, call int) (string, error) {
			if call == 1 {
				return "ten chars.", nil // len 10, must exceed 10
			}
			return "Customer loved the food but found the service slow.", nil
		})
		svc, _ := newTestService(client, &fakeRepo{})

		got := svc.generateSummary(context.Background(), "review")

		assert.Equal(t, "Customer loved the food but found the service slow.", got)
		assert.Equal(t, 2, client.callCount(opSummary))
	})

	t.Run("eleven chars is accepted", func(t *testing.T) {
		client := newFakeAI(func(op string, call int) (string, error) {
			return "elevenchars", nil
		})
		svc, _ := newTestService(client, &fakeRepo{})

		got := svc.generateSummary(context.Background(), "review")

		assert.Equal(t, "elevenchars", got)
		assert.Equal(t, 1, client.callCount(opSummary))
	})
}

func TestGenerateActionsAcceptsAnyNonEmptyOutput(t *testing.T) {
	client := newFakeAI(func(op string, call int) (string, error) {
		if call == 1 {
			return "   \n  ", nil // whitespace only, rejected after trim
		}
		return "- Retrain staff", nil
	})
	svc, _ := newTestService(client, &fakeRepo{})

	got := svc.generateActions(context.Background(), Review{Rating: 2, Text: "Rude staff."})

	assert.Equal(t, "- Retrain staff", got)
	assert.Equal(t, 2, client.callCount(opActions))
}

func TestGeneratorFallbacksAfterExhaustion(t *testing.T) {
	client := newFakeAI(func(op string, call int) (string, error) {
		return "", errTransient
	})
	svc, _ := newTestService(client, &fakeRepo{})
	review := Review{Rating: 3, Text: "It was fine, nothing special."}

	reply := svc.generateReply(context.Background(), review)
	summary := svc.generateSummary(context.Background(), review.Text)
	actions := svc.generateActions(context.Background(), review)

	// Every fallback is non-empty, visibly tagged, and distinct.
	for _, text := range []string{reply, summary, actions} {
		assert.NotEmpty(t, text)
		assert.True(t, strings.HasPrefix(text, "["), "fallback must be tagged: %q", text)
	}
	assert.Contains(t, reply, "Response Generation Failed")
	assert.Contains(t, summary, "Summary Generation Failed")
	assert.Contains(t, actions, "Actions Generation Failed")
	assert.NotEqual(t, reply, summary)
	assert.NotEqual(t, summary, actions)

	assert.Equal(t, 3, client.callCount(opReply))
	assert.Equal(t, 3, client.callCount(opSummary))
	assert.Equal(t, 3, client.callCount(opActions))
}

func TestGeneratorNotConfiguredFallbacksAreImmediate(t *testing.T) {
	client := newFakeAI(nil)
	client.configured = false
	svc, rec := newTestService(client, &fakeRepo{})
	review := Review{Rating: 4, Text: "Nice atmosphere."}

	reply := svc.generateReply(context.Background(), review)
	summary := svc.generateSummary(context.Background(), review.Text)
	actions := svc.generateActions(context.Background(), review)

	assert.Equal(t, "[API Key Not Configured] Thank you for your 4-star review. We appreciate your feedback.", reply)
	assert.True(t, strings.HasPrefix(summary, "[API Key Not Configured] Review about: "))
	assert.True(t, strings.HasPrefix(actions, "[API Key Not Configured]"))
	assert.NotEqual(t, reply, actions)

	// No backoff delay incurred.
	assert.Empty(t, rec.durations())
}

func TestGeneratorIdempotentWithDeterministicClient(t *testing.T) {
	client := newFakeAI(func(op string, call int) (string, error) {
		return "A consistent, deterministic reply that clears the length threshold.", nil
	})
	svc, _ := newTestService(client, &fakeRepo{})
	review := Review{Rating: 5, Text: "Loved it."}

	first := svc.generateReply(context.Background(), review)
	second := svc.generateReply(context.Background(), review)

	assert.Equal(t, first, second)
}

func TestReplyPromptToneBands(t *testing.T) {
	low := buildReplyPrompt(1, "bad")
	mid := buildReplyPrompt(3, "okay")
	high := buildReplyPrompt(5, "great")

	assert.Contains(t, low, "sincere concern")
	assert.Contains(t, mid, "balanced feedback")
	assert.Contains(t, high, "invite them back")
}

func TestActionsPromptBands(t *testing.T) {
	assert.Contains(t, buildActionsPrompt(1, "bad"), "address the specific issues")
	assert.Contains(t, buildActionsPrompt(3, "okay"), `"okay" to "great"`)
	assert.Contains(t, buildActionsPrompt(5, "great"), "maintain excellence")
}
