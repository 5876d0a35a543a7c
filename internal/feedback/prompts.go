package feedback

import "fmt"

const ratingSystemPrompt = `You output only valid JSON.`

const ratingPromptTemplate = `
You are a strict JSON generator.

TASK:
Classify the customer review into a star rating from 1 to 5.

Star scale:
1 = Very negative
2 = Mostly negative
3 = Neutral or mixed
4 = Mostly positive with minor issues
5 = Extremely positive with no issues

RULES:
- Return ONLY valid JSON
- Do NOT include any text outside JSON
- Do NOT add markdown
- Explanation must be ONE short sentence

OUTPUT FORMAT (exact):
{"predicted_stars": 4, "explanation": "Short justification"}

Review:
"""%s"""
`

func buildRatingPrompt(reviewText string) string {
	return fmt.Sprintf(ratingPromptTemplate, reviewText)
}

const replySystemPrompt = `You are a warm, empathetic customer service representative who writes natural, personalized responses.`

func buildReplyPrompt(rating int, reviewText string) string {
	var toneGuidance string
	switch {
	case rating <= 2:
		toneGuidance = "Express sincere concern, acknowledge the issues they mentioned, and offer to make it right."
	case rating >= 4:
		toneGuidance = "Thank them warmly, mention what they liked, and invite them back."
	default:
		toneGuidance = "Acknowledge their balanced feedback and show you value their input."
	}

	return fmt.Sprintf(`
You are a warm and professional customer service representative responding to a customer review.

Customer gave us %d out of 5 stars.
Their review: "%s"

Write a personalized, natural response (2-3 sentences) that:
- Specifically mentions something from their review (food quality, service, atmosphere, etc.)
- Shows genuine appreciation
- %s

Make it sound natural and human, not robotic. Reference specific details from their review.

Write ONLY the response, nothing else.
`, rating, reviewText, toneGuidance)
}

const summarySystemPrompt = `You are an expert at creating natural, concise summaries that capture the essence of customer feedback.`

func buildSummaryPrompt(reviewText string) string {
	return fmt.Sprintf(`
Read this customer review and create a natural, concise one-sentence summary (15-25 words) that captures the main points.

Review: "%s"

Focus on: what they liked/disliked, key issues mentioned, overall sentiment.
Make it sound natural, not robotic.

Write ONLY the summary sentence, nothing else.
`, reviewText)
}

const actionsSystemPrompt = `You are an expert business consultant who provides specific, actionable recommendations based on customer feedback.`

func buildActionsPrompt(rating int, reviewText string) string {
	var bandGuidance string
	switch {
	case rating <= 2:
		bandGuidance = "Suggest concrete steps to address the specific issues mentioned."
	case rating >= 4:
		bandGuidance = "Suggest ways to maintain excellence and enhance what they loved."
	default:
		bandGuidance = `Suggest improvements to move from "okay" to "great".`
	}

	return fmt.Sprintf(`
Analyze this customer review and suggest 2-3 specific, actionable steps the business should take.

Customer Rating: %d/5 stars
Review: "%s"

Based on what the customer mentioned: %s

Format as a bulleted list (each action on a new line, start with "-").
Be specific - reference what they mentioned (service speed, food quality, wait times, etc.).
Make actions practical and implementable.

Write ONLY the bulleted list, nothing else.
`, rating, reviewText, bandGuidance)
}
