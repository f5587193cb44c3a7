package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/relayhq/relay-ai/internal/models"
)

// Prompt construction for every feature. Each builder embeds the caller data
// verbatim and states the exact output contract, including a directive to
// emit only the structured payload and no surrounding prose.

func taskPrompt(taskDescription string) string {
	return fmt.Sprintf(`Parse the following task description and extract these components:
- Task Name
- Assignee (if mentioned)
- Due Date and Time (if mentioned)
- Priority (default to P3 if not specified)

Task description: "%s"

Format your response EXACTLY as a JSON object with these keys:
{
  "taskName": "<extracted task name>",
  "assignee": "<assignee name or null>",
  "dueDate": "<ISO date string or null>",
  "priority": "<P1|P2|P3|P4>"
}

Do not include any other text, only the JSON object.`, taskDescription)
}

func transcriptPrompt(transcript string) string {
	return fmt.Sprintf(`Extract tasks from the following meeting transcript. For each task, identify:
- Task Description
- Assignee
- Deadline
- Priority (default to P3)

Meeting Transcript: "%s"

Format your response as a JSON array of task objects with these keys:
[
  {
    "taskName": "<task description>",
    "assignee": "<assignee name>",
    "dueDate": "<ISO date string or null>",
    "priority": "<P1|P2|P3|P4>"
  }
]

Rules:
1. Extract every task mentioned in the transcript
2. For each task, the deadline should be a proper ISO date string
3. Default to P3 priority unless urgency is clearly indicated
4. If the transcript contains no tasks, return an empty JSON array

Do not include any other text, only the JSON array.`, transcript)
}

func tonePrompt(messageContent string) string {
	return fmt.Sprintf(`Analyze the tone, sentiment, and impact of the following message in a professional chat context:

MESSAGE: "%s"

Provide your analysis in the following JSON format with no additional text:
{
  "sentiment": "positive" | "negative" | "neutral",
  "impact": "high" | "medium" | "low",
  "category": "assertive" | "aggressive" | "weak" | "confusing" | "clear" | "friendly" | "professional" | "casual",
  "score": <number between 0-100 indicating overall effectiveness>,
  "feedback": "brief 1-2 sentence explanation of the tone analysis"
}

Guidelines for analysis:
- sentiment: Is the overall emotional tone positive, negative, or neutral?
- impact: How impactful is this message likely to be? High impact messages are clear, actionable, and engaging.
- category: What is the predominant tone category?
- score: Higher scores (70-100) for clear, professional, appropriate messages. Lower scores (0-30) for confusing, inappropriate, or potentially offensive messages.
- feedback: Provide constructive feedback about the tone.

Do not include any other text, only the JSON object.`, messageContent)
}

// relevantExcerpts builds the prioritization hint embedded early in the
// org-brain prompt. The query is tokenized on whitespace, tokens longer than
// three characters are kept, and a message qualifies if its content contains
// any token as a case-insensitive substring or it is pinned. Messages failing
// the filter still appear in the complete context payload further down.
func relevantExcerpts(query string, brain models.OrgBrainContext) []string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if len(word) > 3 {
			keywords = append(keywords, word)
		}
	}

	var lines []string
	for _, channel := range brain.Channels {
		if len(channel.Messages) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("Channel: #%s", channel.Name))

		for _, msg := range channel.Messages {
			relevant := msg.IsPinned
			content := strings.ToLower(msg.Content)
			for _, keyword := range keywords {
				if strings.Contains(content, keyword) {
					relevant = true
					break
				}
			}
			if relevant {
				lines = append(lines, fmt.Sprintf("  - %s: %s", msg.SenderName(), msg.Content))
			}
		}
	}

	if len(brain.PinnedDocs) > 0 {
		lines = append(lines, "Pinned Documents:")
		for _, doc := range brain.PinnedDocs {
			lines = append(lines, fmt.Sprintf("  - %s (in #%s): %s", doc.Title, doc.ChannelName, doc.Content))
		}
	}

	return lines
}

func orgBrainPrompt(query string, brain models.OrgBrainContext) string {
	excerpts := relevantExcerpts(query, brain)

	dataIntro := "Here is the relevant data from the workspace:"
	if brain.Synthetic {
		dataIntro = "The workspace has no real data yet, so the following is ILLUSTRATIVE SAMPLE DATA provided to demonstrate your capabilities. Make clear in your answer that it is sample data:"
	}

	excerptBlock := "No specific data matched the query."
	if len(excerpts) > 0 {
		excerptBlock = strings.Join(excerpts, "\n")
	}

	contextJSON, _ := json.Marshal(struct {
		Channels        []models.ChannelContext `json:"channels"`
		PinnedDocuments []models.PinnedDocument `json:"pinnedDocuments"`
	}{brain.Channels, brain.PinnedDocs})

	return fmt.Sprintf(`You are the Org Brain AI assistant for a workplace messaging platform.
You have access to messages from public channels and pinned documents.

Your task is to answer questions about the organization, ongoing projects, and workplace information by analyzing the provided data.

%s

%s

Complete context: %s

User query: "%s"

Instructions:
1. Provide a detailed answer to the query using ONLY the information from the provided context
2. Include specific facts, dates, and quotes from the messages when available
3. If multiple people have discussed the topic, synthesize their perspectives
4. Format your response with clear headings, bullet points, and markdown for readability
5. If the data doesn't contain enough information to fully answer the query, clearly state what is known and what is uncertain
6. Keep your response concise but comprehensive

Your response should sound natural and helpful, as if you're a knowledgeable team member with access to all workspace conversations.`,
		dataIntro, excerptBlock, contextJSON, query)
}

// formatTranscript renders messages as "sender: content" lines.
func formatTranscript(messages []models.ThreadMessage) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.SenderName(), msg.Content))
	}
	return strings.Join(lines, "\n")
}

func meetingNotesPrompt(messages []models.ThreadMessage, date string) string {
	return fmt.Sprintf(`Generate comprehensive meeting notes from the following conversation transcript.

CONVERSATION TRANSCRIPT:
%s

Generate structured meeting notes in the following JSON format with no additional text:
{
  "title": "Meeting Notes: [generate an appropriate title based on the content]",
  "date": "%s",
  "participants": [array of unique participant names from the transcript],
  "summary": "A concise 2-3 paragraph summary of the key points discussed",
  "topics": [
    {
      "topic": "Name of topic discussed",
      "keyPoints": ["Array of 1-3 key points discussed under this topic"]
    }
  ],
  "decisions": ["Array of decisions made during the meeting"],
  "actionItems": [
    {
      "task": "Description of task",
      "assignee": "Person responsible (if mentioned)",
      "dueDate": "Due date if mentioned, otherwise null"
    }
  ],
  "nextSteps": ["Array of next steps or follow-up items"]
}

Guidelines:
1. Extract meeting topics, key decisions, and action items
2. For each action item, identify the assignee if mentioned
3. Create a concise summary that captures the essence of the meeting
4. Include all participants who contributed to the conversation
5. Only include information directly from the transcript
6. Format everything in proper JSON

Do not include any other text, only the JSON object.`, formatTranscript(messages), date)
}

func replyPrompt(thread []models.ThreadMessage) string {
	return fmt.Sprintf(`You are an AI assistant in a professional messaging platform. You need to suggest a reply to the conversation thread below.

Thread Conversation:
%s

Instructions:
1. Analyze the conversation context and suggest an appropriate reply
2. Your reply should be helpful, professional, and directly address the most recent message
3. If there are any questions in the thread, prioritize answering those
4. Keep the tone consistent with the existing conversation
5. Format the reply as plain text that the user can edit if needed
6. Keep the reply concise but comprehensive - typically 1-3 sentences is ideal
7. If the conversation appears to be discussing sensitive or private information, provide a more generic response
8. Do not use generic placeholders like [X] or [Y] in your response

Your response should ONLY include the suggested reply text, nothing else.`, formatTranscript(thread))
}
