package llm

import (
	"fmt"
	"strings"
)

const documentTemplate = `You are a helpful AI assistant. A user has uploaded a document and asked a question about it.

Document Content:
%s

User Question: %s

Please provide a clear, concise response that:
- Directly answers the user's question
- Is well-structured but brief (under 300 words)
- Uses simple formatting (avoid excessive headers or bullet points)
- Is conversational and easy to understand
- References specific parts of the document when relevant`

const questionTemplate = `You are a helpful AI assistant. Please provide a clear, concise response to this question:

%s

Keep your response:
- Direct and helpful
- Under 200 words unless detailed explanation is needed
- Conversational and friendly
- Easy to understand`

// BuildInstruction wraps the user's prompt, and the attached document if any,
// into the single instruction sent upstream.
func BuildInstruction(prompt, document string) string {
	if strings.TrimSpace(document) != "" {
		return fmt.Sprintf(documentTemplate, document, prompt)
	}
	return fmt.Sprintf(questionTemplate, prompt)
}
