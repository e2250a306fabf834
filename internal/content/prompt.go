package content

import (
	"strings"
)

const lessonSystemPrompt = `You are a professional Machine Learning instructor. Create detailed, easy-to-follow study material for students.`

func buildLessonUserMessage(topicPrompt string) string {
	var b strings.Builder

	b.WriteString(topicPrompt)
	b.WriteString("\n\n")
	b.WriteString(`Format requirements:
- Use Markdown to format the content
- Use headings (##, ###) to divide sections clearly
- Use bullet points and numbered lists where helpful
- Include code examples with syntax highlighting (python)
- Include comparison tables where appropriate
- Explain any mathematical formulas that appear
- The content must be detailed and complete, at least 1000 words`)

	return b.String()
}
