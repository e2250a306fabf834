package quiz

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const quizSystemPrompt = `You are a professional Machine Learning instructor writing exam questions. Base every question strictly on the lesson content you are given.`

func buildQuizUserMessage(contentText string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Based on the following Machine Learning lesson content, create %d high-quality multiple-choice questions.\n\n", QuestionCount))

	b.WriteString("Content:\n")
	b.WriteString(truncateContent(contentText))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf(`Requirements:
- Create %d questions DIFFERENT from any previous quiz on this content
- Each question has %d options (A, B, C, D)
- Questions must relate directly to the content
- Order questions from easy to hard
- Explain in detail why the correct answer is right and the others are wrong

Return JSON only, with a "questions" array of {question, options, correctAnswer, explanation} objects. Do not wrap the JSON in markdown.`, QuestionCount, OptionCount))

	return b.String()
}

// truncateContent bounds the lesson text fed into the prompt, cutting
// on a rune boundary so the prefix stays valid UTF-8.
func truncateContent(text string) string {
	if len(text) <= contentPrefixLimit {
		return text
	}
	cut := contentPrefixLimit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
