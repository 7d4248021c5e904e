package service

import (
	"prochatbot/model"
	"prochatbot/platform"
)

// tutorDirective is the fixed instruction prefix defining tutor behaviour.
// It is synthesized at inference time and never persisted with the
// conversation.
const tutorDirective = "You are a helpful tutor for vocational students. " +
	"ALWAYS reply in the SAME language the student uses - if they write in Dutch, reply in Dutch; " +
	"if they write in English, reply in English; if they write in another language, reply in that language. " +
	"Keep answers short and simple. Use short sentences and simple words. " +
	"When explaining something, use numbered steps. " +
	"If a question is unclear, kindly ask what the student means. " +
	"At the end, give one short follow-up question suggestion."

// BuildPrompt assembles the ordered prompt for the model service: the system
// directive followed by every stored turn in conversation order. No
// truncation or windowing is applied.
func BuildPrompt(conv *model.Conversation) []platform.Message {
	messages := make([]platform.Message, 0, len(conv.Messages)+1)
	messages = append(messages, platform.Message{Role: "system", Content: tutorDirective})
	for _, msg := range conv.Messages {
		messages = append(messages, platform.Message{Role: msg.Role, Content: msg.Content})
	}
	return messages
}
