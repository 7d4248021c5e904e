package model

import (
	"strings"
	"testing"
	"time"
)

func TestDerivedTitleShortMessage(t *testing.T) {
	conv := Conversation{Messages: []ChatMessage{
		{Role: MessageRoleUser, Content: "Hoe werkt fotosynthese?"},
	}}
	if got := conv.DerivedTitle(); got != "Hoe werkt fotosynthese?" {
		t.Fatalf("DerivedTitle() = %q, want message verbatim", got)
	}
}

func TestDerivedTitleTruncation(t *testing.T) {
	long := strings.Repeat("a", 80)
	conv := Conversation{Messages: []ChatMessage{
		{Role: MessageRoleUser, Content: long},
	}}

	got := conv.DerivedTitle()
	if want := strings.Repeat("a", 50) + "..."; got != want {
		t.Fatalf("DerivedTitle() = %q, want %q", got, want)
	}
}

func TestDerivedTitleExactlyFifty(t *testing.T) {
	exact := strings.Repeat("b", 50)
	conv := Conversation{Messages: []ChatMessage{
		{Role: MessageRoleUser, Content: exact},
	}}
	if got := conv.DerivedTitle(); got != exact {
		t.Fatalf("DerivedTitle() = %q, want no ellipsis at exactly 50", got)
	}
}

func TestDerivedTitleCountsRunes(t *testing.T) {
	long := strings.Repeat("é", 60)
	conv := Conversation{Messages: []ChatMessage{
		{Role: MessageRoleUser, Content: long},
	}}

	got := conv.DerivedTitle()
	if want := strings.Repeat("é", 50) + "..."; got != want {
		t.Fatalf("DerivedTitle() = %q, want rune-based truncation", got)
	}
}

func TestDerivedTitleSkipsAssistantTurns(t *testing.T) {
	conv := Conversation{Messages: []ChatMessage{
		{Role: MessageRoleAssistant, Content: "Welkom!"},
		{Role: MessageRoleUser, Content: "Wat is een breuk?"},
	}}
	if got := conv.DerivedTitle(); got != "Wat is een breuk?" {
		t.Fatalf("DerivedTitle() = %q, want first user message", got)
	}
}

func TestDerivedTitlePlaceholderWithoutUserTurn(t *testing.T) {
	conv := Conversation{}
	if got := conv.DerivedTitle(); got != DefaultConversationTitle {
		t.Fatalf("DerivedTitle() = %q, want %q", got, DefaultConversationTitle)
	}
}

func TestDerivedTitleKeepsExplicitTitle(t *testing.T) {
	conv := Conversation{
		Title: "Wiskunde vragen",
		Messages: []ChatMessage{
			{Role: MessageRoleUser, Content: "Iets heel anders"},
		},
	}
	if got := conv.DerivedTitle(); got != "Wiskunde vragen" {
		t.Fatalf("DerivedTitle() = %q, want the explicit title", got)
	}
}

func TestDerivedTitleIsIdempotent(t *testing.T) {
	conv := Conversation{Messages: []ChatMessage{
		{Role: MessageRoleUser, Content: strings.Repeat("x", 70)},
	}}
	first := conv.DerivedTitle()
	second := conv.DerivedTitle()
	if first != second {
		t.Fatalf("DerivedTitle() not deterministic: %q then %q", first, second)
	}
}

func TestSummaryUsesDerivedTitle(t *testing.T) {
	conv := Conversation{
		ID:        "abc",
		OwnerID:   7,
		CreatedAt: time.Now(),
		Messages: []ChatMessage{
			{Role: MessageRoleUser, Content: "Help met grammatica"},
			{Role: MessageRoleAssistant, Content: "Natuurlijk."},
		},
	}

	summary := conv.Summary()
	if summary.Title != "Help met grammatica" {
		t.Fatalf("Summary().Title = %q, want derived title", summary.Title)
	}
	if summary.MessageCount != 2 {
		t.Fatalf("Summary().MessageCount = %d, want 2", summary.MessageCount)
	}
	if summary.ID != "abc" || summary.OwnerID != 7 {
		t.Fatalf("Summary() lost identity fields: %+v", summary)
	}
}
