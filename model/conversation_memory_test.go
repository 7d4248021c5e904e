package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemoryConversationStore()
	ctx := context.Background()

	id, err := store.Create(ctx, 1)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id == "" {
		t.Fatal("Create() returned empty id")
	}

	conv, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if conv.OwnerID != 1 {
		t.Fatalf("conv.OwnerID = %d, want 1", conv.OwnerID)
	}
	if len(conv.Messages) != 0 {
		t.Fatalf("new conversation has %d messages, want 0", len(conv.Messages))
	}
	if conv.CreatedAt.IsZero() {
		t.Fatal("conv.CreatedAt not set")
	}
}

func TestMemoryStoreGetUnknownID(t *testing.T) {
	store := NewMemoryConversationStore()
	if _, err := store.Get(context.Background(), "no-such-id"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("Get() error = %v, want ErrConversationNotFound", err)
	}
}

func TestMemoryStoreAppendPreservesOrder(t *testing.T) {
	store := NewMemoryConversationStore()
	ctx := context.Background()
	id, _ := store.Create(ctx, 1)

	for i := 0; i < 5; i++ {
		msg := ChatMessage{Role: MessageRoleUser, Content: fmt.Sprintf("msg-%d", i), Timestamp: time.Now()}
		if err := store.AppendMessage(ctx, id, msg); err != nil {
			t.Fatalf("AppendMessage() error = %v", err)
		}
	}

	conv, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	for i, msg := range conv.Messages {
		if want := fmt.Sprintf("msg-%d", i); msg.Content != want {
			t.Fatalf("messages[%d].Content = %q, want %q", i, msg.Content, want)
		}
	}
}

func TestMemoryStoreAppendUnknownID(t *testing.T) {
	store := NewMemoryConversationStore()
	err := store.AppendMessage(context.Background(), "gone", ChatMessage{Role: MessageRoleUser, Content: "x"})
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("AppendMessage() error = %v, want ErrConversationNotFound", err)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryConversationStore()
	ctx := context.Background()
	id, _ := store.Create(ctx, 1)
	_ = store.AppendMessage(ctx, id, ChatMessage{Role: MessageRoleUser, Content: "original"})

	conv, _ := store.Get(ctx, id)
	conv.Messages[0].Content = "mutated"
	conv.Title = "mutated"

	again, _ := store.Get(ctx, id)
	if again.Messages[0].Content != "original" || again.Title != "" {
		t.Fatal("Get() exposed internal state to mutation")
	}
}

func TestMemoryStoreListByOwnerNewestFirst(t *testing.T) {
	store := NewMemoryConversationStore()
	ctx := context.Background()

	first, _ := store.Create(ctx, 1)
	_, _ = store.Create(ctx, 2)
	second, _ := store.Create(ctx, 1)

	conversations, err := store.ListByOwner(ctx, 1)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("ListByOwner() returned %d conversations, want 2", len(conversations))
	}
	if conversations[0].ID != second || conversations[1].ID != first {
		t.Fatal("ListByOwner() not ordered newest first")
	}
}

func TestMemoryStoreSetTitle(t *testing.T) {
	store := NewMemoryConversationStore()
	ctx := context.Background()
	id, _ := store.Create(ctx, 1)

	if err := store.SetTitle(ctx, id, "Nieuwe titel"); err != nil {
		t.Fatalf("SetTitle() error = %v", err)
	}
	conv, _ := store.Get(ctx, id)
	if conv.Title != "Nieuwe titel" {
		t.Fatalf("conv.Title = %q, want %q", conv.Title, "Nieuwe titel")
	}
	if conv.UpdatedAt.IsZero() {
		t.Fatal("SetTitle() did not bump UpdatedAt")
	}

	if err := store.SetTitle(ctx, "gone", "x"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("SetTitle() error = %v, want ErrConversationNotFound", err)
	}
}

func TestMemoryStoreDeleteTwice(t *testing.T) {
	store := NewMemoryConversationStore()
	ctx := context.Background()
	id, _ := store.Create(ctx, 1)

	deleted, err := store.Delete(ctx, id)
	if err != nil || deleted != 1 {
		t.Fatalf("first Delete() = (%d, %v), want (1, nil)", deleted, err)
	}

	deleted, err = store.Delete(ctx, id)
	if err != nil || deleted != 0 {
		t.Fatalf("second Delete() = (%d, %v), want (0, nil)", deleted, err)
	}
}

func TestMemoryStoreConcurrentAppends(t *testing.T) {
	store := NewMemoryConversationStore()
	ctx := context.Background()
	id, _ := store.Create(ctx, 1)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			msg := ChatMessage{Role: MessageRoleUser, Content: fmt.Sprintf("c-%d", n), Timestamp: time.Now()}
			if err := store.AppendMessage(ctx, id, msg); err != nil {
				t.Errorf("AppendMessage() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	conv, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(conv.Messages) != workers {
		t.Fatalf("got %d messages after %d concurrent appends", len(conv.Messages), workers)
	}

	seen := make(map[string]bool, workers)
	for _, msg := range conv.Messages {
		if seen[msg.Content] {
			t.Fatalf("message %q appended more than once", msg.Content)
		}
		seen[msg.Content] = true
	}
}
