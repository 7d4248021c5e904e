package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConversationStore persists and retrieves tutoring conversations.
type ConversationStore interface {
	// Create allocates a new empty conversation for the owner and returns its id.
	Create(ctx context.Context, ownerID uint) (string, error)
	// Get returns the full conversation or ErrConversationNotFound.
	Get(ctx context.Context, id string) (*Conversation, error)
	// AppendMessage atomically extends the message sequence of one conversation.
	AppendMessage(ctx context.Context, id string, msg ChatMessage) error
	// ListByOwner returns the owner's conversations, most recently created first.
	ListByOwner(ctx context.Context, ownerID uint) ([]Conversation, error)
	// SetTitle replaces the title and bumps updated_at.
	SetTitle(ctx context.Context, id string, title string) error
	// Delete removes the conversation and reports how many were deleted (0 or 1).
	Delete(ctx context.Context, id string) (int64, error)
}

// NewConversationStore returns a mongo-backed store when a database handle is
// given, otherwise an in-memory store for local/dev use.
func NewConversationStore(db *mongo.Database) ConversationStore {
	if db == nil {
		return NewMemoryConversationStore()
	}
	return NewMongoConversationStore(db)
}

// MongoConversationStore keeps conversations as single documents in the
// `conversations` collection; appends are `$push` updates, so each append is
// atomic relative to other appends on the same document.
type MongoConversationStore struct {
	coll *mongo.Collection
}

func NewMongoConversationStore(db *mongo.Database) *MongoConversationStore {
	return &MongoConversationStore{coll: db.Collection("conversations")}
}

type conversationDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   uint               `bson:"user_id"`
	Title     string             `bson:"title,omitempty"`
	Messages  []ChatMessage      `bson:"messages"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty"`
}

func (d *conversationDoc) toConversation() Conversation {
	return Conversation{
		ID:        d.ID.Hex(),
		OwnerID:   d.OwnerID,
		Title:     d.Title,
		Messages:  d.Messages,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (s *MongoConversationStore) Create(ctx context.Context, ownerID uint) (string, error) {
	doc := conversationDoc{
		OwnerID:   ownerID,
		Messages:  []ChatMessage{},
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert conversation: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *MongoConversationStore) Get(ctx context.Context, id string) (*Conversation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrConversationNotFound
	}

	var doc conversationDoc
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}

	conv := doc.toConversation()
	return &conv, nil
}

func (s *MongoConversationStore) AppendMessage(ctx context.Context, id string, msg ChatMessage) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrConversationNotFound
	}

	res, err := s.coll.UpdateByID(ctx, oid, bson.M{"$push": bson.M{"messages": msg}})
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (s *MongoConversationStore) ListByOwner(ctx context.Context, ownerID uint) ([]Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []conversationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}

	conversations := make([]Conversation, 0, len(docs))
	for i := range docs {
		conversations = append(conversations, docs[i].toConversation())
	}
	return conversations, nil
}

func (s *MongoConversationStore) SetTitle(ctx context.Context, id string, title string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrConversationNotFound
	}

	res, err := s.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"title":      title,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("set title: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (s *MongoConversationStore) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete conversation: %w", err)
	}
	return res.DeletedCount, nil
}
