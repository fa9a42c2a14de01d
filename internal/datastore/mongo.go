package datastore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/tphakala/simple-notes/internal/conf"
	"github.com/tphakala/simple-notes/internal/errors"
	"github.com/tphakala/simple-notes/internal/logger"
	"github.com/tphakala/simple-notes/internal/notes"
)

// DefaultMongoDatabase is used when neither the settings nor the URI name one.
const DefaultMongoDatabase = "notesapp"

// noteDocument is the BSON shape of a note.
type noteDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func documentFromNote(n *notes.Note) (*noteDocument, error) {
	oid, err := primitive.ObjectIDFromHex(n.ID)
	if err != nil {
		return nil, err
	}
	return &noteDocument{
		ID:        oid,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}, nil
}

func (d *noteDocument) toNote() *notes.Note {
	return &notes.Note{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// mongoStore implements Interface on a MongoDB collection.
type mongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    opTimeout
}

// mongoDatabaseName picks the database: explicit setting, then the URI path,
// then DefaultMongoDatabase.
func mongoDatabaseName(uri, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", err
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	return DefaultMongoDatabase, nil
}

// OpenMongo connects, verifies the primary is reachable and ensures the
// list-order indexes exist. Any failure closes the client.
func OpenMongo(ctx context.Context, settings *conf.StoreSettings, log logger.Logger) (Interface, error) {
	dbName, err := mongoDatabaseName(settings.URI, settings.Database)
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Context("setting", "store.uri").
			Build()
	}

	opts := options.Client().
		ApplyURI(settings.URI).
		SetAppName("simple-notes")
	if settings.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(settings.MaxPoolSize)
	}
	if settings.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(settings.ServerSelectionTimeout)
	}
	if settings.SocketTimeout > 0 {
		opts.SetSocketTimeout(settings.SocketTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, dbError(err, "connect", "backend", conf.BackendMongo)
	}

	store := &mongoStore{
		client:     client,
		collection: client.Database(dbName).Collection(settings.Collection),
		timeout:    newOpTimeout(settings.Timeout),
	}

	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	if err := store.ensureIndexes(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	log.Info("connected to MongoDB",
		logger.String("database", dbName),
		logger.String("collection", settings.Collection))
	return store, nil
}

func (s *mongoStore) ensureIndexes(ctx context.Context) error {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "updatedAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, models); err != nil {
		return dbError(err, "create_indexes", "backend", conf.BackendMongo)
	}
	return nil
}

func (s *mongoStore) List(ctx context.Context) ([]notes.Note, error) {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, dbError(err, "list_notes", "backend", conf.BackendMongo)
	}

	var docs []noteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, dbError(err, "list_notes", "backend", conf.BackendMongo)
	}

	result := make([]notes.Note, 0, len(docs))
	for i := range docs {
		result = append(result, *docs[i].toNote())
	}
	return result, nil
}

func (s *mongoStore) Get(ctx context.Context, id string) (*notes.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound(id)
	}

	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	var doc noteDocument
	if err := s.collection.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound(id)
		}
		return nil, dbError(err, "get_note", "backend", conf.BackendMongo, "note_id", id)
	}
	return doc.toNote(), nil
}

func (s *mongoStore) Create(ctx context.Context, title, content string) (*notes.Note, error) {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	note := notes.New(title, content)
	doc, err := documentFromNote(note)
	if err != nil {
		return nil, dbError(err, "create_note", "backend", conf.BackendMongo)
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return nil, dbError(err, "create_note", "backend", conf.BackendMongo)
	}
	return note, nil
}

// Update replaces title and content in one round trip. $max keeps updatedAt
// from moving backwards when server clocks disagree.
func (s *mongoStore) Update(ctx context.Context, id, title, content string) (*notes.Note, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound(id)
	}

	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "title", Value: notes.NormalizeTitle(title)},
			{Key: "content", Value: content},
		}},
		{Key: "$max", Value: bson.D{{Key: "updatedAt", Value: notes.Now()}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc noteDocument
	err = s.collection.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound(id)
		}
		return nil, dbError(err, "update_note", "backend", conf.BackendMongo, "note_id", id)
	}
	return doc.toNote(), nil
}

func (s *mongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return notFound(id)
	}

	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return dbError(err, "delete_note", "backend", conf.BackendMongo, "note_id", id)
	}
	if result.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *mongoStore) Ping(ctx context.Context) error {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return dbError(err, "ping", "backend", conf.BackendMongo)
	}
	return nil
}

func (s *mongoStore) Close() error {
	ctx, cancel := s.timeout.context(context.Background())
	defer cancel()

	if err := s.client.Disconnect(ctx); err != nil {
		return dbError(err, "close", "backend", conf.BackendMongo)
	}
	return nil
}
