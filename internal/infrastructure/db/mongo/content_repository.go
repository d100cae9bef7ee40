package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// records implements the slug-addressed CRUD shared by every content collection.
type records[T domain.Record] struct {
	coll  *mongo.Collection
	name  string
	alloc func() T
}

func (r records[T]) Create(ctx context.Context, rec T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert %s: %w", r.name, err)
	}
	return nil
}

func (r records[T]) Update(ctx context.Context, rec T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": rec.RecordID()}, rec)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.name, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrContentNotFound
	}
	return nil
}

func (r records[T]) FindByID(ctx context.Context, id string) (T, error) {
	return r.findOne(ctx, bson.M{"_id": id}, nil)
}

// FindBySlug prefers the live record: documents without deleted_at sort first.
func (r records[T]) FindBySlug(ctx context.Context, slug string) (T, error) {
	return r.findOne(ctx, bson.M{"slug": slug}, options.FindOne().SetSort(bson.D{{Key: "deleted_at", Value: 1}}))
}

func (r records[T]) SlugInUse(ctx context.Context, slug, exceptID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"slug": slug, "deleted_at": bson.M{"$exists": false}}
	if exceptID != "" {
		filter["_id"] = bson.M{"$ne": exceptID}
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check %s slug: %w", r.name, err)
	}
	return n > 0, nil
}

func (r records[T]) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var zero T
	rec := r.alloc()
	var err error
	if opts != nil {
		err = r.coll.FindOne(ctx, filter, opts).Decode(rec)
	} else {
		err = r.coll.FindOne(ctx, filter).Decode(rec)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, domain.ErrContentNotFound
		}
		return zero, fmt.Errorf("find %s: %w", r.name, err)
	}
	return rec, nil
}

// list returns one page of the documents matching filter and the total count.
func (r records[T]) list(ctx context.Context, lf ports.ListFilter, filter bson.M, sort bson.D, collation *options.Collation) ([]T, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for k, v := range statusQuery(lf.Status) {
		filter[k] = v
	}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.name, err)
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(lf.Page.Offset())).
		SetLimit(int64(lf.Page.Limit))
	if collation != nil {
		opts.SetCollation(collation)
	}
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.name, err)
	}
	defer cur.Close(ctx)

	items := make([]T, 0, lf.Page.Limit)
	for cur.Next(ctx) {
		rec := r.alloc()
		if err := cur.Decode(rec); err != nil {
			return nil, 0, fmt.Errorf("decode %s: %w", r.name, err)
		}
		items = append(items, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.name, err)
	}
	return items, total, nil
}

func statusQuery(f domain.StatusFilter) bson.M {
	live := bson.M{"$exists": false}
	switch f {
	case domain.FilterAll:
		return bson.M{}
	case domain.FilterDeleted:
		return bson.M{"deleted_at": bson.M{"$exists": true}}
	case domain.FilterDraft, domain.FilterPublished:
		return bson.M{"deleted_at": live, "status": string(f)}
	default:
		return bson.M{"deleted_at": live}
	}
}

// equalFold matches a field exactly, ignoring case.
func equalFold(s string) bson.M {
	return bson.M{"$regex": "^" + regexp.QuoteMeta(s) + "$", "$options": "i"}
}

// containsAny matches documents where any of fields contains s, ignoring case.
func containsAny(s string, fields ...string) bson.A {
	pattern := bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
	or := make(bson.A, len(fields))
	for i, f := range fields {
		or[i] = bson.M{f: pattern}
	}
	return or
}

type NewsRepository struct {
	records[*domain.News]
}

func NewNewsRepository(db *mongo.Database) *NewsRepository {
	return &NewsRepository{records[*domain.News]{
		coll:  db.Collection(collectionNews),
		name:  "news",
		alloc: func() *domain.News { return new(domain.News) },
	}}
}

func (r *NewsRepository) List(ctx context.Context, f ports.NewsFilter) ([]*domain.News, int64, error) {
	filter := bson.M{}
	var and bson.A
	if f.Category != "" {
		filter["category"] = string(f.Category)
	}
	if f.Author != "" {
		filter["author"] = equalFold(f.Author)
	}
	if f.Search != "" {
		and = append(and, bson.M{"$or": containsAny(f.Search, "title", "excerpt", "content")})
	}
	if f.Month != "" {
		start, err := time.Parse("2006-01", f.Month)
		if err != nil {
			return nil, 0, domain.Invalid("month must be formatted as YYYY-MM")
		}
		window := bson.M{"$gte": start, "$lt": start.AddDate(0, 1, 0)}
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"published_at": window},
			bson.M{"published_at": bson.M{"$exists": false}, "created_at": window},
		}})
	}
	if len(and) > 0 {
		filter["$and"] = and
	}

	sort := bson.D{{Key: "published_at", Value: -1}, {Key: "created_at", Value: -1}}
	if f.Sort == ports.NewsSortPopular {
		sort = bson.D{{Key: "views", Value: -1}, {Key: "published_at", Value: -1}}
	}
	return r.list(ctx, f.ListFilter, filter, sort, nil)
}

func (r *NewsRepository) IncrementViews(ctx context.Context, id string, delta int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"views": delta}})
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrContentNotFound
	}
	return nil
}

type AgendaRepository struct {
	records[*domain.Agenda]
}

func NewAgendaRepository(db *mongo.Database) *AgendaRepository {
	return &AgendaRepository{records[*domain.Agenda]{
		coll:  db.Collection(collectionAgenda),
		name:  "agenda",
		alloc: func() *domain.Agenda { return new(domain.Agenda) },
	}}
}

func (r *AgendaRepository) List(ctx context.Context, f ports.AgendaFilter) ([]*domain.Agenda, int64, error) {
	filter := bson.M{}
	if f.Type != "" {
		filter["type"] = string(f.Type)
	}
	if f.Upcoming {
		filter["date"] = bson.M{"$gte": f.Now}
	}
	return r.list(ctx, f.ListFilter, filter, bson.D{{Key: "date", Value: 1}}, nil)
}

type DirectoryRepository struct {
	records[*domain.DirectoryEntry]
}

func NewDirectoryRepository(db *mongo.Database) *DirectoryRepository {
	return &DirectoryRepository{records[*domain.DirectoryEntry]{
		coll:  db.Collection(collectionDirectory),
		name:  "directory entry",
		alloc: func() *domain.DirectoryEntry { return new(domain.DirectoryEntry) },
	}}
}

func (r *DirectoryRepository) List(ctx context.Context, f ports.DirectoryFilter) ([]*domain.DirectoryEntry, int64, error) {
	filter := bson.M{}
	if f.Type != "" {
		filter["type"] = string(f.Type)
	}
	if f.Province != "" {
		filter["province"] = equalFold(f.Province)
	}
	if f.City != "" {
		filter["city"] = equalFold(f.City)
	}
	if f.Search != "" {
		filter["$or"] = containsAny(f.Search, "name", "city", "province")
	}
	byName := &options.Collation{Locale: "id", Strength: 2}
	return r.list(ctx, f.ListFilter, filter, bson.D{{Key: "name", Value: 1}}, byName)
}
