package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pdpi/member-portal/internal/core/domain"
	"github.com/pdpi/member-portal/internal/core/ports"
)

// MenuRepository stores each position's tree as one document keyed by position.
type MenuRepository struct {
	coll *mongo.Collection
}

func NewMenuRepository(db *mongo.Database) *MenuRepository {
	return &MenuRepository{coll: db.Collection(collectionMenus)}
}

type menuDoc struct {
	Position domain.MenuPosition `bson:"_id"`
	Items    []domain.MenuItem   `bson:"items"`
}

func (r *MenuRepository) Get(ctx context.Context, p domain.MenuPosition) ([]domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc menuDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": p}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s menu: %w", p, err)
	}
	return doc.Items, nil
}

func (r *MenuRepository) Replace(ctx context.Context, p domain.MenuPosition, items []domain.MenuItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p}, menuDoc{Position: p, Items: items}, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace %s menu: %w", p, err)
	}
	return nil
}

// SiteRepository keeps the homepage and profile as singleton documents in the
// site collection, with board members, pages and documents in their own.
type SiteRepository struct {
	site      *mongo.Collection
	board     *mongo.Collection
	pages     *mongo.Collection
	documents *mongo.Collection
}

func NewSiteRepository(db *mongo.Database) *SiteRepository {
	return &SiteRepository{
		site:      db.Collection(collectionSite),
		board:     db.Collection(collectionBoard),
		pages:     db.Collection(collectionPages),
		documents: db.Collection(collectionDocuments),
	}
}

const (
	homepageID = "homepage"
	profileID  = "profile"
)

type homepageDoc struct {
	ID              string `bson:"_id"`
	domain.Homepage `bson:",inline"`
}

type profileDoc struct {
	ID                string `bson:"_id"`
	domain.OrgProfile `bson:",inline"`
}

type pageDoc struct {
	domain.DynamicContent `bson:",inline"`
	ID                    string `bson:"_id"`
}

type documentDoc struct {
	Owner           string `bson:"owner"`
	domain.Document `bson:",inline"`
}

func (r *SiteRepository) Homepage(ctx context.Context) (domain.Homepage, error) {
	var doc homepageDoc
	if err := r.singleton(ctx, homepageID, &doc); err != nil {
		return domain.Homepage{}, err
	}
	return doc.Homepage, nil
}

func (r *SiteRepository) SaveHomepage(ctx context.Context, h domain.Homepage) error {
	return r.saveSingleton(ctx, homepageID, homepageDoc{ID: homepageID, Homepage: h})
}

func (r *SiteRepository) Profile(ctx context.Context) (domain.OrgProfile, error) {
	var doc profileDoc
	if err := r.singleton(ctx, profileID, &doc); err != nil {
		return domain.OrgProfile{}, err
	}
	return doc.OrgProfile, nil
}

func (r *SiteRepository) Board(ctx context.Context, level domain.OrganizationLevel) ([]domain.BoardMember, error) {
	filter := bson.M{}
	if level != "" {
		filter["level"] = string(level)
	}
	var out []domain.BoardMember
	if err := r.findAll(ctx, r.board, filter, &out); err != nil {
		return nil, fmt.Errorf("list board: %w", err)
	}
	return out, nil
}

func (r *SiteRepository) DynamicContents(ctx context.Context) ([]domain.DynamicContent, error) {
	var docs []pageDoc
	if err := r.findAll(ctx, r.pages, bson.M{}, &docs, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})); err != nil {
		return nil, fmt.Errorf("list dynamic content: %w", err)
	}
	out := make([]domain.DynamicContent, len(docs))
	for i, d := range docs {
		out[i] = d.DynamicContent
	}
	return out, nil
}

func (r *SiteRepository) DynamicContent(ctx context.Context, slug string) (*domain.DynamicContent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc pageDoc
	if err := r.pages.FindOne(ctx, bson.M{"_id": slug}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContentNotFound
		}
		return nil, fmt.Errorf("find dynamic content: %w", err)
	}
	return &doc.DynamicContent, nil
}

func (r *SiteRepository) UpsertDynamicContent(ctx context.Context, c domain.DynamicContent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.pages.ReplaceOne(ctx, bson.M{"_id": c.Slug}, pageDoc{DynamicContent: c, ID: c.Slug}, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save dynamic content: %w", err)
	}
	return nil
}

// Documents returns the shared documents followed by those owned by userID.
func (r *SiteRepository) Documents(ctx context.Context, userID string) ([]domain.Document, error) {
	owners := bson.A{""}
	if userID != "" {
		owners = append(owners, userID)
	}
	var docs []documentDoc
	if err := r.findAll(ctx, r.documents, bson.M{"owner": bson.M{"$in": owners}}, &docs, options.Find().SetSort(bson.D{{Key: "owner", Value: 1}})); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make([]domain.Document, len(docs))
	for i, d := range docs {
		out[i] = d.Document
	}
	return out, nil
}

// SeedSite loads seed into an empty site. Nothing is written once a homepage exists.
func (r *SiteRepository) SeedSite(ctx context.Context, seed ports.SiteSeed) error {
	n, err := r.site.CountDocuments(ctx, bson.M{"_id": homepageID})
	if err != nil {
		return fmt.Errorf("seed site: %w", err)
	}
	if n > 0 {
		return nil
	}

	if err := r.saveSingleton(ctx, profileID, profileDoc{ID: profileID, OrgProfile: seed.Profile}); err != nil {
		return err
	}
	if len(seed.Board) > 0 {
		members := make([]any, len(seed.Board))
		for i, m := range seed.Board {
			members[i] = m
		}
		if _, err := r.board.InsertMany(ctx, members); err != nil {
			return fmt.Errorf("seed board: %w", err)
		}
	}
	for _, p := range seed.Pages {
		p.Slug = domain.NormalizeContentSlug(p.Slug)
		if err := r.UpsertDynamicContent(ctx, p); err != nil {
			return err
		}
	}
	var docs []any
	for owner, list := range seed.Documents {
		for _, d := range list {
			docs = append(docs, documentDoc{Owner: owner, Document: d})
		}
	}
	if len(docs) > 0 {
		if _, err := r.documents.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("seed documents: %w", err)
		}
	}
	// The homepage goes last: its presence marks the site as seeded.
	return r.SaveHomepage(ctx, seed.Homepage)
}

func (r *SiteRepository) singleton(ctx context.Context, id string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.site.FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find %s: %w", id, err)
	}
	return nil
}

func (r *SiteRepository) saveSingleton(ctx context.Context, id string, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.site.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}
	return nil
}

func (r *SiteRepository) findAll(ctx context.Context, coll *mongo.Collection, filter bson.M, out any, opts ...*options.FindOptions) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}
