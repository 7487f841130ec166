package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/job-portal/internal/domain/entity"
	"github.com/oksasatya/job-portal/internal/domain/repository"
)

type profileDocument struct {
	Bio                string   `bson:"bio,omitempty"`
	Skills             []string `bson:"skills"`
	Resume             string   `bson:"resume,omitempty"`
	ResumeOriginalName string   `bson:"resume_original_name,omitempty"`
	ProfilePhoto       string   `bson:"profile_photo,omitempty"`
}

type userDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Fullname    string             `bson:"fullname"`
	Email       string             `bson:"email"`
	PhoneNumber string             `bson:"phone_number"`
	Password    string             `bson:"password"`
	Role        string             `bson:"role"`
	Profile     profileDocument    `bson:"profile"`
	Version     int64              `bson:"version"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *userDocument) toEntity() *entity.User {
	skills := d.Profile.Skills
	if skills == nil {
		skills = []string{}
	}
	return &entity.User{
		ID:           d.ID.Hex(),
		Fullname:     d.Fullname,
		Email:        d.Email,
		PhoneNumber:  d.PhoneNumber,
		PasswordHash: d.Password,
		Role:         entity.Role(d.Role),
		Profile: entity.Profile{
			Bio:                d.Profile.Bio,
			Skills:             skills,
			ResumeURL:          d.Profile.Resume,
			ResumeOriginalName: d.Profile.ResumeOriginalName,
			ProfilePhotoURL:    d.Profile.ProfilePhoto,
		},
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func profileToDocument(p entity.Profile) profileDocument {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return profileDocument{
		Bio:                p.Bio,
		Skills:             skills,
		Resume:             p.ResumeURL,
		ResumeOriginalName: p.ResumeOriginalName,
		ProfilePhoto:       p.ProfilePhotoURL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UserRepository struct {
	col *mongo.Collection
}

// NewUserRepository also makes sure the unique email index exists, in case
// migrations were skipped.
func NewUserRepository(db *mongo.Database) *UserRepository {
	col := db.Collection(UsersCollection)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	return &UserRepository{col: col}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC()
	doc := userDocument{
		ID:          primitive.NewObjectID(),
		Fullname:    u.Fullname,
		Email:       normalizeEmail(u.Email),
		PhoneNumber: u.PhoneNumber,
		Password:    u.PasswordHash,
		Role:        string(u.Role),
		Profile:     profileToDocument(u.Profile),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return err
	}
	u.ID = doc.ID.Hex()
	u.Email = doc.Email
	u.Version = doc.Version
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": normalizeEmail(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	oid, err := parseID(u.ID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "version": u.Version},
		bson.M{
			"$set": bson.M{
				"fullname":     u.Fullname,
				"email":        normalizeEmail(u.Email),
				"phone_number": u.PhoneNumber,
				"profile":      profileToDocument(u.Profile),
				"updated_at":   now,
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return err
	}
	if res.MatchedCount == 0 {
		n, cErr := r.col.CountDocuments(ctx, bson.M{"_id": oid})
		if cErr != nil {
			return cErr
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrVersionConflict
	}
	u.Email = normalizeEmail(u.Email)
	u.Version++
	u.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetManyByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	oids := parseIDs(ids)
	if len(oids) == 0 {
		return []*entity.User{}, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
