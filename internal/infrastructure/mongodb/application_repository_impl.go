package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/job-portal/internal/domain/entity"
	"github.com/oksasatya/job-portal/internal/domain/repository"
)

type applicationDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Job       primitive.ObjectID `bson:"job"`
	Applicant primitive.ObjectID `bson:"applicant"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *applicationDocument) toEntity() *entity.JobApplication {
	return &entity.JobApplication{
		ID:        d.ID.Hex(),
		JobID:     d.Job.Hex(),
		Applicant: d.Applicant.Hex(),
		Status:    entity.ApplicationStatus(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type ApplicationRepository struct {
	col *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	col := db.Collection(ApplicationsCollection)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "job", Value: 1}, {Key: "applicant", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("applications_job_applicant_unique"),
	})
	return &ApplicationRepository{col: col}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *entity.JobApplication) error {
	job, err := parseID(a.JobID)
	if err != nil {
		return err
	}
	applicant, err := parseID(a.Applicant)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	doc := applicationDocument{
		ID:        primitive.NewObjectID(),
		Job:       job,
		Applicant: applicant,
		Status:    string(a.Status),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return err
	}
	a.ID = doc.ID.Hex()
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*entity.JobApplication, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ApplicationRepository) GetByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*entity.JobApplication, error) {
	job, err := parseID(jobID)
	if err != nil {
		return nil, err
	}
	applicant, err := parseID(applicantID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"job": job, "applicant": applicant})
}

func (r *ApplicationRepository) findOne(ctx context.Context, filter bson.M) (*entity.JobApplication, error) {
	var doc applicationDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID string) ([]*entity.JobApplication, error) {
	oid, err := parseID(applicantID)
	if err != nil {
		return []*entity.JobApplication{}, nil
	}
	return r.list(ctx, bson.M{"applicant": oid})
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID string) ([]*entity.JobApplication, error) {
	oid, err := parseID(jobID)
	if err != nil {
		return []*entity.JobApplication{}, nil
	}
	return r.list(ctx, bson.M{"job": oid})
}

func (r *ApplicationRepository) list(ctx context.Context, filter bson.M) ([]*entity.JobApplication, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []applicationDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.JobApplication, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status entity.ApplicationStatus) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)
