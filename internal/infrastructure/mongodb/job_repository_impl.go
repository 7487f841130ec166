package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/job-portal/internal/domain/entity"
	"github.com/oksasatya/job-portal/internal/domain/repository"
)

type jobDocument struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	Title           string               `bson:"title"`
	Description     string               `bson:"description"`
	Requirements    []string             `bson:"requirements"`
	Salary          float64              `bson:"salary"`
	Location        string               `bson:"location"`
	JobType         string               `bson:"job_type"`
	ExperienceLevel int                  `bson:"experience_level"`
	Position        int                  `bson:"position"`
	CompanyName     string               `bson:"company_name"`
	CreatedBy       primitive.ObjectID   `bson:"created_by"`
	Applications    []primitive.ObjectID `bson:"applications"`
	CreatedAt       time.Time            `bson:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at"`
}

func (d *jobDocument) toEntity() *entity.Job {
	reqs := d.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	return &entity.Job{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Description:     d.Description,
		Requirements:    reqs,
		Salary:          d.Salary,
		Location:        d.Location,
		JobType:         d.JobType,
		ExperienceLevel: d.ExperienceLevel,
		Position:        d.Position,
		CompanyName:     d.CompanyName,
		CreatedBy:       d.CreatedBy.Hex(),
		Applications:    hexIDs(d.Applications),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type JobRepository struct {
	col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{col: db.Collection(JobsCollection)}
}

func (r *JobRepository) Create(ctx context.Context, j *entity.Job) error {
	creator, err := parseID(j.CreatedBy)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	doc := jobDocument{
		ID:              primitive.NewObjectID(),
		Title:           j.Title,
		Description:     j.Description,
		Requirements:    j.Requirements,
		Salary:          j.Salary,
		Location:        j.Location,
		JobType:         j.JobType,
		ExperienceLevel: j.ExperienceLevel,
		Position:        j.Position,
		CompanyName:     j.CompanyName,
		CreatedBy:       creator,
		Applications:    []primitive.ObjectID{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return err
	}
	j.ID = doc.ID.Hex()
	j.Applications = []string{}
	j.CreatedAt = now
	j.UpdatedAt = now
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc jobDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *JobRepository) Find(ctx context.Context, q repository.JobQuery) ([]*entity.Job, error) {
	order := -1
	if q.OldestFirst {
		order = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: order}})
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	cur, err := r.col.Find(ctx, buildJobFilter(q), opts)
	if err != nil {
		return nil, err
	}
	var docs []jobDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.Job, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}

func (r *JobRepository) AddApplication(ctx context.Context, jobID, applicationID string) error {
	jid, err := parseID(jobID)
	if err != nil {
		return err
	}
	aid, err := parseID(applicationID)
	if err != nil {
		return err
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": jid}, bson.M{
		"$addToSet": bson.M{"applications": aid},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func buildJobFilter(q repository.JobQuery) bson.M {
	filter := bson.M{}
	if q.IDs != nil {
		filter["_id"] = bson.M{"$in": parseIDs(q.IDs)}
	}
	if q.Keyword != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(q.Keyword), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": rx},
			bson.M{"description": rx},
			bson.M{"location": rx},
		}
	}
	if q.Location != "" {
		filter["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Location), Options: "i"}
	}
	if q.JobType != "" {
		filter["job_type"] = q.JobType
	}
	if q.MinSalary != nil || q.MaxSalary != nil {
		rng := bson.M{}
		if q.MinSalary != nil {
			rng["$gte"] = *q.MinSalary
		}
		if q.MaxSalary != nil {
			rng["$lte"] = *q.MaxSalary
		}
		filter["salary"] = rng
	}
	if q.CreatedBy != "" {
		if oid, err := primitive.ObjectIDFromHex(q.CreatedBy); err == nil {
			filter["created_by"] = oid
		} else {
			filter["created_by"] = primitive.NilObjectID
		}
	}
	return filter
}

var _ repository.JobRepository = (*JobRepository)(nil)
