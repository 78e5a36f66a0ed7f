package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tcapp/account-admin/internal/core/domain"
	"github.com/tcapp/account-admin/internal/core/ports"
)

const accountCollection = "accounts"

type MongoAccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{coll: db.Collection(accountCollection)}
}

// EnsureIndexes creates the unique username index. Uniqueness must hold
// across all accounts regardless of active status, so the index is not
// partial.
func (r *MongoAccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}
	return nil
}

type mongoAccount struct {
	ID          string     `bson:"_id"`
	Username    string     `bson:"username"`
	Password    string     `bson:"password"`
	Role        string     `bson:"role"`
	DisplayName string     `bson:"display_name"`
	DeptCode    string     `bson:"dept_code,omitempty"`
	DeptName    string     `bson:"dept_name,omitempty"`
	IsActive    bool       `bson:"is_active"`
	LastLoginAt *time.Time `bson:"last_login_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

func toDoc(a *domain.Account) mongoAccount {
	return mongoAccount{
		ID:          a.ID,
		Username:    a.Username,
		Password:    a.CredentialHash,
		Role:        string(a.Role),
		DisplayName: a.DisplayName,
		DeptCode:    a.DeptCode,
		DeptName:    a.DeptName,
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toAccount(m mongoAccount) *domain.Account {
	return &domain.Account{
		ID:             m.ID,
		Username:       m.Username,
		CredentialHash: m.Password,
		Role:           domain.Role(m.Role),
		DisplayName:    m.DisplayName,
		DeptCode:       m.DeptCode,
		DeptName:       m.DeptName,
		IsActive:       m.IsActive,
		LastLoginAt:    m.LastLoginAt,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

func (r *MongoAccountRepository) Insert(ctx context.Context, a *domain.Account) error {
	if _, err := r.coll.InsertOne(ctx, toDoc(a)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *MongoAccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoAccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var m mongoAccount
	if err := r.coll.FindOne(ctx, filter).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return toAccount(m), nil
}

func (r *MongoAccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count username: %w", err)
	}
	return n > 0, nil
}

func (r *MongoAccountRepository) Update(ctx context.Context, id string, fields ports.UpdateAccountFields) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if fields.DisplayName != nil {
		set["display_name"] = *fields.DisplayName
	}
	if fields.DeptCode != nil {
		set["dept_code"] = *fields.DeptCode
	}
	if fields.DeptName != nil {
		set["dept_name"] = *fields.DeptName
	}
	if fields.Role != nil {
		set["role"] = string(*fields.Role)
	}
	if fields.IsActive != nil {
		set["is_active"] = *fields.IsActive
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *MongoAccountRepository) UpdatePassword(ctx context.Context, id, credentialHash string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"password": credentialHash, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *MongoAccountRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"last_login_at": at},
	})
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *MongoAccountRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *MongoAccountRepository) List(ctx context.Context, filter ports.ListAccountsFilter) ([]*domain.Account, int64, error) {
	query := bson.M{}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"username": pattern},
			bson.M{"display_name": pattern},
			bson.M{"dept_name": pattern},
		}
	}
	if filter.Role != "" {
		query["role"] = string(filter.Role)
	}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}
	if filter.DeptCode != "" {
		query["dept_code"] = filter.DeptCode
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	dir := 1
	if filter.SortDesc {
		dir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: filter.SortBy, Value: dir}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	accounts, err := r.findMany(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

func (r *MongoAccountRepository) Search(ctx context.Context, q string, limit int) ([]*domain.Account, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	query := bson.M{"$or": bson.A{
		bson.M{"username": pattern},
		bson.M{"display_name": pattern},
		bson.M{"dept_name": pattern},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "display_name", Value: 1}}).
		SetLimit(int64(limit))
	return r.findMany(ctx, query, opts)
}

func (r *MongoAccountRepository) findMany(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*domain.Account, error) {
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find accounts: %w", err)
	}
	defer cur.Close(ctx)

	accounts := make([]*domain.Account, 0)
	for cur.Next(ctx) {
		var m mongoAccount
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		accounts = append(accounts, toAccount(m))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

func (r *MongoAccountRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

func (r *MongoAccountRepository) CountActive(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return 0, fmt.Errorf("count active accounts: %w", err)
	}
	return n, nil
}

func (r *MongoAccountRepository) CountDistinctDepartments(ctx context.Context) (int64, error) {
	depts, err := r.coll.Distinct(ctx, "dept_name", bson.M{"dept_name": bson.M{"$nin": bson.A{nil, ""}}})
	if err != nil {
		return 0, fmt.Errorf("distinct departments: %w", err)
	}
	return int64(len(depts)), nil
}

func (r *MongoAccountRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"created_at": bson.M{"$gte": from, "$lt": to},
	})
	if err != nil {
		return 0, fmt.Errorf("count created between: %w", err)
	}
	return n, nil
}

func (r *MongoAccountRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Account, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return r.findMany(ctx, bson.M{}, opts)
}
