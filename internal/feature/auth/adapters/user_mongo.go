package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"agrimarket_backend/internal/feature/auth/domain/entity"
	"agrimarket_backend/internal/feature/auth/usecase"
)

// userDocument はusersコレクションに保存されるドキュメントです。
type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	Phone        string             `bson:"phone"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		Phone:        d.Phone,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// userMongo はUserRepositoryインターフェースのMongoDB実装です。
type userMongo struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ usecase.UserRepository = (*userMongo)(nil)

// NewUserMongo は指定されたコレクションを使うuserMongoを生成します。
func NewUserMongo(coll *mongo.Collection) *userMongo {
	return &userMongo{coll: coll, now: time.Now}
}

// EnsureIndexes はemailの一意インデックスを作成します。
// 起動時に一度呼び出してください。
func (r *userMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}
	return nil
}

// Create はユーザードキュメントを挿入します。
func (r *userMongo) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	now := r.now()
	doc := userDocument{
		ID:           primitive.NewObjectID(),
		Username:     u.Username,
		Email:        u.Email,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    now,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	u.ID = doc.ID.Hex()
	u.CreatedAt = doc.CreatedAt
	u.UpdatedAt = doc.UpdatedAt
	return nil
}

// FindByEmail はメールアドレスでユーザーを検索します。
func (r *userMongo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

// UpdatePassword はパスワードハッシュを更新します。
func (r *userMongo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{
		"$set": bson.M{
			"password_hash": passwordHash,
			"updated_at":    r.now(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}
