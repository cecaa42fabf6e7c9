package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cydea/vulnbank/internal/core/domain"
)

const accountsCollection = "accounts"

type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountsCollection)}
}

type mongoAccount struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerUserID string             `bson:"owner_user_id"`
	IBAN        string             `bson:"iban"`
	Balance     float64            `bson:"balance"`
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	doc := mongoAccount{
		OwnerUserID: account.OwnerUserID,
		IBAN:        account.IBAN,
		Balance:     account.Balance,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	created := *account
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ma); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AccountRepository) FindByOwner(ctx context.Context, ownerUserID string) ([]*domain.Account, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"owner_user_id": ownerUserID})
	if err != nil {
		return nil, fmt.Errorf("find accounts: %w", err)
	}
	defer cursor.Close(ctx)

	accounts := []*domain.Account{}
	for cursor.Next(ctx) {
		var ma mongoAccount
		if err := cursor.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		accounts = append(accounts, ma.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// Debit subtracts amount in a single conditional update: the filter only
// matches while the balance still covers the amount, so racing transfers
// serialize on the document and can never overdraw.
func (r *AccountRepository) Debit(ctx context.Context, id string, amount float64) (float64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, domain.ErrAccountNotFound
	}

	filter := bson.M{"_id": oid, "balance": bson.M{"$gte": amount}}
	update := bson.M{"$inc": bson.M{"balance": -amount}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ma mongoAccount
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ma); err != nil {
		if err == mongo.ErrNoDocuments {
			// Either the account vanished or the funds did; tell them apart.
			if _, findErr := r.FindByID(ctx, id); findErr != nil {
				return 0, findErr
			}
			return 0, domain.ErrInsufficientFunds
		}
		return 0, fmt.Errorf("debit account: %w", err)
	}
	return ma.Balance, nil
}

func (ma mongoAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:          ma.ID.Hex(),
		OwnerUserID: ma.OwnerUserID,
		IBAN:        ma.IBAN,
		Balance:     ma.Balance,
	}
}
