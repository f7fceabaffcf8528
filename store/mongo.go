package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-bookstore/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps users and orders in two collections of one database.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
	orders *mongo.Collection
}

type orderLineDoc struct {
	Title     string               `bson:"title"`
	Category  string               `bson:"category"`
	Quantity  int                  `bson:"quantity"`
	UnitPrice primitive.Decimal128 `bson:"unit_price"`
}

type orderDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	OrderID      string               `bson:"order_id"`
	UserEmail    string               `bson:"user_email"`
	Lines        []orderLineDoc       `bson:"items"`
	Shipping     models.ShippingInfo  `bson:"shipping"`
	Payment      models.PaymentInfo   `bson:"payment"`
	Subtotal     primitive.Decimal128 `bson:"subtotal"`
	DiscountCode string               `bson:"discount_code,omitempty"`
	Total        primitive.Decimal128 `bson:"total_amount"`
	CreatedAt    time.Time            `bson:"created_at"`
}

// NewMongoStore connects, pings and makes sure the lookup indexes exist.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{client: client, users: db.Collection("users"), orders: db.Collection("orders")}

	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create users index: %w", err)
	}
	_, err = s.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_email", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create orders index: %w", err)
	}
	return s, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	u := *user
	u.Email = models.NormalizeEmail(u.Email)

	count, err := s.users.CountDocuments(ctx, bson.M{"email": u.Email})
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return ErrDuplicateUser
	}
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) FindUser(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"email": models.NormalizeEmail(email)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *MongoStore) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := s.users.UpdateOne(ctx, bson.M{"email": models.NormalizeEmail(user.Email)}, bson.M{
		"$set": bson.M{
			"name":     user.Name,
			"address":  user.Address,
			"password": user.Password,
		},
	})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *MongoStore) AppendOrder(ctx context.Context, email string, order models.Order) error {
	doc, err := toOrderDoc(email, order)
	if err != nil {
		return err
	}
	if _, err := s.orders.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// OrderHistory relies on the (user_email, created_at) index; _id breaks ties
// between orders placed in the same millisecond.
func (s *MongoStore) OrderHistory(ctx context.Context, email string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.orders.Find(ctx, bson.M{"user_email": models.NormalizeEmail(email)}, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Order
	for cursor.Next(ctx) {
		var doc orderDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		o, err := fromOrderDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, cursor.Err()
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode %s: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode %s: %w", v, err)
	}
	return d, nil
}

func toOrderDoc(email string, o models.Order) (orderDoc, error) {
	doc := orderDoc{
		OrderID:      o.ID,
		UserEmail:    models.NormalizeEmail(email),
		Shipping:     o.Shipping,
		Payment:      o.Payment,
		DiscountCode: o.DiscountCode,
		CreatedAt:    o.CreatedAt,
		Lines:        make([]orderLineDoc, 0, len(o.Lines)),
	}
	var err error
	if doc.Subtotal, err = toDecimal128(o.Subtotal); err != nil {
		return orderDoc{}, err
	}
	if doc.Total, err = toDecimal128(o.Total); err != nil {
		return orderDoc{}, err
	}
	for _, l := range o.Lines {
		price, err := toDecimal128(l.UnitPrice)
		if err != nil {
			return orderDoc{}, err
		}
		doc.Lines = append(doc.Lines, orderLineDoc{
			Title:     l.Title,
			Category:  l.Category,
			Quantity:  l.Quantity,
			UnitPrice: price,
		})
	}
	return doc, nil
}

func fromOrderDoc(doc orderDoc) (models.Order, error) {
	o := models.Order{
		ID:           doc.OrderID,
		UserEmail:    doc.UserEmail,
		Shipping:     doc.Shipping,
		Payment:      doc.Payment,
		DiscountCode: doc.DiscountCode,
		CreatedAt:    doc.CreatedAt.UTC(),
		Lines:        make([]models.OrderLine, 0, len(doc.Lines)),
	}
	var err error
	if o.Subtotal, err = fromDecimal128(doc.Subtotal); err != nil {
		return models.Order{}, err
	}
	if o.Total, err = fromDecimal128(doc.Total); err != nil {
		return models.Order{}, err
	}
	for _, l := range doc.Lines {
		price, err := fromDecimal128(l.UnitPrice)
		if err != nil {
			return models.Order{}, err
		}
		o.Lines = append(o.Lines, models.OrderLine{
			Title:     l.Title,
			Category:  l.Category,
			Quantity:  l.Quantity,
			UnitPrice: price,
		})
	}
	return o, nil
}
