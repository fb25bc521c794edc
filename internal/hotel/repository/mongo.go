package repository

import (
	"context"
	"fmt"
	"time"

	mongotx "hotelier/pkg/db/mongo"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	RoomsCollection    = "Rooms"
	BookingsCollection = "Bookings"
)

type RoomDocument struct {
	Number   int     `bson:"room_number"`
	Type     string  `bson:"room_type"`
	Price    float64 `bson:"price"`
	Position int     `bson:"position"`
}

type BookingDocument struct {
	ID         string  `bson:"_id"`
	Guest      string  `bson:"guest"`
	RoomNumber int     `bson:"room_number"`
	RoomType   string  `bson:"room_type"`
	Price      float64 `bson:"price"`
	CheckIn    string  `bson:"check_in"`
	CheckOut   string  `bson:"check_out"`
	Position   int     `bson:"position"`
}

type MongoConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type mongoRepository struct {
	client    *mongo.Client
	rooms     *mongo.Collection
	bookings  *mongo.Collection
	txManager mongotx.TransactionManager
	timeouts  MongoConfig
	log       *logger.Logger
}

func NewMongoRepository(client *mongo.Client, database string, txManager mongotx.TransactionManager, timeouts MongoConfig, log *logger.Logger) HotelRepository {
	if txManager == nil {
		txManager = mongotx.NewTransactionManager(client)
	}
	if log == nil {
		log = logger.Discard()
	}
	db := client.Database(database)
	return &mongoRepository{
		client:    client,
		rooms:     db.Collection(RoomsCollection),
		bookings:  db.Collection(BookingsCollection),
		txManager: txManager,
		timeouts:  timeouts,
		log:       log,
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// A SessionContext cannot be wrapped without losing the session.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRepository) LoadRooms(ctx context.Context) ([]model.Room, error) {
	ctx, cancel := withTimeout(ctx, r.timeouts.ReadTimeout)
	defer cancel()

	var docs []RoomDocument
	if err := r.findAll(ctx, r.rooms, &docs); err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	return roomsFromDocuments(docs)
}

func (r *mongoRepository) LoadBookings(ctx context.Context, rooms []model.Room) ([]model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.timeouts.ReadTimeout)
	defer cancel()

	var docs []BookingDocument
	if err := r.findAll(ctx, r.bookings, &docs); err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	return bookingsFromDocuments(docs, rooms, r.log)
}

func (r *mongoRepository) SaveRooms(ctx context.Context, rooms []model.Room) error {
	docs := make([]any, 0, len(rooms))
	for _, d := range roomDocuments(rooms) {
		docs = append(docs, d)
	}
	return r.replaceAll(ctx, r.rooms, docs)
}

func (r *mongoRepository) SaveBookings(ctx context.Context, bookings []model.Booking) error {
	docs := make([]any, 0, len(bookings))
	for _, d := range bookingDocuments(bookings) {
		docs = append(docs, d)
	}
	return r.replaceAll(ctx, r.bookings, docs)
}

func (r *mongoRepository) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.timeouts.ReadTimeout)
	defer cancel()
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *mongoRepository) findAll(ctx context.Context, coll *mongo.Collection, out any) error {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

// replaceAll swaps the collection's contents in one transaction.
func (r *mongoRepository) replaceAll(ctx context.Context, coll *mongo.Collection, docs []any) error {
	ctx, cancel := withTimeout(ctx, r.timeouts.WriteTimeout)
	defer cancel()

	err := r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := coll.DeleteMany(sessCtx, bson.M{}); err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}
		_, err := coll.InsertMany(sessCtx, docs)
		return err
	})
	if err != nil {
		return fmt.Errorf("replace %s: %w", coll.Name(), err)
	}
	return nil
}

func roomDocuments(rooms []model.Room) []RoomDocument {
	docs := make([]RoomDocument, 0, len(rooms))
	for i, room := range rooms {
		docs = append(docs, RoomDocument{
			Number:   room.Number,
			Type:     room.Type.String(),
			Price:    room.Price,
			Position: i,
		})
	}
	return docs
}

func roomsFromDocuments(docs []RoomDocument) ([]model.Room, error) {
	rooms := make([]model.Room, 0, len(docs))
	for _, d := range docs {
		room, err := model.NewRoom(d.Number, d.Type, d.Price)
		if err != nil {
			return nil, fmt.Errorf("room at position %d: %w", d.Position, err)
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func bookingDocuments(bookings []model.Booking) []BookingDocument {
	docs := make([]BookingDocument, 0, len(bookings))
	for i, b := range bookings {
		docs = append(docs, BookingDocument{
			ID:         b.ID,
			Guest:      b.Guest.Name,
			RoomNumber: b.Room.Number,
			RoomType:   b.Room.Type.String(),
			Price:      b.Room.Price,
			CheckIn:    b.CheckIn.String(),
			CheckOut:   b.CheckOut.String(),
			Position:   i,
		})
	}
	return docs
}

func bookingsFromDocuments(docs []BookingDocument, rooms []model.Room, log *logger.Logger) ([]model.Booking, error) {
	if log == nil {
		log = logger.Discard()
	}
	known := roomIndex(rooms)
	bookings := make([]model.Booking, 0, len(docs))
	for _, d := range docs {
		room, ok := known[d.RoomNumber]
		if !ok {
			log.Warn("Skipping booking for unknown room", "id", d.ID, "room_number", d.RoomNumber)
			continue
		}
		checkIn, err := model.ParseDate(d.CheckIn)
		if err != nil {
			return nil, fmt.Errorf("booking %s: %w", d.ID, err)
		}
		checkOut, err := model.ParseDate(d.CheckOut)
		if err != nil {
			return nil, fmt.Errorf("booking %s: %w", d.ID, err)
		}
		if checkIn.After(checkOut) {
			return nil, fmt.Errorf("booking %s: check-in %s is after check-out %s", d.ID, checkIn, checkOut)
		}
		bookings = append(bookings, model.Booking{
			ID:       d.ID,
			Guest:    model.Guest{Name: d.Guest},
			Room:     room,
			CheckIn:  checkIn,
			CheckOut: checkOut,
		})
	}
	return bookings, nil
}
