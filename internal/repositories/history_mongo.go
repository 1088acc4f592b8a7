package repositories

import (
	"context"
	"time"

	"github.com/juju/mgo/v3"
	"github.com/juju/mgo/v3/bson"
	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
)

type historyDoc struct {
	ID            bson.ObjectId `bson:"_id"`
	User          string        `bson:"user"`
	Disease       string        `bson:"disease"`
	Confidence    string        `bson:"confidence"`
	TreatmentText string        `bson:"treatmentText"`
	MedicineImage string        `bson:"medicineImage"`
	UploadedImage string        `bson:"uploadedImage,omitempty"`
	Date          time.Time     `bson:"date"`
}

func (d historyDoc) toModel() models.HistoryEntry {
	return models.HistoryEntry{
		ID:            d.ID.Hex(),
		User:          d.User,
		Disease:       d.Disease,
		Confidence:    d.Confidence,
		TreatmentText: d.TreatmentText,
		MedicineImage: d.MedicineImage,
		UploadedImage: d.UploadedImage,
		Date:          d.Date,
	}
}

// HistoryMongoRepository is the append-only history collection.
type HistoryMongoRepository struct {
	session *mgo.Session
	dbName  string
}

func NewHistoryMongoRepository(session *mgo.Session, dbName string) *HistoryMongoRepository {
	return &HistoryMongoRepository{session: session, dbName: dbName}
}

func (r *HistoryMongoRepository) collection() (*mgo.Collection, func()) {
	s := r.session.Copy()
	return s.DB(r.dbName).C(historyC), s.Close
}

// EnsureIndexes creates the index backing newest-first listing.
func (r *HistoryMongoRepository) EnsureIndexes() error {
	coll, closer := r.collection()
	defer closer()

	return coll.EnsureIndex(mgo.Index{
		Key:  []string{"-date", "-_id"},
		Name: "history_date_desc",
	})
}

// Save appends the entry and sets its ID.
func (r *HistoryMongoRepository) Save(ctx context.Context, entry *models.HistoryEntry) error {
	coll, closer := r.collection()
	defer closer()

	doc := historyDoc{
		ID:            bson.NewObjectId(),
		User:          entry.User,
		Disease:       entry.Disease,
		Confidence:    entry.Confidence,
		TreatmentText: entry.TreatmentText,
		MedicineImage: entry.MedicineImage,
		UploadedImage: entry.UploadedImage,
		Date:          entry.Date,
	}
	err := coll.Insert(doc)

	logger.Log.Infow("mongo",
		"collection", historyC,
		"insert", bson.M{"_id": doc.ID.Hex(), "user": doc.User, "disease": doc.Disease},
		"error", err,
	)

	if err != nil {
		return err
	}
	entry.ID = doc.ID.Hex()
	return nil
}

// List returns every entry, newest first. Entries sharing a date keep newest-inserted first.
func (r *HistoryMongoRepository) List(ctx context.Context) ([]models.HistoryEntry, error) {
	coll, closer := r.collection()
	defer closer()

	var docs []historyDoc
	err := coll.Find(nil).Sort("-date", "-_id").All(&docs)

	logger.Log.Infow("mongo",
		"collection", historyC,
		"sort", "-date,-_id",
		"result", len(docs),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	entries := make([]models.HistoryEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, d.toModel())
	}
	return entries, nil
}
