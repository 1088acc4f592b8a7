package repositories

import (
	"time"

	"github.com/juju/mgo/v3"
	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
)

// Collection names in the document store.
const (
	usersC   = "users"
	historyC = "history"
)

// DialMongo opens the root session shared by the document-store repositories.
// Repositories copy it per call; the caller closes it at shutdown.
func DialMongo(url string, timeout time.Duration) (*mgo.Session, error) {
	session, err := mgo.DialWithTimeout(url, timeout)
	if err != nil {
		return nil, err
	}
	session.SetMode(mgo.Monotonic, true)
	session.SetSafe(&mgo.Safe{})

	logger.Log.Infow("mongo session opened", "servers", session.LiveServers())
	return session, nil
}
