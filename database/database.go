package database

import (
	"crypto/md5"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/drummonds/docstudio/config"
	"github.com/oklog/ulid/v2"
)

// Document is a file that was added to the collection
type Document struct {
	StormID     int // ID field (kept as StormID for backward compatibility)
	ULID        ulid.ULID
	Name        string
	BlobKey     string // key of the file in the storage bucket
	ContentType string // mime type detected from the file contents
	Size        int64
	PageCount   int
	Hash        string
	Workspace   string // workspace the file was staged in
	AddedTime   time.Time
	Preview     []byte // small PNG of the first page, nil when there is none
}

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// ErrNotFound is returned when a document does not exist
var ErrNotFound = errors.New("document not found")

// Repository defines database operations
type Repository interface {
	Close() error
	SaveDocument(doc *Document) error
	GetDocumentByID(id int) (*Document, error)
	GetDocumentByULID(ulid string) (*Document, error)
	GetDocumentsByHash(hash string) ([]Document, error)
	GetNewestDocuments(limit int) ([]Document, error)
	GetAllDocuments() ([]Document, error)
	CountDocuments() (int, error)
	DeleteDocument(ulid string) error
	SaveConfig(config *config.ServerConfig) error
	GetConfig() (*config.ServerConfig, error)
}

// FetchConfigFromDB pulls the server config from the database
func FetchConfigFromDB(db Repository) (config.ServerConfig, error) {
	serverConfig, err := db.GetConfig()
	if err != nil {
		Logger.Error("Unable to fetch server config from db", "error", err)
		return config.ServerConfig{}, err
	}
	return *serverConfig, nil
}

// WriteConfigToDB writes the serverconfig to the database for later retrieval
func WriteConfigToDB(serverConfig config.ServerConfig, db Repository) error {
	serverConfig.StormID = 1 // config will be stored in row 1
	err := db.SaveConfig(&serverConfig)
	if err != nil {
		Logger.Error("Unable to write server config to database", "error", err)
		return err
	}
	return nil
}

// NewDocument describes a file about to be added to the collection
type NewDocument struct {
	Name        string
	ContentType string
	PageCount   int
	Workspace   string
	Data        []byte
	Preview     []byte
}

// AddNewDocument records a collection document. The caller decides the blob
// key through keyFor, which receives the new ULID. Identical files are added
// again rather than deduplicated.
func AddNewDocument(newDoc NewDocument, keyFor func(ulid.ULID) string, db Repository) (*Document, error) {
	newTime := time.Now()
	newULID, err := CalculateUUID(newTime)
	if err != nil {
		Logger.Error("Cannot generate ULID", "name", newDoc.Name, "error", err)
		return nil, err
	}
	document := Document{
		ULID:        newULID,
		Name:        newDoc.Name,
		BlobKey:     keyFor(newULID),
		ContentType: newDoc.ContentType,
		Size:        int64(len(newDoc.Data)),
		PageCount:   newDoc.PageCount,
		Hash:        calculateHash(newDoc.Data),
		Workspace:   newDoc.Workspace,
		AddedTime:   newTime,
		Preview:     newDoc.Preview,
	}
	if previous, err := db.GetDocumentsByHash(document.Hash); err == nil && len(previous) > 0 {
		Logger.Info("Adding file already in the collection", "name", document.Name, "copies", len(previous))
	}
	if err := db.SaveDocument(&document); err != nil {
		Logger.Error("Unable to write document to database", "name", document.Name, "error", err)
		return nil, err
	}
	return &document, nil
}

// FetchNewestDocuments fetches the documents that were added last
func FetchNewestDocuments(numberOf int, db Repository) ([]Document, error) {
	newestDocuments, err := db.GetNewestDocuments(numberOf)
	if err != nil {
		Logger.Error("Unable to find the latest documents", "error", err)
		return newestDocuments, err
	}
	return newestDocuments, nil
}

// FetchDocument fetches the requested document by ULID
func FetchDocument(docULIDSt string, db Repository) (Document, int, error) {
	if _, err := ulid.Parse(docULIDSt); err != nil {
		return Document{}, http.StatusBadRequest, fmt.Errorf("invalid document id %q: %w", docULIDSt, err)
	}
	foundDocument, err := db.GetDocumentByULID(docULIDSt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrNotFound) {
			Logger.Warn("Unable to find the requested document", "ulid", docULIDSt)
			return Document{}, http.StatusNotFound, ErrNotFound
		}
		Logger.Error("Database error fetching document", "error", err)
		return Document{}, http.StatusInternalServerError, err
	}
	return *foundDocument, http.StatusOK, nil
}

// DeleteDocument deletes the requested document by ULID
func DeleteDocument(docULIDSt string, db Repository) error {
	err := db.DeleteDocument(docULIDSt)
	if err != nil {
		Logger.Error("Unable to delete requested document", "error", err)
		return err
	}
	return nil
}

// calculate the hash of the incoming file
func calculateHash(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}

// CalculateUUID for the incoming file
func CalculateUUID(time time.Time) (ulid.ULID, error) {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.UnixNano())), 0)
	newULID, err := ulid.New(ulid.Timestamp(time), entropy)
	if err != nil {
		return newULID, err
	}
	return newULID, nil
}
