package database

import (
	"time"

	"github.com/drummonds/docstudio/config"
	"github.com/oklog/ulid/v2"
	"github.com/uptrace/bun"
)

// BunDocument represents the documents table for Bun ORM
type BunDocument struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	ID          int       `bun:"id,pk,autoincrement"`
	ULID        string    `bun:"ulid,notnull,unique"` // Stored as string in DB
	Name        string    `bun:"name,notnull"`
	BlobKey     string    `bun:"blob_key,notnull,unique"`
	ContentType string    `bun:"content_type,notnull"`
	Size        int64     `bun:"size,notnull"`
	PageCount   int       `bun:"page_count,notnull"`
	Hash        string    `bun:"hash,notnull"`
	Workspace   string    `bun:"workspace,nullzero"`
	AddedTime   time.Time `bun:"added_time,notnull,default:current_timestamp"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	Preview     []byte    `bun:"preview"`
}

// ToDocument converts BunDocument to Document
func (bd *BunDocument) ToDocument() (*Document, error) {
	parsedULID, err := ulid.Parse(bd.ULID)
	if err != nil {
		return nil, err
	}

	return &Document{
		StormID:     bd.ID,
		ULID:        parsedULID,
		Name:        bd.Name,
		BlobKey:     bd.BlobKey,
		ContentType: bd.ContentType,
		Size:        bd.Size,
		PageCount:   bd.PageCount,
		Hash:        bd.Hash,
		Workspace:   bd.Workspace,
		AddedTime:   bd.AddedTime,
		Preview:     bd.Preview,
	}, nil
}

// FromDocument converts Document to BunDocument
func FromDocument(doc *Document) *BunDocument {
	return &BunDocument{
		ID:          doc.StormID,
		ULID:        doc.ULID.String(),
		Name:        doc.Name,
		BlobKey:     doc.BlobKey,
		ContentType: doc.ContentType,
		Size:        doc.Size,
		PageCount:   doc.PageCount,
		Hash:        doc.Hash,
		Workspace:   doc.Workspace,
		AddedTime:   doc.AddedTime,
		Preview:     doc.Preview,
	}
}

// BunServerConfig represents the server_config table for Bun ORM
type BunServerConfig struct {
	bun.BaseModel `bun:"table:server_config,alias:sc"`

	ID                     int       `bun:"id,pk"`
	ListenAddrIP           string    `bun:"listen_addr_ip,notnull,default:''"`
	ListenAddrPort         string    `bun:"listen_addr_port,notnull,default:'8000'"`
	StorageURL             string    `bun:"storage_url,notnull,default:''"`
	Renderer               string    `bun:"renderer,notnull,default:'pdfium'"`
	RenderDPI              int       `bun:"render_dpi,notnull,default:150"`
	RenderWidth            int       `bun:"render_width,notnull,default:1024"`
	WorkspaceTTL           int       `bun:"workspace_ttl,notnull,default:60"`
	WorkspaceSweepInterval int       `bun:"workspace_sweep_interval,notnull,default:5"`
	MaxUploadMB            int       `bun:"max_upload_mb,notnull,default:64"`
	UseReverseProxy        bool      `bun:"use_reverse_proxy,notnull,default:false"`
	BaseURL                string    `bun:"base_url,notnull,default:''"`
	ServerAPIURL           string    `bun:"server_api_url,notnull,default:''"`
	RenderFailurePolicy    string    `bun:"render_failure_policy,notnull,default:'abort'"`
	UpdatedAt              time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// fromServerConfig converts the settings that survive a restart. Database
// settings are not stored since they are needed to reach the database.
func fromServerConfig(cfg *config.ServerConfig) *BunServerConfig {
	return &BunServerConfig{
		ID:                     1,
		ListenAddrIP:           cfg.ListenAddrIP,
		ListenAddrPort:         cfg.ListenAddrPort,
		StorageURL:             cfg.StorageURL,
		Renderer:               cfg.Renderer,
		RenderDPI:              cfg.RenderDPI,
		RenderWidth:            cfg.RenderWidth,
		WorkspaceTTL:           cfg.WorkspaceTTL,
		WorkspaceSweepInterval: cfg.WorkspaceSweepInterval,
		MaxUploadMB:            cfg.MaxUploadMB,
		UseReverseProxy:        cfg.UseReverseProxy,
		BaseURL:                cfg.BaseURL,
		ServerAPIURL:           cfg.FrontEndConfig.ServerAPIURL,
		RenderFailurePolicy:    cfg.FrontEndConfig.RenderFailurePolicy,
		UpdatedAt:              time.Now(),
	}
}

func (bc *BunServerConfig) toServerConfig() *config.ServerConfig {
	cfg := &config.ServerConfig{
		StormID:                1,
		ListenAddrIP:           bc.ListenAddrIP,
		ListenAddrPort:         bc.ListenAddrPort,
		StorageURL:             bc.StorageURL,
		Renderer:               bc.Renderer,
		RenderDPI:              bc.RenderDPI,
		RenderWidth:            bc.RenderWidth,
		WorkspaceTTL:           bc.WorkspaceTTL,
		WorkspaceSweepInterval: bc.WorkspaceSweepInterval,
		MaxUploadMB:            bc.MaxUploadMB,
		UseReverseProxy:        bc.UseReverseProxy,
		BaseURL:                bc.BaseURL,
	}
	cfg.FrontEndConfig.ServerAPIURL = bc.ServerAPIURL
	cfg.FrontEndConfig.RenderFailurePolicy = bc.RenderFailurePolicy
	return cfg
}
