package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// ProjectRecord is the persisted form of a project: the full MSP-JSON
// document as an opaque jsonb payload, keyed by project id, with a few
// columns denormalized for listing. The core treats the store as
// save/load/list only.
type ProjectRecord struct {
	bun.BaseModel `bun:"table:msp_projects,alias:prj"`

	ID        string          `bun:"id,pk" json:"id"`
	OwnerID   string          `bun:"owner_id" json:"owner_id"`
	Name      string          `bun:"name" json:"name"`
	Status    string          `bun:"status" json:"status"`
	Tags      []string        `bun:"tags,array" json:"tags"`
	Payload   json.RawMessage `bun:"payload,type:jsonb" json:"payload"`
	CreatedAt time.Time       `bun:"created_at,default:now()" json:"created_at"`
	UpdatedAt time.Time       `bun:"updated_at" json:"updated_at"`
}

// ProjectSummary is the listing row returned by the store: everything a
// dashboard needs without deserializing payloads.
type ProjectSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Tags       []string  `json:"tags,omitempty"`
	ShapeCount int       `json:"shape_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}
