package health

import (
	"context"
	"database/sql"
	"os/exec"
	"time"
)

// Status is the health payload served at /api/v1/health.
type Status struct {
	OK          bool   `json:"ok"`
	Database    string `json:"database"`
	ObjectStore string `json:"objectStore"`
	Pdftotext   string `json:"pdftotext"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB          *sql.DB
	ObjectStore string
	Pdftotext   string

	lookPath func(string) (string, error)
}

// NewService constructs a new health service. A nil db means the in-memory
// repositories are in use.
func NewService(db *sql.DB, objectStore, pdftotext string) *Service {
	return &Service{DB: db, ObjectStore: objectStore, Pdftotext: pdftotext, lookPath: exec.LookPath}
}

// Status reports dependency health. A missing pdftotext does not fail the
// check because the pure-Go fallback reader can still serve requests.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory", ObjectStore: s.ObjectStore, Pdftotext: "available"}

	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			st.OK = false
			st.Database = "down"
		} else {
			st.Database = "up"
		}
	}

	lookPath := s.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if _, err := lookPath(s.Pdftotext); err != nil {
		st.Pdftotext = "missing"
	}
	return st
}
