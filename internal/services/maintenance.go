package services

import (
	"context"

	"github.com/diewo77/talentos/internal/repository"
)

// FileCounter reports how many files are stored.
type FileCounter interface {
	Count() (int, error)
	Dir() string
}

// SystemStatus is the read-only maintenance overview.
type SystemStatus struct {
	Database     string `json:"database"`
	UploadDir    string `json:"upload_dir"`
	Accounts     int64  `json:"accounts"`
	Postings     int64  `json:"postings"`
	Applications int64  `json:"applications"`
	StoredFiles  int    `json:"stored_files"`
}

type MaintenanceService struct {
	database     string
	accounts     repository.AccountRepository
	postings     repository.PostingRepository
	applications repository.ApplicationRepository
	files        FileCounter
}

func NewMaintenanceService(database string, accounts repository.AccountRepository, postings repository.PostingRepository, applications repository.ApplicationRepository, files FileCounter) *MaintenanceService {
	return &MaintenanceService{database: database, accounts: accounts, postings: postings, applications: applications, files: files}
}

func (s *MaintenanceService) Status(ctx context.Context) (*SystemStatus, error) {
	st := SystemStatus{Database: s.database, UploadDir: s.files.Dir()}
	var err error
	if st.Accounts, err = s.accounts.Count(ctx); err != nil {
		return nil, err
	}
	if st.Postings, err = s.postings.Count(ctx); err != nil {
		return nil, err
	}
	if st.Applications, err = s.applications.Count(ctx); err != nil {
		return nil, err
	}
	if st.StoredFiles, err = s.files.Count(); err != nil {
		return nil, err
	}
	return &st, nil
}
