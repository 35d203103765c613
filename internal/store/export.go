package store

import (
	"fmt"
	"time"

	"github.com/quizdeck/quizdeck/internal/model"
)

// ExportReports builds an export-ready snapshot of the whole archive.
func (s *Store) ExportReports() (model.ReportExport, error) {
	info, err := s.GetQuizInfo()
	if err != nil {
		return model.ReportExport{}, fmt.Errorf("get quiz info: %w", err)
	}

	reports, err := s.ListReports()
	if err != nil {
		return model.ReportExport{}, fmt.Errorf("list reports: %w", err)
	}

	return model.ReportExport{
		Quiz:        info,
		GeneratedAt: time.Now(),
		Count:       len(reports),
		Reports:     reports,
	}, nil
}
