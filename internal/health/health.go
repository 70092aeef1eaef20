package health

import (
	"context"

	"github.com/ralt/rpmaudit/internal/decoder"
	"github.com/ralt/rpmaudit/internal/models"
	"github.com/ralt/rpmaudit/internal/rpmdb"
	"github.com/sirupsen/logrus"
)

// Auditor scores one package database
type Auditor struct {
	source     rpmdb.HeaderSource
	index      rpmdb.IndexOracle
	thresholds models.Thresholds
}

// NewAuditor creates an auditor over the given header source and index
func NewAuditor(source rpmdb.HeaderSource, index rpmdb.IndexOracle, thresholds models.Thresholds) *Auditor {
	return &Auditor{
		source:     source,
		index:      index,
		thresholds: thresholds,
	}
}

// Run reads and decodes every header, queries the index and scores the result.
// A store that cannot be read at all is returned as an error and nothing is scored.
func (a *Auditor) Run(ctx context.Context) (*models.HealthReport, error) {
	headers, err := a.source.Headers(ctx)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Read %d headers", len(headers))

	decoded := decoder.DecodeAll(headers)
	if decoded.Err != nil {
		logrus.Debugf("Decode failures: %v", decoded.Err)
	}

	state := Inspect(ctx, a.index)
	if state.IntegrityErr != nil {
		logrus.Warnf("Index unavailable: %v", state.IntegrityErr)
	}

	report := Evaluate(Input{
		Packages:       decoded.Packages,
		DecodeFailures: decoded.Failures,
		Index:          state,
		Thresholds:     a.thresholds,
	})

	logrus.Infof("Health score %d (%s), %d issues", report.Score, report.Status, len(report.Issues))
	return &report, nil
}
