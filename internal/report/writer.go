package report

import (
	"encoding/json"
	"fmt"

	"github.com/ralt/rpmaudit/internal/models"
	"github.com/ralt/rpmaudit/internal/signer"
	"github.com/ralt/rpmaudit/internal/utils"
	"github.com/sirupsen/logrus"
)

// Writer persists report artifacts
type Writer struct {
	compression utils.Compression
	signer      signer.Signer
}

// NewWriter creates a writer. A nil signer leaves artifacts unsigned.
func NewWriter(compression utils.Compression, s signer.Signer) *Writer {
	return &Writer{
		compression: compression,
		signer:      s,
	}
}

// Write encodes v as indented JSON and writes it to path plus the compression
// suffix, with a detached signature alongside when a signer is configured.
// It returns the path of the artifact.
func (w *Writer) Write(path string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", &models.AuditError{
			Type: models.ErrReportWrite,
			Path: path,
			Err:  fmt.Errorf("failed to encode report: %w", err),
		}
	}
	data = append(data, '\n')

	data, err = utils.Compress(data, w.compression)
	if err != nil {
		return "", &models.AuditError{
			Type: models.ErrReportWrite,
			Path: path,
			Err:  fmt.Errorf("failed to compress report: %w", err),
		}
	}

	path += w.compression.Extension()

	// Sign before writing anything so a signing failure leaves no artifact
	var signature []byte
	if w.signer != nil {
		signature, err = w.signer.SignDetached(data)
		if err != nil {
			return "", &models.AuditError{
				Type: models.ErrSigning,
				Path: path,
				Err:  err,
			}
		}
	}

	if err := utils.WriteFileAtomic(path, data, 0644); err != nil {
		return "", &models.AuditError{
			Type: models.ErrReportWrite,
			Path: path,
			Err:  err,
		}
	}
	logrus.Infof("Report written to %s (sha256 %s)", path, utils.CalculateChecksum(data))

	if signature != nil {
		sigPath := path + ".asc"
		if err := utils.WriteFileAtomic(sigPath, signature, 0644); err != nil {
			return "", &models.AuditError{
				Type: models.ErrReportWrite,
				Path: sigPath,
				Err:  err,
			}
		}
		logrus.Infof("Signature written to %s", sigPath)
	}

	return path, nil
}
