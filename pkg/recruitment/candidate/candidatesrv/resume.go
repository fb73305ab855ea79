package candidatesrv

import (
	"context"
	"path"
	"strings"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/logx"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/candidate"
)

const maxResumeSize = 10 << 20

var resumeExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// UploadResume stores a résumé under resumes/ with a generated name. The
// returned key is what DeleteCandidate removes later.
func (s *CandidateService) UploadResume(ctx context.Context, filename string, data []byte) (*candidate.ResumeUpload, error) {
	if s.files == nil {
		return nil, candidate.ErrStorageUnavailable()
	}

	ext := strings.ToLower(path.Ext(filename))
	if !resumeExtensions[ext] {
		return nil, candidate.ErrInvalidResume().WithDetail("filename", filename)
	}
	if len(data) == 0 || len(data) > maxResumeSize {
		return nil, candidate.ErrInvalidResume().WithDetail("size", len(data))
	}

	key := path.Join("resumes", kernel.GenerateID()+ext)
	if err := s.files.WriteFile(ctx, key, data); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{"file": key, "size": len(data)}).Debug("résumé stored")
	return &candidate.ResumeUpload{
		ResumeURL:      key,
		ResumeFilename: key,
		Size:           len(data),
	}, nil
}
