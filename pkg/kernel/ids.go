package kernel

import "github.com/google/uuid"

// ============================================================================
// Typed identifiers
// ============================================================================

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (id UserID) String() string  { return string(id) }
func (id UserID) IsEmpty() bool   { return id == "" }

type JobID string

func NewJobID(id string) JobID  { return JobID(id) }
func (id JobID) String() string { return string(id) }
func (id JobID) IsEmpty() bool  { return id == "" }

type CandidateID string

func NewCandidateID(id string) CandidateID { return CandidateID(id) }
func (id CandidateID) String() string      { return string(id) }
func (id CandidateID) IsEmpty() bool       { return id == "" }

// GenerateID returns a fresh random identifier
func GenerateID() string {
	return uuid.NewString()
}
