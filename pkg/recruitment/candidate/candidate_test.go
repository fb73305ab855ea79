package candidate_test

import (
	"testing"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/candidate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func registered() *candidate.Candidate {
	jobID := kernel.NewJobID("j1")
	return &candidate.Candidate{
		ID:      "c1",
		JobID:   &jobID,
		Name:    "Ana Souza",
		Email:   " Ana@Exemplo.com ",
		City:    "Belém",
		State:   "PA",
		Status:  candidate.StatusRegistered,
		Version: 1,
	}
}

func TestForwardMovesMaySkipStages(t *testing.T) {
	c := registered()
	changed, err := c.ChangeStatus(candidate.StatusHRInterview, t0)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, candidate.StatusHRInterview, c.Status)

	_, err = c.ChangeStatus(candidate.StatusResumeAnalysis, t0)
	assert.True(t, errx.IsCode(err, candidate.CodeInvalidTransition))
}

func TestApprovedOnlyThroughLegalDecision(t *testing.T) {
	c := registered()
	_, err := c.ChangeStatus(candidate.StatusApproved, t0)
	assert.True(t, errx.IsCode(err, candidate.CodeInvalidTransition))

	_, err = c.ChangeStatus(candidate.StatusLegalReview, t0)
	require.NoError(t, err)
	_, err = c.ChangeStatus(candidate.StatusApproved, t0)
	assert.True(t, errx.IsCode(err, candidate.CodeInvalidTransition))
}

func TestEnteringLegalReviewResetsPending(t *testing.T) {
	c := registered()
	comment := "old"
	approved := candidate.LegalApproved
	c.LegalStatus = &approved
	c.LegalComment = &comment

	_, err := c.ChangeStatus(candidate.StatusLegalReview, t0)
	require.NoError(t, err)
	require.NotNil(t, c.LegalStatus)
	assert.Equal(t, candidate.LegalPending, *c.LegalStatus)
	assert.Nil(t, c.LegalComment)
}

func TestRejectedAndInvitedFromAnyNonTerminal(t *testing.T) {
	c := registered()
	_, err := c.ChangeStatus(candidate.StatusManagerInterview, t0)
	require.NoError(t, err)

	changed, err := c.ChangeStatus(candidate.StatusInvited, t0)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = c.ChangeStatus(candidate.StatusRejected, t0)
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = c.ChangeStatus(candidate.StatusRegistered, t0)
	assert.True(t, errx.IsCode(err, candidate.CodeInvalidTransition))
}

func TestSameStatusIsNoop(t *testing.T) {
	c := registered()
	changed, err := c.ChangeStatus(candidate.StatusRegistered, t0)
	require.NoError(t, err)
	assert.False(t, changed)

	c.Status = candidate.StatusApproved
	changed, err = c.ChangeStatus(candidate.StatusApproved, t0)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestLegalDecisions(t *testing.T) {
	inReview := func() *candidate.Candidate {
		c := registered()
		_, err := c.ChangeStatus(candidate.StatusLegalReview, t0)
		require.NoError(t, err)
		return c
	}

	c := inReview()
	require.NoError(t, c.ApplyLegalDecision(candidate.LegalApproved, "", t0))
	assert.Equal(t, candidate.StatusApproved, c.Status)
	assert.False(t, c.Restricted)

	c = inReview()
	err := c.ApplyLegalDecision(candidate.LegalApprovedWithRestrictions, "  ", t0)
	assert.True(t, errx.IsCode(err, candidate.CodeCommentRequired))
	assert.Equal(t, candidate.StatusLegalReview, c.Status)

	require.NoError(t, c.ApplyLegalDecision(candidate.LegalApprovedWithRestrictions, "CNH vencida", t0))
	assert.Equal(t, candidate.StatusApproved, c.Status)
	assert.True(t, c.Restricted)
	assert.Equal(t, "CNH vencida", *c.LegalComment)

	c = inReview()
	assert.True(t, errx.IsCode(c.ApplyLegalDecision(candidate.LegalRejected, "", t0), candidate.CodeCommentRequired))
	require.NoError(t, c.ApplyLegalDecision(candidate.LegalRejected, "Pendência criminal", t0))
	assert.Equal(t, candidate.StatusRejected, c.Status)

	c = inReview()
	assert.True(t, errx.IsCode(c.ApplyLegalDecision(candidate.LegalPending, "", t0), candidate.CodeInvalidLegalDecision))
}

func TestLegalDecisionRequiresLegalReview(t *testing.T) {
	c := registered()
	err := c.ApplyLegalDecision(candidate.LegalApproved, "", t0)
	assert.True(t, errx.IsCode(err, candidate.CodeInvalidTransition))
}

func TestParseStatusSynonyms(t *testing.T) {
	cases := map[string]candidate.Status{
		"Análise de Currículo":  candidate.StatusResumeAnalysis,
		"Entrevista com Gestor": candidate.StatusManagerInterview,
		"ANALISE JURIDICA":      candidate.StatusLegalReview,
		"reprovado":             candidate.StatusRejected,
		"hr-interview":          candidate.StatusHRInterview,
	}
	for in, want := range cases {
		got, err := candidate.ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := candidate.ParseStatus("contratação")
	assert.True(t, errx.IsCode(err, candidate.CodeUnknownStatus))

	ls, err := candidate.ParseLegalStatus("Aprovado com ressalvas")
	require.NoError(t, err)
	assert.Equal(t, candidate.LegalApprovedWithRestrictions, ls)
}

func TestInviteToCopiesProfile(t *testing.T) {
	source := registered()
	source.JobID = nil
	source.HasCNH = true
	source.CNHCategory = "B"

	invited := source.InviteTo("j9", "c2", t0)
	assert.Equal(t, kernel.CandidateID("c2"), invited.ID)
	assert.Equal(t, kernel.JobID("j9"), *invited.JobID)
	assert.Equal(t, kernel.CandidateID("c1"), *invited.SourceCandidateID)
	assert.Equal(t, candidate.StatusInvited, invited.Status)
	assert.True(t, invited.HasCNH)
	assert.Equal(t, "B", invited.CNHCategory)
	assert.Nil(t, source.JobID)
	assert.Equal(t, "ana@exemplo.com", invited.NormalizedEmail())
}

func TestFilterMatches(t *testing.T) {
	c := registered()
	yes := true
	assert.True(t, candidate.Filter{City: "belem", Search: "souza"}.Matches(c))
	assert.False(t, candidate.Filter{HasCNH: &yes}.Matches(c))
	assert.False(t, candidate.Filter{WithoutJob: true}.Matches(c))
}
