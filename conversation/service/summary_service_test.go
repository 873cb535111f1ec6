package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"support-chat-dashboard/backend/conversation/models"
	apperrors "support-chat-dashboard/backend/pkg/errors"
	"support-chat-dashboard/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", JSON: true, Output: &bytes.Buffer{}})
}

var baseTime = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func testSession(id string) *models.Session {
	agentID := uint(7)
	return &models.Session{
		ID:             1,
		ExternalID:     id,
		CustomerID:     3,
		AgentID:        &agentID,
		IsActive:       true,
		StartedAt:      baseTime,
		LastActivityAt: baseTime.Add(45 * time.Minute),
		Customer:       models.Customer{ID: 3, Name: "Maria Lopez", Phone: "+551199998888"},
		Agent:          &models.Agent{ID: 7, Name: "Alex Chen", Department: "billing"},
	}
}

func msg(id uint, sessionID, senderType string, at time.Time, content string) models.Message {
	return models.Message{
		ID:          id,
		SessionID:   sessionID,
		SenderType:  senderType,
		SenderID:    senderType + "-1",
		Content:     content,
		MessageType: models.MessageTypeText,
		CreatedAt:   at,
	}
}

func TestGetSummaryResponseTimeScenario(t *testing.T) {
	sessions := newFakeSessionRepo()
	messages := newFakeMessageRepo()
	sessions.sessions["s1"] = testSession("s1")

	// customer@T0, agent@T0+30s, customer@T1, bot@T1+5s
	t0 := baseTime
	t1 := baseTime.Add(10 * time.Minute)
	messages.messages["s1"] = []models.Message{
		msg(1, "s1", models.SenderCustomer, t0, "hi"),
		msg(2, "s1", models.SenderAgent, t0.Add(30*time.Second), "hello"),
		msg(3, "s1", models.SenderCustomer, t1, "my invoice is wrong"),
		msg(4, "s1", models.SenderBot, t1.Add(5*time.Second), "let me check"),
	}

	svc := NewSummaryService(sessions, messages, testLogger())
	summary, err := svc.GetSummary(context.Background(), "s1")
	require.NoError(t, err)

	stats := summary.Statistics
	assert.Equal(t, int64(4), stats.TotalMessages)
	assert.Equal(t, int64(2), stats.CustomerMessages)
	assert.Equal(t, int64(1), stats.AgentMessages)
	assert.Equal(t, int64(1), stats.BotMessages)
	require.NotNil(t, stats.AvgResponseTimeSeconds)
	assert.InDelta(t, 17.5, *stats.AvgResponseTimeSeconds, 0.001)
}

func TestGetSummaryMessagePartitionSumsToTotal(t *testing.T) {
	sessions := newFakeSessionRepo()
	messages := newFakeMessageRepo()
	sessions.sessions["s1"] = testSession("s1")
	for i := 0; i < 9; i++ {
		sender := []string{models.SenderCustomer, models.SenderAgent, models.SenderBot}[i%3]
		messages.messages["s1"] = append(messages.messages["s1"],
			msg(uint(i+1), "s1", sender, baseTime.Add(time.Duration(i)*time.Minute), "m"))
	}

	svc := NewSummaryService(sessions, messages, testLogger())
	summary, err := svc.GetSummary(context.Background(), "s1")
	require.NoError(t, err)

	stats := summary.Statistics
	assert.Equal(t, stats.TotalMessages,
		stats.CustomerMessages+stats.AgentMessages+stats.BotMessages)
}

func TestGetSummaryNoResponsePairsReportsNil(t *testing.T) {
	sessions := newFakeSessionRepo()
	messages := newFakeMessageRepo()
	sessions.sessions["s1"] = testSession("s1")
	messages.messages["s1"] = []models.Message{
		msg(1, "s1", models.SenderCustomer, baseTime, "anyone there?"),
		msg(2, "s1", models.SenderCustomer, baseTime.Add(time.Minute), "hello??"),
	}

	svc := NewSummaryService(sessions, messages, testLogger())
	summary, err := svc.GetSummary(context.Background(), "s1")
	require.NoError(t, err)

	assert.Nil(t, summary.Statistics.AvgResponseTimeSeconds)
}

func TestGetSummaryDurationClampedToZero(t *testing.T) {
	sessions := newFakeSessionRepo()
	messages := newFakeMessageRepo()
	session := testSession("s1")
	// Clock skew can put last activity before the session start
	session.LastActivityAt = session.StartedAt.Add(-2 * time.Minute)
	sessions.sessions["s1"] = session

	svc := NewSummaryService(sessions, messages, testLogger())
	summary, err := svc.GetSummary(context.Background(), "s1")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, summary.Statistics.SessionDurationMinutes, 0.0)
	assert.Equal(t, 0.0, summary.Statistics.SessionDurationMinutes)
}

func TestGetSummaryUnknownSessionIsNotFound(t *testing.T) {
	svc := NewSummaryService(newFakeSessionRepo(), newFakeMessageRepo(), testLogger())

	_, err := svc.GetSummary(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeSessionNotFound))
	assert.False(t, apperrors.IsRetryable(err))
}

func TestGetSummaryStoreFailureIsRetryable(t *testing.T) {
	sessions := newFakeSessionRepo()
	sessions.failIDs["s1"] = errors.New("connection refused")

	svc := NewSummaryService(sessions, newFakeMessageRepo(), testLogger())
	_, err := svc.GetSummary(context.Background(), "s1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStoreUnavailable))
	assert.True(t, apperrors.IsRetryable(err))
}

func TestGetSummaryClassificationAndAnalysisPassThrough(t *testing.T) {
	sessions := newFakeSessionRepo()
	messages := newFakeMessageRepo()
	session := testSession("s1")
	session.Classification = &models.Classification{
		SessionID: "s1",
		Intent:    "billing_dispute",
		Category:  "billing",
		Priority:  models.PriorityHigh,
	}
	session.AIAnalysis = &models.AIAnalysis{
		SessionID:        "s1",
		OverallSentiment: models.SentimentNegative,
		Confidence:       0.92,
		EmotionDetected:  "frustration",
		Topics:           `["invoice","refund"]`,
	}
	sessions.sessions["s1"] = session

	svc := NewSummaryService(sessions, messages, testLogger())
	summary, err := svc.GetSummary(context.Background(), "s1")
	require.NoError(t, err)

	require.NotNil(t, summary.Classification)
	assert.Equal(t, models.PriorityHigh, summary.Classification.Priority)
	require.NotNil(t, summary.AIAnalysis)
	assert.Equal(t, models.SentimentNegative, summary.AIAnalysis.SentimentAnalysis.OverallSentiment)
	assert.InDelta(t, 0.92, summary.AIAnalysis.SentimentAnalysis.Confidence, 0.001)
	assert.Equal(t, []string{"invoice", "refund"}, summary.AIAnalysis.TopicsDiscussed)
}

func TestGetSummaryAbsentClassificationStaysAbsent(t *testing.T) {
	sessions := newFakeSessionRepo()
	sessions.sessions["s1"] = testSession("s1")

	svc := NewSummaryService(sessions, newFakeMessageRepo(), testLogger())
	summary, err := svc.GetSummary(context.Background(), "s1")
	require.NoError(t, err)

	assert.Nil(t, summary.Classification)
	assert.Nil(t, summary.AIAnalysis)
}

func TestGetSummaryIsDeterministic(t *testing.T) {
	sessions := newFakeSessionRepo()
	messages := newFakeMessageRepo()
	sessions.sessions["s1"] = testSession("s1")
	messages.messages["s1"] = []models.Message{
		msg(1, "s1", models.SenderCustomer, baseTime, "hi"),
		msg(2, "s1", models.SenderAgent, baseTime.Add(time.Minute), "hello"),
	}

	svc := NewSummaryService(sessions, messages, testLogger())
	first, err := svc.GetSummary(context.Background(), "s1")
	require.NoError(t, err)
	second, err := svc.GetSummary(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
