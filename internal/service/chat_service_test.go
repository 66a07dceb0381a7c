package service

import (
	"context"
	"testing"

	"health-connect-demo/backend/internal/ai"
	"health-connect-demo/backend/internal/models"
	"health-connect-demo/backend/internal/notify"
	apperrors "health-connect-demo/backend/pkg/errors"
	"health-connect-demo/backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReplyProvider struct {
	reply      string
	configured bool
	calls      int
}

func (p *fakeReplyProvider) AssistantReply(ctx context.Context, history []ai.ChatHistoryEntry, userMessage string) (string, error) {
	p.calls++
	return p.reply, nil
}

func (p *fakeReplyProvider) Configured() bool { return p.configured }

type fakeConsultationLookup struct {
	consultation *models.Consultation
	err          error
}

func (f *fakeConsultationLookup) Get(id uint) (*models.Consultation, error) {
	return f.consultation, f.err
}

func newReplyService(provider *fakeReplyProvider, lookup *fakeConsultationLookup, enabled bool) *ChatService {
	return NewChatService(nil, notify.NewMemoryStream(), provider, lookup, 0, enabled, logger.GetGlobal())
}

func TestAssistantReplySkipsNonChatConsultations(t *testing.T) {
	for _, consultationType := range []string{models.ConsultationTypeVideo, models.ConsultationTypePhone} {
		t.Run(consultationType, func(t *testing.T) {
			provider := &fakeReplyProvider{reply: "Rest and hydrate.", configured: true}
			lookup := &fakeConsultationLookup{
				consultation: &models.Consultation{ConsultationType: consultationType},
			}
			svc := newReplyService(provider, lookup, true)

			msg, err := svc.GenerateAssistantReply(context.Background(), 7, "I have a headache")

			require.NoError(t, err)
			assert.Nil(t, msg)
			assert.Equal(t, 0, provider.calls)
		})
	}
}

func TestAssistantReplyChatConsultationPassesTypeCheck(t *testing.T) {
	provider := &fakeReplyProvider{reply: "Rest and hydrate.", configured: true}
	lookup := &fakeConsultationLookup{
		consultation: &models.Consultation{ConsultationType: models.ConsultationTypeChat},
	}
	svc := newReplyService(provider, lookup, true)

	_, err := svc.GenerateAssistantReply(context.Background(), 7, "I have a headache")

	// Without a database the history fetch fails, so getting past the type
	// check surfaces as a configuration error rather than a silent nil.
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeConfiguration))
}

func TestAssistantReplyDisabledFeature(t *testing.T) {
	provider := &fakeReplyProvider{reply: "Rest and hydrate.", configured: true}
	lookup := &fakeConsultationLookup{
		consultation: &models.Consultation{ConsultationType: models.ConsultationTypeChat},
	}
	svc := newReplyService(provider, lookup, false)

	msg, err := svc.GenerateAssistantReply(context.Background(), 7, "hello")

	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.Equal(t, 0, provider.calls)
}

func TestAssistantReplyUnconfiguredProvider(t *testing.T) {
	provider := &fakeReplyProvider{configured: false}
	lookup := &fakeConsultationLookup{
		consultation: &models.Consultation{ConsultationType: models.ConsultationTypeChat},
	}
	svc := newReplyService(provider, lookup, true)

	msg, err := svc.GenerateAssistantReply(context.Background(), 7, "hello")

	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.Equal(t, 0, provider.calls)
}
