package service

import (
	"context"
	"errors"
	"testing"

	"efi_checklist/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	return &sesv2.SendEmailOutput{}, f.err
}

func TestSESNotifier_Notify(t *testing.T) {
	fake := &fakeSES{}
	n := &SESNotifier{client: fake, cfg: &config.SESConfig{From: "efi@example.com", To: "coord@example.com"}}

	require.NoError(t, n.Notify(context.Background(), "cat-1", CompletionTitle, CompletionBody(43)))

	require.NotNil(t, fake.input)
	assert.Equal(t, "efi@example.com", aws.ToString(fake.input.FromEmailAddress))
	assert.Equal(t, []string{"coord@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "¡Formación Completada! (cat-1)", aws.ToString(fake.input.Content.Simple.Subject.Data))
	assert.Equal(t,
		"Has completado el 100% de las tareas de la semana 43. ¡Excelente trabajo!",
		aws.ToString(fake.input.Content.Simple.Body.Text.Data),
	)

	fake.err = errors.New("throttled")
	assert.Error(t, n.Notify(context.Background(), "cat-1", CompletionTitle, CompletionBody(43)))
}

func TestNewNotifier_DefaultsToLog(t *testing.T) {
	for _, typ := range []string{"log", "", "carrier-pigeon"} {
		n := NewNotifier(&config.Config{Notifier: config.NotifierConfig{Type: typ}})
		_, ok := n.(*LogNotifier)
		assert.True(t, ok, typ)
		assert.NoError(t, n.Notify(context.Background(), "cat-1", "t", "b"))
	}
}
